package fsynth

import "github.com/fsynth-go/fsynth/pkg/fsynth/processor"

// Results and ErrorRecord are re-exported so callers of this package
// never need to import pkg/fsynth/processor directly.
type (
	Results     = processor.Results
	ErrorRecord = processor.ErrorRecord
)
