package processor

import (
	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
)

// ErrorRecord is one failure (or advisory warning) a Processor run
// produced, tied back to the operation and phase that produced it.
type ErrorRecord struct {
	Kind           core.OperationKind
	Phase          core.Phase
	Path           string
	Severity       core.Severity
	Err            error
	OperationIndex int // 1-based position in the queue; 0 if unattributable
}

// Results summarizes a single Processor.Run call.
type Results struct {
	Success         bool
	ExecutedCount   int
	SkippedCount    int
	RolledBackCount int
	DryRun          bool
	Errors          []ErrorRecord
	Warnings        []ErrorRecord
	Log             []string
}

// HasErrors reports whether the run produced any hard failures.
func (r *Results) HasErrors() bool {
	return len(r.Errors) > 0
}

// FirstError returns the first recorded error, or nil if there is
// none — convenient for callers that just want a single error value.
func (r *Results) FirstError() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0].Err
}

func (r *Results) recordError(rec ErrorRecord) {
	r.Errors = append(r.Errors, rec)
}

func (r *Results) recordWarning(rec ErrorRecord) {
	r.Warnings = append(r.Warnings, rec)
}

func (r *Results) log(line string) {
	r.Log = append(r.Log, line)
}
