package fsynth

import (
	"fmt"
	"io"

	"github.com/fsynth-go/fsynth/pkg/fsynth/processor"
)

// ProcessorOptions configures a Run call. Build one with Option values
// rather than setting fields directly, mirroring the teacher's
// PipelineOptions/DefaultPipelineOptions pattern.
type ProcessorOptions struct {
	model     processor.ExecutionModel
	dryRun    bool
	logWriter io.Writer
	logLevel  string
}

// DefaultProcessorOptions returns the options Run uses when no Option
// is supplied: standard execution model, no dry run, warn-level
// logging to stderr.
func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{model: processor.ModelStandard}
}

// Option mutates a ProcessorOptions value.
type Option func(*ProcessorOptions)

// WithModel selects one of the four execution models. The zero value
// (unset) behaves like WithModel(ModelStandard).
func WithModel(model processor.ExecutionModel) Option {
	return func(o *ProcessorOptions) { o.model = model }
}

// WithDryRun validates every operation without executing any of them.
func WithDryRun(dryRun bool) Option {
	return func(o *ProcessorOptions) { o.dryRun = dryRun }
}

// WithLogWriter sends structured log lines to w in addition to the
// lines always collected into Results.Log.
func WithLogWriter(w io.Writer) Option {
	return func(o *ProcessorOptions) { o.logWriter = w }
}

// WithLogLevel sets the minimum level logged
// ("trace"/"debug"/"info"/"warn"/"error").
func WithLogLevel(level string) Option {
	return func(o *ProcessorOptions) { o.logLevel = level }
}

func (o ProcessorOptions) toProcessorOptions() processor.Options {
	return processor.Options{
		Model:     o.model,
		DryRun:    o.dryRun,
		LogWriter: o.logWriter,
		LogLevel:  o.logLevel,
	}
}

// Re-exported execution model constants so callers need not import
// pkg/fsynth/processor directly.
const (
	ModelStandard      = processor.ModelStandard
	ModelValidateFirst = processor.ModelValidateFirst
	ModelBestEffort    = processor.ModelBestEffort
	ModelTransactional = processor.ModelTransactional
)

// ModelFromString parses a plan file's or CLI flag's model name into
// an ExecutionModel.
func ModelFromString(name string) (processor.ExecutionModel, error) {
	switch processor.ExecutionModel(name) {
	case ModelStandard, ModelValidateFirst, ModelBestEffort, ModelTransactional:
		return processor.ExecutionModel(name), nil
	default:
		return "", fmt.Errorf("fsynth: unknown execution model %q", name)
	}
}
