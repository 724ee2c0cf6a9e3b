// Package processor drives a queue of operations through
// validate/execute/undo according to one of four execution models.
package processor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
	"github.com/fsynth-go/fsynth/pkg/fsynth/queue"
)

// Options configures a Processor run.
type Options struct {
	Model ExecutionModel

	// DryRun runs every operation's Validate phase but skips Execute
	// entirely. Results.DryRun is set and ExecutedCount stays zero:
	// operations that passed validation are not counted.
	DryRun bool

	// LogWriter receives one structured line per operation phase, in
	// addition to the lines always collected into Results.Log. A nil
	// value defaults to os.Stderr.
	LogWriter io.Writer

	// LogLevel filters LogWriter and Results.Log
	// ("trace"/"debug"/"info"/"warn"/"error"), parsed by
	// core.LogLevelFromString. Empty defaults to "warn".
	LogLevel string

	// Parallel is reserved for a future concurrent execution model and
	// must stay false; Run rejects a true value outright.
	Parallel bool
}

// ExecutionModel is re-exported from core for callers that only import
// this package.
type ExecutionModel = core.ExecutionModel

const (
	ModelStandard      = core.ModelStandard
	ModelValidateFirst = core.ModelValidateFirst
	ModelBestEffort    = core.ModelBestEffort
	ModelTransactional = core.ModelTransactional
)

// Processor drains a queue of operations against a filesystem,
// applying the execution model named in Options.
type Processor struct {
	opts Options
}

// New returns a Processor configured by opts. A zero-value Model
// defaults to ModelStandard.
func New(opts Options) *Processor {
	if opts.Model == "" {
		opts.Model = ModelStandard
	}
	return &Processor{opts: opts}
}

// Run drains q against fsys according to the configured execution
// model and returns a summary of what happened. On success, q is
// empty when Run returns.
func (p *Processor) Run(ctx context.Context, q *queue.Queue, fsys filesystem.FileSystem) (*Results, error) {
	if p.opts.Parallel {
		return nil, fmt.Errorf("processor: parallel execution is reserved and not yet supported")
	}

	level, err := core.LogLevelFromString(p.opts.LogLevel)
	if p.opts.LogLevel == "" {
		level = zerolog.WarnLevel
	} else if err != nil {
		return nil, fmt.Errorf("processor: %w", err)
	}

	w := p.opts.LogWriter
	if w == nil {
		w = os.Stderr
	}
	var logBuf bytes.Buffer
	logger := core.NewLogger(io.MultiWriter(w, &logBuf), level)

	results := &Results{Success: true, DryRun: p.opts.DryRun}
	ops := q.All()
	q.Clear()

	operation.SetAdvisoryHook(func(kind core.OperationKind, path, msg string, cause error) {
		logger.Warn().Str("kind", string(kind)).Str("path", path).Err(cause).Msg(msg)
		results.recordWarning(ErrorRecord{Kind: kind, Phase: core.PhaseExecution, Path: path, Severity: core.SeverityWarning, Err: cause})
	})
	defer operation.SetAdvisoryHook(nil)

	switch p.opts.Model {
	case ModelValidateFirst:
		p.runValidateFirst(ctx, ops, fsys, logger, results)
	case ModelTransactional:
		p.runTransactional(ctx, ops, fsys, logger, results)
	case ModelBestEffort:
		p.runBestEffort(ctx, ops, fsys, logger, results)
	default:
		p.runStandard(ctx, ops, fsys, logger, results)
	}

	results.Success = !results.HasErrors()

	scanner := bufio.NewScanner(&logBuf)
	for scanner.Scan() {
		results.log(scanner.Text())
	}

	return results, nil
}

// runStandard validates and executes each operation in order, halting
// at the first failure. Operations already executed are left as-is —
// standard mode performs no rollback.
func (p *Processor) runStandard(ctx context.Context, ops []operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results) {
	for i, op := range ops {
		if !p.validateOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i - 1
			return
		}
		if p.opts.DryRun {
			continue
		}
		if !p.executeOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i - 1
			return
		}
	}
}

// runValidateFirst validates every operation before executing any, so
// an operation whose precondition depends on an earlier operation's
// effect (e.g. a parent directory another operation in the same batch
// is about to create) is expected to fail validation up front rather
// than at execution time. No rollback: nothing is undone, since a
// validation-phase failure here means execution never starts.
func (p *Processor) runValidateFirst(ctx context.Context, ops []operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results) {
	for i, op := range ops {
		if !p.validateOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i
			return
		}
	}

	if p.opts.DryRun {
		return
	}

	for i, op := range ops {
		if !p.executeOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i - 1
			return
		}
	}
}

// executedOp pairs an operation with its 1-based queue position, so a
// rollback can attribute failures back to the position that produced
// them.
type executedOp struct {
	op    operation.Operation
	index int
}

// runTransactional validates and executes each operation in turn, the
// same interleaved loop as the standard model, but on the first
// failure — validation or execution — it undoes every operation
// already executed in this run, in reverse order, before stopping.
func (p *Processor) runTransactional(ctx context.Context, ops []operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results) {
	var executed []executedOp
	for i, op := range ops {
		if !p.validateOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i - 1
			p.rollback(ctx, executed, fsys, logger, results)
			return
		}
		if p.opts.DryRun {
			continue
		}
		if !p.executeOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount += len(ops) - i - 1
			p.rollback(ctx, executed, fsys, logger, results)
			return
		}
		executed = append(executed, executedOp{op: op, index: i + 1})
	}
}

// runBestEffort validates and executes every operation independently:
// a failure at either phase is recorded and the next operation still
// runs.
func (p *Processor) runBestEffort(ctx context.Context, ops []operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results) {
	for i, op := range ops {
		if !p.validateOp(ctx, op, fsys, logger, results, i+1) {
			results.SkippedCount++
			continue
		}
		if p.opts.DryRun {
			continue
		}
		p.executeOp(ctx, op, fsys, logger, results, i+1)
	}
}

// rollback undoes executed operations in reverse order, the order in
// which a transactional run must unwind to avoid undoing an operation
// whose target a later operation still depends on.
func (p *Processor) rollback(ctx context.Context, executed []executedOp, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results) {
	for i := len(executed) - 1; i >= 0; i-- {
		op := executed[i].op
		idx := executed[i].index
		src, dst := op.Paths()
		if err := op.Undo(ctx, fsys); err != nil {
			logger.Error().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Err(err).Msg("rollback failed")
			results.recordError(ErrorRecord{Kind: op.Kind(), Phase: core.PhaseRollback, Path: dst, Severity: core.SeverityError, Err: err, OperationIndex: idx})
			continue
		}
		logger.Info().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Msg("rolled back")
		results.RolledBackCount++
	}
}

func (p *Processor) validateOp(ctx context.Context, op operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results, index int) bool {
	src, dst := op.Paths()
	if err := op.Validate(ctx, fsys); err != nil {
		logger.Warn().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Err(err).Msg("validation failed")
		results.recordError(ErrorRecord{Kind: op.Kind(), Phase: core.PhaseValidation, Path: dst, Severity: core.SeverityError, Err: err, OperationIndex: index})
		return false
	}
	logger.Debug().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Msg("validated")
	return true
}

func (p *Processor) executeOp(ctx context.Context, op operation.Operation, fsys filesystem.FileSystem, logger zerolog.Logger, results *Results, index int) bool {
	src, dst := op.Paths()
	if err := op.Execute(ctx, fsys); err != nil {
		logger.Error().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Err(err).Msg("execution failed")
		results.recordError(ErrorRecord{Kind: op.Kind(), Phase: core.PhaseExecution, Path: dst, Severity: core.SeverityError, Err: err, OperationIndex: index})
		return false
	}
	logger.Info().Str("kind", string(op.Kind())).Str("src", src).Str("dst", dst).Msg("executed")
	results.ExecutedCount++
	return true
}
