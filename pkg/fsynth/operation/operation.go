// Package operation implements the filesystem operation model: a
// tagged family of mutations sharing a common validate/execute/undo
// contract, each carrying the state snapshots it needs to reverse
// itself.
package operation

import (
	"context"
	"os"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// Operation is the three-phase contract every variant implements.
// Validate never mutates the filesystem; Execute performs the
// mutation and records what it did; Undo reverses it using state
// captured during Validate/Execute, and is a no-op success when the
// operation never actually touched the filesystem.
type Operation interface {
	// Kind returns the variant's stable type tag.
	Kind() core.OperationKind

	// Paths returns the operation's primary source and target paths,
	// for the processor's error records and logging. Either may be
	// empty for a variant that doesn't use it.
	Paths() (source, target string)

	Validate(ctx context.Context, fsys filesystem.FileSystem) error
	Execute(ctx context.Context, fsys filesystem.FileSystem) error
	Undo(ctx context.Context, fsys filesystem.FileSystem) error
}

// base carries the fields common to every variant (source, target,
// type tag) and the validated flag that lets Execute trust state
// Validate already captured instead of re-deriving it when the
// operation has already been validated in the same batch.
type base struct {
	kind      core.OperationKind
	source    string
	target    string
	validated bool
}

func (b *base) Kind() core.OperationKind { return b.kind }

func (b *base) Paths() (string, string) { return b.source, b.target }

// logAdvisory reports a non-fatal condition that a caller may want to
// know about but that does not fail the operation outright (e.g. a
// best-effort mode change after a successful write). The operation
// model has no logger of its own; the processor installs one with
// SetAdvisoryHook for the duration of a run.
var advisoryHook func(kind core.OperationKind, path, msg string, cause error)

// SetAdvisoryHook installs the function invoked by logAdvisory,
// letting the processor route advisory warnings into its own log
// instead of stderr. Passing nil restores the stderr fallback.
func SetAdvisoryHook(fn func(kind core.OperationKind, path, msg string, cause error)) {
	advisoryHook = fn
}

func logAdvisory(kind core.OperationKind, path, msg string, cause error) {
	if advisoryHook != nil {
		advisoryHook(kind, path, msg, cause)
		return
	}
	warn := core.AdvisoryWarning(kind, path, msg, cause)
	os.Stderr.WriteString(warn.Error() + "\n")
}
