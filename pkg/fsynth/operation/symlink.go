package operation

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// SymlinkOptions configures a Symlink operation.
type SymlinkOptions struct {
	Overwrite        bool
	CreateParentDirs bool
}

// Symlink creates a symbolic link at target pointing to linkText (link
// text is stored verbatim, no resolution or cleaning). linkText is
// allowed to name a path that doesn't exist — dangling links are
// valid, and the target may be created by a later operation in the
// same queue.
type Symlink struct {
	base
	linkText string
	opts     SymlinkOptions

	// snapshot of what target was when Validate ran, so Undo can put it
	// back exactly.
	hadPrior      bool
	priorWasLink  bool
	priorLinkText string
	priorData     []byte
	createdTarget bool
}

// NewSymlink returns a Symlink operation creating target -> linkText.
func NewSymlink(target, linkText string, opts SymlinkOptions) *Symlink {
	return &Symlink{
		base:     base{kind: core.KindSymlink, target: target},
		linkText: linkText,
		opts:     opts,
	}
}

func (op *Symlink) Paths() (string, string) { return "", op.target }

// Validate requires a non-empty link target path and non-empty link
// text, and — unless create_parent_dirs is set — an existing parent
// directory. It deliberately does not require linkText to resolve to
// anything; dangling and forward-referencing symlinks are both valid.
// If target already exists, Validate snapshots its link text (or file
// content) here so Undo can restore it later without depending on
// state that Execute might have already overwritten.
func (op *Symlink) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.target == "" {
		return core.ValidationError(op.kind, op.target, "link path cannot be empty")
	}
	if op.linkText == "" {
		return core.ValidationError(op.kind, op.target, "symlink target cannot be empty")
	}

	if !op.opts.CreateParentDirs {
		parent := filepath.Dir(op.target)
		if info, err := fsys.Stat(parent); err != nil || !info.IsDir() {
			return core.ValidationError(op.kind, op.target, "parent directory does not exist")
		}
	}

	if info, err := fsys.Lstat(op.target); err == nil {
		if !op.opts.Overwrite {
			return core.ValidationError(op.kind, op.target, "target already exists and overwrite is not set")
		}
		if err := op.snapshotPrior(fsys, info, core.ValidationError, core.ValidationErrorf); err != nil {
			return err
		}
	} else {
		op.createdTarget = true
	}

	op.validated = true
	return nil
}

// snapshotPrior records whatever currently occupies target so Undo can
// restore it exactly, rejecting a directory target outright. errFn and
// errfFn build phase-appropriate errors — Validate and Execute each
// pass their own, so a failure here is reported as belonging to
// whichever phase actually ran it.
func (op *Symlink) snapshotPrior(fsys filesystem.FileSystem, info fs.FileInfo, errFn func(core.OperationKind, string, string) error, errfFn func(core.OperationKind, string, string, error) error) error {
	op.hadPrior = true
	if info.Mode()&fs.ModeSymlink != 0 {
		text, err := fsys.Readlink(op.target)
		if err != nil {
			return errfFn(op.kind, op.target, "failed to snapshot existing symlink", err)
		}
		op.priorWasLink = true
		op.priorLinkText = text
		return nil
	}
	if info.IsDir() {
		return errFn(op.kind, op.target, "target is a directory and cannot be overwritten by a symlink")
	}
	data, err := fsys.ReadFile(op.target)
	if err != nil {
		return errfFn(op.kind, op.target, "failed to snapshot existing file", err)
	}
	op.priorData = data
	return nil
}

// Execute creates parent directories if requested, removes whatever
// occupies target (using the snapshot Validate already captured,
// re-snapshotting defensively if Execute runs without having gone
// through Validate first), and creates the new symlink.
func (op *Symlink) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.opts.CreateParentDirs {
		parent := filepath.Dir(op.target)
		if err := fsys.MkdirAll(parent, 0o755); err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to create parent directories", err)
		}
	}

	if info, err := fsys.Lstat(op.target); err == nil {
		if !op.opts.Overwrite {
			return core.ExecutionError(op.kind, op.target, "target already exists and overwrite is not set")
		}
		if !op.hadPrior {
			if serr := op.snapshotPrior(fsys, info, core.ExecutionError, core.ExecutionErrorf); serr != nil {
				return serr
			}
		}
		if err := fsys.Remove(op.target); err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to remove prior target", err)
		}
	} else {
		op.createdTarget = true
	}

	if err := fsys.Symlink(op.linkText, op.target); err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to create symlink", err)
	}
	return nil
}

// Undo removes the created link and, if it overwrote something,
// restores exactly what was there before.
func (op *Symlink) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	exists, _ := fsys.Exists(op.target)
	if !exists {
		if op.hadPrior {
			return op.restorePrior(fsys)
		}
		return nil
	}

	if err := fsys.Remove(op.target); err != nil {
		return core.UndoErrorf(op.kind, op.target, "failed to remove created symlink", err)
	}

	if op.hadPrior {
		return op.restorePrior(fsys)
	}
	return nil
}

func (op *Symlink) restorePrior(fsys filesystem.FileSystem) error {
	if op.priorWasLink {
		if err := fsys.Symlink(op.priorLinkText, op.target); err != nil {
			return core.UndoErrorf(op.kind, op.target, "failed to restore prior symlink", err)
		}
		return nil
	}
	if err := fsys.WriteFile(op.target, op.priorData, 0o644); err != nil {
		return core.UndoErrorf(op.kind, op.target, "failed to restore prior file content", err)
	}
	return nil
}
