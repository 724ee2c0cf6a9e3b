package operation

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsynth-go/fsynth/pkg/fsynth/checksum"
	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// Move relocates source to target. If target names an existing
// directory, the move lands at target/<basename of source>. A plain
// file or directory is moved with Rename; a symlink is moved by
// reading its link text, creating an equivalent link at the
// destination, and removing the original (Rename does not reliably
// preserve "this is a link, not its target" across all filesystems).
type Move struct {
	base

	resolvedTarget string
	wasSymlink     bool
	symlinkText    string
	sourceChecksum *checksum.Digest // only meaningful for regular files
	moved          bool
}

// NewMove returns a Move operation from source to target.
func NewMove(source, target string) *Move {
	return &Move{base: base{kind: core.KindMove, source: source, target: target}}
}

func (op *Move) Paths() (string, string) { return op.source, op.target }

// Validate confirms source exists, resolves a directory target, and
// rejects a target that already exists.
func (op *Move) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.source == "" || op.target == "" {
		return core.ValidationError(op.kind, op.target, "source and target paths are required")
	}

	info, err := fsys.Lstat(op.source)
	if err != nil {
		return core.ValidationErrorf(op.kind, op.source, "source does not exist", err)
	}

	op.resolvedTarget = op.target
	if tInfo, err := fsys.Stat(op.target); err == nil && tInfo.IsDir() {
		op.resolvedTarget = filepath.Join(op.target, filepath.Base(op.source))
	}

	if exists, _ := fsys.Exists(op.resolvedTarget); exists {
		return core.ValidationError(op.kind, op.resolvedTarget, "target already exists")
	}

	op.wasSymlink = info.Mode()&fs.ModeSymlink != 0
	if !op.wasSymlink {
		digest, err := checksum.Compute(fsys, op.source)
		if err != nil {
			return core.ValidationErrorf(op.kind, op.source, "failed to checksum source", err)
		}
		op.sourceChecksum = digest
	}

	op.validated = true
	return nil
}

// Execute moves source to the resolved target. For a symlink it
// recreates the link at the destination and removes the original;
// otherwise it renames directly and, for a regular file, verifies the
// destination's checksum still matches the source's pre-move checksum,
// reverting the rename if it does not.
func (op *Move) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	resolvedTarget := op.resolvedTarget
	if resolvedTarget == "" {
		resolvedTarget = op.target
		if tInfo, err := fsys.Stat(op.target); err == nil && tInfo.IsDir() {
			resolvedTarget = filepath.Join(op.target, filepath.Base(op.source))
		}
		op.resolvedTarget = resolvedTarget
	}

	info, err := fsys.Lstat(op.source)
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "source no longer exists", err)
	}
	isSymlink := info.Mode()&fs.ModeSymlink != 0

	if isSymlink {
		linkText, err := fsys.Readlink(op.source)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.source, "failed to read symlink target", err)
		}
		if err := fsys.Symlink(linkText, resolvedTarget); err != nil {
			return core.ExecutionErrorf(op.kind, resolvedTarget, "failed to recreate symlink at target", err)
		}
		if err := fsys.Remove(op.source); err != nil {
			_ = fsys.Remove(resolvedTarget)
			return core.ExecutionErrorf(op.kind, op.source, "failed to remove original symlink", err)
		}
		op.symlinkText = linkText
		op.wasSymlink = true
		op.moved = true
		return nil
	}

	if err := fsys.Rename(op.source, resolvedTarget); err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "failed to move to target", err)
	}
	op.moved = true

	if op.sourceChecksum != nil {
		current, err := checksum.Compute(fsys, resolvedTarget)
		if err != nil {
			return core.ExecutionErrorf(op.kind, resolvedTarget, "failed to verify moved content", err)
		}
		if !current.Equal(op.sourceChecksum) {
			if revertErr := fsys.Rename(resolvedTarget, op.source); revertErr != nil {
				return core.ExecutionErrorf(op.kind, resolvedTarget, "content mismatch after move, and revert failed", revertErr)
			}
			op.moved = false
			return core.ExecutionError(op.kind, resolvedTarget, "content mismatch after move, reverted")
		}
	}

	return nil
}

// Undo moves the target back to source: a rename for a plain move, or
// a recreate-then-remove for a symlink. A no-op success if Execute
// never actually moved anything.
func (op *Move) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	if !op.moved {
		return nil
	}

	exists, _ := fsys.Exists(op.resolvedTarget)
	if !exists {
		return nil
	}

	if op.wasSymlink {
		if err := fsys.Symlink(op.symlinkText, op.source); err != nil {
			return core.UndoErrorf(op.kind, op.source, "failed to restore symlink", err)
		}
		if err := fsys.Remove(op.resolvedTarget); err != nil {
			return core.UndoErrorf(op.kind, op.resolvedTarget, "failed to remove moved symlink copy", err)
		}
		return nil
	}

	if err := fsys.Rename(op.resolvedTarget, op.source); err != nil {
		return core.UndoErrorf(op.kind, op.resolvedTarget, "failed to move back to source", err)
	}
	return nil
}
