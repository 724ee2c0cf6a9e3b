package operation

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsynth-go/fsynth/pkg/fsynth/checksum"
	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// CopyFileOptions configures a CopyFile operation.
type CopyFileOptions struct {
	Overwrite          bool
	PreserveAttributes bool
}

// CopyFile copies source to target. If target names an existing
// directory, the copy lands at target/<basename of source>. Undo
// never restores a target this operation overwrote — it only removes
// what the copy itself wrote, leaving the location empty.
type CopyFile struct {
	base
	opts CopyFileOptions

	resolvedTarget        string
	initialSourceChecksum *checksum.Digest
	targetChecksum        *checksum.Digest
}

// NewCopyFile returns a CopyFile operation from source to target.
func NewCopyFile(source, target string, opts CopyFileOptions) *CopyFile {
	return &CopyFile{
		base: base{kind: core.KindCopyFile, source: source, target: target},
		opts: opts,
	}
}

func (op *CopyFile) Paths() (string, string) { return op.source, op.target }

// Validate resolves a directory target to target/<basename>, confirms
// the source exists and is readable, and rejects an existing
// destination unless overwrite is set. It also snapshots the source's
// checksum so Execute can detect drift between validate and execute.
func (op *CopyFile) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.source == "" || op.target == "" {
		return core.ValidationError(op.kind, op.target, "source and target paths are required")
	}

	srcInfo, err := fsys.Stat(op.source)
	if err != nil {
		return core.ValidationErrorf(op.kind, op.source, "source does not exist", err)
	}
	if srcInfo.IsDir() {
		return core.ValidationError(op.kind, op.source, "directory copy is not supported")
	}

	op.resolvedTarget = op.target
	if tInfo, err := fsys.Stat(op.target); err == nil && tInfo.IsDir() {
		op.resolvedTarget = filepath.Join(op.target, filepath.Base(op.source))
	}

	if exists, _ := fsys.Exists(op.resolvedTarget); exists && !op.opts.Overwrite {
		return core.ValidationError(op.kind, op.resolvedTarget, "target already exists and overwrite is not set")
	}

	digest, err := checksum.Compute(fsys, op.source)
	if err != nil {
		return core.ValidationErrorf(op.kind, op.source, "failed to checksum source", err)
	}
	op.initialSourceChecksum = digest
	op.validated = true
	return nil
}

// Execute re-verifies the source hasn't drifted since Validate (when
// this operation was validated ahead of execution), copies content
// and, optionally, the source's mode bits, then checksums the written
// target so later undo/verification can detect drift.
func (op *CopyFile) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	resolvedTarget := op.resolvedTarget
	if resolvedTarget == "" {
		resolvedTarget = op.target
		if tInfo, err := fsys.Stat(op.target); err == nil && tInfo.IsDir() {
			resolvedTarget = filepath.Join(op.target, filepath.Base(op.source))
		}
		op.resolvedTarget = resolvedTarget
	}

	srcInfo, err := fsys.Stat(op.source)
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "source no longer exists", err)
	}

	if op.validated && op.initialSourceChecksum != nil {
		current, err := checksum.Compute(fsys, op.source)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.source, "failed to verify source before copy", err)
		}
		if !current.Equal(op.initialSourceChecksum) {
			return core.ExecutionError(op.kind, op.source, "source content changed since validation")
		}
	}

	if exists, _ := fsys.Exists(resolvedTarget); exists && !op.opts.Overwrite {
		return core.ExecutionError(op.kind, resolvedTarget, "target already exists and overwrite is not set")
	}

	data, err := fsys.ReadFile(op.source)
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "failed to read source", err)
	}

	mode := fs.FileMode(0o644)
	if op.opts.PreserveAttributes {
		mode = srcInfo.Mode().Perm()
	}
	if err := fsys.WriteFile(resolvedTarget, data, mode); err != nil {
		return core.ExecutionErrorf(op.kind, resolvedTarget, "failed to write target", err)
	}

	digest, err := checksum.Compute(fsys, resolvedTarget)
	if err != nil {
		_ = fsys.Remove(resolvedTarget)
		return core.ExecutionErrorf(op.kind, resolvedTarget, "failed to checksum written target", err)
	}
	op.targetChecksum = digest

	return nil
}

// Undo removes the copied target, as long as it still matches the
// checksum Execute recorded right after writing it — if it has
// drifted since, Undo refuses rather than silently destroying
// someone else's changes. Undo never restores content this copy
// overwrote; the spec only promises the copy itself is reversible.
func (op *CopyFile) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	resolvedTarget := op.resolvedTarget
	if resolvedTarget == "" {
		return nil
	}

	exists, _ := fsys.Exists(resolvedTarget)
	if !exists {
		return nil
	}

	current, err := checksum.Compute(fsys, resolvedTarget)
	if err != nil {
		return core.UndoErrorf(op.kind, resolvedTarget, "failed to verify copied file before undo", err)
	}
	if !current.Equal(op.targetChecksum) {
		return core.UndoError(op.kind, resolvedTarget, "copied file changed since operation")
	}

	if err := fsys.Remove(resolvedTarget); err != nil {
		return core.UndoErrorf(op.kind, resolvedTarget, "failed to remove copied file", err)
	}
	return nil
}
