package operation

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsynth-go/fsynth/pkg/fsynth/checksum"
	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/permission"
)

// CreateFileOptions configures a CreateFile operation.
type CreateFileOptions struct {
	Content          []byte
	CreateParentDirs bool
	Mode             *fs.FileMode // nil means "don't set an explicit mode"
}

// CreateFile creates a file at target exclusively: it fails if target
// already exists as anything.
type CreateFile struct {
	base
	opts CreateFileOptions

	targetChecksum *checksum.Digest
}

// NewCreateFile returns a CreateFile operation creating target with
// the given options.
func NewCreateFile(target string, opts CreateFileOptions) *CreateFile {
	return &CreateFile{
		base: base{kind: core.KindCreateFile, target: target},
		opts: opts,
	}
}

func (op *CreateFile) Paths() (string, string) { return "", op.target }

// Validate checks the target path is non-empty and, when
// create_parent_dirs is false, that the immediate parent already
// exists as a directory.
func (op *CreateFile) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.target == "" {
		return core.ValidationError(op.kind, op.target, "target path cannot be empty")
	}

	if !op.opts.CreateParentDirs {
		parent := filepath.Dir(op.target)
		info, err := fsys.Stat(parent)
		if err != nil {
			return core.ValidationErrorf(op.kind, op.target, "parent directory does not exist", err)
		}
		if !info.IsDir() {
			return core.ValidationError(op.kind, op.target, "parent path is not a directory")
		}
	}

	op.validated = true
	return nil
}

// Execute checks the parent is writable and the target is still
// absent, creates parent directories if requested, writes the
// content, records its checksum, and applies an optional mode as a
// best-effort final step.
func (op *CreateFile) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	parent := filepath.Dir(op.target)
	prober := permission.New(fsys)
	if exists, _ := fsys.Exists(parent); exists && !prober.IsWritable(parent) {
		return core.ExecutionError(op.kind, op.target, "parent directory is not writable")
	}

	if exists, _ := fsys.Exists(op.target); exists {
		return core.ExecutionError(op.kind, op.target, "target already exists")
	}

	if op.opts.CreateParentDirs {
		if err := fsys.MkdirAll(parent, 0o755); err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to create parent directories", err)
		}
	}

	mode := fs.FileMode(0o644)
	if op.opts.Mode != nil {
		mode = *op.opts.Mode
	}
	if err := fsys.WriteFile(op.target, op.opts.Content, mode); err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to write file", err)
	}

	digest, err := checksum.Compute(fsys, op.target)
	if err != nil {
		_ = fsys.Remove(op.target)
		return core.ExecutionErrorf(op.kind, op.target, "failed to checksum written file", err)
	}
	op.targetChecksum = digest

	if op.opts.Mode != nil {
		if err := fsys.Chmod(op.target, *op.opts.Mode); err != nil {
			logAdvisory(op.kind, op.target, "failed to apply mode after create", err)
		}
	}

	return nil
}

// Undo is a no-op unless Execute recorded a checksum; if the file is
// already gone it is a tolerant success; if its content changed since
// creation, Undo refuses to remove it.
func (op *CreateFile) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.targetChecksum == nil {
		return nil
	}

	exists, _ := fsys.Exists(op.target)
	if !exists {
		return nil
	}

	current, err := checksum.Compute(fsys, op.target)
	if err != nil {
		return core.UndoErrorf(op.kind, op.target, "failed to verify content before undo", err)
	}
	if !current.Equal(op.targetChecksum) {
		return core.UndoError(op.kind, op.target, "content changed since creation")
	}

	if err := fsys.Remove(op.target); err != nil {
		return core.UndoErrorf(op.kind, op.target, "failed to remove created file", err)
	}
	return nil
}
