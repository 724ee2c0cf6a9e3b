package operation

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// CreateDirectoryOptions configures a CreateDirectory operation.
type CreateDirectoryOptions struct {
	Exclusive        bool
	CreateParentDirs bool
	Mode             fs.FileMode
}

// CreateDirectory creates a directory at target. With Exclusive set,
// it fails if target already exists as anything — including another
// directory; without it, an existing directory at target is
// tolerated as a no-op.
type CreateDirectory struct {
	base
	opts CreateDirectoryOptions

	createdPath string // topmost path this operation actually created, for undo
}

// NewCreateDirectory returns a CreateDirectory operation for target.
func NewCreateDirectory(target string, opts CreateDirectoryOptions) *CreateDirectory {
	if opts.Mode == 0 {
		opts.Mode = 0o755
	}
	return &CreateDirectory{
		base: base{kind: core.KindCreateDirectory, target: target},
		opts: opts,
	}
}

func (op *CreateDirectory) Paths() (string, string) { return "", op.target }

// Validate checks the target path is non-empty, checks exclusivity
// up front, and — unless create_parent_dirs is set — requires the
// parent to already exist.
func (op *CreateDirectory) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.target == "" {
		return core.ValidationError(op.kind, op.target, "target path cannot be empty")
	}

	if info, err := fsys.Stat(op.target); err == nil {
		if op.opts.Exclusive {
			return core.ValidationError(op.kind, op.target, "target already exists")
		}
		if !info.IsDir() {
			return core.ValidationError(op.kind, op.target, "target exists and is not a directory")
		}
	}

	if !op.opts.CreateParentDirs {
		parent := filepath.Dir(op.target)
		if info, err := fsys.Stat(parent); err != nil || !info.IsDir() {
			return core.ValidationError(op.kind, op.target, "parent directory does not exist")
		}
	}

	op.validated = true
	return nil
}

// Execute creates target, and any missing parents if requested,
// tracking the shallowest already-missing ancestor so Undo removes
// only what this operation actually created.
func (op *CreateDirectory) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	if info, err := fsys.Stat(op.target); err == nil {
		if op.opts.Exclusive {
			return core.ExecutionError(op.kind, op.target, "target already exists")
		}
		if !info.IsDir() {
			return core.ExecutionError(op.kind, op.target, "target exists and is not a directory")
		}
		return nil
	}

	if op.opts.CreateParentDirs {
		op.createdPath = shallowestMissingAncestor(fsys, op.target)
		if err := fsys.MkdirAll(op.target, op.opts.Mode); err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to create directory tree", err)
		}
		return nil
	}

	if err := fsys.Mkdir(op.target, op.opts.Mode); err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to create directory", err)
	}
	op.createdPath = op.target
	return nil
}

// Undo removes the directories this operation created, provided the
// subtree is still empty all the way down — Undo never discards
// content a later operation may have placed inside it.
func (op *CreateDirectory) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.createdPath == "" {
		return nil
	}

	exists, _ := fsys.Exists(op.createdPath)
	if !exists {
		return nil
	}

	return removeEmptyChain(fsys, op.createdPath, op.kind)
}

// shallowestMissingAncestor walks up from path and returns the
// topmost path segment that does not yet exist, so a MkdirAll that
// creates several levels at once can be undone by removing just that
// one (now-empty) subtree.
func shallowestMissingAncestor(fsys filesystem.FileSystem, path string) string {
	missing := path
	cur := path
	for {
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		if exists, _ := fsys.Exists(parent); exists {
			break
		}
		missing = parent
		cur = parent
	}
	return missing
}

// removeEmptyChain removes the subtree rooted at path, which this
// operation created in its entirety via MkdirAll. It refuses — rather
// than discarding anything — the moment it finds a file or a
// directory that isn't empty of further subdirectories, since that
// means something else populated the tree after creation.
func removeEmptyChain(fsys filesystem.FileSystem, path string, kind core.OperationKind) error {
	entries, err := fsys.ReadDir(path)
	if err != nil {
		return core.UndoErrorf(kind, path, "failed to inspect directory before undo", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			return core.UndoError(kind, path, "directory is not empty")
		}
		if err := removeEmptyChain(fsys, filepath.Join(path, entry.Name()), kind); err != nil {
			return err
		}
	}
	if err := fsys.Remove(path); err != nil {
		return core.UndoErrorf(kind, path, "failed to remove created directory", err)
	}
	return nil
}
