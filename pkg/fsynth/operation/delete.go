package operation

import (
	"context"
	"io/fs"

	"github.com/fsynth-go/fsynth/pkg/fsynth/checksum"
	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// Delete removes a file, symlink, or empty directory at target. It
// does not recursively delete a non-empty directory's contents — that
// is out of scope; Delete only ever removes the single path it names.
type Delete struct {
	base

	existed       bool
	itemType      core.ItemType
	data          []byte
	linkText      string
	mode          fs.FileMode
	priorChecksum *checksum.Digest
	removed       bool
}

// NewDelete returns a Delete operation removing target.
func NewDelete(target string) *Delete {
	return &Delete{base: base{kind: core.KindDelete, target: target}}
}

func (op *Delete) Paths() (string, string) { return "", op.target }

// Validate requires a non-empty path. A missing target is not an
// error here — Delete is idempotent by design, so Execute treats an
// already-absent target as a tolerant success.
func (op *Delete) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.target == "" {
		return core.ValidationError(op.kind, op.target, "target path cannot be empty")
	}
	if info, err := fsys.Lstat(op.target); err == nil && info.IsDir() {
		entries, derr := fsys.ReadDir(op.target)
		if derr == nil && len(entries) > 0 {
			return core.ValidationError(op.kind, op.target, "directory is not empty")
		}
	}
	op.validated = true
	return nil
}

// Execute snapshots target's content (or symlink text, or nothing for
// a directory) before removing it, so Undo can restore it later.
// Removing an already-absent target is a no-op success.
func (op *Delete) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	info, err := fsys.Lstat(op.target)
	if err != nil {
		return nil
	}
	op.existed = true
	op.mode = info.Mode()

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		op.itemType = core.ItemSymlink
		text, err := fsys.Readlink(op.target)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to snapshot symlink before delete", err)
		}
		op.linkText = text

	case info.IsDir():
		op.itemType = core.ItemDirectory
		entries, err := fsys.ReadDir(op.target)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to inspect directory before delete", err)
		}
		if len(entries) > 0 {
			return core.ExecutionError(op.kind, op.target, "directory is not empty")
		}

	default:
		op.itemType = core.ItemFile
		data, err := fsys.ReadFile(op.target)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to snapshot file before delete", err)
		}
		op.data = data
		digest, err := checksum.Compute(fsys, op.target)
		if err != nil {
			return core.ExecutionErrorf(op.kind, op.target, "failed to checksum file before delete", err)
		}
		op.priorChecksum = digest
	}

	if err := fsys.Remove(op.target); err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to remove target", err)
	}
	op.removed = true
	return nil
}

// Undo restores whatever Execute snapshotted. It is a no-op success if
// the target never existed, or if something already occupies the
// target's place again. For a restored file, it verifies the restored
// content still checksums the way it did before deletion — the
// restore itself always happens, but a mismatch is reported as an
// advisory rather than an error, since the data did get put back.
func (op *Delete) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	if !op.removed || !op.existed {
		return nil
	}
	if exists, _ := fsys.Exists(op.target); exists {
		return nil
	}

	switch op.itemType {
	case core.ItemSymlink:
		if err := fsys.Symlink(op.linkText, op.target); err != nil {
			return core.UndoErrorf(op.kind, op.target, "failed to restore symlink", err)
		}
	case core.ItemDirectory:
		if err := fsys.Mkdir(op.target, op.mode.Perm()); err != nil {
			return core.UndoErrorf(op.kind, op.target, "failed to restore directory", err)
		}
	case core.ItemFile:
		if err := fsys.WriteFile(op.target, op.data, op.mode.Perm()); err != nil {
			return core.UndoErrorf(op.kind, op.target, "failed to restore file content", err)
		}
		if op.priorChecksum != nil {
			current, err := checksum.Compute(fsys, op.target)
			if err == nil && !current.Equal(op.priorChecksum) {
				logAdvisory(op.kind, op.target, "restored content checksum does not match the pre-delete checksum", nil)
			}
		}
	}

	return nil
}
