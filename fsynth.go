// Package fsynth plans and executes batches of filesystem mutations —
// file and directory creation, copy, move, symlink, delete, and
// archive/unarchive — as first-class values that can be validated,
// executed, and undone independently of the call that built them.
package fsynth

import (
	"context"
	"io/fs"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
	"github.com/fsynth-go/fsynth/pkg/fsynth/processor"
	"github.com/fsynth-go/fsynth/pkg/fsynth/queue"
)

// Operation is the unit this package plans and runs: a mutation with
// its own validate/execute/undo contract.
type Operation = operation.Operation

// CreateFile returns an operation that writes content to target,
// creating parent directories first when createParentDirs is set.
func CreateFile(target string, content []byte, mode fs.FileMode, createParentDirs bool) Operation {
	m := mode
	return operation.NewCreateFile(target, operation.CreateFileOptions{
		Content:          content,
		CreateParentDirs: createParentDirs,
		Mode:             &m,
	})
}

// CreateDir returns an operation that creates target as a directory,
// along with any missing parents when createParentDirs is set.
func CreateDir(target string, mode fs.FileMode, createParentDirs bool) Operation {
	return operation.NewCreateDirectory(target, operation.CreateDirectoryOptions{
		CreateParentDirs: createParentDirs,
		Mode:             mode,
	})
}

// Copy returns an operation that copies source to target. If target
// names an existing directory, the effective destination is
// target/<basename of source>.
func Copy(source, target string, overwrite bool) Operation {
	return operation.NewCopyFile(source, target, operation.CopyFileOptions{
		Overwrite:          overwrite,
		PreserveAttributes: true,
	})
}

// Move returns an operation that relocates source to target,
// preserving symlink-vs-file semantics across the move.
func Move(source, target string) Operation {
	return operation.NewMove(source, target)
}

// Symlink returns an operation that creates target as a symbolic link
// pointing at linkText. linkText need not resolve to anything that
// exists yet.
func Symlink(target, linkText string, overwrite, createParentDirs bool) Operation {
	return operation.NewSymlink(target, linkText, operation.SymlinkOptions{
		Overwrite:        overwrite,
		CreateParentDirs: createParentDirs,
	})
}

// Delete returns an operation that removes target, a file, empty
// directory, or symlink.
func Delete(target string) Operation {
	return operation.NewDelete(target)
}

// CreateArchive returns an operation that bundles sources into a
// single archive at target. Passing an empty format infers one from
// target's extension.
func CreateArchive(target string, sources []string, format operation.ArchiveFormat) Operation {
	return operation.NewCreateArchive(target, sources, format)
}

// Unarchive returns an operation that extracts source into target,
// optionally restricted to entries matching one of patterns.
func Unarchive(source, target string, patterns []string, overwrite bool) Operation {
	return operation.NewUnarchive(source, target, operation.UnarchiveOptions{
		Patterns:  patterns,
		Overwrite: overwrite,
	})
}

// Run enqueues ops in order and drives them through a Processor
// configured by opts, against fsys.
func Run(ctx context.Context, fsys filesystem.FileSystem, ops []Operation, opts ...Option) (*Results, error) {
	cfg := DefaultProcessorOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	q := queue.New()
	for _, op := range ops {
		q.Enqueue(op)
	}

	p := processor.New(cfg.toProcessorOptions())
	return p.Run(ctx, q, fsys)
}
