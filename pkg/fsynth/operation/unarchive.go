package operation

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// UnarchiveOptions configures an Unarchive operation.
type UnarchiveOptions struct {
	Patterns  []string // glob patterns, matched against an entry's full name or its base name; empty means "extract everything"
	Overwrite bool
}

// Unarchive extracts source (a zip or tar/tar.gz archive) into the
// target directory. Every extracted path is re-checked against
// target, after joining and cleaning, to guard against an archive
// entry that tries to escape target via ".." segments.
type Unarchive struct {
	base
	opts UnarchiveOptions

	extractedPaths []string
}

// NewUnarchive returns an Unarchive operation extracting source into
// target.
func NewUnarchive(source, target string, opts UnarchiveOptions) *Unarchive {
	return &Unarchive{
		base: base{kind: core.KindUnarchive, source: source, target: target},
		opts: opts,
	}
}

func (op *Unarchive) Paths() (string, string) { return op.source, op.target }

// Validate requires source to exist and name a recognized archive
// extension.
func (op *Unarchive) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.source == "" || op.target == "" {
		return core.ValidationError(op.kind, op.target, "source and target paths are required")
	}
	if inferFormat(op.source) == "" {
		return core.ValidationError(op.kind, op.source, "unrecognized archive format")
	}
	if exists, _ := fsys.Exists(op.source); !exists {
		return core.ValidationError(op.kind, op.source, "archive does not exist")
	}

	op.validated = true
	return nil
}

// Execute extracts matching entries under target, creating parent
// directories as needed and recording every path it writes so Undo
// can remove exactly those paths.
func (op *Unarchive) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	data, err := fsys.ReadFile(op.source)
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "failed to read archive", err)
	}

	format := inferFormat(op.source)
	var entries []archiveEntry
	switch format {
	case FormatZip:
		entries, err = readZipEntries(data)
	case FormatTar:
		entries, err = readTarEntries(data, false)
	case FormatTarGz:
		entries, err = readTarEntries(data, true)
	default:
		return core.ExecutionError(op.kind, op.source, "unsupported archive format")
	}
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.source, "failed to read archive entries", err)
	}

	for _, entry := range entries {
		if len(op.opts.Patterns) > 0 && !matchesAnyPattern(entry.name, op.opts.Patterns) {
			continue
		}

		destPath, err := safeJoin(op.target, entry.name)
		if err != nil {
			return core.ExecutionErrorf(op.kind, entry.name, "archive entry escapes target directory", err)
		}

		if entry.isDir {
			if err := fsys.MkdirAll(destPath, 0o755); err != nil {
				return core.ExecutionErrorf(op.kind, destPath, "failed to create directory from archive", err)
			}
			continue
		}

		if exists, _ := fsys.Exists(destPath); exists && !op.opts.Overwrite {
			return core.ExecutionError(op.kind, destPath, "target already exists and overwrite is not set")
		}

		if err := fsys.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return core.ExecutionErrorf(op.kind, destPath, "failed to create parent directory", err)
		}
		if err := fsys.WriteFile(destPath, entry.data, entry.mode); err != nil {
			return core.ExecutionErrorf(op.kind, destPath, "failed to write extracted file", err)
		}
		op.extractedPaths = append(op.extractedPaths, destPath)
	}

	return nil
}

// Undo removes only the paths this operation itself extracted, never
// a recursive sweep of target's contents.
func (op *Unarchive) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	for i := len(op.extractedPaths) - 1; i >= 0; i-- {
		path := op.extractedPaths[i]
		if exists, _ := fsys.Exists(path); !exists {
			continue
		}
		if err := fsys.Remove(path); err != nil {
			return core.UndoErrorf(op.kind, path, "failed to remove extracted file", err)
		}
	}
	return nil
}

type archiveEntry struct {
	name  string
	data  []byte
	mode  fs.FileMode
	isDir bool
}

func readZipEntries(data []byte) ([]archiveEntry, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var entries []archiveEntry
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			entries = append(entries, archiveEntry{name: f.Name, isDir: true})
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read zip entry %s: %w", f.Name, err)
		}
		entries = append(entries, archiveEntry{name: f.Name, data: content, mode: f.Mode().Perm()})
	}
	return entries, nil
}

func readTarEntries(data []byte, gzipped bool) ([]archiveEntry, error) {
	var r io.Reader = bytes.NewReader(data)
	if gzipped {
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	}
	tr := tar.NewReader(r)
	var entries []archiveEntry
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			entries = append(entries, archiveEntry{name: header.Name, isDir: true})
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read tar entry %s: %w", header.Name, err)
			}
			entries = append(entries, archiveEntry{name: header.Name, data: content, mode: fs.FileMode(header.Mode)})
		}
	}
	return entries, nil
}

func matchesAnyPattern(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(name)); matched {
			return true
		}
	}
	return false
}

// safeJoin joins target and name, then verifies the cleaned result is
// still inside target — rejecting archive entries that use ".."
// segments to escape it.
func safeJoin(target, name string) (string, error) {
	joined := filepath.Join(target, name)
	cleanTarget := filepath.Clean(target)
	if joined != cleanTarget && !strings.HasPrefix(joined, cleanTarget+string(filepath.Separator)) {
		return "", fmt.Errorf("entry %q escapes target directory", name)
	}
	return joined, nil
}
