package operation

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"strings"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

// ArchiveFormat names the container format CreateArchive produces and
// Unarchive reads.
type ArchiveFormat string

const (
	FormatZip   ArchiveFormat = "zip"
	FormatTar   ArchiveFormat = "tar"
	FormatTarGz ArchiveFormat = "tar.gz"
)

// CreateArchive bundles a list of regular-file sources into a single
// archive at target. Supplemental to the core operation set: it has
// no dependency-graph relationship with the rest of a batch, just its
// own validate/execute/undo contract like everything else here.
// Directories among sources are skipped rather than walked — archiving
// a subtree is left to a caller explicit about which files it wants.
type CreateArchive struct {
	base
	sources []string
	format  ArchiveFormat

	createdTarget bool
}

// NewCreateArchive returns a CreateArchive operation writing sources
// into target using format. If format is empty, it is inferred from
// target's extension.
func NewCreateArchive(target string, sources []string, format ArchiveFormat) *CreateArchive {
	if format == "" {
		if inferred := inferFormat(target); inferred != "" {
			format = inferred
		} else {
			format = FormatTarGz
		}
	}
	return &CreateArchive{
		base:    base{kind: core.KindCreateArchive, target: target},
		sources: sources,
		format:  format,
	}
}

func (op *CreateArchive) Paths() (string, string) { return "", op.target }

// Validate requires at least one source, all sources to exist, a
// known format, and an absent target.
func (op *CreateArchive) Validate(ctx context.Context, fsys filesystem.FileSystem) error {
	if op.target == "" {
		return core.ValidationError(op.kind, op.target, "target path cannot be empty")
	}
	if len(op.sources) == 0 {
		return core.ValidationError(op.kind, op.target, "at least one source is required")
	}
	if op.format != FormatZip && op.format != FormatTar && op.format != FormatTarGz {
		return core.ValidationError(op.kind, op.target, "unsupported archive format")
	}
	for _, src := range op.sources {
		if exists, _ := fsys.Exists(src); !exists {
			return core.ValidationError(op.kind, src, "source does not exist")
		}
	}
	if exists, _ := fsys.Exists(op.target); exists {
		return core.ValidationError(op.kind, op.target, "target already exists")
	}

	op.validated = true
	return nil
}

// Execute writes regular-file sources into target, skipping any
// source that turns out to be a directory.
func (op *CreateArchive) Execute(ctx context.Context, fsys filesystem.FileSystem) error {
	if exists, _ := fsys.Exists(op.target); exists {
		return core.ExecutionError(op.kind, op.target, "target already exists")
	}

	var buf bytes.Buffer
	var err error
	switch op.format {
	case FormatZip:
		err = writeZip(&buf, fsys, op.sources)
	case FormatTar:
		err = writeTar(&buf, fsys, op.sources, false)
	case FormatTarGz:
		err = writeTar(&buf, fsys, op.sources, true)
	default:
		return core.ExecutionError(op.kind, op.target, "unsupported archive format")
	}
	if err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to build archive", err)
	}

	if err := fsys.WriteFile(op.target, buf.Bytes(), 0o644); err != nil {
		return core.ExecutionErrorf(op.kind, op.target, "failed to write archive", err)
	}
	op.createdTarget = true
	return nil
}

// Undo removes the archive this operation created. Tolerant success
// if it's already gone.
func (op *CreateArchive) Undo(ctx context.Context, fsys filesystem.FileSystem) error {
	if !op.createdTarget {
		return nil
	}
	exists, _ := fsys.Exists(op.target)
	if !exists {
		return nil
	}
	if err := fsys.Remove(op.target); err != nil {
		return core.UndoErrorf(op.kind, op.target, "failed to remove created archive", err)
	}
	return nil
}

func writeZip(buf *bytes.Buffer, fsys filesystem.FileSystem, sources []string) error {
	w := zip.NewWriter(buf)
	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			return fmt.Errorf("stat %s: %w", src, err)
		}
		if info.IsDir() {
			continue
		}
		data, err := fsys.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		entry, err := w.Create(src)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", src, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("write zip entry %s: %w", src, err)
		}
	}
	return w.Close()
}

func writeTar(buf *bytes.Buffer, fsys filesystem.FileSystem, sources []string, gzipped bool) error {
	var tw *tar.Writer
	var gw *gzip.Writer
	if gzipped {
		gw = gzip.NewWriter(buf)
		tw = tar.NewWriter(gw)
	} else {
		tw = tar.NewWriter(buf)
	}

	for _, src := range sources {
		info, err := fsys.Stat(src)
		if err != nil {
			return fmt.Errorf("stat %s: %w", src, err)
		}
		if info.IsDir() {
			continue
		}
		data, err := fsys.ReadFile(src)
		if err != nil {
			return fmt.Errorf("read %s: %w", src, err)
		}
		header := &tar.Header{
			Name: src,
			Mode: int64(info.Mode().Perm()),
			Size: int64(len(data)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write tar header %s: %w", src, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("write tar content %s: %w", src, err)
		}
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if gw != nil {
		return gw.Close()
	}
	return nil
}

// inferFormat guesses a format from target's extension, returning ""
// when the extension isn't one of the recognized archive suffixes.
func inferFormat(target string) ArchiveFormat {
	lower := strings.ToLower(target)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return FormatZip
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FormatTarGz
	case strings.HasSuffix(lower, ".tar"):
		return FormatTar
	default:
		return ""
	}
}
