package operation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
	"github.com/fsynth-go/fsynth/pkg/fsynth/operation"
)

func buildZipArchive(t *testing.T, fsys *filesystem.MemFS) {
	t.Helper()
	ctx := context.Background()
	fsys.Seed("/a.txt", []byte("one"), 0o644)
	fsys.Seed("/b.txt", []byte("two"), 0o644)

	create := operation.NewCreateArchive("/bundle.zip", []string{"/a.txt", "/b.txt"}, operation.FormatZip)
	require.NoError(t, create.Validate(ctx, fsys))
	require.NoError(t, create.Execute(ctx, fsys))
}

func TestUnarchive_ExecuteThenUndo(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	buildZipArchive(t, fsys)
	fsys.SeedDir("/extracted", 0o755)

	op := operation.NewUnarchive("/bundle.zip", "/extracted", operation.UnarchiveOptions{})
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	data, err := fsys.ReadFile("/extracted/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)
	data, err = fsys.ReadFile("/extracted/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)

	require.NoError(t, op.Undo(ctx, fsys))
	exists, _ := fsys.Exists("/extracted/a.txt")
	assert.False(t, exists)
	exists, _ = fsys.Exists("/extracted/b.txt")
	assert.False(t, exists)
}

func TestUnarchive_PatternFilter(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	buildZipArchive(t, fsys)
	fsys.SeedDir("/extracted", 0o755)

	op := operation.NewUnarchive("/bundle.zip", "/extracted", operation.UnarchiveOptions{Patterns: []string{"a.*"}})
	require.NoError(t, op.Validate(ctx, fsys))
	require.NoError(t, op.Execute(ctx, fsys))

	exists, _ := fsys.Exists("/extracted/a.txt")
	assert.True(t, exists)
	exists, _ = fsys.Exists("/extracted/b.txt")
	assert.False(t, exists)
}

func TestUnarchive_Validate_RejectsMissingSource(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()

	op := operation.NewUnarchive("/missing.zip", "/extracted", operation.UnarchiveOptions{})
	assert.Error(t, op.Validate(ctx, fsys))
}

func TestUnarchive_Validate_RejectsUnrecognizedFormat(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/plain.txt", []byte("not an archive"), 0o644)

	op := operation.NewUnarchive("/plain.txt", "/extracted", operation.UnarchiveOptions{})
	assert.Error(t, op.Validate(ctx, fsys))
}

func TestUnarchive_Execute_RejectsExistingFileWithoutOverwrite(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	buildZipArchive(t, fsys)
	fsys.SeedDir("/extracted", 0o755)
	fsys.Seed("/extracted/a.txt", []byte("already here"), 0o644)

	op := operation.NewUnarchive("/bundle.zip", "/extracted", operation.UnarchiveOptions{})
	require.NoError(t, op.Validate(ctx, fsys))
	assert.Error(t, op.Execute(ctx, fsys))
}
