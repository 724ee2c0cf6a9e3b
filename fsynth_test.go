package fsynth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

func TestRun_ExecutesOperationsInOrder(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)

	ops := []fsynth.Operation{
		fsynth.CreateFile("/dir/a.txt", []byte("a"), 0o644, false),
		fsynth.CreateFile("/dir/b.txt", []byte("b"), 0o644, false),
	}

	results, err := fsynth.Run(ctx, fsys, ops)
	require.NoError(t, err)
	assert.True(t, results.Success)
	assert.Equal(t, 2, results.ExecutedCount)

	data, err := fsys.ReadFile("/dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), data)
}

func TestRun_WithModelOption(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)

	bad := fsynth.CreateFile("/missing/a.txt", []byte("a"), 0o644, false)
	ops := []fsynth.Operation{bad}

	results, err := fsynth.Run(ctx, fsys, ops, fsynth.WithModel(fsynth.ModelValidateFirst))
	require.NoError(t, err)
	assert.False(t, results.Success)
	assert.Equal(t, 0, results.ExecutedCount)
}

func TestRun_WithDryRun(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.SeedDir("/dir", 0o755)

	ops := []fsynth.Operation{fsynth.CreateFile("/dir/a.txt", []byte("a"), 0o644, false)}

	results, err := fsynth.Run(ctx, fsys, ops, fsynth.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, results.DryRun)
	assert.Equal(t, 0, results.ExecutedCount)

	exists, _ := fsys.Exists("/dir/a.txt")
	assert.False(t, exists)
}

func TestMove_Factory(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("x"), 0o644)

	ops := []fsynth.Operation{fsynth.Move("/a.txt", "/b.txt")}
	results, err := fsynth.Run(ctx, fsys, ops)
	require.NoError(t, err)
	assert.True(t, results.Success)

	exists, _ := fsys.Exists("/a.txt")
	assert.False(t, exists)
	data, err := fsys.ReadFile("/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestDelete_Factory(t *testing.T) {
	ctx := context.Background()
	fsys := filesystem.NewMemFS()
	fsys.Seed("/a.txt", []byte("x"), 0o644)

	ops := []fsynth.Operation{fsynth.Delete("/a.txt")}
	results, err := fsynth.Run(ctx, fsys, ops)
	require.NoError(t, err)
	assert.True(t, results.Success)

	exists, _ := fsys.Exists("/a.txt")
	assert.False(t, exists)
}
