package fsynth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsynth-go/fsynth"
	"github.com/fsynth-go/fsynth/pkg/fsynth/filesystem"
)

const samplePlan = `
version: "1"
description: sample plan
model: standard
operations:
  - type: create_directory
    target: /dir
    create_parent_dirs: true
  - type: create_file
    target: /dir/a.txt
    content: hello
    mode: "0644"
  - type: copy
    source: /dir/a.txt
    target: /dir/b.txt
  - type: delete
    target: /dir/b.txt
`

func TestLoadPlan_ParsesOperations(t *testing.T) {
	plan, err := fsynth.LoadPlan([]byte(samplePlan))
	require.NoError(t, err)
	assert.Equal(t, "1", plan.Version)
	assert.Equal(t, "standard", plan.Model)
	require.Len(t, plan.Operations, 4)
}

func TestLoadPlan_RejectsEmptyOperations(t *testing.T) {
	_, err := fsynth.LoadPlan([]byte("version: \"1\"\noperations: []\n"))
	assert.Error(t, err)
}

func TestPlan_Build_ProducesRunnableOperations(t *testing.T) {
	plan, err := fsynth.LoadPlan([]byte(samplePlan))
	require.NoError(t, err)

	ops, err := plan.Build()
	require.NoError(t, err)
	require.Len(t, ops, 4)

	ctx := context.Background()
	fsys := filesystem.NewMemFS()

	results, err := fsynth.Run(ctx, fsys, ops)
	require.NoError(t, err)
	assert.True(t, results.Success)

	exists, _ := fsys.Exists("/dir/a.txt")
	assert.True(t, exists)
	exists, _ = fsys.Exists("/dir/b.txt")
	assert.False(t, exists)
}

func TestPlan_Build_UnknownTypeFails(t *testing.T) {
	plan, err := fsynth.LoadPlan([]byte("version: \"1\"\noperations:\n  - type: bogus\n    target: /x\n"))
	require.NoError(t, err)

	_, err = plan.Build()
	assert.Error(t, err)
}

func TestMarshalPlan_RoundTrips(t *testing.T) {
	plan, err := fsynth.LoadPlan([]byte(samplePlan))
	require.NoError(t, err)

	data, err := fsynth.MarshalPlan(plan)
	require.NoError(t, err)

	reparsed, err := fsynth.LoadPlan(data)
	require.NoError(t, err)
	assert.Equal(t, plan.Version, reparsed.Version)
	assert.Len(t, reparsed.Operations, len(plan.Operations))
}
