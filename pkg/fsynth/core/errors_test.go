package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fsynth-go/fsynth/pkg/fsynth/core"
)

func TestValidationError(t *testing.T) {
	err := core.ValidationError(core.KindCreateFile, "/a", "target is empty")
	var opErr *core.OpError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, core.PhaseValidation, opErr.Phase)
	assert.Equal(t, core.SeverityError, opErr.Severity)
	assert.Contains(t, err.Error(), "target is empty")
}

func TestExecutionErrorf_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := core.ExecutionErrorf(core.KindCreateFile, "/a", "write failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestUndoError(t *testing.T) {
	err := core.UndoError(core.KindDelete, "/a", "content changed since creation")
	var opErr *core.OpError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, core.PhaseRollback, opErr.Phase)
}

func TestAdvisoryWarning_Severity(t *testing.T) {
	warn := core.AdvisoryWarning(core.KindCreateFile, "/a", "chmod failed", errors.New("eperm"))
	assert.Equal(t, core.SeverityWarning, warn.Severity)
	assert.Equal(t, core.PhaseExecution, warn.Phase)
}
