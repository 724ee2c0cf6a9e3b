// Package core holds the types shared by every other fsynth package:
// the operation-kind tag vocabulary, the OpError type, and the
// structured logging plumbing built on zerolog. It has no dependency on
// any other fsynth package so that filesystem, checksum, permission and
// operation can all depend on it without cycles.
package core

// OperationKind names a concrete operation variant. It is the
// "type_tag" surfaced in error records and log lines.
type OperationKind string

const (
	KindCreateFile      OperationKind = "CreateFile"
	KindCreateDirectory OperationKind = "CreateDirectory"
	KindCopyFile        OperationKind = "CopyFile"
	KindMove            OperationKind = "Move"
	KindSymlink         OperationKind = "Symlink"
	KindDelete          OperationKind = "Delete"
	KindCreateArchive   OperationKind = "CreateArchive"
	KindUnarchive       OperationKind = "Unarchive"
)

// ItemType classifies what a path currently is on disk.
type ItemType string

const (
	ItemNone      ItemType = ""
	ItemFile      ItemType = "file"
	ItemDirectory ItemType = "directory"
	ItemSymlink   ItemType = "symlink"
)

// Phase identifies which lifecycle step of an operation an error record
// or log line refers to.
type Phase string

const (
	PhaseValidation Phase = "validation"
	PhaseExecution  Phase = "execution"
	PhaseRollback   Phase = "rollback"
)

// Severity distinguishes hard failures from advisory warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ExecutionModel selects one of the four ways a Processor can drive a
// queue of operations through validate/execute/undo.
type ExecutionModel string

const (
	ModelStandard      ExecutionModel = "standard"
	ModelValidateFirst ExecutionModel = "validate_first"
	ModelBestEffort    ExecutionModel = "best_effort"
	ModelTransactional ExecutionModel = "transactional"
)
