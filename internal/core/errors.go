package core

import "errors"

var (
	// ErrRequiredUnmapped is returned when a required column without a
	// default has no mapped source.
	ErrRequiredUnmapped = errors.New("required column not mapped")

	// ErrUnknownTransform is returned for a transform step name that is not
	// registered.
	ErrUnknownTransform = errors.New("unknown transform")

	// ErrTransformAborted is returned when a transform-error handler declines
	// to handle a failure.
	ErrTransformAborted = errors.New("transform aborted")

	// ErrInvalidRule is returned for a malformed validation rule.
	ErrInvalidRule = errors.New("invalid validation rule")

	// ErrInvalidSpec is returned for malformed or conflicting column specs.
	ErrInvalidSpec = errors.New("invalid column spec")

	// ErrUnknownColumn is returned when a mapping names a column that is not
	// in the input or the schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrTargetInUse is returned when a target that does not allow
	// duplicates already has a source.
	ErrTargetInUse = errors.New("target column already mapped")

	// ErrSchemaNotFound is returned when no schema is registered under a key.
	ErrSchemaNotFound = errors.New("schema not found")
)
