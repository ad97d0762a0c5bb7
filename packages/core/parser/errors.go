package parser

import "fmt"

// Span locates an error in the source text. Line and Column are 1-based.
type Span struct {
	Line   int
	Column int
	Offset int
	Length int
}

// DeserializationError reports a document that is syntactically or
// structurally malformed.
type DeserializationError struct {
	Message string
	Span    *Span
}

func (e *DeserializationError) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("line %d, column %d: %s", e.Span.Line, e.Span.Column, e.Message)
	}
	return e.Message
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field `%s`", e.Field)
}

// InvalidTypeError reports a value of a forbidden kind inside a free-form
// table.
type InvalidTypeError struct {
	Field string
	Kind  string
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("values of [%s] can't be of type %s", e.Field, e.Kind)
}

type InvalidFileError struct {
	Path string
	Err  error
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Path, e.Err)
}

func (e *InvalidFileError) Unwrap() error { return e.Err }

func deserializationf(format string, args ...any) *DeserializationError {
	return &DeserializationError{Message: fmt.Sprintf(format, args...)}
}
