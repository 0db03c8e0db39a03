package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"taco/internal/ast"
)

// Coded is implemented by every error of the translation pipeline.
type Coded interface {
	error
	Code() string
}

// ConfigurationError reports a missing or invalid mandatory setting.
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Config key '%s' is mandatory", e.Key)
	}
	return fmt.Sprintf("config key '%s': %s", e.Key, e.Message)
}

func (e *ConfigurationError) Code() string {
	if e.Message == "" {
		return ErrorMissingConfigKey
	}
	return ErrorInvalidConfigValue
}

// MethodNotFoundError reports a check target absent from the lowered programs.
type MethodNotFoundError struct {
	Class     string
	Method    string
	Available []string
}

func (e *MethodNotFoundError) Error() string {
	msg := fmt.Sprintf("method '%s' of class '%s' was not found among translated programs", e.Method, e.Class)
	if len(e.Available) > 0 {
		msg += " (available: " + strings.Join(e.Available, ", ") + ")"
	}
	return msg
}

func (*MethodNotFoundError) Code() string { return ErrorMethodNotFound }

// TranslationError reports a construct that cannot be lowered.
type TranslationError struct {
	Construct string
	Method    string
	Position  ast.Position
	code      string
}

// Unsupported creates a TranslationError for an unsupported construct.
func Unsupported(construct, method string, pos ast.Position) *TranslationError {
	return &TranslationError{Construct: construct, Method: method, Position: pos, code: ErrorUnsupportedConstruct}
}

// UnknownIdentifier creates a TranslationError for an unresolvable name.
func UnknownIdentifier(name, method string, pos ast.Position) *TranslationError {
	return &TranslationError{Construct: "identifier '" + name + "'", Method: method, Position: pos, code: ErrorUnknownIdentifier}
}

// LiteralOutOfRange creates a TranslationError for a literal exceeding the bit width.
func LiteralOutOfRange(value int64, bitwidth int, program string) *TranslationError {
	return &TranslationError{
		Construct: fmt.Sprintf("literal %d outside %d-bit range", value, bitwidth),
		Method:    program,
		code:      ErrorLiteralOutOfRange,
	}
}

// RoundTripFailure creates a TranslationError for an intermediate module that
// did not re-parse into the same identifiers.
func RoundTripFailure(module, detail string) *TranslationError {
	return &TranslationError{Construct: detail, Method: module, code: ErrorRoundTrip}
}

func (e *TranslationError) Error() string {
	if e.code == ErrorRoundTrip {
		return fmt.Sprintf("round trip of module '%s' failed: %s", e.Method, e.Construct)
	}
	if e.Position.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: unsupported %s in '%s'", e.Position.Filename, e.Position.Line, e.Position.Column, e.Construct, e.Method)
	}
	return fmt.Sprintf("unsupported %s in '%s'", e.Construct, e.Method)
}

func (e *TranslationError) Code() string {
	if e.code == "" {
		return ErrorUnsupportedConstruct
	}
	return e.code
}

// AnnotationError reports an assertion annotation that does not parse.
type AnnotationError struct {
	Text     string
	Message  string
	Position ast.Position
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("malformed annotation %q: %s", e.Text, e.Message)
}

func (*AnnotationError) Code() string { return ErrorAnnotationSyntax }

// AssemblyError reports an identifier lacking its arithmetic constraint index entry.
type AssemblyError struct {
	Kind string
	ID   string
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("arithmetic constraint index has no entry for %s '%s'", e.Kind, e.ID)
}

func (*AssemblyError) Code() string { return ErrorMissingArithmeticEntry }

// SynthesisError reports a marker missing from the generated specification.
type SynthesisError struct {
	Marker string
	Path   string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("invariant synthesis: marker %q not found in %s", e.Marker, e.Path)
}

func (*SynthesisError) Code() string { return ErrorMissingMarker }

// IOError reports an artifact write, read or delete failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError wraps err with a stack trace and the failing operation.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: pkgerrors.WithStack(err)}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, pkgerrors.Cause(e.Err))
}

func (e *IOError) Unwrap() error { return e.Err }

func (*IOError) Code() string { return ErrorArtifactIO }

// CodeOf returns the code of the first Coded error in err's chain, or "".
func CodeOf(err error) string {
	var coded Coded
	if pkgerrors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// Wrapf annotates err with a message while keeping it classifiable.
func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target interface{}) bool {
	return pkgerrors.As(err, target)
}

// Is is errors.Is.
func Is(err, target error) bool {
	return pkgerrors.Is(err, target)
}
