package errors

import (
	"fmt"
	"strings"

	"taco/internal/ast"
)

// DiagnosticBuilder provides a fluent interface for creating positioned diagnostics
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error diagnostic builder
func NewDiagnostic(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning diagnostic builder
func NewWarning(code, message string, pos ast.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Warning,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// SyntaxError creates a diagnostic for a parse failure in an annotated source file
func SyntaxError(message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorSyntax, message, pos).
		WithHelp("contracts are written as requires/ensures/invariant clauses before the annotated member").
		Build()
}

// AnnotationSyntax creates a diagnostic for an assertion annotation that does not parse
func AnnotationSyntax(text, message string, pos ast.Position) CompilerError {
	return NewDiagnostic(ErrorAnnotationSyntax, fmt.Sprintf("malformed annotation %q: %s", text, message), pos).
		WithNote("annotations use the relational assertion language, e.g. @Invariant(\"all n: this.(*next) | n.value >= 0\")").
		Build()
}

// Translation converts a TranslationError into a positioned diagnostic.
// candidates, when non-empty, are names in scope used for suggestions.
func Translation(err *TranslationError, candidates []string) CompilerError {
	builder := NewDiagnostic(err.Code(), err.Error(), err.Position)

	if err.Code() == ErrorUnknownIdentifier {
		name := strings.TrimSuffix(strings.TrimPrefix(err.Construct, "identifier '"), "'")
		builder = builder.WithLength(len(name))
		similar := findSimilarNames(name, candidates)
		switch len(similar) {
		case 0:
			builder = builder.WithNote("identifiers must name a field, a parameter or a local variable")
		case 1:
			builder = builder.WithSuggestion(fmt.Sprintf("did you mean '%s'?", similar[0]))
		default:
			builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
		}
		return builder.Build()
	}

	return builder.
		WithHelp("rewrite the method without this construct or exclude its class from relevantClasses").
		Build()
}

// UnitSkipped creates a warning for a class that was dropped from the run
func UnitSkipped(class string, cause error, pos ast.Position) CompilerError {
	return NewWarning(WarningUnitSkipped, fmt.Sprintf("class '%s' skipped", class), pos).
		WithNote(cause.Error()).
		Build()
}

// findSimilarNames finds names similar to target using edit distance
func findSimilarNames(target string, candidates []string) []string {
	var similar []string
	maxDistance := len(target)/3 + 1

	for _, candidate := range candidates {
		if candidate != target && levenshteinDistance(target, candidate) <= maxDistance {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
