package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taco/internal/ast"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `class Counter {
  int count;
  void inc() {
    cnt = cnt + 1;
  }
}`

	reporter := NewErrorReporter("Counter.java", source)

	err := UnknownIdentifier("cnt", "inc()", ast.Position{Filename: "Counter.java", Line: 4, Column: 5})
	formatted := reporter.FormatError(Translation(err, []string{"count", "this"}))

	assert.Contains(t, formatted, "error["+ErrorUnknownIdentifier+"]")
	assert.Contains(t, formatted, "Counter.java:4:5")
	assert.Contains(t, formatted, "cnt = cnt + 1;")
	assert.Contains(t, formatted, "did you mean 'count'?")
}

func TestDescribeUsesSourceExcerptForLocalTranslationErrors(t *testing.T) {
	source := "class A {\n  void m() { throw new E(); x = \"s\"; }\n}"
	reporter := NewErrorReporter("A.java", source)

	err := Unsupported("string literal", "m()", ast.Position{Filename: "A.java", Line: 2, Column: 33})
	out := reporter.Describe(Wrapf(err, "lowering class A"))

	assert.Contains(t, out, "A.java:2:33")
	assert.Contains(t, out, "help:")
}

func TestDescribeNonPositionedErrors(t *testing.T) {
	reporter := NewErrorReporter("A.java", "")

	out := reporter.Describe(&AssemblyError{Kind: "program", ID: "A_m_0"})
	assert.Contains(t, out, "error[T0300]")
	assert.Contains(t, out, "Assembly")

	out = reporter.Describe(fmt.Errorf("plain failure"))
	assert.Equal(t, "error: plain failure\n", out)
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("A.java", "")
	marker := reporter.createMarker(5, 3, Error)
	assert.Equal(t, "    ^^^", marker)
}

func TestWarningFormatting(t *testing.T) {
	reporter := NewErrorReporter("A.java", "class A {}")
	warning := UnitSkipped("A", Unsupported("array access", "m()", ast.Position{}), ast.Position{Line: 1, Column: 1})

	formatted := reporter.FormatError(warning)
	assert.True(t, strings.HasPrefix(formatted, "warning[W0001]"))
	assert.Contains(t, formatted, "note: unsupported array access in 'm()'")
	assert.True(t, IsWarning(warning.Code))
}

func TestErrorTaxonomyCodes(t *testing.T) {
	tests := []struct {
		err      Coded
		code     string
		category string
	}{
		{&ConfigurationError{Key: "classToCheck"}, ErrorMissingConfigKey, "Configuration"},
		{&ConfigurationError{Key: "bitwidth", Message: "must be positive"}, ErrorInvalidConfigValue, "Configuration"},
		{&MethodNotFoundError{Class: "A", Method: "m_0"}, ErrorMethodNotFound, "Translation"},
		{Unsupported("array access", "m()", ast.Position{}), ErrorUnsupportedConstruct, "Translation"},
		{LiteralOutOfRange(300, 4, "A_m_0"), ErrorLiteralOutOfRange, "Translation"},
		{RoundTripFailure("A", "program set changed"), ErrorRoundTrip, "Translation"},
		{&AssemblyError{Kind: "module", ID: "A"}, ErrorMissingArithmeticEntry, "Assembly"},
		{&SynthesisError{Marker: "for 0 but", Path: "A.als"}, ErrorMissingMarker, "Synthesis"},
		{NewIOError("write", "A.als", fmt.Errorf("disk full")), ErrorArtifactIO, "I/O"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code())
			assert.Equal(t, tt.category, GetErrorCategory(tt.err.Code()))
			assert.NotEqual(t, "Unknown error code", GetErrorDescription(tt.err.Code()))
			assert.Equal(t, tt.code, CodeOf(Wrapf(tt.err, "context")))
		})
	}
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Key: "classToCheck"}
	assert.Equal(t, "Config key 'classToCheck' is mandatory", err.Error())
}

func TestIOErrorUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := NewIOError("remove", "/tmp/x.als", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to remove /tmp/x.als: permission denied", err.Error())
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("count", "count"))
	assert.Equal(t, 2, levenshteinDistance("cnt", "count"))
	assert.Equal(t, 5, levenshteinDistance("", "count"))
}

func TestSimilarNameFinding(t *testing.T) {
	similar := findSimilarNames("sise", []string{"size", "head", "sizes", "next"})
	assert.Equal(t, []string{"size", "sizes"}, similar)
}
