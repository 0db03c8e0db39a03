package errors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"taco/internal/ast"
)

// ErrorLevel is the severity of a diagnostic
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError is a positioned diagnostic about an annotated source file
type CompilerError struct {
	Level       ErrorLevel
	Code        string       // Code like T0200
	Message     string       // Primary message
	Position    ast.Position // Location in source
	Length      int          // Length of the reported region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context
	HelpText    string       // How to get past the error
}

// Suggestion is a suggested fix
type Suggestion struct {
	Message string
}

// ErrorReporter renders diagnostics against the text of one source file
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{filename: filename, lines: strings.Split(source, "\n")}
}

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	blue  = color.New(color.FgBlue).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
)

func levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	}
	return color.New(color.FgRed, color.Bold).SprintFunc()
}

// gutter is the left margin of a rendered diagnostic, wide enough for the
// largest line number shown.
type gutter struct {
	width int
}

func newGutter(line int) gutter {
	return gutter{width: max(3, len(strconv.Itoa(line+1)))}
}

func (g gutter) blank() string { return strings.Repeat(" ", g.width) + " " + faint("│") }

func (g gutter) number(n int, highlight bool) string {
	label := fmt.Sprintf("%*d", g.width, n)
	if highlight {
		return bold(label) + " " + faint("│")
	}
	return faint(label) + " " + faint("│")
}

// FormatError renders a diagnostic as a header, the source lines around its
// position with the region underlined, and its suggestions and notes.
//
//	error[T0201]: unknown identifier 'cnt' in 'inc()'
//	    --> Counter.java:4:5
//	    │
//	  4 │     cnt = cnt + 1;
//	    │     ^^^
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var b strings.Builder
	g := newGutter(err.Position.Line)

	b.WriteString(header(err.Level, err.Code, err.Message))
	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", strings.Repeat(" ", g.width), faint("-->"),
		er.filename, err.Position.Line, err.Position.Column)
	b.WriteString(g.blank() + "\n")
	er.writeExcerpt(&b, g, err)

	for i, s := range err.Suggestions {
		label := cyan("    ")
		if i == 0 {
			label = cyan("help") + " " + cyan("try") + ":"
		}
		fmt.Fprintf(&b, "%s %s %s\n", strings.Repeat(" ", g.width), label, s.Message)
	}
	for _, note := range err.Notes {
		fmt.Fprintf(&b, "%s %s %s\n", g.blank(), blue("note:"), note)
	}
	if err.HelpText != "" {
		fmt.Fprintf(&b, "%s %s %s\n", g.blank(), green("help:"), err.HelpText)
	}

	b.WriteString("\n")
	return b.String()
}

func header(level ErrorLevel, code, message string) string {
	if code == "" {
		return fmt.Sprintf("%s: %s\n", levelColor(level)(string(level)), message)
	}
	return fmt.Sprintf("%s[%s]: %s\n", levelColor(level)(string(level)), code, message)
}

// writeExcerpt writes the reported line between its neighbours. Lines outside
// the file are skipped.
func (er *ErrorReporter) writeExcerpt(b *strings.Builder, g gutter, err CompilerError) {
	line := err.Position.Line
	if er.hasLine(line - 1) {
		fmt.Fprintf(b, "%s %s\n", g.number(line-1, false), er.lines[line-2])
	}
	if er.hasLine(line) {
		fmt.Fprintf(b, "%s %s\n", g.number(line, true), er.lines[line-1])
		fmt.Fprintf(b, "%s %s\n", g.blank(), er.createMarker(err.Position.Column, err.Length, err.Level))
	}
	if er.hasLine(line + 1) {
		fmt.Fprintf(b, "%s %s\n", g.number(line+1, false), er.lines[line])
	}
}

func (er *ErrorReporter) hasLine(n int) bool {
	return n > 0 && n <= len(er.lines)
}

// createMarker underlines length columns starting at column
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if level != Warning {
		level = Error
	}
	return strings.Repeat(" ", max(0, column-1)) + levelColor(level)(strings.Repeat("^", max(1, length)))
}

// Describe formats any pipeline error. Translation and annotation errors
// positioned inside the reporter's file get the full source excerpt; the rest
// get a header line with the error category.
func (er *ErrorReporter) Describe(err error) string {
	var te *TranslationError
	if As(err, &te) && te.Position.Line > 0 && te.Position.Filename == er.filename {
		return er.FormatError(Translation(te, nil))
	}
	var ae *AnnotationError
	if As(err, &ae) && ae.Position.Line > 0 && ae.Position.Filename == er.filename {
		return er.FormatError(AnnotationSyntax(ae.Text, ae.Message, ae.Position))
	}

	code := CodeOf(err)
	if code == "" {
		return header(Error, "", err.Error())
	}
	return header(Error, code, err.Error()) +
		fmt.Sprintf("    %s %s\n", faint("="), faint(GetErrorCategory(code)+": "+GetErrorDescription(code)))
}
