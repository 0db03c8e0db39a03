package dyn

import (
	"fmt"
	"strings"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func (s *Assign) String() string { return fmt.Sprintf("%s := %s", s.Target, s.Value) }

func (s *Update) String() string {
	return fmt.Sprintf("%s.%s := %s", s.Object, s.Field, s.Value)
}

func (s *Compute) String() string {
	args := make([]string, 0, len(s.Args)+1)
	for _, a := range s.Args {
		args = append(args, a.String())
	}
	args = append(args, s.Target)
	return fmt.Sprintf("%s[%s]", s.Pred, strings.Join(args, ","))
}

func (s *Assert) String() string { return "assert " + s.Cond.String() }

func (s *Assume) String() string { return "assume " + s.Cond.String() }

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

func (s *Throw) String() string { return "throw " + s.Exception }

func (s *Branch) String() string { return Format([]Stmt{s}) }

func (s *Loop) String() string { return Format([]Stmt{s}) }

// Format renders statements one per line, for logs and tests.
func Format(stmts []Stmt) string {
	var b strings.Builder
	format(&b, 0, stmts)
	return b.String()
}

func format(b *strings.Builder, level int, stmts []Stmt) {
	for _, s := range stmts {
		switch s := s.(type) {
		case *Branch:
			fmt.Fprintf(b, "%sif %s {\n", indent(level), s.Cond)
			format(b, level+1, s.Then)
			if len(s.Else) > 0 {
				fmt.Fprintf(b, "%s} else {\n", indent(level))
				format(b, level+1, s.Else)
			}
			fmt.Fprintf(b, "%s}\n", indent(level))
		case *Loop:
			if len(s.Prelude) > 0 {
				fmt.Fprintf(b, "%sprelude {\n", indent(level))
				format(b, level+1, s.Prelude)
				fmt.Fprintf(b, "%s}\n", indent(level))
			}
			fmt.Fprintf(b, "%swhile %s {\n", indent(level), s.Cond)
			format(b, level+1, s.Body)
			fmt.Fprintf(b, "%s}\n", indent(level))
		case fmt.Stringer:
			fmt.Fprintf(b, "%s%s\n", indent(level), s)
		}
	}
}
