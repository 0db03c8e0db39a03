package jdyn

import (
	"fmt"
	"strings"

	"taco/internal/formula"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	default:
		return t.Class
	}
}

func (v Var) String() string {
	return v.Name + ": " + v.Type.String()
}

func vars(vs []Var) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Print renders a module in the canonical text form read back by Parse.
func Print(m *Module) string {
	return m.String()
}

func (m *Module) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s class %s {\n", m.ID, m.Class)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "%sfield %s: %s;\n", indent(1), f.Name, f.Type)
	}
	for _, p := range m.Predicates {
		b.WriteString(p.StringWithIndent(1))
	}
	if m.Invariant != "" {
		fmt.Fprintf(&b, "%sinvariant %s;\n", indent(1), m.Invariant)
	}
	writeArith(&b, 1, m.ArithVars, m.ArithPreds)
	for _, p := range m.Programs {
		b.WriteString(p.StringWithIndent(1))
	}
	b.WriteString("}\n")
	return b.String()
}

func writeArith(b *strings.Builder, level int, vs []ArithVar, ps []ArithPred) {
	for _, v := range vs {
		fmt.Fprintf(b, "%sarithvar %s %s;\n", indent(level), v.Origin, v.Name)
	}
	for _, p := range ps {
		fmt.Fprintf(b, "%sarithpred %s %s;\n", indent(level), p.Origin, p.Formula)
	}
}

func (p *Predicate) StringWithIndent(level int) string {
	return fmt.Sprintf("%spred %s[%s] {\n%s%s\n%s}\n",
		indent(level), p.Name, vars(p.Params), indent(level+1), p.Body, indent(level))
}

func (p *Program) StringWithIndent(level int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sprogram %s[%s]", indent(level), p.ID, vars(p.Params))
	if p.Returns != nil {
		fmt.Fprintf(&b, " returns %s", p.Returns)
	}
	b.WriteString(" {\n")
	for _, v := range p.Locals {
		fmt.Fprintf(&b, "%svar %s;\n", indent(level+1), v)
	}
	fmt.Fprintf(&b, "%srequires { %s }\n", indent(level+1), orTrue(p.Requires))
	fmt.Fprintf(&b, "%sensures { %s }\n", indent(level+1), orTrue(p.Ensures))
	writeArith(&b, level+1, p.ArithVars, p.ArithPreds)
	fmt.Fprintf(&b, "%sbody {\n", indent(level+1))
	writeStmts(&b, level+2, p.Body)
	fmt.Fprintf(&b, "%s}\n", indent(level+1))
	fmt.Fprintf(&b, "%s}\n", indent(level))
	return b.String()
}

func orTrue(e formula.Expr) formula.Expr {
	if e == nil {
		return formula.True()
	}
	return e
}

func writeStmts(b *strings.Builder, level int, stmts []Stmt) {
	for _, s := range stmts {
		writeStmt(b, level, s)
	}
}

func writeStmt(b *strings.Builder, level int, s Stmt) {
	in := indent(level)
	switch s := s.(type) {
	case *Assign:
		fmt.Fprintf(b, "%s%s := %s;\n", in, s.Target, s.Value)
	case *If:
		fmt.Fprintf(b, "%sif %s {\n", in, s.Cond)
		writeStmts(b, level+1, s.Then)
		if len(s.Else) > 0 {
			fmt.Fprintf(b, "%s} else {\n", in)
			writeStmts(b, level+1, s.Else)
		}
		fmt.Fprintf(b, "%s}\n", in)
	case *While:
		fmt.Fprintf(b, "%swhile %s", in, s.Cond)
		if s.Invariant != nil {
			fmt.Fprintf(b, " invariant { %s }", s.Invariant)
		}
		if s.Variant != nil {
			fmt.Fprintf(b, " decreases { %s }", s.Variant)
		}
		b.WriteString(" {\n")
		writeStmts(b, level+1, s.Body)
		fmt.Fprintf(b, "%s}\n", in)
	case *Assert:
		fmt.Fprintf(b, "%sassert %s;\n", in, s.Cond)
	case *Assume:
		fmt.Fprintf(b, "%sassume %s;\n", in, s.Cond)
	case *Return:
		if s.Value == nil {
			fmt.Fprintf(b, "%sreturn;\n", in)
		} else {
			fmt.Fprintf(b, "%sreturn %s;\n", in, s.Value)
		}
	case *Throw:
		fmt.Fprintf(b, "%sthrow %s;\n", in, s.Exception)
	}
}
