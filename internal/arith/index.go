package arith

import (
	"github.com/tliron/commonlog"
	"golang.org/x/exp/slices"

	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

var log = commonlog.GetLogger("taco.arith")

// Entry is the arithmetic side data of one program or module.
type Entry struct {
	Vars  []jdyn.ArithVar
	Preds []jdyn.ArithPred
}

// ForOrigin returns the part of the entry that came from one kind of clause.
func (e *Entry) ForOrigin(origin jdyn.Origin) *Entry {
	out := &Entry{}
	for _, v := range e.Vars {
		if v.Origin == origin {
			out.Vars = append(out.Vars, v)
		}
	}
	for _, p := range e.Preds {
		if p.Origin == origin {
			out.Preds = append(out.Preds, p)
		}
	}
	return out
}

// Names returns the variable names of the entry.
func (e *Entry) Names() []string {
	names := make([]string, len(e.Vars))
	for i, v := range e.Vars {
		names[i] = v.Name
	}
	return names
}

// Formulas returns the defining formulas of the entry.
func (e *Entry) Formulas() []formula.Expr {
	fs := make([]formula.Expr, len(e.Preds))
	for i, p := range e.Preds {
		fs[i] = p.Formula
	}
	return fs
}

// Index maps module ids and program ids to their side data.
type Index struct {
	Modules  map[string]*Entry
	Programs map[string]*Entry
}

func NewIndex() *Index {
	return &Index{Modules: map[string]*Entry{}, Programs: map[string]*Entry{}}
}

// Collect builds the index of lowered modules. Every module and program gets
// an entry, empty when it has no contract arithmetic.
func Collect(modules []*dyn.Module) *Index {
	idx := NewIndex()
	for _, m := range modules {
		idx.Modules[m.ID] = &Entry{Vars: slices.Clone(m.ArithVars), Preds: slices.Clone(m.ArithPreds)}
		for _, p := range m.Programs {
			idx.Programs[p.ID] = &Entry{Vars: slices.Clone(p.ArithVars), Preds: slices.Clone(p.ArithPreds)}
		}
	}
	log.Debugf("indexed %d modules and %d programs", len(idx.Modules), len(idx.Programs))
	return idx
}

// LookupModule returns the entry of a module. A missing entry is an AssemblyError.
func (i *Index) LookupModule(id string) (*Entry, error) {
	if e, ok := i.Modules[id]; ok {
		return e, nil
	}
	return nil, &errors.AssemblyError{Kind: "module", ID: id}
}

// LookupProgram returns the entry of a program. A missing entry is an AssemblyError.
func (i *Index) LookupProgram(id string) (*Entry, error) {
	if e, ok := i.Programs[id]; ok {
		return e, nil
	}
	return nil, &errors.AssemblyError{Kind: "program", ID: id}
}

// Complete reports the first module or program of modules lacking an entry.
func (i *Index) Complete(modules []*dyn.Module) error {
	for _, m := range modules {
		if _, err := i.LookupModule(m.ID); err != nil {
			return err
		}
		for _, p := range m.Programs {
			if _, err := i.LookupProgram(p.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
