// Package relational lowers intermediate modules to their relational form:
// arithmetic in the configured arithmetic mode, bodies flattened so that every
// arithmetic operation is its own statement, and postconditions over primed
// post-state names.
package relational

import (
	"github.com/tliron/commonlog"
	"golang.org/x/exp/slices"

	"taco/internal/config"
	"taco/internal/dyn"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

var log = commonlog.GetLogger("taco.relational")

const (
	// ThrowVar holds the exception thrown by a program, null when none was.
	ThrowVar = "throw"
	// ResultVar holds the value returned by a program.
	ResultVar = "return"
	// ThisVar is the receiver of every program.
	ThisVar = "thiz"

	TempPrefix   = "t_"
	SkolemPrefix = "sk_"
)

// Prime returns the post-state name of a state variable.
func Prime(name string) string { return name + "'" }

// Stage lowers the modules of one pass.
type Stage struct {
	cfg *config.Config
}

func NewStage(cfg *config.Config) *Stage {
	return &Stage{cfg: cfg}
}

// Lower translates every module. The first out-of-range literal or malformed
// statement fails the stage.
func (s *Stage) Lower(modules []*jdyn.Module) ([]*dyn.Module, error) {
	mode := "unbounded"
	if s.cfg.UseJavaArithmetic {
		mode = "java"
	}
	log.Infof("relational lowering of %d modules with %s arithmetic", len(modules), mode)

	state := map[string]bool{ResultVar: true, ThrowVar: true}
	for _, m := range modules {
		for _, f := range m.Fields {
			state[f.Name] = true
		}
	}

	out := make([]*dyn.Module, 0, len(modules))
	for _, m := range modules {
		dm, err := s.lowerModule(m, state)
		if err != nil {
			return nil, err
		}
		out = append(out, dm)
	}
	return out, nil
}

func (s *Stage) lowerModule(m *jdyn.Module, state map[string]bool) (*dyn.Module, error) {
	inv := m.Predicate(m.Invariant)
	if inv == nil {
		inv = &jdyn.Predicate{
			Name:   m.Invariant,
			Params: []jdyn.Var{{Name: ThisVar, Type: jdyn.Ref(m.ID)}},
			Body:   formula.True(),
		}
	}

	l := s.newLowerer(m.Invariant, state)
	dm := &dyn.Module{
		ID:     m.ID,
		Class:  m.Class,
		Fields: slices.Clone(m.Fields),
		Invariant: &jdyn.Predicate{
			Name:   inv.Name,
			Params: slices.Clone(inv.Params),
			Body:   l.contract(inv.Body, false),
		},
		ArithVars: slices.Clone(m.ArithVars),
	}
	for _, p := range m.ArithPreds {
		dm.ArithPreds = append(dm.ArithPreds, l.arithPred(p))
	}
	if l.err != nil {
		return nil, l.err
	}

	for _, p := range m.Programs {
		dp, err := s.lowerProgram(m, p, state)
		if err != nil {
			return nil, err
		}
		dm.Programs = append(dm.Programs, dp)
	}
	return dm, nil
}

func (s *Stage) lowerProgram(m *jdyn.Module, p *jdyn.Program, state map[string]bool) (*dyn.Program, error) {
	l := s.newLowerer(p.ID, state)
	dp := &dyn.Program{
		ID:        p.ID,
		Module:    m.ID,
		Method:    p.Method,
		Overload:  p.Overload,
		Params:    slices.Clone(p.Params),
		Locals:    slices.Clone(p.Locals),
		Returns:   p.Returns,
		ArithVars: slices.Clone(p.ArithVars),
	}
	l.program = dp

	pre, post := p.Requires, p.Ensures
	if s.cfg.RemoveQuantifiers {
		pre = l.skolemize(pre, "some")
		post = l.skolemize(post, "all")
	}
	dp.Pre = l.contract(pre, false)
	dp.Post = l.contract(post, true)
	for _, ap := range p.ArithPreds {
		dp.ArithPreds = append(dp.ArithPreds, l.arithPred(ap))
	}
	dp.Body = l.block(p.Body)
	if l.err != nil {
		return nil, l.err
	}

	log.Debugf("lowered program %s with %d temporaries and %d skolem constants", p.ID, l.temps, len(dp.Skolems))
	return dp, nil
}
