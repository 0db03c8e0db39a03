// Package pipeline runs the translation passes of one invocation: the check of
// the configured method, then the pass over the synthetic generateInvariant
// entry point whose artifact is rewritten into the object invariant query.
package pipeline

import (
	"context"

	"github.com/tliron/commonlog"

	"taco/internal/alloy"
	"taco/internal/arith"
	"taco/internal/assertion"
	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/dyn"
	"taco/internal/engine"
	"taco/internal/errors"
	"taco/internal/jdyn"
	"taco/internal/lowering"
	"taco/internal/relational"
	"taco/internal/synth"
)

var log = commonlog.GetLogger("taco.pipeline")

// State is the progress of a pass.
type State int

const (
	Idle State = iota
	FrontEndLowered
	AssertionsMerged
	RoundTripped
	RelationallyLowered
	Assembled
	CheckComplete
	InvariantSynthesized
	Failed
)

var stateNames = map[State]string{
	Idle:                 "idle",
	FrontEndLowered:      "front end lowered",
	AssertionsMerged:     "assertions merged",
	RoundTripped:         "round tripped",
	RelationallyLowered:  "relationally lowered",
	Assembled:            "assembled",
	CheckComplete:        "check complete",
	InvariantSynthesized: "invariant synthesized",
	Failed:               "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Pass records one run of the stages.
type Pass struct {
	Method string
	State  State
	// Err is the error that moved the pass to Failed.
	Err error

	ModuleID  string
	ProgramID string

	// Diagnostics holds one warning per unit that was skipped.
	Diagnostics   []errors.CompilerError
	Modules       []*dyn.Module
	Index         *arith.Index
	Specification *alloy.Specification
	Outcome       *engine.Outcome
}

func (p *Pass) advance(state State) {
	p.State = state
	log.Debugf("%s: %s", p.Method, state)
}

func (p *Pass) fail(err error) error {
	p.State = Failed
	p.Err = err
	log.Errorf("%s: %s", p.Method, err)
	return err
}

// Result is the outcome of Run.
type Result struct {
	Check     *Pass
	Invariant *Pass
	// InvariantPath is the written invariant query, empty when synthesis failed.
	InvariantPath string
}

// Orchestrator sequences the stages of every pass.
type Orchestrator struct {
	engine      engine.Engine
	synthesizer *synth.Synthesizer
}

func New(e engine.Engine) *Orchestrator {
	if e == nil {
		e = engine.Noop{}
	}
	return &Orchestrator{engine: e, synthesizer: synth.New()}
}

// Run validates cfg and runs both passes over units. Each pass works on its
// own snapshot of cfg. A failed check pass prevents the invariant pass; a
// failed synthesis leaves the check artifact in place. The returned Result is
// never nil.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Config, units []*ast.Class) (*Result, error) {
	result := &Result{}
	if err := cfg.Validate(); err != nil {
		return result, err
	}

	result.Check = o.pass(ctx, cfg.Clone(), units, true)
	if result.Check.Err != nil {
		return result, result.Check.Err
	}

	inv := o.pass(ctx, cfg.ForPass(config.GenerateInvariantMethod), units, false)
	result.Invariant = inv
	if inv.Err != nil {
		return result, inv.Err
	}

	path, err := o.synthesizer.Synthesize(inv.Specification.Path)
	if err != nil {
		return result, inv.fail(err)
	}
	result.InvariantPath = path
	inv.advance(InvariantSynthesized)
	return result, nil
}

// pass runs the stages once. Only the check pass hands its specification
// to the engine.
func (o *Orchestrator) pass(ctx context.Context, cfg *config.Config, units []*ast.Class, analyze bool) *Pass {
	p := &Pass{Method: config.NormalizeMethod(cfg.MethodToCheck)}
	log.Infof("pass %s of %s", p.Method, cfg.ClassToCheck)

	extractor := arith.NewExtractor()
	modules, lctx, err := lowering.NewStage(cfg, extractor).Lower(units)
	if lctx != nil {
		p.Diagnostics = lctx.Diagnostics()
	}
	if err != nil {
		p.fail(err)
		return p
	}
	if p.ModuleID, p.ProgramID, err = lctx.Target(cfg); err != nil {
		p.fail(err)
		return p
	}
	p.advance(FrontEndLowered)

	modules, err = assertion.NewStage(cfg, extractor).Merge(modules, units, lctx)
	p.Diagnostics = lctx.Diagnostics()
	if err != nil {
		p.fail(err)
		return p
	}
	p.advance(AssertionsMerged)

	dir := ""
	if cfg.KeepIntermediate {
		dir = cfg.OutputDir
	}
	if modules, err = jdyn.RoundTrip(modules, dir); err != nil {
		p.fail(err)
		return p
	}
	p.advance(RoundTripped)

	if p.Modules, err = relational.NewStage(cfg).Lower(modules); err != nil {
		p.fail(err)
		return p
	}
	p.Index = arith.Collect(p.Modules)
	p.advance(RelationallyLowered)

	stage := alloy.NewStage(cfg)
	spec, err := stage.Assemble(p.Modules, p.Index, p.ModuleID, p.ProgramID)
	if err != nil {
		p.fail(err)
		return p
	}
	if err := stage.Write(spec); err != nil {
		p.fail(err)
		return p
	}
	p.Specification = spec
	p.advance(Assembled)

	if analyze {
		if p.Outcome, err = o.engine.Analyze(ctx, spec); err != nil {
			p.fail(err)
			return p
		}
		p.advance(CheckComplete)
	}
	return p
}
