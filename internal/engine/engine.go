// Package engine hands assembled specifications to the external bounded model
// finder. The model finder itself is not part of taco; an Engine only receives
// the written artifact and reports what became of it.
package engine

import (
	"context"

	"github.com/tliron/commonlog"

	"taco/internal/alloy"
)

var log = commonlog.GetLogger("taco.engine")

// Verdict is the result of analyzing a specification.
type Verdict int

const (
	// Unknown means the engine did not analyze the specification.
	Unknown Verdict = iota
	// Valid means no counterexample exists within the scopes.
	Valid
	// Counterexample means the check failed within the scopes.
	Counterexample
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Counterexample:
		return "counterexample"
	}
	return "unknown"
}

// Outcome describes what an engine did with one specification.
type Outcome struct {
	Name    string
	Path    string
	Verdict Verdict
}

// Engine receives a written specification. Ownership of the specification
// passes to the engine.
type Engine interface {
	Analyze(ctx context.Context, spec *alloy.Specification) (*Outcome, error)
}

// Recorder keeps every specification it receives without analyzing it.
type Recorder struct {
	Specifications []*alloy.Specification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Analyze(ctx context.Context, spec *alloy.Specification) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.Specifications = append(r.Specifications, spec)
	log.Debugf("recorded %s", spec.Path)
	return &Outcome{Name: spec.Name, Path: spec.Path, Verdict: Unknown}, nil
}

// Noop accepts every specification and does nothing.
type Noop struct{}

func (Noop) Analyze(ctx context.Context, spec *alloy.Specification) (*Outcome, error) {
	return &Outcome{Name: spec.Name, Path: spec.Path, Verdict: Unknown}, ctx.Err()
}
