// Package synth turns the specification generated for the synthetic
// generateInvariant entry point of a class into a standalone query that
// enumerates the instances satisfying the class invariant.
//
// The rewrite works on the shape the alloy printer emits: the precondition
// fact, its bracketed argument list, the scope of the check command and the
// check command itself are located through the markers both packages share.
package synth

import (
	"os"
	"strings"

	"github.com/tliron/commonlog"

	"taco/internal/alloy"
	"taco/internal/config"
	"taco/internal/errors"
	"taco/internal/lowering"
)

var log = commonlog.GetLogger("taco.synth")

// Extension of synthesized invariant queries.
const Extension = ".inv"

// Synthesizer rewrites generated specifications into invariant queries.
type Synthesizer struct{}

func New() *Synthesizer {
	return &Synthesizer{}
}

// Synthesize reads the specification at path, writes the invariant query to
// the same name with the invariant extension and removes path. It returns the
// path of the query. No file is written when a marker is missing.
func (s *Synthesizer) Synthesize(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError("read", path, err)
	}

	text, err := Rewrite(string(data))
	if err != nil {
		var serr *errors.SynthesisError
		if errors.As(err, &serr) {
			serr.Path = path
		}
		return "", err
	}

	out := strings.TrimSuffix(path, alloy.Extension) + Extension
	if err := os.WriteFile(out, []byte(text), 0644); err != nil {
		return "", errors.NewIOError("write", out, err)
	}
	if err := os.Remove(path); err != nil {
		return "", errors.NewIOError("remove", path, err)
	}
	log.Infof("synthesized invariant query %s", out)
	return out, nil
}

// Rewrite applies the invariant query rewrite to a specification text.
func Rewrite(text string) (string, error) {
	text, err := collapseFact(text)
	if err != nil {
		return "", err
	}
	text, end, err := runInvariant(text)
	if err != nil {
		return "", err
	}
	text, err = injectScope(text, end)
	if err != nil {
		return "", err
	}
	return dropCheck(text, end)
}

// collapseFact joins every fact keyword with the line that follows it.
func collapseFact(text string) (string, error) {
	if !strings.Contains(text, alloy.FactMarker) {
		return "", &errors.SynthesisError{Marker: alloy.FactMarker}
	}
	return strings.ReplaceAll(text, alloy.FactMarker+"\n", alloy.FactMarker), nil
}

// runInvariant replaces the precondition fact of the generateInvariant entry
// point with a run of the object invariant over the same arguments, minus the
// exception state. It returns the new text and the offset just past the
// closing bracket of the call.
func runInvariant(text string) (string, int, error) {
	suffix := "_" + config.GenerateInvariantMethod
	marker := alloy.PreconditionPrefix + "<Type>" + suffix

	for from := 0; ; {
		i := strings.Index(text[from:], alloy.FactMarker)
		if i < 0 {
			return "", 0, &errors.SynthesisError{Marker: marker}
		}
		fact := from + i
		from = fact + len(alloy.FactMarker)

		name := from + len(text[from:]) - len(strings.TrimLeft(text[from:], " "))
		open := strings.IndexByte(text[name:], '[')
		if open < 0 {
			continue
		}
		open += name
		pred := text[name:open]
		if !strings.HasPrefix(pred, alloy.PreconditionPrefix) || !strings.HasSuffix(pred, suffix) {
			continue
		}
		typ := strings.TrimSuffix(strings.TrimPrefix(pred, alloy.PreconditionPrefix), suffix)

		end := closing(text, open)
		if end < 0 {
			return "", 0, &errors.SynthesisError{Marker: "]"}
		}
		args := withoutThrows(splitArgs(text[open+1 : end]))
		call := lowering.InvariantName(typ) + "[" + strings.Join(args, ",") + "]"

		head := text[:fact] + alloy.RunMarker + text[fact+len(alloy.FactMarker):name] + call
		log.Debugf("running %s with %d arguments", lowering.InvariantName(typ), len(args))
		return head + text[end+1:], len(head), nil
	}
}

// closing returns the offset of the bracket closing the one at open, or -1.
func closing(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitArgs splits an argument list at its top-level commas.
func splitArgs(list string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, list[start:i])
				start = i + 1
			}
		}
	}
	if rest := list[start:]; strings.TrimSpace(rest) != "" || len(args) > 0 {
		args = append(args, rest)
	}
	return args
}

func withoutThrows(args []string) []string {
	kept := make([]string, 0, len(args))
	for _, arg := range args {
		a := strings.TrimLeft(strings.TrimSpace(arg), "(")
		if strings.HasPrefix(a, alloy.ThrowArgPrefix) || strings.TrimSpace(arg) == "" {
			continue
		}
		kept = append(kept, arg)
	}
	return kept
}

// injectScope copies the scope of the check command after the closing brace
// of the run block that starts before offset from.
func injectScope(text string, from int) (string, error) {
	i := strings.Index(text[from:], alloy.ScopeMarker)
	if i < 0 {
		return "", &errors.SynthesisError{Marker: alloy.ScopeMarker}
	}
	scope := text[from+i:]
	if eol := strings.IndexByte(scope, '\n'); eol >= 0 {
		scope = scope[:eol]
	}
	scope = strings.TrimRight(scope, "\r ")

	brace := strings.IndexByte(text[from:], '}')
	if brace < 0 {
		return "", &errors.SynthesisError{Marker: "}"}
	}
	brace += from + 1
	return text[:brace] + " " + scope + text[brace:], nil
}

// dropCheck removes the check command line after offset from.
func dropCheck(text string, from int) (string, error) {
	i := strings.Index(text[from:], alloy.CheckMarker)
	if i < 0 {
		return "", &errors.SynthesisError{Marker: alloy.CheckMarker}
	}
	start := from + i
	end := len(text)
	if eol := strings.IndexByte(text[start:], '\n'); eol >= 0 {
		end = start + eol + 1
	}
	return text[:start] + text[end:], nil
}
