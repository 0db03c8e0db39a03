package jdyn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/slices"

	"taco/internal/errors"
)

var log = commonlog.GetLogger("taco.jdyn")

// Extension of the intermediate module text files.
const Extension = ".dj"

// RoundTrip prints every module and parses it back, returning the parsed
// modules. When dir is not empty the text is also written to <dir>/<id>.dj.
// A module that does not parse back into the same identifiers fails the stage.
func RoundTrip(modules []*Module, dir string) ([]*Module, error) {
	out := make([]*Module, 0, len(modules))
	for _, m := range modules {
		text := Print(m)
		filename := m.ID + Extension

		if dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.NewIOError("create", dir, err)
			}
			path := filepath.Join(dir, filename)
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return nil, errors.NewIOError("write", path, err)
			}
			log.Debugf("wrote %s", path)
		}

		parsed, err := Parse(filename, text)
		if err != nil {
			return nil, errors.RoundTripFailure(m.ID, err.Error())
		}
		if err := SameIdentifiers(m, parsed); err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	log.Infof("round trip of %d modules", len(out))
	return out, nil
}

// SameIdentifiers checks that two modules share their id and their predicate
// and program identifier sets.
func SameIdentifiers(want, got *Module) error {
	if want.ID != got.ID {
		return errors.RoundTripFailure(want.ID, fmt.Sprintf("module id became '%s'", got.ID))
	}
	if !sameSet(predicateNames(want), predicateNames(got)) {
		return errors.RoundTripFailure(want.ID, fmt.Sprintf("predicates %v became %v", predicateNames(want), predicateNames(got)))
	}
	if !sameSet(programIDs(want), programIDs(got)) {
		return errors.RoundTripFailure(want.ID, fmt.Sprintf("programs %v became %v", programIDs(want), programIDs(got)))
	}
	return nil
}

func predicateNames(m *Module) []string {
	names := make([]string, len(m.Predicates))
	for i, p := range m.Predicates {
		names[i] = p.Name
	}
	return names
}

func programIDs(m *Module) []string {
	ids := make([]string, len(m.Programs))
	for i, p := range m.Programs {
		ids[i] = p.ID
	}
	return ids
}

func sameSet(a, b []string) bool {
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(slices.Compact(a), slices.Compact(b))
}
