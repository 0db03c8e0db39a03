package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	tacoerrors "taco/internal/errors"
)

// GenerateInvariantMethod is the synthetic zero-argument entry point whose
// precondition is turned into a standalone object invariant query.
const GenerateInvariantMethod = "generateInvariant"

// Config is the run-scoped configuration of one translation pass. Values are
// copied, never shared, between the check pass and the invariant pass.
type Config struct {
	// ClassToCheck is the (optionally package-qualified) class containing the method under analysis.
	ClassToCheck string `yaml:"classToCheck"`

	// MethodToCheck names the method under analysis, either "name", "name(types)" or "name_<overload>".
	MethodToCheck string `yaml:"methodToCheck"`

	// RelevantClasses restricts translation to these classes. The class to check is always relevant.
	// An empty list makes every class relevant.
	RelevantClasses []string `yaml:"relevantClasses"`

	// BitWidth is the integer bit width handed to the model finder.
	BitWidth int `yaml:"bitwidth"`

	// ObjectScope bounds the number of atoms of every relevant class.
	ObjectScope int `yaml:"objectScope"`

	// TypeScopes overrides ObjectScope per type, written as "A:1,B:15".
	TypeScopes string `yaml:"typeScopes"`

	// LoopUnroll is the number of times every loop is unrolled.
	LoopUnroll int `yaml:"loopUnroll"`

	// RemoveQuantifiers skolemizes top-level existentials of preconditions and
	// top-level universals of postconditions.
	RemoveQuantifiers bool `yaml:"removeQuantifiers"`

	// UseJavaArithmetic selects host-native arithmetic predicates instead of
	// unbounded integer functions.
	UseJavaArithmetic bool `yaml:"useJavaArithmetic"`

	// OutputDir receives the generated artifacts.
	OutputDir string `yaml:"outputDir"`

	// KeepIntermediate writes the intermediate module text of every pass next to the artifacts.
	KeepIntermediate bool `yaml:"keepIntermediate"`
}

// ReadFromFile reads a YAML-serialized Config on top of the defaults.
func ReadFromFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, tacoerrors.NewIOError("read", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// WriteToFile writes the Config to a provided file path in YAML form.
func (c *Config) WriteToFile(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return tacoerrors.NewIOError("write", path, err)
	}
	return nil
}

// Validate validates that the Config meets the requirements of a run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ClassToCheck) == "" {
		return &tacoerrors.ConfigurationError{Key: "classToCheck"}
	}
	if strings.TrimSpace(c.MethodToCheck) == "" {
		return &tacoerrors.ConfigurationError{Key: "methodToCheck"}
	}
	if c.BitWidth <= 0 || c.BitWidth > 32 {
		return &tacoerrors.ConfigurationError{Key: "bitwidth", Message: "must be between 1 and 32"}
	}
	if c.ObjectScope < 0 {
		return &tacoerrors.ConfigurationError{Key: "objectScope", Message: "must not be negative"}
	}
	if c.LoopUnroll < 0 {
		return &tacoerrors.ConfigurationError{Key: "loopUnroll", Message: "must not be negative"}
	}
	if _, err := ParseTypeScopes(c.TypeScopes); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.RelevantClasses = slices.Clone(c.RelevantClasses)
	return &clone
}

// ForPass returns a snapshot of the Config with the method to check replaced.
func (c *Config) ForPass(method string) *Config {
	clone := c.Clone()
	clone.MethodToCheck = method
	return clone
}

// IsGenerateInvariant reports whether the Config targets the synthetic invariant entry point.
func (c *Config) IsGenerateInvariant() bool {
	base, _ := SplitMethod(NormalizeMethod(c.MethodToCheck))
	return base == GenerateInvariantMethod
}

// IsRelevant reports whether a class, given by qualified name, takes part in the run.
func (c *Config) IsRelevant(qualified string) bool {
	if SameClass(qualified, c.ClassToCheck) {
		return true
	}
	if len(c.RelevantClasses) == 0 {
		return true
	}
	return slices.ContainsFunc(c.RelevantClasses, func(name string) bool {
		return SameClass(qualified, name)
	})
}

// ScopeFor returns the atom bound of a type, honouring TypeScopes. An entry
// spelling the type in full wins over an unqualified one; among unqualified
// entries the first in sorted order wins.
func (c *Config) ScopeFor(typeName string) int {
	scopes, err := ParseTypeScopes(c.TypeScopes)
	if err != nil {
		return c.ObjectScope
	}
	names := c.ScopedTypes()
	for _, name := range names {
		if SanitizeName(name) == SanitizeName(typeName) {
			return scopes[name]
		}
	}
	for _, name := range names {
		if SameClass(typeName, name) {
			return scopes[name]
		}
	}
	return c.ObjectScope
}

// ScopedTypes returns the types named in TypeScopes, sorted.
func (c *Config) ScopedTypes() []string {
	scopes, err := ParseTypeScopes(c.TypeScopes)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(scopes))
	for name := range scopes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var overloadSuffix = regexp.MustCompile(`^[A-Za-z0-9_$-]+_[0-9]+$`)

// NormalizeMethod strips a parameter list and appends the "_0" overload
// suffix when none is present: "add(int)" and "add" become "add_0". The
// parameter list itself selects an overload only where lowered programs are
// known, see lowering.Context.Target.
func NormalizeMethod(method string) string {
	method = strings.TrimSpace(method)
	if i := strings.Index(method, "("); i >= 0 {
		method = method[:i]
	}
	if !overloadSuffix.MatchString(method) {
		method += "_0"
	}
	return method
}

// SplitMethod splits a normalized method into its base name and overload index.
func SplitMethod(normalized string) (string, int) {
	i := strings.LastIndex(normalized, "_")
	if i < 0 {
		return normalized, 0
	}
	n, err := strconv.Atoi(normalized[i+1:])
	if err != nil {
		return normalized, 0
	}
	return normalized[:i], n
}

// ParseTypeScopes parses "A:1,B:15" into a map.
func ParseTypeScopes(spec string) (map[string]int, error) {
	scopes := map[string]int{}
	if strings.TrimSpace(spec) == "" {
		return scopes, nil
	}
	for _, entry := range strings.Split(spec, ",") {
		name, bound, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, &tacoerrors.ConfigurationError{Key: "typeScopes", Message: "entry '" + entry + "' is not of the form Type:bound"}
		}
		n, err := strconv.Atoi(strings.TrimSpace(bound))
		if err != nil || n < 0 {
			return nil, &tacoerrors.ConfigurationError{Key: "typeScopes", Message: "bound of '" + name + "' is not a non-negative integer"}
		}
		scopes[strings.TrimSpace(name)] = n
	}
	return scopes, nil
}

// SanitizeName turns a qualified host name into a relational identifier.
func SanitizeName(qualified string) string {
	return strings.ReplaceAll(qualified, ".", "_")
}

// SameClass compares a qualified class name against a possibly unqualified one.
func SameClass(qualified, name string) bool {
	if qualified == name || SanitizeName(qualified) == name {
		return true
	}
	if strings.Contains(name, ".") {
		return false
	}
	return qualified[strings.LastIndex(qualified, ".")+1:] == name
}
