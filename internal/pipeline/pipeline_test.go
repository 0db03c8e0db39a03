package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/engine"
	"taco/internal/errors"
	"taco/internal/parser"
)

const counterSource = `package examples;

class Counter {
    int count;

    invariant count >= 0;

    requires x > 0 && count + x < 7;
    ensures count == \old(count) + x;
    void add(int x) {
        if (x > 1) {
            int step = x - 1;
            count = count + step;
        } else {
            int step = 0;
            count = count + step;
        }
        count = count + 1;
    }
}
`

const loggerSource = `
class Logger {
    int level;

    void log() {
        String message = "started";
    }
}
`

func parseUnits(t *testing.T, source string) []*ast.Class {
	t.Helper()
	classes, parseErrors, scanErrors := parser.ParseSource("Counter.java", source)
	require.Empty(t, scanErrors)
	require.Empty(t, parseErrors)
	return classes
}

func testConfig(t *testing.T, class, method string) *config.Config {
	cfg := config.Default()
	cfg.ClassToCheck = class
	cfg.MethodToCheck = method
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunBothPasses(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")
	recorder := engine.NewRecorder()

	result, err := New(recorder).Run(context.Background(), cfg, parseUnits(t, counterSource))
	require.NoError(t, err)

	assert.Equal(t, CheckComplete, result.Check.State)
	assert.Equal(t, "examples_Counter", result.Check.ModuleID)
	assert.Equal(t, "examples_Counter_add_0", result.Check.ProgramID)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "examples_Counter_add_0.als"))

	require.NotNil(t, result.Invariant)
	assert.Equal(t, InvariantSynthesized, result.Invariant.State)
	assert.Equal(t, "generateInvariant_0", result.Invariant.Method)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "examples_Counter_generateInvariant_0.inv"), result.InvariantPath)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "examples_Counter_generateInvariant_0.als"))

	require.Len(t, recorder.Specifications, 1, "only the check pass reaches the engine")
	assert.Equal(t, "examples_Counter_add_0", recorder.Specifications[0].Name)
	assert.Equal(t, "add", cfg.MethodToCheck, "passes work on snapshots")

	query, err := os.ReadFile(result.InvariantPath)
	require.NoError(t, err)
	assert.Contains(t, string(query), "run {  examples_Counter_object_invariant[QF.thiz_0,QF.examples_Counter_count_0]\n} for 0 but 3 examples_Counter, 4 int\n")
	assert.NotContains(t, string(query), "check check")
}

func TestNestedBlocksAndArithmeticIndex(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource))
	require.NoError(t, err)

	pass := result.Check
	program := pass.Modules[0].Program(pass.ProgramID)
	require.NotNil(t, program)

	var steps []string
	for _, l := range program.Locals {
		if strings.HasSuffix(l.Name, "_step") {
			steps = append(steps, l.Name)
		}
	}
	require.Len(t, steps, 2)
	assert.NotEqual(t, steps[0], steps[1])

	entry, err := pass.Index.LookupProgram(pass.ProgramID)
	require.NoError(t, err)
	require.Len(t, entry.Names(), 2)
	contracts := program.Pre.String() + program.Post.String()
	for _, name := range entry.Names() {
		assert.True(t, strings.HasPrefix(name, "arith_"))
		assert.Contains(t, contracts, name)
	}
	for _, f := range entry.Formulas() {
		assert.NotContains(t, f.String(), "step")
	}

	moduleEntry, err := pass.Index.LookupModule(pass.ModuleID)
	require.NoError(t, err)
	assert.Empty(t, moduleEntry.Names())
}

func TestKeepIntermediate(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")
	cfg.KeepIntermediate = true

	_, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.OutputDir, "examples_Counter.dj"))
}

func TestSkippedUnitsAreReported(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource+loggerSource))
	require.NoError(t, err)
	require.Len(t, result.Check.Diagnostics, 1)
	assert.Contains(t, result.Check.Diagnostics[0].Message, "Logger")
	assert.Len(t, result.Check.Modules, 1)
}

const otherSource = `
@Invariant("value >= (")
class Other {
    int value;
}
`

func TestMalformedAnnotationSkipsUnit(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource+otherSource))
	require.NoError(t, err)
	assert.Equal(t, InvariantSynthesized, result.Invariant.State)

	require.Len(t, result.Check.Diagnostics, 1)
	assert.Contains(t, result.Check.Diagnostics[0].Message, "Other")
	assert.Contains(t, result.Check.Diagnostics[0].Notes[0], "value >= (")
	require.Len(t, result.Check.Modules, 1)
	assert.Equal(t, "examples_Counter", result.Check.Modules[0].ID)
	assert.NotContains(t, result.Check.Specification.Text, "Other")
}

func TestMalformedAnnotationOnTargetFails(t *testing.T) {
	cfg := testConfig(t, "Other", "generateInvariant")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, otherSource))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorAnnotationSyntax, errors.CodeOf(err))
	assert.Equal(t, Failed, result.Check.State)
	assert.Nil(t, result.Invariant)
}

const accountSource = `
class Account {
    int balance;

    requires one > 0 && in < 5;
    ensures balance == \old(balance) + one;
    void deposit(int one, int in, int set) {
        balance = balance + one;
    }
}
`

func TestReservedParameterNames(t *testing.T) {
	cfg := testConfig(t, "Account", "deposit")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, accountSource))
	require.NoError(t, err)

	program := result.Check.Modules[0].Programs[0]
	require.Len(t, program.Params, 3)
	for i, original := range []string{"one", "in", "set"} {
		assert.Regexp(t, `^var_\d+_`+original+`$`, program.Params[i].Name)
		assert.Contains(t, result.Check.Specification.Text, program.Params[i].Name)
	}
	assert.NotRegexp(t, `\b(one|in|set): `, result.Check.Specification.Text)
}

func TestCheckFailureStopsRun(t *testing.T) {
	cfg := testConfig(t, "Logger", "log")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, loggerSource))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorUnsupportedConstruct, errors.CodeOf(err))

	assert.Equal(t, Failed, result.Check.State)
	assert.Equal(t, err, result.Check.Err)
	assert.Nil(t, result.Invariant)

	entries, readErr := os.ReadDir(cfg.OutputDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no artifact is published on failure")
}

func TestMissingMethod(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "remove")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource))

	var notFound *errors.MethodNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, []string{"examples_Counter_add_0"}, notFound.Available)
	assert.Equal(t, Failed, result.Check.State)
}

func TestMissingClassToCheck(t *testing.T) {
	cfg := testConfig(t, "", "add")

	result, err := New(nil).Run(context.Background(), cfg, parseUnits(t, counterSource))

	var cerr *errors.ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "classToCheck", cerr.Key)
	assert.Nil(t, result.Check)
}

func TestEngineFailure(t *testing.T) {
	cfg := testConfig(t, "examples.Counter", "add")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(engine.NewRecorder()).Run(ctx, cfg, parseUnits(t, counterSource))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Failed, result.Check.State)
	assert.FileExists(t, result.Check.Specification.Path)
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "invariant synthesized", InvariantSynthesized.String())
	assert.Equal(t, "unknown", State(99).String())
}
