package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taco/internal/alloy"
	"taco/internal/arith"
	"taco/internal/config"
	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

func TestRunInvariantStripsThrows(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "leading throws",
			input:    "fact {  precondition_T_generateInvariant[QF.throw_A,QF.throw_B,x>0]",
			expected: "run {  T_object_invariant[x>0]",
		},
		{
			name:     "no throws",
			input:    "fact {  precondition_T_generateInvariant[QF.thiz_0,x>0]",
			expected: "run {  T_object_invariant[QF.thiz_0,x>0]",
		},
		{
			name:     "trailing throw",
			input:    "fact {  precondition_T_generateInvariant[QF.thiz_0,QF.throw_1]",
			expected: "run {  T_object_invariant[QF.thiz_0]",
		},
		{
			name:     "parenthesized throw",
			input:    "fact {  precondition_T_generateInvariant[QF.thiz_0,(QF.throw_0),QF.f_0]",
			expected: "run {  T_object_invariant[QF.thiz_0,QF.f_0]",
		},
		{
			name:     "only throws",
			input:    "fact {  precondition_T_generateInvariant[QF.throw_0]",
			expected: "run {  T_object_invariant[]",
		},
		{
			name:     "nested brackets",
			input:    "fact {  precondition_T_generateInvariant[QF.throw_0,f[a,b],QF.x_0]\n}",
			expected: "run {  T_object_invariant[f[a,b],QF.x_0]\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, end, err := runInvariant(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, "QF.throw")
			assert.NotContains(t, got, ",]")
			assert.NotContains(t, got, ",,")
			assert.Equal(t, byte(']'), got[end-1])
		})
	}
}

func TestRunInvariantSkipsOtherFacts(t *testing.T) {
	input := "fact {  precondition_T_inc[QF.throw_0]\n}\nfact {  precondition_U_generateInvariant[QF.throw_0,QF.thiz_0]\n}\n"

	got, _, err := runInvariant(input)
	require.NoError(t, err)
	assert.Equal(t, "fact {  precondition_T_inc[QF.throw_0]\n}\nrun {  U_object_invariant[QF.thiz_0]\n}\n", got)
}

func TestScopeIsInjectedAfterRunBlock(t *testing.T) {
	input := "run {  T_object_invariant[x]\n}\n\ncheck check_T for 0 but 3 Object\n"

	got, err := injectScope(input, len("run {  T_object_invariant[x]"))
	require.NoError(t, err)
	assert.Equal(t, "run {  T_object_invariant[x]\n} for 0 but 3 Object\n\ncheck check_T for 0 but 3 Object\n", got)
}

func TestRewrite(t *testing.T) {
	input := "module T_generateInvariant_0\n\n" +
		"fact {\n  precondition_T_generateInvariant[QF.throw_0,QF.thiz_0,QF.T_f_0]\n}\n\n" +
		"assert check_T_generateInvariant_0 {\n  T_generateInvariant_0[QF.throw_0,QF.thiz_0,QF.T_f_0]\n}\n\n" +
		"check check_T_generateInvariant_0 for 0 but 3 T, 4 int\n"

	got, err := Rewrite(input)
	require.NoError(t, err)

	expected := "module T_generateInvariant_0\n\n" +
		"run {  T_object_invariant[QF.thiz_0,QF.T_f_0]\n} for 0 but 3 T, 4 int\n\n" +
		"assert check_T_generateInvariant_0 {\n  T_generateInvariant_0[QF.throw_0,QF.thiz_0,QF.T_f_0]\n}\n\n"
	assert.Equal(t, expected, got)
}

func TestRewriteMissingMarkers(t *testing.T) {
	complete := "fact {\n  precondition_T_generateInvariant[QF.throw_0,QF.thiz_0]\n}\n\ncheck check_T_generateInvariant_0 for 0 but 3 T, 4 int\n"

	tests := []struct {
		name   string
		input  string
		marker string
	}{
		{"no fact", "pred p[] {}\n", alloy.FactMarker},
		{"no generateInvariant precondition", "fact {\n  precondition_T_inc[QF.throw_0]\n}\n", "precondition_<Type>_generateInvariant"},
		{"unbalanced call", "fact {\n  precondition_T_generateInvariant[QF.throw_0\n", "]"},
		{"no scope", "fact {\n  precondition_T_generateInvariant[QF.thiz_0]\n}\n", alloy.ScopeMarker},
		{"no check", "fact {\n  precondition_T_generateInvariant[QF.thiz_0]\n}\nrun {} for 0 but 3 T\n", alloy.CheckMarker},
	}

	_, err := Rewrite(complete)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rewrite(tt.input)
			require.Error(t, err)

			var serr *errors.SynthesisError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.marker, serr.Marker)
			assert.Equal(t, errors.ErrorMissingMarker, errors.CodeOf(err))
		})
	}
}

func counterSpecification(t *testing.T, dir string) *alloy.Specification {
	t.Helper()
	program := &dyn.Program{
		ID:     "Counter_generateInvariant_0",
		Method: config.GenerateInvariantMethod,
		Pre:    formula.True(),
		Post:   formula.True(),
	}
	modules := []*dyn.Module{{
		ID:     "Counter",
		Class:  "Counter",
		Fields: []jdyn.Field{{Name: "Counter_count", Type: jdyn.Int}},
		Invariant: &jdyn.Predicate{
			Name:   "Counter_object_invariant",
			Params: []jdyn.Var{{Name: "thiz", Type: jdyn.Ref("Counter")}},
			Body:   formula.MustParse("(thiz.Counter_count >= 0)"),
		},
		Programs: []*dyn.Program{program},
	}}
	program.Module = "Counter"

	cfg := config.Default()
	cfg.OutputDir = dir
	stage := alloy.NewStage(cfg)
	spec, err := stage.Assemble(modules, arith.Collect(modules), "Counter", program.ID)
	require.NoError(t, err)
	require.NoError(t, stage.Write(spec))
	return spec
}

func TestSynthesize(t *testing.T) {
	dir := t.TempDir()
	spec := counterSpecification(t, dir)

	out, err := New().Synthesize(spec.Path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Counter_generateInvariant_0.inv"), out)

	_, err = os.Stat(spec.Path)
	assert.True(t, os.IsNotExist(err), "the intermediate specification is removed")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "Counter_generateInvariant_0", data)
}

func TestSynthesizeKeepsInputOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Counter_inc_0.als")
	require.NoError(t, os.WriteFile(path, []byte("fact {\n  precondition_Counter_inc[QF.throw_0]\n}\n"), 0644))

	_, err := New().Synthesize(path)
	require.Error(t, err)

	var serr *errors.SynthesisError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, path, serr.Path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "Counter_inc_0.inv"))
	assert.True(t, os.IsNotExist(err))
}

func TestSynthesizeMissingFile(t *testing.T) {
	_, err := New().Synthesize(filepath.Join(t.TempDir(), "missing.als"))
	assert.Equal(t, errors.ErrorArtifactIO, errors.CodeOf(err))
}
