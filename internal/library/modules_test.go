package library

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLibraryModules(t *testing.T) {
	modules := GetLibraryModules()

	assert.NotNil(t, modules["java_lang"], "java_lang module should exist")
	assert.NotNil(t, modules["boolean"], "boolean module should exist")
	assert.NotNil(t, modules["java_primitive_integer_value"], "integer module should exist")

	lang := modules["java_lang"]
	require.Len(t, lang.Sigs, 3)
	assert.Equal(t, "one sig null {}", lang.Sigs[0].String())
	assert.Equal(t, "abstract sig java_lang_Throwable extends java_lang_Object {}", lang.Sigs[2].String())
	assert.Empty(t, lang.Predicates, "java_lang should not define predicates")

	boolean := modules["boolean"]
	assert.Equal(t, "pred TruePred[] {}", boolean.Predicates["TruePred"].String())
	assert.Equal(t, "pred FalsePred[] {\n  not TruePred[]\n}", boolean.Predicates["FalsePred"].String())
}

func TestGetModuleDefinition(t *testing.T) {
	lang := GetModuleDefinition("java_lang")
	require.NotNil(t, lang)
	assert.Equal(t, "java_lang", lang.Name)

	assert.Nil(t, GetModuleDefinition("UnknownModule"), "Should return nil for unknown module")
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		op        string
		function  string
		predicate string
	}{
		{"+", "add", "pred_java_primitive_integer_value_add"},
		{"-", "sub", "pred_java_primitive_integer_value_sub"},
		{"*", "mul", "pred_java_primitive_integer_value_mul"},
		{"/", "div", "pred_java_primitive_integer_value_div"},
		{"%", "rem", "pred_java_primitive_integer_value_rem"},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			fn, ok := ArithmeticFunction(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.function, fn)

			pred, ok := ArithmeticPredicate(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.predicate, pred)
			assert.Contains(t, GetModuleDefinition("java_primitive_integer_value").Predicates, pred)
		})
	}

	_, ok := ArithmeticFunction("<")
	assert.False(t, ok)
	_, ok = ArithmeticPredicate("&&")
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	text := Text(Prelude...)

	assert.True(t, strings.HasPrefix(text, "// java_lang\none sig null {}\n"))
	assert.Contains(t, text, "one sig true extends boolean {}\n")
	assert.Contains(t, text, "pred pred_java_primitive_integer_value_rem[a: Int, b: Int, r: Int] {\n  r = rem[a, b]\n}\n")
	assert.Less(t, strings.Index(text, "java_lang_Object"), strings.Index(text, "TruePred"),
		"modules are emitted in the requested order")

	assert.Empty(t, Text("missing"))
}
