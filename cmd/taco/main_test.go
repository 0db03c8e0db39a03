// SPDX-License-Identifier: Apache-2.0
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taco/internal/config"
)

const counterSource = `package examples;

class Counter {
    int count;

    invariant count >= 0;

    requires x > 0;
    ensures count == \old(count) + x;
    void add(int x) {
        count = count + x;
    }
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "Counter.java")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{2 * time.Minute, "2.00min"},
		{1500 * time.Millisecond, "1.50s"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Nanosecond, "1.5μs"},
		{42 * time.Nanosecond, "42ns"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.d))
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "taco "+version+"\n", out)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taco.yaml")

	out, err := execute(t, "init-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	cfg, err := config.ReadFromFile(path)
	require.NoError(t, err)
	defaults := config.Default()
	assert.Equal(t, defaults.BitWidth, cfg.BitWidth)
	assert.Equal(t, defaults.ObjectScope, cfg.ObjectScope)
	assert.Equal(t, defaults.LoopUnroll, cfg.LoopUnroll)
	assert.Equal(t, defaults.OutputDir, cfg.OutputDir)
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, counterSource)
	output := filepath.Join(dir, "output")

	out, err := execute(t, "check", "-c", "examples.Counter", "-m", "add", "-o", output, source)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+filepath.Join(output, "examples_Counter_add_0.als"))
	assert.FileExists(t, filepath.Join(output, "examples_Counter_add_0.als"))
	assert.FileExists(t, filepath.Join(output, "examples_Counter_generateInvariant_0.inv"))
}

func TestCheckFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, counterSource)

	cfg := config.Default()
	cfg.ClassToCheck = "examples.Counter"
	cfg.MethodToCheck = "add"
	cfg.BitWidth = 5
	cfg.OutputDir = filepath.Join(dir, "output")
	configPath := filepath.Join(dir, "taco.yaml")
	require.NoError(t, cfg.WriteToFile(configPath))

	_, err := execute(t, "check", "--config", configPath, "-w", "6", source)
	require.NoError(t, err)

	text, err := os.ReadFile(filepath.Join(cfg.OutputDir, "examples_Counter_add_0.als"))
	require.NoError(t, err)
	assert.Contains(t, string(text), ", 6 int\n")
}

func TestCheckReportsSyntaxErrors(t *testing.T) {
	source := writeSource(t, t.TempDir(), "class Counter { int count }")

	out, err := execute(t, "check", "-c", "Counter", "-m", "add", source)
	assert.Equal(t, errReported, err)
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "Parsing failed")
}

func TestCheckReportsMissingMethod(t *testing.T) {
	dir := t.TempDir()
	source := writeSource(t, dir, counterSource)

	out, err := execute(t, "check", "-c", "examples.Counter", "-m", "remove", "-o", dir, source)
	assert.Equal(t, errReported, err)
	assert.Contains(t, out, "T0204")
	assert.Contains(t, out, "Translation failed")
}

func TestCheckRequiresSources(t *testing.T) {
	_, err := execute(t, "check")
	assert.Error(t, err)
}
