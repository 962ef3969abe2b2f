package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `
parent(/tom, /bob).
parent(/bob, /ann).
ancestor(X, Y) :- parent(X, Y).
ancestor(X, Z) :- parent(X, Y), ancestor(Y, Z).
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "family.mg")
	require.NoError(t, os.WriteFile(path, []byte(program), 0o644))

	for i, a := range args {
		if a == "{program}" {
			args[i] = path
		}
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "missing.yaml")}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRunPrintsBindings(t *testing.T) {
	out := execute(t, "run", "--program", "{program}", "--goal", "ancestor(/tom, W)", "--parallel=false", "--metrics=false")
	assert.Equal(t, "W = bob\n", out)
}

func TestRunGroundGoal(t *testing.T) {
	assert.Equal(t, "yes\n", execute(t, "run", "-p", "{program}", "-g", "ancestor(/tom, /ann)", "--parallel"))
	assert.Equal(t, "no\n", execute(t, "run", "-p", "{program}", "-g", "ancestor(/ann, /tom)", "--parallel=false"))
}

func TestRunMetrics(t *testing.T) {
	out := execute(t, "run", "-p", "{program}", "-g", "ancestor(/tom, W)", "--metrics")
	assert.Contains(t, out, "Metrics:")
	assert.Contains(t, out, "agentcore_rule_resolutions_total")
}

func TestCheck(t *testing.T) {
	out := execute(t, "check", "{program}")
	assert.Contains(t, out, "2 facts, 2 rules")
}

func TestQuery(t *testing.T) {
	out := execute(t, "query", "{program}", "parent")
	assert.Contains(t, out, "parent(tom, bob)")

	out = execute(t, "query", "{program}", "sibling")
	assert.Contains(t, out, "No facts found")
}
