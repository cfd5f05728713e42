package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aryastastic/app"
	"aryastastic/domain/study"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "ERROR"))
	err := cmd.Execute()
	return out.String(), err
}

func TestDesignsCommand(t *testing.T) {
	out, err := run(t, "designs")
	require.NoError(t, err)
	assert.Contains(t, out, "two-proportions")
	assert.Contains(t, out, "noninferiority-means")
}

func TestCalcCommand_Text(t *testing.T) {
	out, err := run(t, "calc", "two-proportions", "--p1", "0.3", "--p2", "0.5", "--alpha", "0.05", "--power", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "93")
	assert.Contains(t, out, " 1. ")
}

func TestCalcCommand_JSON(t *testing.T) {
	out, err := run(t, "calc", "two-means", "--mean1", "10", "--mean2", "12", "--sd", "4", "--alpha", "0.05", "--power", "0.8", "--json")
	require.NoError(t, err)

	var calc app.Calculation
	require.NoError(t, json.Unmarshal([]byte(out), &calc))
	assert.Equal(t, 63, *calc.Result.SampleSize)
}

func TestCalcCommand_OneSidedFlag(t *testing.T) {
	out, err := run(t, "calc", "two-proportions", "--p1", "0.3", "--p2", "0.5", "--alpha", "0.05", "--power", "0.8", "--oneSided", "--json")
	require.NoError(t, err)

	var calc app.Calculation
	require.NoError(t, json.Unmarshal([]byte(out), &calc))
	assert.True(t, calc.Input.OneSided)
	assert.Equal(t, 73, *calc.Result.SampleSize)
}

func TestCalcCommand_InvalidInput(t *testing.T) {
	_, err := run(t, "calc", "two-proportions", "--p1", "-0.1", "--p2", "0.5", "--alpha", "0.05", "--power", "0.8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1")
}

func TestCalcCommand_MissingInput(t *testing.T) {
	_, err := run(t, "calc", "two-proportions", "--p1", "0.3", "--alpha", "0.05", "--power", "0.8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p2: is required")

	out, err := run(t, "calc", "two-proportions", "--p1", "0", "--p2", "0.2", "--alpha", "0.05", "--power", "0.8")
	require.NoError(t, err)
	assert.Contains(t, out, "proportions of 0 and 0.2")
}

func TestSweepCommand_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.xlsx")
	out, err := run(t, "sweep", "two-proportions", "--p1", "0.3", "--p2", "0.5", "--alpha", "0.05",
		"--param", "power", "--values", "0.8,0.9", "--xlsx", path)
	require.NoError(t, err)

	assert.Contains(t, out, "sweep over power")
	assert.Contains(t, out, "| 0.8 | 93 | 186 |")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("label,p1,p2,alpha,power\nbase,0.3,0.5,0.05,0.8\n"), 0o644))

	out, err := run(t, "batch", path, "--design", "two-proportions", "--json")
	require.NoError(t, err)

	var outcomes []study.ScenarioOutcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcomes))
	require.Len(t, outcomes, 1)
	assert.Equal(t, 93, *outcomes[0].Result.SampleSize)
}
