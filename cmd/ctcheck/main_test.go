package main

import (
	"bytes"
	"runtime"
	"testing"

	"git.gammaspectra.live/P2Pool/subtle/ctasm"
	"git.gammaspectra.live/P2Pool/subtle/internal/testbin"
	"git.gammaspectra.live/P2Pool/subtle/timing"
	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err = root.Execute()
	t.Log(logs.String())
	return out.String(), err
}

func TestTimingCommand(t *testing.T) {
	// Leak is ignored here, a threshold this high never trips
	stdout, err := execute(t, "timing", "--measurements", "500", "--inner", "2", "--threshold", "1e9",
		"--seed", "0000000000000000000000000000000000000000000000000000000000000001", "--json",
		"bytes_equal", "abs_i8")
	require.NoError(t, err)

	var results []timing.Result
	require.NoError(t, utils.UnmarshalJSON([]byte(stdout), &results))
	require.Len(t, results, 2)
	require.Equal(t, "bytes_equal", results[0].Name)
	require.Equal(t, "abs_i8", results[1].Name)
	require.Equal(t, 500, results[0].Measurements)
}

func TestTimingCommandErrors(t *testing.T) {
	_, err := execute(t, "timing", "not_a_target")
	require.ErrorContains(t, err, "unknown target")

	_, err = execute(t, "timing", "--seed", "abc", "bytes_equal")
	require.ErrorContains(t, err, "invalid seed")

	for _, args := range [][]string{
		{"--measurements", "-1"},
		{"--measurements", "0"},
		{"--inner", "0"},
		{"--crop", "0"},
		{"--crop", "1.5"},
	} {
		_, err = execute(t, append([]string{"timing"}, append(args, "bytes_equal")...)...)
		require.ErrorContains(t, err, "invalid "+args[0][2:], "args %v", args)
	}
}

func TestCPUCommand(t *testing.T) {
	stdout, err := execute(t, "cpu", "--json")
	require.NoError(t, err)

	var features []cpuFeature
	require.NoError(t, utils.UnmarshalJSON([]byte(stdout), &features))
	require.Len(t, features, len(cpuFeatures()))
}

func TestDisasmCommand(t *testing.T) {
	if runtime.GOOS != "linux" || runtime.GOARCH != "amd64" {
		_, err := execute(t, "disasm")
		require.Error(t, err)
		return
	}

	// the tests of package subtle reference every primitive, so its test binary links them all
	binary := testbin.Build(t, "git.gammaspectra.live/P2Pool/subtle/subtle")

	stdout, err := execute(t, "disasm", "--json", binary)
	require.NoError(t, err)

	var reports []ctasm.Report
	require.NoError(t, utils.UnmarshalJSON([]byte(stdout), &reports))
	require.Len(t, reports, len(primitiveSymbols()))
	for _, report := range reports {
		require.NotZero(t, report.Instructions, report.Symbol)
	}

	_, err = execute(t, "disasm", binary, "git.gammaspectra.live/P2Pool/subtle/subtle.NotAFunction")
	require.ErrorIs(t, err, ctasm.ErrSymbolNotFound)
}
