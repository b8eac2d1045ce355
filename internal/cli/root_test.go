package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ral-nujan/filterattrs/internal/filter"
)

// executeCommand is a test helper that runs the CLI with the given args and
// captures both stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	return executeCommandWithInput("", args...)
}

// executeCommandWithInput runs the CLI with stdin set to input.
func executeCommandWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err = cmd.Execute()

	return outBuf.String(), errBuf.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, code, exitErr.Code)
}

// ---------------------------------------------------------------------------
// Help output
// ---------------------------------------------------------------------------

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	for _, sub := range []string{"compare", "watch", "profiles", "version", "completion"} {
		assert.Contains(t, stdout, sub, "help should mention %q subcommand", sub)
	}

	for _, flag := range []string{
		"--config", "--log-level", "--log-format", "--no-color", "--quiet",
		"--profile", "--attrs", "--lookahead", "--stats", "--stats-format",
	} {
		assert.Contains(t, stdout, flag, "help should mention %q flag", flag)
	}
}

// ---------------------------------------------------------------------------
// Argument counts
// ---------------------------------------------------------------------------

func TestRootCommand_StdinToStdout(t *testing.T) {
	input := "a:_FillValue = 1 ;\nb:units = \"K\" ;\n"

	stdout, _, err := executeCommandWithInput(input)
	require.NoError(t, err)
	assert.Equal(t, "b:units = \"K\" ;\n", stdout)
}

func TestRootCommand_DashMeansStdio(t *testing.T) {
	stdout, _, err := executeCommandWithInput("keep me\n", "-", "-")
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", stdout)
}

func TestRootCommand_FileToStdout(t *testing.T) {
	stdout, _, err := executeCommand("testdata/cdl.dump")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "_FillValue")
	assert.Contains(t, stdout, "temp:units")
}

func TestRootCommand_FileToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sub", "out.dump")

	stdout, _, err := executeCommand("testdata/cdl.dump", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "_Unsigned")
}

func TestRootCommand_EmptyInput(t *testing.T) {
	stdout, stderr, err := executeCommandWithInput("")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestRootCommand_TooManyArgs(t *testing.T) {
	_, _, err := executeCommand("a", "b", "c")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "Parms:\n  infile\n  outfile")
}

// ---------------------------------------------------------------------------
// Failure exit codes
// ---------------------------------------------------------------------------

func TestRootCommand_MissingInput(t *testing.T) {
	_, _, err := executeCommand(filepath.Join(t.TempDir(), "missing.dump"))
	require.Error(t, err)
	requireExitCode(t, err, ExitFailure)
	assert.Contains(t, err.Error(), "opening input")
}

func TestRootCommand_UnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, _, err := executeCommand("testdata/cdl.dump", filepath.Join(blocker, "out.dump"))
	require.Error(t, err)
	requireExitCode(t, err, ExitFailure)
}

func TestRootCommand_UnterminatedBlock(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.dump")

	_, _, err := executeCommand("testdata/unterminated.dump", out)
	require.Error(t, err)
	requireExitCode(t, err, ExitMalformed)

	var mbe *filter.MalformedBlockError
	require.ErrorAs(t, err, &mbe)
	assert.Equal(t, 3, mbe.Line)

	assert.NoFileExists(t, out, "no output is written on failure")
}

func TestRootCommand_UnknownProfile(t *testing.T) {
	_, _, err := executeCommandWithInput("x\n", "--profile", "nope")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), `unknown profile "nope"`)
}

// ---------------------------------------------------------------------------
// Filter flags
// ---------------------------------------------------------------------------

func TestRootCommand_ClassicProfileKeepsUnsigned(t *testing.T) {
	stdout, _, err := executeCommand("--profile", "classic", "testdata/cdl.dump")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "_FillValue")
	assert.Contains(t, stdout, "_Unsigned")
}

func TestRootCommand_AttrsOverride(t *testing.T) {
	stdout, _, err := executeCommand("--attrs", "units", "testdata/cdl.dump")
	require.NoError(t, err)
	assert.Contains(t, stdout, "_FillValue")
	assert.NotContains(t, stdout, "temp:units")
}

func TestRootCommand_LookaheadOverride(t *testing.T) {
	input := "  ATTRIBUTE \"_FillValue\" {\n    DATA {\n    }\n  }\n"

	_, _, err := executeCommandWithInput(input, "--lookahead", "3")
	require.Error(t, err)
	requireExitCode(t, err, ExitMalformed)

	stdout, _, err := executeCommandWithInput(input, "--lookahead", "4")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestRootCommand_StatsJSON(t *testing.T) {
	_, stderr, err := executeCommand("--stats", "--stats-format", "json", "testdata/cdl.dump")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"inline": 2`)
}

// ---------------------------------------------------------------------------
// Flag and config errors → exit code 2
// ---------------------------------------------------------------------------

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--nonexistent")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
}

func TestRootCommand_SilenceErrors(t *testing.T) {
	_, stderr, err := executeCommand("--nonexistent")
	require.Error(t, err)
	assert.Empty(t, stderr, "cobra should not print errors to stderr (SilenceErrors)")
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	_, _, err := executeCommand("--config", "/nonexistent/path.yaml", "profiles")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand("--log-level", "trace", "profiles")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestRootCommand_InvalidLogFormat(t *testing.T) {
	_, _, err := executeCommand("--log-format", "xml", "profiles")
	require.Error(t, err)
	requireExitCode(t, err, ExitUsage)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestRootCommand_DebugLogsRemovals(t *testing.T) {
	_, stderr, err := executeCommand("--log-level", "debug", "testdata/cdl.dump")
	require.NoError(t, err)
	assert.Contains(t, stderr, "removed attribute")
	assert.Contains(t, stderr, "attr=_Unsigned")
}

// ---------------------------------------------------------------------------
// ExecuteArgs
// ---------------------------------------------------------------------------

func TestExecuteArgs_Success(t *testing.T) {
	var out, errOut bytes.Buffer

	code := ExecuteArgs([]string{"version"}, strings.NewReader(""), &out, &errOut)
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, errOut.String())
}

func TestExecuteArgs_PrintsError(t *testing.T) {
	var errOut bytes.Buffer

	code := ExecuteArgs([]string{"testdata/unterminated.dump"}, strings.NewReader(""), io.Discard, &errOut)
	assert.Equal(t, ExitMalformed, code)
	assert.True(t, strings.HasPrefix(errOut.String(), "Error: unterminated \"_FillValue\" attribute block at line 3"))
}

func TestExecuteArgs_UsageMessage(t *testing.T) {
	var errOut bytes.Buffer

	code := ExecuteArgs([]string{"a", "b", "c"}, strings.NewReader(""), io.Discard, &errOut)
	assert.Equal(t, ExitUsage, code)
	assert.Equal(t, "Error: expected at most 2 arguments, got 3\nParms:\n  infile\n  outfile\n", errOut.String())
}

func TestExecuteArgs_SubcommandArgCount(t *testing.T) {
	tests := [][]string{
		{"compare"},
		{"compare", "a", "b", "c"},
		{"watch", "in.dump"},
		{"profiles", "extra"},
		{"version", "extra"},
		{"completion"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var errOut bytes.Buffer

			code := ExecuteArgs(args, strings.NewReader(""), io.Discard, &errOut)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, errOut.String(), "Error:")
		})
	}
}

func TestExecuteArgs_SilentExitCode(t *testing.T) {
	var out, errOut bytes.Buffer

	code := ExecuteArgs(
		[]string{"--no-color", "compare", "testdata/compare_expected.dump", "testdata/compare_actual.dump"},
		strings.NewReader(""), &out, &errOut,
	)
	assert.Equal(t, ExitDifferences, code)
	assert.Empty(t, errOut.String())
	assert.NotEmpty(t, out.String())
}

// ---------------------------------------------------------------------------
// ExitError / UsageError
// ---------------------------------------------------------------------------

func TestExitError_ErrorWithMessage(t *testing.T) {
	err := &ExitError{Code: 1, Err: assert.AnError}
	assert.Contains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExitError_ErrorWithoutMessage(t *testing.T) {
	err := &ExitError{Code: 42}
	assert.Equal(t, "exit code 42", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestUsageError_Error(t *testing.T) {
	err := &UsageError{Msg: "bad", Params: []string{"infile", "outfile"}}
	assert.Equal(t, "bad\nParms:\n  infile\n  outfile", err.Error())
}

func TestExitCodeFor(t *testing.T) {
	assert.NoError(t, exitCodeFor(nil))

	var exitErr *ExitError

	require.ErrorAs(t, exitCodeFor(&filter.MalformedBlockError{Line: 1}), &exitErr)
	assert.Equal(t, ExitMalformed, exitErr.Code)

	require.ErrorAs(t, exitCodeFor(assert.AnError), &exitErr)
	assert.Equal(t, ExitFailure, exitErr.Code)

	require.ErrorAs(t, exitCodeFor(&ExitError{Code: ExitUsage}), &exitErr)
	assert.Equal(t, ExitUsage, exitErr.Code)
}
