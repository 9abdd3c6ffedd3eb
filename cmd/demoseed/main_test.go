// ABOUTME: Tests for the demoseed CLI commands and output path validation.
// ABOUTME: Runs each command end to end against temporary CSV files.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/demoseed/internal/deals"
	apperrors "github.com/2389/demoseed/internal/errors"
	"github.com/2389/demoseed/internal/table"
	"github.com/2389/demoseed/internal/usage"
	"github.com/2389/demoseed/internal/utm"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeLookup writes a lookup file resolving every catalog workspace.
func writeLookup(t *testing.T, dir string) string {
	t.Helper()
	lt := table.New(deals.LookupNameColumn, deals.LookupIDColumn)
	n := 0
	for _, c := range deals.DefaultCatalog() {
		for _, ws := range c.Workspaces {
			n++
			require.NoError(t, lt.AppendRow(ws, fmt.Sprintf("ws-%03d", n)))
		}
	}
	path := filepath.Join(dir, "workspaces.csv")
	require.NoError(t, lt.WriteFile(path))
	return path
}

func TestUTMCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "id,name\n1,a\n2,b\n")
	output := filepath.Join(dir, "out.csv")

	stdout, err := execute(t, "utm", input, output, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Enriched data saved to "+output)

	got, err := table.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	for _, p := range utm.Parameters {
		assert.True(t, got.Has(utm.ColumnName(p)), p)
	}
	assert.Equal(t, []string{"id", "name"}, got.Header[:2])
}

func TestUTMCommand_WrongArgCount(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "id\n1\n")

	_, err := execute(t, "utm", input)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestUTMCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.csv")

	_, err := execute(t, "utm", filepath.Join(dir, "nope.csv"), output)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrIO))
	assert.NoFileExists(t, output)
}

func TestUTMCommand_OutputOutsideWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(sub, 0o755))
	input := writeFile(t, sub, "in.csv", "id\n1\n")
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(sub))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	stdout, err := execute(t, "utm", input, "../my.environment.csv", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Enriched data saved to ../my.environment.csv")
	assert.FileExists(t, filepath.Join(dir, "my.environment.csv"))
}

func TestDealsCommand_ZeroCount(t *testing.T) {
	dir := t.TempDir()
	lookup := writeLookup(t, dir)
	output := filepath.Join(dir, "deals.csv")

	stdout, err := execute(t, "deals", "--count", "0", "--lookup", lookup, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 0 dummy deal records and saved to "+output)
	assert.NotContains(t, stdout, "Sample of the generated data")

	got, err := table.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, deals.Columns(), got.Header)
	assert.Equal(t, 0, got.Len())
}

func TestDealsCommand_Preview(t *testing.T) {
	dir := t.TempDir()
	lookup := writeLookup(t, dir)
	output := filepath.Join(dir, "deals.csv")

	stdout, err := execute(t, "deals", "--count", "10", "--lookup", lookup, "--output", output,
		"--seed", "5", "--preview", "2", "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 10 dummy deal records")
	assert.Contains(t, stdout, "Sample of the generated data:")

	got, err := table.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Len())

	// Header plus two preview rows after the sample banner.
	sample := stdout[strings.Index(stdout, "Sample of the generated data:"):]
	lines := strings.Split(strings.TrimSpace(sample), "\n")
	assert.Len(t, lines, 4)
}

func TestDealsCommand_StrictFailsOnUnresolvedWorkspace(t *testing.T) {
	dir := t.TempDir()
	lookup := writeFile(t, dir, "workspaces.csv", "name,workspace_id\nAcme,ws-1\n")
	output := filepath.Join(dir, "deals.csv")

	_, err := execute(t, "deals", "--lookup", lookup, "--output", output, "--strict")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnresolvedWorkspace))
	assert.NoFileExists(t, output)
}

func TestDealsCommand_MissingLookupColumn(t *testing.T) {
	dir := t.TempDir()
	lookup := writeFile(t, dir, "workspaces.csv", "title,workspace_id\nAcme,ws-1\n")

	_, err := execute(t, "deals", "--lookup", lookup, "--output", filepath.Join(dir, "deals.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingColumn))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	lookup := writeLookup(t, dir)

	stdout, err := execute(t, "validate", "--lookup", lookup)
	require.NoError(t, err)
	assert.Contains(t, stdout, "workspaces across 35 companies resolve")

	partial := writeFile(t, dir, "partial.csv", "name,workspace_id\n")
	_, err = execute(t, "validate", "--lookup", partial)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnresolvedWorkspace))
}

func TestUsageCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "workspaces2.csv",
		"Workspace,Plan,Seats,Signup date\nA,Enterprise,50,2024-01-01\nB,Pro,4,\nC,Mystery,1,2023-06-15\n")
	output := filepath.Join(dir, "workspaces3.csv")

	stdout, err := execute(t, "usage", "--input", input, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Enriched data saved to "+output)

	got, err := table.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, append([]string{"Workspace", "Plan", "Seats", "Signup date"}, usage.Columns()...), got.Header)
	assert.False(t, got.Has(usage.ColMonthsActive))

	// The default seed makes repeated runs identical.
	again := filepath.Join(dir, "again.csv")
	_, err = execute(t, "usage", "--input", input, "--output", again)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)
	second, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestUsageCommand_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "workspaces2.csv", "Workspace,Seats,Signup date\nA,5,2024-01-01\n")
	output := filepath.Join(dir, "workspaces3.csv")

	_, err := execute(t, "usage", "--input", input, "--output", output)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrMissingColumn))
	assert.NoFileExists(t, output)
}

func TestUnknownLogFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "in.csv", "id\n1\n")

	_, err := execute(t, "utm", input, filepath.Join(dir, "out.csv"), "--log-format", "xml")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidConfig))
}

func TestValidateAndCleanPath_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple relative path", input: "deals.csv", want: "deals.csv"},
		{name: "path with directory", input: "./out/deals.csv", want: "out/deals.csv"},
		{name: "absolute path on Unix", input: "/tmp/deals.csv", want: "/tmp/deals.csv"},
		{name: "path with whitespace trimmed", input: "  deals.csv  ", want: "deals.csv"},
		{name: "parent directory", input: "../out.csv", want: "../out.csv"},
		{name: "double dots inside file name", input: "out/q1..v2.csv", want: "out/q1..v2.csv"},
		{name: "env inside file name", input: "my.environment.csv", want: "my.environment.csv"},
		{name: "env suffix before extension", input: "out/envelopes.env.csv", want: "out/envelopes.env.csv"},
		{name: "git inside directory name", input: "my.github/deals.csv", want: "my.github/deals.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateAndCleanPath(tt.input)
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}

func TestValidateAndCleanPath_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		shouldContain string
	}{
		{name: "empty string", input: "", shouldContain: "cannot be empty"},
		{name: "current directory dot", input: ".", shouldContain: "cannot be empty"},
		{name: "root directory", input: "/", shouldContain: "cannot be empty"},
		{name: "parent directory itself", input: "out/../..", shouldContain: "cannot be empty"},
		{name: "git directory blocked", input: ".git/deals.csv", shouldContain: ".git"},
		{name: "node_modules directory blocked", input: "node_modules/deals.csv", shouldContain: "node_modules"},
		{name: "case insensitive bad pattern", input: ".ENV/deals.csv", shouldContain: ".env"},
		{name: "env file itself", input: "config/.env", shouldContain: ".env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateAndCleanPath(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.shouldContain)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidArguments))
		})
	}
}

func TestValidateAndCleanPath_Windows(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows-specific test")
	}

	_, err := validateAndCleanPath("C:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bare drive letter")
}

func TestGetEnv(t *testing.T) {
	t.Setenv("DEMOSEED_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnv("DEMOSEED_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnv("DEMOSEED_TEST_UNSET", "default"))
}
