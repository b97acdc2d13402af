package chain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scottpeterman/wirlwind/internal/collection"
	"github.com/scottpeterman/wirlwind/internal/template"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRunFallsBackPastMalformedTemplate(t *testing.T) {
	dir := t.TempDir()
	// Template #1 is malformed: its unindented line is read as a state
	// name, so the template has no Start state.
	writeTemplate(t, dir, "bad.textfsm", "Value CPU (\\d+)\n\nthis line has no state\n")
	writeTemplate(t, dir, "good.textfsm", "Value CPU (\\d+)\n\nStart\n  ^CPU: ${CPU} -> Record\n")

	resolvers := Resolvers{TextFSM: template.New(dir, "")}
	specs := []collection.ParserSpec{{Kind: collection.ParserTextFSM, Templates: []string{"bad.textfsm", "good.textfsm"}}}

	out := Run("CPU: 42\n", specs, resolvers, nil)
	require.Equal(t, "textfsm", out.ParserKind)
	require.Equal(t, "good.textfsm", out.Template)
	require.Len(t, out.Rows, 1)
	require.Equal(t, "42", out.Rows[0]["cpu"])
	require.Len(t, out.Attempts, 2)
	require.NotEmpty(t, out.Attempts[0].Reason)
}

func TestRunRegexFallbackWhenTextFSMEmpty(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "empty.textfsm", "Value CPU (\\d+)\n\nStart\n  ^NEVERMATCHES -> Record\n")

	resolvers := Resolvers{TextFSM: template.New(dir, "")}
	specs := []collection.ParserSpec{
		{Kind: collection.ParserTextFSM, Templates: []string{"empty.textfsm"}},
		{Kind: collection.ParserRegex, Pattern: `CPU: (\d+)`, Groups: map[string]string{"1": "cpu"}},
	}

	out := Run("CPU: 42\n", specs, resolvers, nil)
	require.Equal(t, "regex", out.ParserKind)
	require.Equal(t, "42", out.Rows[0]["cpu"])
}

func TestRunAllFailed(t *testing.T) {
	specs := []collection.ParserSpec{
		{Kind: collection.ParserRegex, Pattern: `nomatch(\d+)`, Groups: map[string]string{"1": "x"}},
	}
	out := Run("nothing relevant", specs, Resolvers{}, nil)
	require.Equal(t, "none", out.ParserKind)
	require.Error(t, out.Err)
}

func TestRunSkipsTTPWithoutEngine(t *testing.T) {
	specs := []collection.ParserSpec{
		{Kind: collection.ParserTTP, Templates: []string{"whatever.ttp"}},
		{Kind: collection.ParserRegex, Pattern: `CPU: (\d+)`, Groups: map[string]string{"1": "cpu"}},
	}
	out := Run("CPU: 7", specs, Resolvers{}, nil)
	require.Equal(t, "regex", out.ParserKind)
}
