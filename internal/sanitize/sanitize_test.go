package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutputStripsEchoAndPrompt(t *testing.T) {
	raw := "show version\nCisco IOS Software\nUptime is 3 days\nswitch#"
	got := Output(raw, "show version", "switch#")
	require.Equal(t, "Cisco IOS Software\nUptime is 3 days", got)
}

func TestOutputNeverStripsNonMatchingLines(t *testing.T) {
	raw := "Cisco IOS Software\nswitch#"
	got := Output(raw, "show version", "router>")
	require.Equal(t, raw, got)
}

func TestOutputPreservesIntermediateBlankLines(t *testing.T) {
	raw := "show version\nline one\n\nline two\nswitch#"
	got := Output(raw, "show version", "switch#")
	require.Equal(t, "line one\n\nline two", got)
}
