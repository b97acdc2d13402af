package regex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPositionalGroups(t *testing.T) {
	rows, err := Run(`peer (\d+\.\d+\.\d+\.\d+) state (\w+)`, nil, map[string]string{"1": "neighbor", "2": "state"}, "peer 10.0.0.1 state Established\npeer 10.0.0.2 state Idle")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "10.0.0.1", rows[0]["neighbor"])
	require.Equal(t, "Established", rows[0]["state"])
}

func TestRunNamedGroups(t *testing.T) {
	rows, err := Run(`peer (?P<ip>\S+) state (?P<st>\w+)`, nil, map[string]string{"ip": "neighbor", "st": "state"}, "peer 10.0.0.1 state Established")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "10.0.0.1", rows[0]["neighbor"])
}

func TestRunZeroMatchesNotAnError(t *testing.T) {
	rows, err := Run(`nomatch(\d+)`, nil, map[string]string{"1": "x"}, "nothing here")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestRunMultilineFlag(t *testing.T) {
	rows, err := Run(`^(\w+)$`, []string{"MULTILINE"}, map[string]string{"1": "word"}, "one\ntwo\nthree")
	require.NoError(t, err)
	require.Len(t, rows, 3)
}
