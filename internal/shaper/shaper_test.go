package shaper

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShapeCPUHoistsFirstRowAndNestsProcesses(t *testing.T) {
	rows := []map[string]interface{}{
		{"five_sec_total": 13, "one_min": 11, "five_min": 10},
		{"pid": 1, "name": "init"},
		{"pid": 2, "name": "bash"},
	}
	env := Shape("cpu", rows)
	require.Equal(t, 13, env["five_sec_total"])
	procs, ok := env["processes"].([]interface{})
	require.True(t, ok)
	require.Len(t, procs, 2)
}

func TestShapeSingleRowDiscardsExtraRows(t *testing.T) {
	rows := []map[string]interface{}{
		{"used_pct": 42},
		{"used_pct": 99},
	}
	env := Shape("memory", rows)
	require.Equal(t, 42, env["used_pct"])
	_, hasProcesses := env["processes"]
	require.False(t, hasProcesses)
}

func TestShapeEmptyRowsSingleRow(t *testing.T) {
	env := Shape("cpu", nil)
	require.Empty(t, env)
}

func TestShapeEmptyRowsMultiRow(t *testing.T) {
	env := Shape("interfaces", nil)
	require.Equal(t, []interface{}{}, env["interfaces"])
}

func TestShapeKnownBindings(t *testing.T) {
	require.Equal(t, map[string]interface{}{"peers": []interface{}{}}, Shape("bgp_summary", nil))
	require.Equal(t, map[string]interface{}{"neighbors": []interface{}{}}, Shape("neighbors", nil))
	require.Equal(t, map[string]interface{}{"entries": []interface{}{}}, Shape("log", nil))
	require.Equal(t, map[string]interface{}{"sensors": []interface{}{}}, Shape("environment", nil))
	require.Equal(t, map[string]interface{}{"interfaces": []interface{}{}}, Shape("interface_detail", nil))
}

func TestShapeUnknownCollectionWrapsUnderData(t *testing.T) {
	env := Shape("mystery", []map[string]interface{}{{"a": 1}})
	data, ok := env["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
}
