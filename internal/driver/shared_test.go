package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryPercentBytesPair(t *testing.T) {
	pct, total, used, ok := MemoryPercent(map[string]interface{}{
		"total_bytes": "1000", "used_bytes": "250",
	})
	require.True(t, ok)
	require.Equal(t, 25.0, pct)
	require.NotEmpty(t, total)
	require.NotEmpty(t, used)
}

func TestMemoryPercentKBPair(t *testing.T) {
	pct, _, _, ok := MemoryPercent(map[string]interface{}{
		"total_kb": 2000.0, "used_kb": 500.0,
	})
	require.True(t, ok)
	require.Equal(t, 25.0, pct)
}

func TestMemoryPercentTotalUsedFree(t *testing.T) {
	pct, _, _, ok := MemoryPercent(map[string]interface{}{
		"total": 100.0, "free": 60.0,
	})
	require.True(t, ok)
	require.Equal(t, 40.0, pct)
}

func TestMemoryPercentNoneFound(t *testing.T) {
	_, _, _, ok := MemoryPercent(map[string]interface{}{"unrelated": 1})
	require.False(t, ok)
}

func TestNormalizeBGPPeersTrimsAndCoerces(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"neighbor": " 10.0.0.1 ", "state": "ESTABLISHED", "prefixes_rcvd": "120"},
	}
	out := NormalizeBGPPeers(rows)
	row := out[0].(map[string]interface{})
	require.Equal(t, "10.0.0.1", row["neighbor"])
	require.Equal(t, "Established", row["state"])
	require.Equal(t, 120, row["prefixes_rcvd"])
}

func TestLogEntriesAssemblesTimestampAndSortsNewestFirst(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	rows := []interface{}{
		map[string]interface{}{"month": "Jan", "day": "1", "time": "00:00:00", "severity": "3"},
		map[string]interface{}{"month": "Dec", "day": "31", "time": "23:59:59", "severity": "9"},
	}
	out := LogEntries(rows, now)
	require.Len(t, out, 2)
	first := out[0].(map[string]interface{})
	require.Equal(t, 7, first["severity"]) // clamped from 9
	_, hasMonth := first["month"]
	require.False(t, hasMonth)
}

func TestLogEntriesCapsAt50(t *testing.T) {
	rows := make([]interface{}, 0, 60)
	for i := 0; i < 60; i++ {
		rows = append(rows, map[string]interface{}{"message": "x"})
	}
	out := LogEntries(rows, time.Now())
	require.Len(t, out, 50)
}

func TestLogEntriesPassesRawTimestampWhenComponentsMissing(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"timestamp": "raw-value"},
	}
	out := LogEntries(rows, time.Now())
	row := out[0].(map[string]interface{})
	require.Equal(t, "raw-value", row["timestamp"])
}

func TestDropZeroCPUProcessesRemovesZeroReadings(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"pid": 1, "five_sec": 0.0},
		map[string]interface{}{"pid": 2, "five_sec": 3.5},
	}
	out := DropZeroCPUProcesses(rows)
	require.Len(t, out, 1)
	require.Equal(t, 2, out[0].(map[string]interface{})["pid"])
}

func TestTopNByCPUThenMemoryOrdersAndTruncates(t *testing.T) {
	rows := []interface{}{
		map[string]interface{}{"pid": 1, "cpu_pct": 1.0, "mem_pct": 5.0},
		map[string]interface{}{"pid": 2, "cpu_pct": 9.0, "mem_pct": 1.0},
		map[string]interface{}{"pid": 3, "cpu_pct": 9.0, "mem_pct": 9.0},
	}
	out := TopNByCPUThenMemory(rows, 2)
	require.Len(t, out, 2)
	require.Equal(t, 3, out[0].(map[string]interface{})["pid"])
	require.Equal(t, 2, out[1].(map[string]interface{})["pid"])
}

func TestRateToBpsConvertsUnits(t *testing.T) {
	bps, ok := RateToBps("1.5 Mbps")
	require.True(t, ok)
	require.Equal(t, int64(1500000), bps)

	bps, ok = RateToBps("500")
	require.True(t, ok)
	require.Equal(t, int64(500), bps)

	_, ok = RateToBps("")
	require.False(t, ok)
}

func TestInferCapabilities(t *testing.T) {
	require.Equal(t, "router", InferCapabilities("Cisco Router 4451"))
	require.Equal(t, "switch", InferCapabilities("Catalyst Switch 9300"))
	require.Equal(t, "unknown", InferCapabilities("Generic Appliance"))
}
