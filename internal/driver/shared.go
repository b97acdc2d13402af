package driver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// toFloat coerces a post-normalize field value (already a typed scalar, or
// still a string if no schema rule declared it) to a float64.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// MemoryPercent implements the shared memory-percent transform from
// spec.md 4.6: detect whichever of the three field-pair shapes is present
// and compute used_pct plus display strings. ok is false if none of the
// three shapes could be found.
func MemoryPercent(envelope map[string]interface{}) (usedPct float64, totalDisplay, usedDisplay string, ok bool) {
	if total, tok := toFloat(envelope["total_bytes"]); tok {
		if used, uok := toFloat(envelope["used_bytes"]); uok && total > 0 {
			return used / total * 100, humanBytes(total), humanBytes(used), true
		}
	}
	if total, tok := toFloat(envelope["total_kb"]); tok {
		if used, uok := toFloat(envelope["used_kb"]); uok && total > 0 {
			return used / total * 100, humanBytes(total * 1024), humanBytes(used * 1024), true
		}
	}
	if total, tok := toFloat(envelope["total"]); tok {
		used, uok := toFloat(envelope["used"])
		free, fok := toFloat(envelope["free"])
		switch {
		case uok && total > 0:
			return used / total * 100, humanBytes(total), humanBytes(used), true
		case fok && total > 0:
			used := total - free
			return used / total * 100, humanBytes(total), humanBytes(used), true
		}
	}
	return 0, "", "", false
}

func humanBytes(n float64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	return fmt.Sprintf("%.1f%s", n, units[i])
}

// NormalizeBGPPeers trims whitespace, coerces prefixes_rcvd to int, and
// normalizes state casing (spec.md 4.6), operating on already-shaped peer
// rows.
func NormalizeBGPPeers(rows []interface{}) []interface{} {
	out := make([]interface{}, 0, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			out = append(out, raw)
			continue
		}
		clean := make(map[string]interface{}, len(row))
		for k, v := range row {
			if s, ok := v.(string); ok {
				clean[k] = strings.TrimSpace(s)
			} else {
				clean[k] = v
			}
		}
		if v, ok := toFloat(clean["prefixes_rcvd"]); ok {
			clean["prefixes_rcvd"] = int(v)
		}
		if s, ok := clean["state"].(string); ok && s != "" {
			clean["state"] = titleCase(s)
		}
		out = append(out, clean)
	}
	return out
}

func titleCase(s string) string {
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// LogEntries implements the shared log post-processing transform
// (spec.md 4.6): assemble a timestamp from TextFSM-split month/day/time
// components when all three are present (per the Open Question resolution
// in spec.md 9: pass the raw timestamp through unmodified otherwise),
// coerce severity to int 0-7, sort newest-first, and cap at 50 entries.
func LogEntries(rows []interface{}, now time.Time) []interface{} {
	entries := make([]map[string]interface{}, 0, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		entry := make(map[string]interface{}, len(row))
		for k, v := range row {
			entry[k] = v
		}

		month, hasMonth := entry["month"]
		day, hasDay := entry["day"]
		clock, hasTime := entry["time"]
		if hasMonth && hasDay && hasTime {
			entry["timestamp"] = assembleTimestamp(toString(month), toString(day), toString(clock), now)
		}
		delete(entry, "month")
		delete(entry, "day")
		delete(entry, "time")

		if sev, ok := toFloat(entry["severity"]); ok {
			s := int(sev)
			if s < 0 {
				s = 0
			}
			if s > 7 {
				s = 7
			}
			entry["severity"] = s
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return toString(entries[i]["timestamp"]) > toString(entries[j]["timestamp"])
	})

	if len(entries) > 50 {
		entries = entries[:50]
	}

	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}

func assembleTimestamp(month, day, clock string, now time.Time) string {
	t, err := time.Parse("Jan 2 15:04:05 2006", fmt.Sprintf("%s %s %s %d", month, day, clock, now.Year()))
	if err != nil {
		return fmt.Sprintf("%s %s %s", month, day, clock)
	}
	return t.Format(time.RFC3339)
}

// DropZeroCPUProcesses implements Cisco-style filtering of a process table
// sampled as an average: rows whose 5-second CPU reading is zero are
// dropped (spec.md 4.6, S1).
func DropZeroCPUProcesses(rows []interface{}) []interface{} {
	out := make([]interface{}, 0, len(rows))
	for _, raw := range rows {
		row, ok := raw.(map[string]interface{})
		if !ok {
			out = append(out, raw)
			continue
		}
		if v, ok := cpuValue(row); ok && v == 0 {
			continue
		}
		out = append(out, row)
	}
	return out
}

// TopNByCPUThenMemory implements Arista-style filtering of an instantaneous
// snapshot: no drop-zero filter, just sort by CPU descending then memory
// descending and keep the top n (spec.md 4.6, S2).
func TopNByCPUThenMemory(rows []interface{}, n int) []interface{} {
	sorted := make([]map[string]interface{}, 0, len(rows))
	for _, raw := range rows {
		if row, ok := raw.(map[string]interface{}); ok {
			sorted = append(sorted, row)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, _ := cpuValue(sorted[i])
		cj, _ := cpuValue(sorted[j])
		if ci != cj {
			return ci > cj
		}
		mi, _ := memValue(sorted[i])
		mj, _ := memValue(sorted[j])
		return mi > mj
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]interface{}, len(sorted))
	for i, r := range sorted {
		out[i] = r
	}
	return out
}

func cpuValue(row map[string]interface{}) (float64, bool) {
	if v, ok := toFloat(row["five_sec"]); ok {
		return v, true
	}
	if v, ok := toFloat(row["cpu_pct"]); ok {
		return v, true
	}
	return 0, false
}

func memValue(row map[string]interface{}) (float64, bool) {
	if v, ok := toFloat(row["mem_pct"]); ok {
		return v, true
	}
	if v, ok := toFloat(row["memory_pct"]); ok {
		return v, true
	}
	return 0, false
}

// RateToBps converts a rate string like "1.23 Mbps" or "500 Kbps" into an
// integer bits-per-second value (spec.md 4.6's "drivers must convert",
// S5). Bare numbers are assumed already bits/second.
func RateToBps(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	fields := strings.Fields(raw)
	num, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	if len(fields) == 1 {
		return int64(num), true
	}
	unit := strings.ToLower(fields[1])
	mult := 1.0
	switch {
	case strings.HasPrefix(unit, "g"):
		mult = 1e9
	case strings.HasPrefix(unit, "m"):
		mult = 1e6
	case strings.HasPrefix(unit, "k"):
		mult = 1e3
	}
	return int64(num * mult), true
}

// InferCapabilities implements the lossy LLDP capabilities heuristic from
// spec.md 4.6/9: substring-match platform for "Router"/"Switch" when no
// capabilities field is present, yielding "unknown" if neither matches.
func InferCapabilities(platform string) string {
	switch {
	case strings.Contains(platform, "Router"):
		return "router"
	case strings.Contains(platform, "Switch"):
		return "switch"
	default:
		return "unknown"
	}
}
