package driver

import "time"

func init() {
	Register("cisco_ios", func() Driver { return &ciscoIOS{} })
}

// ciscoIOS implements spec.md 4.6's published contracts for classic IOS:
// averaged 5-second CPU (drop-zero process filter) and byte-pair memory.
type ciscoIOS struct{}

func (d *ciscoIOS) VendorID() string { return "cisco_ios" }

func (d *ciscoIOS) PaginationCommand() string { return "terminal length 0" }

func (d *ciscoIOS) PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error) {
	return dispatch(collectionName, envelope, state, DropZeroCPUProcesses)
}

// dispatch is the shared per-collection switch every Cisco/Arista/Juniper
// driver goes through, parameterized only by which CPU process filter the
// vendor uses (spec.md 4.6).
func dispatch(collectionName string, envelope map[string]interface{}, state StateReader, cpuFilter func([]interface{}) []interface{}) (map[string]interface{}, error) {
	switch collectionName {
	case "cpu":
		return postProcessCPU(envelope, cpuFilter), nil
	case "memory":
		return postProcessMemory(envelope), nil
	case "interface_detail":
		return postProcessInterfaceDetail(envelope), nil
	case "neighbors":
		return postProcessNeighbors(envelope), nil
	case "log":
		return postProcessLog(envelope), nil
	case "bgp_summary":
		return postProcessBGPSummary(envelope), nil
	default:
		return envelope, nil
	}
}

func postProcessCPU(envelope map[string]interface{}, filter func([]interface{}) []interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	if procs, ok := out["processes"].([]interface{}); ok {
		out["processes"] = filter(procs)
	}
	return out
}

func postProcessMemory(envelope map[string]interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	if pct, total, used, ok := MemoryPercent(envelope); ok {
		out["used_pct"] = pct
		out["total_display"] = total
		out["used_display"] = used
	}
	return out
}

func postProcessInterfaceDetail(envelope map[string]interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	ifaces, ok := out["interfaces"].([]interface{})
	if !ok {
		return out
	}
	converted := make([]interface{}, 0, len(ifaces))
	for _, raw := range ifaces {
		row, ok := raw.(map[string]interface{})
		if !ok {
			converted = append(converted, raw)
			continue
		}
		clean := cloneRow(row)
		if bps, ok := rateField(clean, "input_rate_bps"); ok {
			clean["input_rate_bps"] = bps
		}
		if bps, ok := rateField(clean, "output_rate_bps"); ok {
			clean["output_rate_bps"] = bps
		}
		converted = append(converted, clean)
	}
	out["interfaces"] = converted
	return out
}

func rateField(row map[string]interface{}, key string) (int64, bool) {
	v, present := row[key]
	if !present {
		return 0, false
	}
	if n, ok := toFloat(v); ok {
		return int64(n), true
	}
	if s, ok := v.(string); ok {
		return RateToBps(s)
	}
	return 0, false
}

func postProcessNeighbors(envelope map[string]interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	neighbors, ok := out["neighbors"].([]interface{})
	if !ok {
		return out
	}
	converted := make([]interface{}, 0, len(neighbors))
	for _, raw := range neighbors {
		row, ok := raw.(map[string]interface{})
		if !ok {
			converted = append(converted, raw)
			continue
		}
		clean := cloneRow(row)
		if _, has := clean["capabilities"]; !has {
			if platform, ok := clean["platform"].(string); ok && platform != "" {
				clean["capabilities"] = InferCapabilities(platform)
			}
		}
		converted = append(converted, clean)
	}
	out["neighbors"] = converted
	return out
}

func postProcessLog(envelope map[string]interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	entries, ok := out["entries"].([]interface{})
	if !ok {
		return out
	}
	out["entries"] = LogEntries(entries, time.Now())
	return out
}

func postProcessBGPSummary(envelope map[string]interface{}) map[string]interface{} {
	out := cloneEnvelope(envelope)
	peers, ok := out["peers"].([]interface{})
	if !ok {
		return out
	}
	out["peers"] = NormalizeBGPPeers(peers)
	return out
}

func cloneEnvelope(envelope map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(envelope))
	for k, v := range envelope {
		out[k] = v
	}
	return out
}

func cloneRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
