// Package sanitize implements spec.md 4.2: stripping the command echo and
// trailing prompt line from raw SSH channel output, without touching any
// line that doesn't match one of those two exact shapes.
package sanitize

import "strings"

// Output removes the leading echo of command (if the first non-empty line
// matches it) and the trailing prompt line (if the last non-empty line
// matches it) from raw. Every other line, including blank ones, passes
// through unchanged.
func Output(raw, command, prompt string) string {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 {
		return raw
	}

	first := -1
	for i, l := range lines {
		if strings.TrimSpace(l) != "" {
			first = i
			break
		}
	}
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}

	drop := make(map[int]bool, 2)
	cmd := strings.TrimSpace(command)
	if first >= 0 && cmd != "" && strings.TrimSpace(lines[first]) == cmd {
		drop[first] = true
	}

	pr := strings.TrimSpace(prompt)
	if last >= 0 && !drop[last] && pr != "" && strings.TrimSpace(lines[last]) == pr {
		drop[last] = true
	}

	if len(drop) == 0 {
		return raw
	}

	out := make([]string, 0, len(lines)-len(drop))
	for i, l := range lines {
		if drop[i] {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
