// Package regex implements the regex parser variant of spec.md 4.3: a
// pattern plus declared flags, applied once per match, with named or
// positional groups mapped onto canonical field names.
package regex

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Run compiles pattern with flags and returns one row per match, built
// from groups (either "1"/"2"... positional indices or named capture
// groups, each mapped to a canonical field name). Zero matches is not an
// error: it is reported via the empty, nil-error return, matching
// spec.md 4.3's "zero matches => parser fails and chain advances."
func Run(pattern string, flags []string, groups map[string]string, text string) ([]map[string]string, error) {
	re, err := regexp.Compile(applyFlags(pattern, flags))
	if err != nil {
		return nil, fmt.Errorf("regex: compile %q: %w", pattern, err)
	}

	names := re.SubexpNames()
	matches := re.FindAllStringSubmatch(text, -1)
	rows := make([]map[string]string, 0, len(matches))
	for _, m := range matches {
		row := make(map[string]string, len(groups))
		for key, field := range groups {
			if idx, err := strconv.Atoi(key); err == nil {
				if idx >= 0 && idx < len(m) {
					row[strings.ToLower(field)] = m[idx]
				}
				continue
			}
			for i, name := range names {
				if name == key && i < len(m) {
					row[strings.ToLower(field)] = m[i]
				}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// applyFlags translates the declared flag names into a Go regexp inline
// flag group prefix.
func applyFlags(pattern string, flags []string) string {
	var sb strings.Builder
	for _, f := range flags {
		switch strings.ToUpper(f) {
		case "MULTILINE":
			sb.WriteByte('m')
		case "DOTALL":
			sb.WriteByte('s')
		case "IGNORECASE":
			sb.WriteByte('i')
		}
	}
	if sb.Len() == 0 {
		return pattern
	}
	return "(?" + sb.String() + ")" + pattern
}
