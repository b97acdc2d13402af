// Package chain implements the parser chain (spec.md 4.3): an ordered list
// of parser attempts applied to sanitized command output, the first to
// yield rows wins. It ties together the TextFSM engine, the optional TTP
// adapter, and the regex parser behind one uniform contract.
package chain

import (
	"strings"
	"time"

	"github.com/scottpeterman/wirlwind/internal/collection"
	"github.com/scottpeterman/wirlwind/internal/errs"
	"github.com/scottpeterman/wirlwind/internal/parser/regex"
	"github.com/scottpeterman/wirlwind/internal/parser/textfsm"
	"github.com/scottpeterman/wirlwind/internal/parser/ttp"
	"github.com/scottpeterman/wirlwind/internal/template"
	"github.com/scottpeterman/wirlwind/internal/trace"
)

// Resolvers bundles the per-engine template resolvers the chain consults
// for TextFSM and TTP parser specs.
type Resolvers struct {
	TextFSM *template.Resolver
	TTP     *template.Resolver
}

// Outcome is the chain's result for one parse cycle: either a winning
// parser with its rows, or a failure aggregate with every attempt's reason.
type Outcome struct {
	ParserKind string // "textfsm", "ttp", "regex", or "none"
	Template   string
	Resolved   string
	Rows       []map[string]string
	Attempts   []trace.AttemptRecord
	Err        error // wraps errs.AllParsersFailed when ParserKind == "none"
}

// Run applies specs in order to sanitized output until one yields at least
// one row (spec.md 8, property 8).
func Run(output string, specs []collection.ParserSpec, resolvers Resolvers, ttpEngine ttp.Engine) Outcome {
	var attempts []trace.AttemptRecord

	for _, spec := range specs {
		switch spec.Kind {
		case collection.ParserTextFSM:
			if rows, tmpl, resolved, rec, ok := runTemplateEngine(spec.Templates, resolvers.TextFSM, output, func(path string) ([]map[string]string, error) {
				t, err := textfsm.CompileFile(path)
				if err != nil {
					return nil, err
				}
				return t.Run(output)
			}); ok {
				attempts = append(attempts, rec...)
				return Outcome{ParserKind: "textfsm", Template: tmpl, Resolved: resolved, Rows: lowercaseRows(rows), Attempts: attempts}
			} else {
				attempts = append(attempts, rec...)
			}

		case collection.ParserTTP:
			if ttpEngine == nil {
				// Silently skipped per spec.md 4.3; no attempt recorded.
				continue
			}
			if rows, tmpl, resolved, rec, ok := runTemplateEngine(spec.Templates, resolvers.TTP, output, func(path string) ([]map[string]string, error) {
				return ttpEngine.Parse(path, output)
			}); ok {
				attempts = append(attempts, rec...)
				return Outcome{ParserKind: "ttp", Template: tmpl, Resolved: resolved, Rows: lowercaseRows(rows), Attempts: attempts}
			} else {
				attempts = append(attempts, rec...)
			}

		case collection.ParserRegex:
			start := time.Now()
			rows, err := regex.Run(spec.Pattern, spec.Flags, spec.Groups, output)
			rec := trace.AttemptRecord{Kind: "regex", Duration: time.Since(start), RowCount: len(rows)}
			if err != nil {
				rec.Reason = errs.ParseError.Error() + ": " + err.Error()
				attempts = append(attempts, rec)
				continue
			}
			if len(rows) == 0 {
				rec.Reason = errs.ParseEmpty.Error()
				attempts = append(attempts, rec)
				continue
			}
			attempts = append(attempts, rec)
			return Outcome{ParserKind: "regex", Rows: lowercaseRows(rows), Attempts: attempts}
		}
	}

	return Outcome{ParserKind: "none", Attempts: attempts, Err: errs.AllParsersFailed}
}

// runTemplateEngine tries each declared template filename in order for a
// TextFSM- or TTP-shaped parser spec, sharing the resolve/compile/run/
// record-reason sequence between the two engines.
func runTemplateEngine(
	names []string,
	resolver *template.Resolver,
	output string,
	parse func(path string) ([]map[string]string, error),
) (rows []map[string]string, winningTemplate, resolvedTier string, attempts []trace.AttemptRecord, ok bool) {
	for _, name := range names {
		start := time.Now()
		path, tier, err := resolver.Resolve(name)
		if err != nil {
			attempts = append(attempts, trace.AttemptRecord{
				Kind:     engineKindFor(resolver),
				Template: name,
				Reason:   errs.TemplateNotFound.Error() + ": " + err.Error(),
				Duration: time.Since(start),
			})
			continue
		}

		parsedRows, err := parse(path)
		rec := trace.AttemptRecord{
			Kind:     engineKindFor(resolver),
			Template: name,
			Resolved: string(tier),
			Duration: time.Since(start),
			RowCount: len(parsedRows),
		}
		if err != nil {
			rec.Reason = errs.ParseError.Error() + ": " + err.Error()
			attempts = append(attempts, rec)
			continue
		}
		if len(parsedRows) == 0 {
			rec.Reason = errs.ParseEmpty.Error()
			attempts = append(attempts, rec)
			continue
		}

		attempts = append(attempts, rec)
		return parsedRows, name, string(tier), attempts, true
	}
	return nil, "", "", attempts, false
}

func engineKindFor(resolver *template.Resolver) string {
	// Both call sites share runTemplateEngine, so the attempt label comes
	// from the resolver, which infers its engine name from the base name
	// of its local override directory (templates/<engine>).
	if resolver == nil {
		return "unknown"
	}
	return resolver.EngineName()
}

func lowercaseRows(rows []map[string]string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		lower := make(map[string]string, len(row))
		for k, v := range row {
			lower[strings.ToLower(k)] = v
		}
		out[i] = lower
	}
	return out
}
