// Package errs defines the error taxonomy from spec.md 7 as sentinel
// values. Call sites wrap a sentinel with fmt.Errorf("...: %w", Sentinel)
// so callers can classify failures with errors.Is while still getting a
// human-readable detail string.
package errs

import "errors"

var (
	// Transport is an SSH channel read/write failure, timeout, or
	// unexpected disconnect. Triggers the poll engine's retry/backoff path.
	Transport = errors.New("TransportError")

	// TemplateNotFound means neither the local override directory nor the
	// system template directory resolved a named template. Fatal at
	// preflight; downgraded to a per-parser skip (with a trace entry) at
	// runtime.
	TemplateNotFound = errors.New("TemplateNotFound")

	// ParseEmpty means a parser ran without error but produced zero rows.
	// Not a failure in itself -- the chain advances to the next parser.
	ParseEmpty = errors.New("ParseEmpty")

	// ParseError means a parser raised an error (malformed template,
	// regex compile failure, etc). The chain advances; the reason is
	// recorded in the trace.
	ParseError = errors.New("ParseError")

	// AllParsersFailed is the chain-level aggregate: every parser in the
	// ordered list yielded ParseEmpty or ParseError.
	AllParsersFailed = errors.New("AllParsersFailed")

	// SchemaCoercionWarning is non-fatal: a value could not be coerced to
	// its declared type and was left as a string.
	SchemaCoercionWarning = errors.New("SchemaCoercionWarning")

	// PostProcessError is a vendor driver post-process exception.
	PostProcessError = errors.New("PostProcessError")

	// Config is an invalid collection YAML document, unknown vendor, or
	// missing required field. Fatal at startup.
	Config = errors.New("ConfigError")
)
