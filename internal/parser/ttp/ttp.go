// Package ttp defines the TTP parser adapter contract (spec.md 4.3, 9:
// "Template engine pluggability"). No ecosystem Go TTP implementation
// exists in the corpus this module was built against, so the concrete
// engine is left pluggable and optional: the parser chain skips TTP specs
// entirely when no Engine is configured, per spec.md 4.3 ("the adapter is
// permitted to be optional... silently skip").
package ttp

// Engine parses sanitized command output with one named TTP template,
// returning one row per emitted record.
type Engine interface {
	Parse(templatePath, output string) ([]map[string]string, error)
}
