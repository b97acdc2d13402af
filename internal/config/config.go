// Package config implements the CLI surface (spec.md 6): flags describing
// the device target, authentication material, and the directories the rest
// of the session resolves collections and templates from.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
)

// Config holds one session's worth of CLI-derived settings. It is bound
// once at process start; per spec.md 3 ("Lifecycle"), changing vendor or
// host requires restarting the process, not mutating this struct.
type Config struct {
	Host     string
	Vendor   string
	User     string
	KeyPath  string
	Password string // only ever filled by an interactive prompt, never a flag

	Debug          bool
	PreflightOnly  bool
	NoLegacyCipher bool

	CollectionsDir    string
	TemplatesDir      string
	SystemTemplateDir string
	MetricsAddr       string

	NatsAddress  string // e.g. "nats://localhost:4222"; empty disables the mirror
	NatsUser     string
	NatsPassword string
}

// Parse parses args (normally os.Args[1:]) into a Config. It does not
// prompt for a password itself; callers needing interactive auth should do
// so after Parse returns, only when KeyPath is empty.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("wirlwind", flag.ContinueOnError)

	cfg := &Config{}
	fs.StringVar(&cfg.Host, "host", "", "device address")
	fs.StringVar(&cfg.Vendor, "vendor", "", "vendor identifier, e.g. cisco_ios_xe")
	fs.StringVar(&cfg.User, "user", "", "username")
	fs.StringVar(&cfg.KeyPath, "key", "", "path to an SSH private key (omit to be prompted for a password)")
	fs.BoolVar(&cfg.Debug, "debug", false, "elevate parse-trace verbosity")
	fs.BoolVar(&cfg.PreflightOnly, "preflight-only", false, "resolve all templates and print resolution paths, then exit without connecting")
	fs.BoolVar(&cfg.NoLegacyCipher, "no-legacy", false, "disable legacy SSH cipher support")
	fs.StringVar(&cfg.CollectionsDir, "collections-dir", "collections", "root of the collection definition tree")
	fs.StringVar(&cfg.TemplatesDir, "templates-dir", "templates", "root of the local template override tree")
	fs.StringVar(&cfg.SystemTemplateDir, "system-templates-dir", "", "installed system template package directory (optional)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus /metrics on this address (optional, disabled by default)")
	fs.StringVar(&cfg.NatsAddress, "nats-address", "", "mirror published envelopes to this NATS server (optional, disabled by default)")
	fs.StringVar(&cfg.NatsUser, "nats-user", "", "NATS username (optional)")
	fs.StringVar(&cfg.NatsPassword, "nats-password", "", "NATS password (optional)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Host == "" {
		return errors.New("config: --host is required")
	}
	if c.Vendor == "" {
		return errors.New("config: --vendor is required")
	}
	if c.User == "" {
		return errors.New("config: --user is required")
	}
	if c.KeyPath != "" {
		if _, err := os.Stat(c.KeyPath); err != nil {
			return fmt.Errorf("config: --key %q: %w", c.KeyPath, err)
		}
	}
	return nil
}
