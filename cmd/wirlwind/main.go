// Command wirlwind polls one network device over an authenticated command
// channel on a fixed interval per collection, parses the output through a
// vendor-aware template chain, and republishes normalized telemetry
// envelopes to in-process subscribers (and, optionally, NATS).
//
// The SSH transport itself, prompt detection, and credential negotiation
// are intentionally out of scope (spec.md 1): wirlwind expects to be
// linked against a transport.Dialer supplied by an embedder. This build
// ships only the preflight and pipeline machinery plus a fake transport
// for tests; see internal/transport.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/scottpeterman/wirlwind/internal/collection"
	"github.com/scottpeterman/wirlwind/internal/config"
	"github.com/scottpeterman/wirlwind/internal/driver"
	"github.com/scottpeterman/wirlwind/internal/errs"
	"github.com/scottpeterman/wirlwind/internal/eventbus"
	cclog "github.com/scottpeterman/wirlwind/internal/log"
	"github.com/scottpeterman/wirlwind/internal/metrics"
	"github.com/scottpeterman/wirlwind/internal/parser/chain"
	"github.com/scottpeterman/wirlwind/internal/pollengine"
	"github.com/scottpeterman/wirlwind/internal/statestore"
	"github.com/scottpeterman/wirlwind/internal/template"
	"github.com/scottpeterman/wirlwind/internal/trace"
	natsclient "github.com/scottpeterman/wirlwind/pkg/nats"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.Debug {
		cclog.SetLogLevel("debug")
	}

	registry := collection.New(cfg.CollectionsDir)

	if cfg.PreflightOnly {
		os.Exit(preflight(cfg, registry))
	}

	if err := run(cfg, registry); err != nil {
		cclog.Errorf("wirlwind: %v", err)
		os.Exit(1)
	}
}

// preflight implements spec.md 6's --preflight-only: resolve every
// template every loaded collection references, print the resolution path
// and tier, and warn (without failing) on a missing optional _schema.yaml.
// Exits 0 only if every collection loads and every template resolves.
func preflight(cfg *config.Config, registry *collection.Registry) int {
	resolvers := newResolvers(cfg)
	ok := true

	defs, err := registry.LoadAll(cfg.Vendor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	if len(defs) == 0 {
		fmt.Fprintf(os.Stderr, "no collections resolve for vendor %q under %s\n", cfg.Vendor, cfg.CollectionsDir)
		return 1
	}

	for _, def := range defs {
		fmt.Printf("collection %s (vendor %s):\n", def.Name, def.Vendor)

		if !registry.HasSchema(def.Name) {
			fmt.Printf("  warning: no _schema.yaml, fields will remain strings\n")
		}

		for _, spec := range def.Parsers {
			resolver := resolverFor(resolvers, spec.Kind)
			if resolver == nil {
				continue
			}
			for _, name := range spec.Templates {
				path, tier, err := resolver.Resolve(name)
				if err != nil {
					fmt.Printf("  %s: NOT FOUND (%v)\n", name, err)
					ok = false
					continue
				}
				fmt.Printf("  %s: %s (%s)\n", name, path, tier)
			}
		}
	}

	if _, _, found := driver.Get(cfg.Vendor); !found {
		fmt.Fprintf(os.Stderr, "no driver registered for vendor %q (or its fallback)\n", cfg.Vendor)
		ok = false
	}

	if !ok {
		return 1
	}
	return 0
}

func resolverFor(r chain.Resolvers, kind collection.ParserKind) *template.Resolver {
	switch kind {
	case collection.ParserTextFSM:
		return r.TextFSM
	case collection.ParserTTP:
		return r.TTP
	default:
		return nil
	}
}

func newResolvers(cfg *config.Config) chain.Resolvers {
	systemTextFSM, systemTTP := "", ""
	if cfg.SystemTemplateDir != "" {
		systemTextFSM = filepath.Join(cfg.SystemTemplateDir, "textfsm")
		systemTTP = filepath.Join(cfg.SystemTemplateDir, "ttp")
	}
	return chain.Resolvers{
		TextFSM: template.New(filepath.Join(cfg.TemplatesDir, "textfsm"), systemTextFSM),
		TTP:     template.New(filepath.Join(cfg.TemplatesDir, "ttp"), systemTTP),
	}
}

// run wires every component and blocks until interrupted.
func run(cfg *config.Config, registry *collection.Registry) error {
	defs, err := registry.LoadAll(cfg.Vendor)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		return fmt.Errorf("%w: no collections resolve for vendor %q under %s", errs.Config, cfg.Vendor, cfg.CollectionsDir)
	}

	if _, _, ok := driver.Get(cfg.Vendor); !ok {
		return fmt.Errorf("%w: no driver registered for vendor %q", errs.Config, cfg.Vendor)
	}

	dialer, err := newDialer(cfg)
	if err != nil {
		return err
	}

	recorder := trace.New(1000)
	recorder.SetDebug(cfg.Debug)
	recorder.SetSink(func(e trace.Entry) {
		if e.Error != "" {
			cclog.Warnf("trace: %s %s: %s", e.Collection, e.ParserKind, e.Error)
		} else {
			cclog.Debugf("trace: %s parsed_by=%s rows=%d", e.Collection, e.ParserKind, e.RowCount)
		}
	})

	if cfg.NatsAddress != "" {
		natsclient.Init(natsclient.NatsConfig{Address: cfg.NatsAddress, Username: cfg.NatsUser, Password: cfg.NatsPassword})
		natsclient.Connect()
	}

	store := statestore.New()
	bus := eventbus.New("wirlwind")
	// After every publish, report the retained sample count of each flat
	// series; per-interface series are not reported.
	store.SetSink(func(p statestore.Published) {
		for _, def := range defs {
			if def.Name != p.Collection {
				continue
			}
			for _, s := range def.Series {
				if !s.PerInterface {
					metrics.RingBufferSamples.WithLabelValues(p.Collection, s.Name).Set(float64(len(store.History(p.Collection, s.Name))))
				}
			}
		}
	})

	shutdownMetrics := metrics.Serve(cfg.MetricsAddr)

	engine := &pollengine.Engine{
		Dialer:    dialer,
		VendorID:  cfg.Vendor,
		Defs:      defs,
		Resolvers: newResolvers(cfg),
		Recorder:  recorder,
		Store:     store,
		Bus:       bus,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runErr := engine.Run(ctx)
	bus.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = shutdownMetrics(shutdownCtx)

	if runErr != nil && runErr != context.Canceled {
		return runErr
	}
	return nil
}
