package main

import (
	"context"
	"fmt"

	"github.com/scottpeterman/wirlwind/internal/config"
	"github.com/scottpeterman/wirlwind/internal/transport"
)

// newDialer is the one seam this command leaves unimplemented on purpose:
// the SSH channel itself (legacy-cipher negotiation, prompt detection,
// credential handling) is explicitly out of scope here (spec.md 1). An
// embedder links this command against a real transport.Dialer by
// replacing this function; the poll engine, parser chain, and every
// collection this binary loads are otherwise complete and exercised
// end-to-end against internal/transport.Fake in tests.
func newDialer(cfg *config.Config) (transport.Dialer, error) {
	return transport.DialerFunc(func(ctx context.Context) (transport.Channel, error) {
		return nil, fmt.Errorf("%w: no SSH transport linked into this build for host %s", transport.ErrTransport, cfg.Host)
	}), nil
}
