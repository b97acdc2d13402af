// Package driver implements the vendor driver framework (spec.md 4.6):
// per-vendor pagination commands and post-processing, self-registered at
// package load time, looked up through the same vendor-fallback rule the
// collection registry uses.
package driver

import (
	"fmt"

	"github.com/scottpeterman/wirlwind/internal/statestore"
	"github.com/scottpeterman/wirlwind/internal/vendorid"
)

// StateReader is the read-only slice of *statestore.Store a driver's
// PostProcess may consult for rate deltas. It must not be used to write:
// spec.md 4.6 requires post_process to be a pure transform that "may read
// prior state... but must not mutate it directly."
type StateReader interface {
	Get(collection string) (statestore.Published, bool)
}

// Driver is the per-vendor strategy object: the command that disables
// pagination, plus a pure per-collection envelope transform.
type Driver interface {
	VendorID() string
	PaginationCommand() string
	PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error)
}

type constructor func() Driver

var registry = map[string]constructor{}

// Register binds a constructor to a vendor id. Real drivers call this from
// their own init(), so importing the driver package (which every
// implementation file in it necessarily is, being one package) registers
// every built-in vendor before any lookup can happen -- the static-
// compilation equivalent of spec.md 9's "decorator... plus an init-time
// sweep." Duplicate registration is a fatal startup error, per spec.md 4.6.
func Register(vendorID string, ctor constructor) {
	if _, exists := registry[vendorID]; exists {
		panic(fmt.Sprintf("driver: duplicate registration for vendor %q", vendorID))
	}
	registry[vendorID] = ctor
}

// Get resolves a driver for vendorID, applying the single-fallback rule
// from spec.md 3 when no driver is registered for the exact id.
func Get(vendorID string) (Driver, string, bool) {
	id, ctor, ok := vendorid.Resolve(vendorID, func(v string) (constructor, bool) {
		c, ok := registry[v]
		return c, ok
	})
	if !ok {
		return nil, "", false
	}
	return ctor(), id, true
}
