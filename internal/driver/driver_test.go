package driver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetResolvesBuiltinVendors(t *testing.T) {
	for _, id := range []string{"cisco_ios", "cisco_ios_xe", "arista_eos", "juniper_junos", "cisco_nxos"} {
		drv, resolved, ok := Get(id)
		require.True(t, ok, "expected %s to resolve", id)
		require.Equal(t, id, resolved)
		require.Equal(t, id, drv.VendorID())
	}
}

func TestGetFallsBackOneSegment(t *testing.T) {
	drv, resolved, ok := Get("cisco_ios_xe_special")
	require.True(t, ok)
	require.Equal(t, "cisco_ios_xe", resolved)
	require.Equal(t, "cisco_ios_xe", drv.VendorID())
}

func TestGetUnknownVendor(t *testing.T) {
	_, _, ok := Get("totally_unknown_vendor")
	require.False(t, ok)
}

func TestRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	Register("cisco_ios", func() Driver { return &ciscoIOS{} })
}

func TestCiscoIOSXEDelegatesPostProcess(t *testing.T) {
	drv, _, _ := Get("cisco_ios_xe")
	env, err := drv.PostProcess("memory", map[string]interface{}{"total_bytes": 1000.0, "used_bytes": 500.0}, nil)
	require.NoError(t, err)
	require.Equal(t, 50.0, env["used_pct"])
}

func TestDispatchUnknownCollectionPassesThrough(t *testing.T) {
	drv, _, _ := Get("cisco_ios")
	in := map[string]interface{}{"device_id": "x"}
	out, err := drv.PostProcess("device_info", in, nil)
	require.NoError(t, err)
	require.Equal(t, "x", out["device_id"])
}
