package collection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadAppliesVendorFallback(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
command: "show processes cpu"
interval: 30
parsers:
  - type: textfsm
    templates: [cisco_ios_cpu.textfsm]
normalize:
  five_sec_total: five_sec
`)

	reg := New(root)
	def, err := reg.Load("cpu", "cisco_ios_xe")
	require.NoError(t, err)
	require.Equal(t, "cisco_ios", def.Vendor)
	require.Equal(t, 30, def.IntervalSeconds)
	require.Equal(t, "cpu", def.Name)
	require.Equal(t, "cisco_ios_xe", "cisco_ios_xe") // vendor requested unchanged by caller
	require.Equal(t, "five_sec_total", def.Normalize["five_sec"])
}

func TestLoadRejectsMissingCommand(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
interval: 30
parsers:
  - type: textfsm
    templates: [x.textfsm]
`)
	reg := New(root)
	_, err := reg.Load("cpu", "cisco_ios")
	require.Error(t, err)
}

func TestLoadRejectsDuplicateNormalizeSource(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
command: "show processes cpu"
interval: 30
parsers:
  - type: textfsm
    templates: [x.textfsm]
normalize:
  a: shared
  b: shared
`)
	reg := New(root)
	_, err := reg.Load("cpu", "cisco_ios")
	require.ErrorContains(t, err, "shared")
}

func TestLoadOneShotCollection(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "device_info", "cisco_ios.yaml"), `
command: "show version"
interval: 0
parsers:
  - type: textfsm
    templates: [x.textfsm]
`)
	reg := New(root)
	def, err := reg.Load("device_info", "cisco_ios")
	require.NoError(t, err)
	require.True(t, def.OneShot())
}

func TestLoadSidecarSchema(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
command: "show processes cpu"
interval: 30
parsers:
  - type: textfsm
    templates: [x.textfsm]
`)
	writeYAML(t, filepath.Join(root, "cpu", "_schema.yaml"), `
five_sec_total: int
`)
	reg := New(root)
	require.True(t, reg.HasSchema("cpu"))
	def, err := reg.Load("cpu", "cisco_ios")
	require.NoError(t, err)
	require.Equal(t, FieldInt, def.Schema["five_sec_total"])
}

func TestLoadAllSkipsUnsupportedVendor(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
command: "show processes cpu"
interval: 30
parsers:
  - type: textfsm
    templates: [x.textfsm]
`)
	writeYAML(t, filepath.Join(root, "bgp_summary", "arista_eos.yaml"), `
command: "show ip bgp summary"
interval: 60
parsers:
  - type: textfsm
    templates: [y.textfsm]
`)

	reg := New(root)
	defs, err := reg.LoadAll("cisco_ios")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Equal(t, "cpu", defs[0].Name)
}

func TestLoadUnknownParserTypeRejected(t *testing.T) {
	root := t.TempDir()
	writeYAML(t, filepath.Join(root, "cpu", "cisco_ios.yaml"), `
command: "show processes cpu"
interval: 30
parsers:
  - type: xmlrpc
`)
	reg := New(root)
	_, err := reg.Load("cpu", "cisco_ios")
	require.Error(t, err)
}
