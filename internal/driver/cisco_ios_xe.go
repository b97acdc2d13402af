package driver

func init() {
	Register("cisco_ios_xe", func() Driver { return &ciscoIOSXE{inner: &ciscoIOS{}} })
}

// ciscoIOSXE registers itself distinctly from cisco_ios (so a collection
// registry entry that names cisco_ios_xe never silently resolves to the
// parent by accident) but delegates both contract methods to it, since IOS
// XE's CLI output for these collections is identical to classic IOS. This
// mirrors the vendor fallback rule (spec.md 3) at the driver layer: the
// fallback handles a missing cisco_ios_xe driver, this handles a present
// one that simply has nothing to add.
type ciscoIOSXE struct {
	inner *ciscoIOS
}

func (d *ciscoIOSXE) VendorID() string { return "cisco_ios_xe" }

func (d *ciscoIOSXE) PaginationCommand() string { return d.inner.PaginationCommand() }

func (d *ciscoIOSXE) PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error) {
	return d.inner.PostProcess(collectionName, envelope, state)
}
