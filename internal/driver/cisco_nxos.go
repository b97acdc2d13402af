package driver

func init() {
	Register("cisco_nxos", func() Driver { return &ciscoNXOS{} })
}

// ciscoNXOS implements spec.md 4.6's published contracts for NX-OS, which
// shares IOS's averaged CPU reporting, its drop-zero process filter, and
// its "terminal length 0" pagination command.
type ciscoNXOS struct{}

func (d *ciscoNXOS) VendorID() string { return "cisco_nxos" }

func (d *ciscoNXOS) PaginationCommand() string { return "terminal length 0" }

func (d *ciscoNXOS) PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error) {
	return dispatch(collectionName, envelope, state, DropZeroCPUProcesses)
}
