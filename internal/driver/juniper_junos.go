package driver

func init() {
	Register("juniper_junos", func() Driver { return &juniperJunos{} })
}

// juniperJunos implements spec.md 4.6's published contracts for Junos,
// whose CLI needs two commands to fully disable paging; only one command
// slot exists in the driver contract, so the more consequential one (the
// screen length, without which every other collection's output would be
// interleaved with "---(more)---" prompts) is the one returned. The
// process snapshot is instantaneous like Arista's, so the same top-N
// filter applies.
type juniperJunos struct{}

func (d *juniperJunos) VendorID() string { return "juniper_junos" }

func (d *juniperJunos) PaginationCommand() string { return "set cli screen-length 0" }

func (d *juniperJunos) PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error) {
	return dispatch(collectionName, envelope, state, aristaTopProcesses)
}
