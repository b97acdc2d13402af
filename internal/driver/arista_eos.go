package driver

func init() {
	Register("arista_eos", func() Driver { return &aristaEOS{} })
}

// aristaEOS implements spec.md 4.6's published contracts for EOS: an
// instantaneous process snapshot (top-N-by-cpu-then-memory, not drop-zero,
// since EOS's "top" output has no averaged reading to drop).
type aristaEOS struct{}

func (d *aristaEOS) VendorID() string { return "arista_eos" }

func (d *aristaEOS) PaginationCommand() string { return "terminal length 0" }

func (d *aristaEOS) PostProcess(collectionName string, envelope map[string]interface{}, state StateReader) (map[string]interface{}, error) {
	return dispatch(collectionName, envelope, state, aristaTopProcesses)
}

func aristaTopProcesses(rows []interface{}) []interface{} {
	return TopNByCPUThenMemory(rows, 20)
}
