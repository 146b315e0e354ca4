package engine

// DataLoadError means the reference-data snapshot could not be built, either
// because the backing store was unreachable or because the stored data is
// malformed. It is fatal: the run aborts before any writes happen.
type DataLoadError struct {
	Err error
}

func (e *DataLoadError) Error() string {
	return "loading reference data: " + e.Err.Error()
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// PersistenceError means a write failed mid-run. There is no wrapping
// transaction, so writes made before the failure stay behind; callers get the
// error and a partially materialized schedule.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
