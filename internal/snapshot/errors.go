package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrSnapshotNotFound is returned when the snapshot file does not exist.
	ErrSnapshotNotFound = errors.New("snapshot file not found")
	// ErrMissingTable is returned when a named table is absent from the snapshot.
	ErrMissingTable = errors.New("table not found")
	// ErrMissingColumns is returned when a table lacks a required column.
	ErrMissingColumns = errors.New("required columns missing")
)

// DataLoadError reports a snapshot that could not be read. Any DataLoadError
// aborts the run before output is produced.
type DataLoadError struct {
	Path  string
	Table string
	Err   error
}

func (e *DataLoadError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("load snapshot %s: table %s: %v", e.Path, e.Table, e.Err)
	}
	return fmt.Sprintf("load snapshot %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }
