package ingest

import "errors"

var (
	// ErrInvalidBatch indicates an empty or oversized batch, or a record
	// with a zero amount or empty work ID.
	ErrInvalidBatch = errors.New("ingest: invalid batch")

	// ErrIncomplete indicates the aggregated fee was transferred but the
	// batch could not be recorded. The caller must reconcile before retrying.
	ErrIncomplete = errors.New("ingest: fee transferred but batch not recorded")
)
