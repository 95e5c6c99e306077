package ingest

// Status is the per-record outcome of a batch.
type Status int

const (
	// Applied means the record updated its work's ledger and split.
	Applied Status = iota + 1

	// Skipped means the record's work had no ledger entry or no split.
	Skipped
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Skip reasons.
const (
	ReasonNoLedger = "no ledger entry"
	ReasonNoSplit  = "no split"
)

// Record is one external revenue event.
type Record struct {
	WorkID string
	Amount uint64
}

// Outcome reports what happened to one record.
type Outcome struct {
	Record
	Status Status
	Fee    uint64 // platform fee attributed to the record; zero when skipped
	Reason string // set when skipped
}

// Result summarizes a batch. Outcomes are in input order.
type Result struct {
	Outcomes []Outcome
	Applied  int
	Skipped  int
	TotalFee uint64
}
