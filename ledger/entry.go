package ledger

import (
	"fmt"
	"time"

	"github.com/bitfsorg/libroyalty-go/safemath"
)

const (
	// MaxTransactions is the largest transaction log an entry keeps.
	MaxTransactions = 100

	// MaxSourceLen is the maximum source length in bytes.
	MaxSourceLen = 20

	// MaxDescriptionLen is the maximum description length in bytes.
	MaxDescriptionLen = 100
)

// Revenue sources with their own bucket. Anything else counts as other revenue.
const (
	SourceStreaming = "streaming"
	SourceSales     = "sales"
)

// Transaction is one recorded revenue event.
type Transaction struct {
	Amount      uint64
	Source      string
	Description string
	Timestamp   time.Time
}

// Entry aggregates the revenue of one work. All totals only grow.
type Entry struct {
	WorkID           string
	TotalRevenue     uint64
	StreamingRevenue uint64
	SalesRevenue     uint64
	OtherRevenue     uint64
	Transactions     []Transaction // oldest first
	CreatedAt        time.Time
	LastRevenueAt    time.Time
}

// NewEntry returns an empty entry for workID.
func NewEntry(workID string, at time.Time) *Entry {
	return &Entry{WorkID: workID, CreatedAt: at}
}

// ValidateTransaction checks amount and string bounds.
func ValidateTransaction(tx Transaction) error {
	if tx.Amount == 0 {
		return ErrInvalidAmount
	}
	if len(tx.Source) > MaxSourceLen {
		return fmt.Errorf("%w: source is %d bytes, max %d", ErrStringTooLong, len(tx.Source), MaxSourceLen)
	}
	if len(tx.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description is %d bytes, max %d", ErrStringTooLong, len(tx.Description), MaxDescriptionLen)
	}
	return nil
}

// Apply adds tx to the totals and appends it to the log, evicting the oldest
// transaction once the log holds capacity entries. On error e is unchanged.
func (e *Entry) Apply(tx Transaction, capacity int) error {
	if capacity < 1 || capacity > MaxTransactions {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	total, err := safemath.Add(e.TotalRevenue, tx.Amount)
	if err != nil {
		return err
	}
	bucket := e.bucket(tx.Source)
	next, err := safemath.Add(*bucket, tx.Amount)
	if err != nil {
		return err
	}

	e.TotalRevenue = total
	*bucket = next
	if n := len(e.Transactions); n >= capacity {
		kept := make([]Transaction, capacity-1, capacity)
		copy(kept, e.Transactions[n-capacity+1:])
		e.Transactions = kept
	}
	e.Transactions = append(e.Transactions, tx)
	e.LastRevenueAt = tx.Timestamp
	return nil
}

func (e *Entry) bucket(source string) *uint64 {
	switch source {
	case SourceStreaming:
		return &e.StreamingRevenue
	case SourceSales:
		return &e.SalesRevenue
	default:
		return &e.OtherRevenue
	}
}
