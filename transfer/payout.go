package transfer

import (
	"context"
	"fmt"
	"sync"

	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/bsv-blockchain/go-sdk/transaction"
	"github.com/bsv-blockchain/go-sdk/transaction/template/p2pkh"

	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/safemath"
)

// PayoutTx implements Transferer by appending one P2PKH output per transfer
// to an unsigned transaction spending from a single payout account. The
// service layer adds inputs, signs and broadcasts it.
type PayoutTx struct {
	mu     sync.Mutex
	source identity.Address
	tx     *transaction.Transaction
	total  uint64
}

// Compile-time interface check.
var _ Transferer = (*PayoutTx)(nil)

// NewPayoutTx starts an empty payout transaction funded by source.
func NewPayoutTx(source identity.Address) *PayoutTx {
	return &PayoutTx{
		source: source,
		tx:     transaction.NewTransaction(),
	}
}

// Transfer appends an output paying amount to to.
func (p *PayoutTx) Transfer(ctx context.Context, from, to identity.Address, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(from, to, amount); err != nil {
		return err
	}
	if from != p.source {
		return fmt.Errorf("%w: %s", ErrUnknownSource, from)
	}

	output, err := BuildP2PKHOutput(to, amount)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	total, err := safemath.Add(p.total, amount)
	if err != nil {
		return err
	}
	p.tx.AddOutput(output)
	p.total = total
	return nil
}

// Total returns the sum of all payout outputs.
func (p *PayoutTx) Total() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Outputs returns the payout outputs in the order they were added.
func (p *PayoutTx) Outputs() []*transaction.TransactionOutput {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*transaction.TransactionOutput, len(p.tx.Outputs))
	copy(out, p.tx.Outputs)
	return out
}

// Hex returns the unsigned transaction hex.
func (p *PayoutTx) Hex() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tx.Hex()
}

// BuildP2PKHOutput creates a TransactionOutput with a P2PKH locking script
// paying satoshis to addr.
func BuildP2PKHOutput(addr identity.Address, satoshis uint64) (*transaction.TransactionOutput, error) {
	a, err := script.NewAddressFromString(addr.String())
	if err != nil {
		return nil, fmt.Errorf("%w: address: %w", ErrScriptBuild, err)
	}
	lockScript, err := p2pkh.Lock(a)
	if err != nil {
		return nil, fmt.Errorf("%w: P2PKH lock: %w", ErrScriptBuild, err)
	}
	return &transaction.TransactionOutput{
		Satoshis:      satoshis,
		LockingScript: lockScript,
	}, nil
}
