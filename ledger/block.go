package ledger

import (
	"github.com/shopspring/decimal"
)

// Output is one (address, amount) credit inside a transaction's destination
// list. Order within the list is meaningful and preserved.
type Output struct {
	Address string
	Amount  decimal.Decimal
}

// Transaction is the narrow view of a transaction this store needs. How
// transactions are represented, signed and validated belongs to the chain
// collaborator.
type Transaction interface {
	// FromWallet returns the source address.
	FromWallet() string
	// ToWallets returns the ordered destination list. The same address may
	// appear several times with different amounts.
	ToWallets() []Output
	// AmountSpent returns the total debited from the source. The store does
	// not check it against the credited sum.
	AmountSpent() decimal.Decimal
}

// Block is the capability the store requires from the chain collaborator: a
// stable JSON encoding, value equality, and iteration over transactions.
// The store never inspects anything else.
type Block interface {
	Transactions() []Transaction
	// JSON returns a stable encoding that the configured BlockDecoder can
	// reverse.
	JSON() ([]byte, error)
	// Equal reports value equality; blocks with identical content are
	// duplicates regardless of identity.
	Equal(other Block) bool
}

// BlockDecoder reconstructs a Block from the encoding produced by
// Block.JSON. Supplied by the chain collaborator at store construction.
type BlockDecoder func(data []byte) (Block, error)
