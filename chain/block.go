// Package chain carries the node's default JSON representation of blocks
// and transactions. The ledger store itself treats blocks as opaque; this
// package is one collaborator that satisfies its capability interfaces, and
// anything whose encoding round-trips through Decode can take its place.
// No structural validation happens here; well-formedness is checked before
// a block ever reaches storage.
package chain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"quantcoin/ledger"
)

// Output is a (address, amount) pair, encoded on the wire as the tuple
// [address, amount].
type Output struct {
	Address string
	Amount  decimal.Decimal
}

// MarshalJSON encodes the output as [address, amount].
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{o.Address, o.Amount})
}

// UnmarshalJSON decodes the [address, amount] tuple.
func (o *Output) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("output must be an [address, amount] pair, got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &o.Address); err != nil {
		return fmt.Errorf("output address: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &o.Amount); err != nil {
		return fmt.Errorf("output amount: %w", err)
	}
	return nil
}

// Transaction moves an amount from one wallet to an ordered list of
// destinations. Spent is the total debited from the source; nothing here
// requires it to match the credited sum.
type Transaction struct {
	From  string          `json:"from"`
	To    []Output        `json:"to"`
	Spent decimal.Decimal `json:"amount_spent"`
}

// FromWallet implements ledger.Transaction.
func (t Transaction) FromWallet() string { return t.From }

// ToWallets implements ledger.Transaction.
func (t Transaction) ToWallets() []ledger.Output {
	outs := make([]ledger.Output, len(t.To))
	for i, o := range t.To {
		outs[i] = ledger.Output{Address: o.Address, Amount: o.Amount}
	}
	return outs
}

// AmountSpent implements ledger.Transaction.
func (t Transaction) AmountSpent() decimal.Decimal { return t.Spent }

// Block is a plain container of transactions plus the usual chain linkage
// fields. Digest and Nonce are produced by the miner and checked by the
// validator; storage just carries them.
type Block struct {
	Previous string        `json:"previous"`
	Nonce    uint64        `json:"nonce"`
	Digest   string        `json:"digest"`
	Txs      []Transaction `json:"transactions"`
}

// Transactions implements ledger.Block.
func (b *Block) Transactions() []ledger.Transaction {
	txs := make([]ledger.Transaction, len(b.Txs))
	for i, tx := range b.Txs {
		txs[i] = tx
	}
	return txs
}

// JSON implements ledger.Block with the canonical encoding of the struct.
// json.Marshal keeps field order fixed, so the encoding is stable.
func (b *Block) JSON() ([]byte, error) {
	return json.Marshal(b)
}

// Equal compares blocks by their canonical encodings, making equality
// purely value-based.
func (b *Block) Equal(other ledger.Block) bool {
	mine, err := b.JSON()
	if err != nil {
		return false
	}
	theirs, err := other.JSON()
	if err != nil {
		return false
	}
	return bytes.Equal(mine, theirs)
}

// Decode is the ledger.BlockDecoder for this representation.
func Decode(data []byte) (ledger.Block, error) {
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}
	return &b, nil
}
