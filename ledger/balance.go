package ledger

import (
	"github.com/shopspring/decimal"
)

// AmountOwned computes the net balance of an address by replaying every
// transaction in every stored block. A transaction whose source is the
// queried address contributes only the debit of AmountSpent; outputs inside
// that same transaction are not examined, so an address sending coins to
// itself is never credited for them. That rule is part of the network's
// balance semantics; treat any change to it as a protocol change.
//
// Cost is blocks × transactions × outputs with no index or cache, which is
// fine for the small chains this store targets. Call sparingly on anything
// larger.
func (s *Store) AmountOwned(address string) decimal.Decimal {
	total := decimal.Zero
	for _, block := range s.blocks {
		for _, tx := range block.Transactions() {
			if tx.FromWallet() == address {
				total = total.Sub(tx.AmountSpent())
				continue
			}
			for _, out := range tx.ToWallets() {
				if out.Address == address {
					total = total.Add(out.Amount)
				}
			}
		}
	}
	return total
}
