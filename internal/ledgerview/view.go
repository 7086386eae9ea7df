// Package ledgerview holds the transactions visible to the user and derives per account views from them.
package ledgerview

import (
	"iter"
	"slices"
	"sync"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// View is a single writer store of the user transactions.
// Derived views never mutate the loaded snapshot.
type View struct {
	mu  sync.RWMutex
	txs []domain.Transaction
}

// New returns an empty view.
func New() *View {
	return &View{}
}

// Load replaces the full transaction set with a copy of txs.
func (v *View) Load(txs []domain.Transaction) {
	snapshot := slices.Clone(txs)

	v.mu.Lock()
	v.txs = snapshot
	v.mu.Unlock()
}

func (v *View) snapshot() []domain.Transaction {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.txs
}

// Len returns the number of loaded transactions.
func (v *View) Len() int {
	return len(v.snapshot())
}

// All returns every loaded transaction in ledger order.
func (v *View) All() iter.Seq[domain.Transaction] {
	txs := v.snapshot()

	return func(yield func(domain.Transaction) bool) {
		for _, tx := range txs {
			if !yield(tx) {
				return
			}
		}
	}
}

// ForAccount returns a lazy sequence of the transactions referencing accountID.
//
// The sequence iterates the snapshot loaded at call time and can be ranged over
// any number of times. Order follows the ledger and is not guaranteed.
func (v *View) ForAccount(accountID int64) iter.Seq[domain.Transaction] {
	txs := v.snapshot()

	return func(yield func(domain.Transaction) bool) {
		for _, tx := range txs {
			if tx.AccountID != accountID {
				continue
			}

			if !yield(tx) {
				return
			}
		}
	}
}

// Orphans returns the transactions whose account is not known to the caller.
func (v *View) Orphans(known func(accountID int64) bool) []domain.Transaction {
	var out []domain.Transaction

	for _, tx := range v.snapshot() {
		if !known(tx.AccountID) {
			out = append(out, tx)
		}
	}

	return out
}

// RecentFirst collects txs ordered by date, newest first, bounded by limit.
// A limit of zero or less returns every transaction.
func RecentFirst(txs iter.Seq[domain.Transaction], limit int) []domain.Transaction {
	sorted := slices.SortedStableFunc(txs, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	if limit > 0 && len(sorted) > limit {
		return slices.Clip(sorted[:limit])
	}

	return sorted
}
