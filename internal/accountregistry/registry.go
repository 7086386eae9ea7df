// Package accountregistry holds the accounts of the authenticated user and the current selection.
package accountregistry

import (
	"sync"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// Registry is a single writer store of the user accounts.
//
// Load replaces the whole set at once. Selection always references an account
// present in the set, or is undefined when the set is empty.
type Registry struct {
	mu       sync.RWMutex
	accounts []domain.Account
	selected string
	hasSel   bool
}

// New returns an empty registry without selection.
func New() *Registry {
	return &Registry{}
}

// Load replaces the registry with a copy of accounts and re-derives the selection.
//
// The previous selection is kept when its account number is still present,
// otherwise the first account becomes selected.
func (r *Registry) Load(accounts []domain.Account) {
	snapshot := make([]domain.Account, len(accounts))
	copy(snapshot, accounts)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = snapshot

	if r.hasSel && indexOf(snapshot, r.selected) >= 0 {
		return
	}

	if len(snapshot) == 0 {
		r.selected, r.hasSel = "", false
		return
	}

	r.selected, r.hasSel = snapshot[0].Number, true
}

// Select sets the selection to the account with the given number.
// Unknown numbers leave the selection untouched and false is returned.
func (r *Registry) Select(number string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if indexOf(r.accounts, number) < 0 {
		return false
	}

	r.selected, r.hasSel = number, true

	return true
}

// Current returns the selected account.
func (r *Registry) Current() (domain.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.hasSel {
		return domain.Account{}, false
	}

	i := indexOf(r.accounts, r.selected)
	if i < 0 {
		return domain.Account{}, false
	}

	return r.accounts[i], true
}

// Accounts returns a copy of the loaded accounts in ledger order.
func (r *Registry) Accounts() []domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Account, len(r.accounts))
	copy(out, r.accounts)

	return out
}

// Len returns the number of loaded accounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.accounts)
}

// Find returns the account with the given number.
func (r *Registry) Find(number string) (domain.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := indexOf(r.accounts, number)
	if i < 0 {
		return domain.Account{}, false
	}

	return r.accounts[i], true
}

// HasID reports whether an account with the given ledger id is loaded.
func (r *Registry) HasID(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.ID == id {
			return true
		}
	}

	return false
}

func indexOf(accounts []domain.Account, number string) int {
	for i := range accounts {
		if accounts[i].Number == number {
			return i
		}
	}

	return -1
}
