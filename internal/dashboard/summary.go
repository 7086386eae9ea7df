package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/ledgerview"
)

// Summary is the account overview of the dashboard.
type Summary struct {
	AccountCount int
	Selected     domain.Account
	HasSelection bool
	// Balance of the selected account, zero without a selection.
	Balance     decimal.Decimal
	Recent      []ledgerview.Row
	Stale       bool
	RefreshedAt time.Time
}

// Summary returns the overview of the selected account with its most recent transactions.
func (d *Dashboard) Summary() Summary {
	s := Summary{
		AccountCount: d.accounts.Len(),
		Balance:      decimal.Zero,
	}

	if acc, ok := d.accounts.Current(); ok {
		s.Selected = acc
		s.HasSelection = true
		s.Balance = acc.Balance
		s.Recent = ledgerview.Recent(d.txs.ForAccount(acc.ID), d.limit, d.now())
	}

	d.mu.Lock()
	s.Stale = d.stale
	s.RefreshedAt = d.refreshedAt
	d.mu.Unlock()

	return s
}
