package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types emitted by the ledger. The core treats the type as an opaque tag,
// the constants only exist for the fake ledger and for tests.
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeTransfer   = "transfer"
	TypeReceived   = "received"
)

// Transaction is an immutable ledger entry affecting one account.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   int64           `json:"account"`
	ToAccountID *int64          `json:"to_account"`
	User        string          `json:"user"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"` // sign convention is owned by the ledger
	Type        string          `json:"transaction_type"`
	Fee         decimal.Decimal `json:"fee"`
}
