// Package domain provides defenitions of all entities shared by the client core.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the balance of a single numbered account of the user.
//
// ID is the ledger primary key that transactions reference, Number is the
// account number shown to the user and used for selection and transfers.
type Account struct {
	ID         int64           `json:"id"`
	Number     string          `json:"accountNumber"`
	Balance    decimal.Decimal `json:"balance"`
	User       string          `json:"user"`
	LastEdited time.Time       `json:"lastEdited"`
}
