package domain

import "github.com/shopspring/decimal"

// TransferRequest is the raw transfer input as entered by the user.
type TransferRequest struct {
	From   string `json:"from_account"`
	To     string `json:"to_account"`
	Amount string `json:"amount"`
}

// NormalizedTransfer is a validated transfer ready to be submitted to the ledger.
type NormalizedTransfer struct {
	From   string          `json:"from_account"`
	To     string          `json:"to_account"`
	Amount decimal.Decimal `json:"amount"` // must be positive, two decimal places
}

// TransferConfirmation holds the ledger answer to an accepted transfer.
type TransferConfirmation struct {
	Message     string      `json:"message"`
	Transaction Transaction `json:"transaction"`
}
