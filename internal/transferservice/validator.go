package transferservice

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// DefaultMinAmount is the smallest transferable amount accepted by the ledger.
var DefaultMinAmount = decimal.NewFromInt(5)

// Validator checks transfer requests against the user accounts before submission.
// It holds no state besides its configuration and performs no I/O.
type Validator struct {
	minAmount decimal.Decimal
}

// NewValidator returns a validator refusing amounts below minAmount.
func NewValidator(minAmount decimal.Decimal) Validator {
	return Validator{minAmount: minAmount}
}

// MinAmount returns the configured transfer floor.
func (v Validator) MinAmount() decimal.Decimal {
	return v.minAmount
}

// Validate returns the normalized transfer or the first failed check, in order:
// missing field, invalid amount, unknown source, insufficient funds.
func (v Validator) Validate(req domain.TransferRequest, accounts []domain.Account) (domain.NormalizedTransfer, error) {
	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	rawAmount := strings.TrimSpace(req.Amount)

	switch {
	case from == "":
		return domain.NormalizedTransfer{}, &domain.ValidationError{Kind: domain.ErrMissingField, Field: "from_account"}
	case to == "":
		return domain.NormalizedTransfer{}, &domain.ValidationError{Kind: domain.ErrMissingField, Field: "to_account"}
	case rawAmount == "":
		return domain.NormalizedTransfer{}, &domain.ValidationError{Kind: domain.ErrMissingField, Field: "amount"}
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return domain.NormalizedTransfer{}, &domain.ValidationError{
			Kind:  domain.ErrInvalidAmount,
			Field: "amount",
			Msg:   "amount must be a positive number",
		}
	}

	if !amount.Equal(amount.Round(2)) {
		return domain.NormalizedTransfer{}, &domain.ValidationError{
			Kind:  domain.ErrInvalidAmount,
			Field: "amount",
			Msg:   "amount must have at most 2 decimal places",
		}
	}

	amount = amount.Round(2)

	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.NormalizedTransfer{}, &domain.ValidationError{
			Kind:  domain.ErrInvalidAmount,
			Field: "amount",
			Msg:   "amount must be a positive number",
		}
	}

	if amount.LessThan(v.minAmount) {
		return domain.NormalizedTransfer{}, &domain.ValidationError{
			Kind:  domain.ErrInvalidAmount,
			Field: "amount",
			Msg:   "minimum transfer amount is " + v.minAmount.String(),
		}
	}

	source, ok := findAccount(accounts, from)
	if !ok {
		return domain.NormalizedTransfer{}, &domain.ValidationError{Kind: domain.ErrUnknownSource, Field: "from_account"}
	}

	if source.Balance.LessThan(amount) {
		return domain.NormalizedTransfer{}, &domain.ValidationError{Kind: domain.ErrInsufficientFunds, Field: "amount"}
	}

	return domain.NormalizedTransfer{
		From:   source.Number,
		To:     to,
		Amount: amount,
	}, nil
}

func findAccount(accounts []domain.Account, number string) (domain.Account, bool) {
	for _, a := range accounts {
		if a.Number == number {
			return a, true
		}
	}

	return domain.Account{}, false
}
