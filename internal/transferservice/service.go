// Package transferservice validates fund transfers and submits them to the ledger.
package transferservice

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// Ledger provides the transfer submission call of the remote ledger.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Ledger interface {
	SubmitTransfer(ctx context.Context, cred domain.Credential, arg domain.NormalizedTransfer) (domain.TransferConfirmation, error)
}

// AccountSource provides the accounts a transfer source is looked up in.
type AccountSource interface {
	Accounts() []domain.Account
}

// Service facilitates transfer validation and submission.
type Service struct {
	ledger    Ledger
	accounts  AccountSource
	validator Validator
}

// New returns transfer service struct to manage transfer submission.
func New(l Ledger, as AccountSource, v Validator) *Service {
	return &Service{
		ledger:    l,
		accounts:  as,
		validator: v,
	}
}

// Validate checks req against the current accounts without submitting it.
func (s *Service) Validate(req domain.TransferRequest) (domain.NormalizedTransfer, error) {
	return s.validator.Validate(req, s.accounts.Accounts())
}

// Transfer validates req and then submits it once.
//
// Validation errors never reach the ledger. Ledger rejections, transport and
// authorization failures are returned as is and are never retried.
func (s *Service) Transfer(ctx context.Context, cred domain.Credential, req domain.TransferRequest) (domain.TransferConfirmation, error) {
	l := zerolog.Ctx(ctx)

	arg, err := s.Validate(req)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.TransferConfirmation{}, err
	}

	result, err := s.ledger.SubmitTransfer(ctx, cred, arg)
	if err != nil {
		l.Warn().Err(err).
			Str("from_account", arg.From).
			Str("to_account", arg.To).
			Str("amount", arg.Amount.StringFixed(2)).
			Msg("transfer not accepted")

		return domain.TransferConfirmation{}, err
	}

	l.Info().
		Str("from_account", arg.From).
		Str("to_account", arg.To).
		Str("amount", arg.Amount.StringFixed(2)).
		Msg("transfer accepted")

	return result, nil
}
