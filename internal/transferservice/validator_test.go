package transferservice

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/test"
)

func TestValidate(t *testing.T) {
	a1 := test.AccountWithBalance("A1", "50.00")
	accounts := []domain.Account{a1}

	v := NewValidator(DefaultMinAmount)

	testCases := []struct {
		name       string
		req        domain.TransferRequest
		accounts   []domain.Account
		wantKind   error
		wantAmount string
	}{
		{
			name:     "MissingSource",
			req:      domain.TransferRequest{From: "", To: "123", Amount: "10"},
			accounts: accounts,
			wantKind: domain.ErrMissingField,
		},
		{
			name:     "MissingDestination",
			req:      domain.TransferRequest{From: "A1", To: "  ", Amount: "10"},
			accounts: accounts,
			wantKind: domain.ErrMissingField,
		},
		{
			name:     "BlankAmount",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: " "},
			accounts: accounts,
			wantKind: domain.ErrMissingField,
		},
		{
			name:     "MissingFieldWinsOverUnknownSource",
			req:      domain.TransferRequest{From: "ZZ", To: "", Amount: "abc"},
			accounts: accounts,
			wantKind: domain.ErrMissingField,
		},
		{
			name:     "NegativeAmount",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "-5"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "ZeroAmount",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "0"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "NotNumeric",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "!@#$"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "BelowMinimum",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "4.99"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "RoundsUpToMinimum",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "4.995"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "RoundsDownToBalance",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "50.004"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:       "TrailingZeros",
			req:        domain.TransferRequest{From: "A1", To: "A2", Amount: "20.000"},
			accounts:   accounts,
			wantAmount: "20.00",
		},
		{
			name:     "InvalidAmountWinsOverUnknownSource",
			req:      domain.TransferRequest{From: "ZZ", To: "A2", Amount: "-1"},
			accounts: accounts,
			wantKind: domain.ErrInvalidAmount,
		},
		{
			name:     "UnknownSource",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "10"},
			accounts: nil,
			wantKind: domain.ErrUnknownSource,
		},
		{
			name:     "InsufficientFunds",
			req:      domain.TransferRequest{From: "A1", To: "A2", Amount: "1000"},
			accounts: accounts,
			wantKind: domain.ErrInsufficientFunds,
		},
		{
			name:       "OK",
			req:        domain.TransferRequest{From: "A1", To: "A2", Amount: "20"},
			accounts:   accounts,
			wantAmount: "20.00",
		},
		{
			name:       "MinimumIsAccepted",
			req:        domain.TransferRequest{From: " A1 ", To: " 0987654321001 ", Amount: "5"},
			accounts:   accounts,
			wantAmount: "5.00",
		},
		{
			name:       "WholeBalance",
			req:        domain.TransferRequest{From: "A1", To: "A2", Amount: "50.00"},
			accounts:   accounts,
			wantAmount: "50.00",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := v.Validate(tc.req, tc.accounts)

			if tc.wantKind != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.wantKind)
				require.ErrorIs(t, err, domain.ErrValidation)

				var ve *domain.ValidationError
				require.True(t, errors.As(err, &ve))
				require.Empty(t, got)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.wantAmount, got.Amount.StringFixed(2))
			require.True(t, got.Amount.Equal(decimal.RequireFromString(tc.wantAmount)))
			require.Equal(t, "A1", got.From)
			require.NotEmpty(t, got.To)
			require.Equal(t, got.To, strings.TrimSpace(tc.req.To))
		})
	}
}

func TestValidateConfigurableFloor(t *testing.T) {
	t.Parallel()

	accounts := []domain.Account{test.AccountWithBalance("A1", "50.00")}
	req := domain.TransferRequest{From: "A1", To: "A2", Amount: "1"}

	_, err := NewValidator(DefaultMinAmount).Validate(req, accounts)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	got, err := NewValidator(decimal.Zero).Validate(req, accounts)
	require.NoError(t, err)
	require.Equal(t, "1.00", got.Amount.StringFixed(2))
}
