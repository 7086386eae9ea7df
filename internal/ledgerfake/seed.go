package ledgerfake

import (
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// Demo login of the seeded ledger.
const (
	DemoUsername = "0912345678"
	DemoPassword = "secret123"
)

// SeedDemo fills s with two users, three accounts, a few transactions and a card.
func SeedDemo(s *Store) error {
	demo, main, err := s.AddUser(domain.Profile{
		Username:    DemoUsername,
		FirstName:   "Demo",
		LastName:    "User",
		PhoneNumber: DemoUsername,
		Email:       "demo@example.com",
		Address:     "1 Main st",
	}, DemoPassword)
	if err != nil {
		return err
	}

	savings := s.AddAccount(demo.ID, decimal.Zero)

	_, other, err := s.AddUser(domain.Profile{
		Username:    "0987654321",
		FirstName:   "Other",
		LastName:    "User",
		PhoneNumber: "0987654321",
	}, "other12345")
	if err != nil {
		return err
	}

	deposits := []struct {
		number string
		amount string
	}{
		{main.Number, "1000.00"},
		{savings.Number, "250.00"},
		{other.Number, "500.00"},
	}

	for _, d := range deposits {
		if _, err := s.Deposit(d.number, decimal.RequireFromString(d.amount)); err != nil {
			return err
		}
	}

	if _, err := s.Transfer(demo.ID, main.Number, other.Number, decimal.NewFromInt(100)); err != nil {
		return err
	}

	s.IssueCard(demo.ID)

	return nil
}
