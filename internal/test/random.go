// Package test provides shared test helpers.
package test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/pkg/randompkg"
)

// RandomAccount returns a random account owned by the given user.
func RandomAccount(user string) domain.Account {
	return domain.Account{
		ID:         randompkg.Int64Between(1, 1_000_000),
		Number:     randompkg.AccountNumber(),
		Balance:    randompkg.MoneyBetween(1000, 10_000),
		User:       user,
		LastEdited: time.Now().Truncate(time.Second).UTC(),
	}
}

// AccountWithBalance returns a random account with the given number and balance.
func AccountWithBalance(number, balance string) domain.Account {
	acc := RandomAccount(randompkg.UserID())
	acc.Number = number
	acc.Balance = decimal.RequireFromString(balance)

	return acc
}

// RandomTransaction returns a random transaction of the account dated at the given time.
func RandomTransaction(accountID int64, date time.Time) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		User:      randompkg.UserID(),
		Date:      date,
		Amount:    randompkg.MoneyBetween(5, 500),
		Type:      domain.TypeTransfer,
		Fee:       decimal.Zero,
	}
}
