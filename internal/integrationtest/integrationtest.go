// Package integrationtest provides fake ledger helpers used in end to end tests.
package integrationtest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/cmd/httpserver"
	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/ledgerfake"
	"github.com/go-petr/pet-bank-client/pkg/configpkg"
	"github.com/go-petr/pet-bank-client/pkg/randompkg"
)

// Config returns the configuration of a test ledger.
func Config() configpkg.Config {
	return configpkg.Config{
		RequestTimeout:      5 * time.Second,
		RecentLimit:         3,
		TokenSymmetricKey:   randompkg.String(32),
		TokenKind:           "jwt",
		AccessTokenDuration: time.Minute,
	}
}

// SetupServer returns a fake ledger server over an empty store.
func SetupServer(t *testing.T, config configpkg.Config) *httpserver.Server {
	t.Helper()

	server, err := httpserver.New(ledgerfake.NewStore(), zerolog.Nop(), config)
	if err != nil {
		t.Fatalf(`httpserver.New(store, logger, config) returned error: %v`, err)
	}

	return server
}

// StartServer serves server over http until the test ends and returns its base URL.
func StartServer(t *testing.T, server *httpserver.Server) string {
	t.Helper()

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return ts.URL
}

// SeedUser registers a random user and returns it with its first account.
func SeedUser(t *testing.T, store *ledgerfake.Store, password string) (domain.Profile, domain.Account) {
	t.Helper()

	phone := randompkg.PhoneNumber()

	profile, account, err := store.AddUser(domain.Profile{
		Username:    phone,
		FirstName:   randompkg.Owner(),
		PhoneNumber: phone,
		Email:       randompkg.Email(),
	}, password)
	if err != nil {
		t.Fatalf("store.AddUser(%v) returned error: %v", phone, err)
	}

	return profile, account
}

// SeedBalance deposits amount to the account with number.
func SeedBalance(t *testing.T, store *ledgerfake.Store, number, amount string) {
	t.Helper()

	if _, err := store.Deposit(number, decimal.RequireFromString(amount)); err != nil {
		t.Fatalf("store.Deposit(%v, %v) returned error: %v", number, amount, err)
	}
}
