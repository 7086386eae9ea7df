// Package ledgerfake is an in-memory ledger serving the same HTTP API as the remote bank.
// It backs local development and the end to end tests of the client.
package ledgerfake

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/pkg/passpkg"
)

const accountNumberPrefix = "098765432100"

var (
	// MinTransferAmount is the smallest amount the ledger moves.
	MinTransferAmount = decimal.NewFromInt(5)
	// TransferFeeRate is charged on top of every transfer.
	TransferFeeRate = decimal.RequireFromString("0.02")
)

var (
	// ErrInvalidCredentials indicates a wrong username or password.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUserExists indicates an already registered username.
	ErrUserExists = errors.New("A user with that username already exists.")
	// ErrUserNotFound indicates an unknown user.
	ErrUserNotFound = errors.New("User not found.")
	// ErrUnknownAccounts indicates a transfer between accounts the ledger does not know.
	ErrUnknownAccounts = errors.New("One or both of the provided account numbers are invalid.")
	// ErrNotOwner indicates a transfer from an account of another user.
	ErrNotOwner = errors.New("Source account does not belong to the user.")
	// ErrBelowMinimum indicates an amount lower than MinTransferAmount.
	ErrBelowMinimum = errors.New("Minimum transfer amount is 5.")
	// ErrInsufficientFunds indicates that amount and fee exceed the source balance.
	ErrInsufficientFunds = errors.New("Insufficient funds for transfer.")
)

type user struct {
	profile        domain.Profile
	hashedPassword string
}

// Store holds users, accounts, transactions and cards in memory.
type Store struct {
	mu       sync.Mutex
	users    map[string]user // by username
	accounts []domain.Account
	txs      []domain.Transaction
	cards    []domain.Card
	nextID   int64
	now      func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  map[string]user{},
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AddUser registers a user with an empty account, like the bank does on sign up.
func (s *Store) AddUser(p domain.Profile, password string) (domain.Profile, domain.Account, error) {
	hashed, err := passpkg.Hash(password)
	if err != nil {
		return domain.Profile{}, domain.Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.Username]; ok {
		return domain.Profile{}, domain.Account{}, ErrUserExists
	}

	if p.ID == "" {
		p.ID = fmt.Sprintf("%011d", s.nextID)
		s.nextID++
	}

	s.users[p.Username] = user{profile: p, hashedPassword: hashed}

	return p, s.addAccount(p.ID, decimal.Zero), nil
}

// AddAccount opens another account for userID.
func (s *Store) AddAccount(userID string, balance decimal.Decimal) domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addAccount(userID, balance)
}

func (s *Store) addAccount(userID string, balance decimal.Decimal) domain.Account {
	acc := domain.Account{
		ID:         s.nextID,
		Number:     accountNumberPrefix + strconv.Itoa(len(s.accounts)+1),
		Balance:    balance.Round(2),
		User:       userID,
		LastEdited: s.now(),
	}

	s.nextID++
	s.accounts = append(s.accounts, acc)

	return acc
}

// Deposit credits amount to the account with number and records a deposit.
func (s *Store) Deposit(number string, amount decimal.Decimal) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(number)
	if i < 0 {
		return domain.Transaction{}, ErrUnknownAccounts
	}

	s.accounts[i].Balance = s.accounts[i].Balance.Add(amount)
	s.accounts[i].LastEdited = s.now()

	tx := domain.Transaction{
		ID:        uuid.New(),
		AccountID: s.accounts[i].ID,
		User:      s.accounts[i].User,
		Date:      s.now(),
		Amount:    amount,
		Type:      domain.TypeDeposit,
		Fee:       decimal.Zero,
	}
	s.txs = append(s.txs, tx)

	return tx, nil
}

// IssueCard creates an active card for userID valid for a year.
func (s *Store) IssueCard(userID string) domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	card := domain.Card{
		ID:         int64(len(s.cards) + 1),
		User:       userID,
		Number:     fmt.Sprintf("123456789012%04d", len(s.cards)+1),
		Status:     "active",
		CreatedOn:  now.Format(time.DateOnly),
		ExpiryDate: now.AddDate(1, 0, 0).Format(time.DateOnly),
	}

	s.cards = append(s.cards, card)

	return card
}

// Authenticate returns the profile of username when password matches.
func (s *Store) Authenticate(username, password string) (domain.Profile, error) {
	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()

	if !ok {
		return domain.Profile{}, ErrInvalidCredentials
	}

	if err := passpkg.Check(password, u.hashedPassword); err != nil {
		return domain.Profile{}, ErrInvalidCredentials
	}

	return u.profile, nil
}

// Profile returns the profile of username.
func (s *Store) Profile(username string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return domain.Profile{}, ErrUserNotFound
	}

	return u.profile, nil
}

// Accounts returns the accounts of userID.
func (s *Store) Accounts(userID string) []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []domain.Account{}

	for _, acc := range s.accounts {
		if acc.User == userID {
			res = append(res, acc)
		}
	}

	return res
}

// Transactions returns the transactions of userID, most recent first.
func (s *Store) Transactions(userID string) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []domain.Transaction{}

	for _, tx := range s.txs {
		if tx.User == userID {
			res = append(res, tx)
		}
	}

	slices.SortStableFunc(res, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	return res
}

// Cards returns the cards of userID.
func (s *Store) Cards(userID string) []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []domain.Card{}

	for _, c := range s.cards {
		if c.User == userID {
			res = append(res, c)
		}
	}

	return res
}

// Transfer moves amount between two accounts charging the transfer fee to the sender.
//
// The sender gets a transfer transaction, the recipient a received one.
func (s *Store) Transfer(userID, from, to string, amount decimal.Decimal) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fromIdx, toIdx := s.indexOf(from), s.indexOf(to)
	if fromIdx < 0 || toIdx < 0 {
		return domain.Transaction{}, ErrUnknownAccounts
	}

	src, dst := &s.accounts[fromIdx], &s.accounts[toIdx]

	if src.User != userID {
		return domain.Transaction{}, ErrNotOwner
	}

	amount = amount.Round(2)
	if amount.LessThan(MinTransferAmount) {
		return domain.Transaction{}, ErrBelowMinimum
	}

	fee := amount.Mul(TransferFeeRate).Round(2)
	total := amount.Add(fee)

	if total.GreaterThan(src.Balance) {
		return domain.Transaction{}, ErrInsufficientFunds
	}

	now := s.now()

	src.Balance = src.Balance.Sub(total)
	src.LastEdited = now
	dst.Balance = dst.Balance.Add(amount)
	dst.LastEdited = now

	toID := dst.ID
	sent := domain.Transaction{
		ID:          uuid.New(),
		AccountID:   src.ID,
		ToAccountID: &toID,
		User:        src.User,
		Date:        now,
		Amount:      amount,
		Type:        domain.TypeTransfer,
		Fee:         fee,
	}

	received := domain.Transaction{
		ID:        uuid.New(),
		AccountID: dst.ID,
		User:      dst.User,
		Date:      now,
		Amount:    amount,
		Type:      domain.TypeReceived,
		Fee:       decimal.Zero,
	}

	s.txs = append(s.txs, sent, received)

	return sent, nil
}

func (s *Store) indexOf(number string) int {
	return slices.IndexFunc(s.accounts, func(acc domain.Account) bool {
		return acc.Number == number
	})
}
