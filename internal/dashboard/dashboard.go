// Package dashboard reconciles the accounts and transactions of the logged in user
// and drives transfers through the session gate.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-bank-client/internal/accountregistry"
	"github.com/go-petr/pet-bank-client/internal/domain"
	"github.com/go-petr/pet-bank-client/internal/ledgerview"
	"github.com/go-petr/pet-bank-client/internal/sessiongate"
	"github.com/go-petr/pet-bank-client/internal/snapshotcache"
	"github.com/go-petr/pet-bank-client/internal/transferservice"
)

// DefaultRecentLimit is the number of transactions shown in the summary.
const DefaultRecentLimit = 3

// Ledger provides the remote ledger calls used by the dashboard.
//
//go:generate mockgen -source dashboard.go -destination dashboard_mock.go -package dashboard
type Ledger interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	FetchAccounts(ctx context.Context, cred domain.Credential) ([]domain.Account, error)
	FetchTransactions(ctx context.Context, cred domain.Credential) ([]domain.Transaction, error)
	FetchProfile(ctx context.Context, cred domain.Credential) (domain.Profile, error)
	FetchCards(ctx context.Context, cred domain.Credential) ([]domain.Card, error)
	SubmitTransfer(ctx context.Context, cred domain.Credential, arg domain.NormalizedTransfer) (domain.TransferConfirmation, error)
}

// SnapshotCache persists the last good refresh per user.
type SnapshotCache interface {
	Save(ctx context.Context, user string, snap snapshotcache.Snapshot)
	Load(ctx context.Context, user string) (snapshotcache.Snapshot, bool)
	Clear(ctx context.Context, user string)
}

// Config holds the optional collaborators and settings of a Dashboard.
type Config struct {
	// MinAmount is the transfer floor, nil means transferservice.DefaultMinAmount.
	MinAmount   *decimal.Decimal
	RecentLimit int
	// Owner keys the snapshot cache. Login sets it to the user id when empty.
	Owner   string
	Cache   SnapshotCache
	Metrics Metrics
	Now     func() time.Time
}

// Dashboard is the view controller of the client core.
type Dashboard struct {
	ledger    Ledger
	gate      *sessiongate.Gate
	accounts  *accountregistry.Registry
	txs       *ledgerview.View
	transfers *transferservice.Service
	cache     SnapshotCache
	metrics   Metrics
	limit     int
	now       func() time.Time

	fixedOwner string

	// storeMu orders store writes of a refresh against sessionEnded.
	storeMu sync.Mutex

	mu          sync.Mutex
	owner       string
	profile     domain.Profile
	cards       []domain.Card
	stale       bool
	refreshedAt time.Time
}

// New returns a dashboard calling ledger with the credentials held by gate.
func New(ledger Ledger, gate *sessiongate.Gate, cfg Config) *Dashboard {
	d := &Dashboard{
		ledger:   ledger,
		gate:     gate,
		accounts: accountregistry.New(),
		txs:      ledgerview.New(),
		cache:    cfg.Cache,
		metrics:  cfg.Metrics,
		limit:    cfg.RecentLimit,
		now:      cfg.Now,
		owner:    cfg.Owner,

		fixedOwner: cfg.Owner,
	}

	if d.metrics == nil {
		d.metrics = nopMetrics{}
	}

	if d.limit <= 0 {
		d.limit = DefaultRecentLimit
	}

	if d.now == nil {
		d.now = time.Now
	}

	minAmount := transferservice.DefaultMinAmount
	if cfg.MinAmount != nil {
		minAmount = *cfg.MinAmount
	}

	d.transfers = transferservice.New(ledger, d.accounts, transferservice.NewValidator(minAmount))

	gate.OnInvalidate(d.sessionEnded)

	return d
}

// Login authenticates with the ledger and opens a new session in the gate.
func (d *Dashboard) Login(ctx context.Context, username, password string) error {
	session, err := d.ledger.Login(ctx, username, password)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Str("username", username).Msg("login failed")
		return err
	}

	if err := d.gate.Login(session.Tokens.Access); err != nil {
		return err
	}

	d.mu.Lock()
	d.profile = session.User
	d.owner = d.fixedOwner
	if d.owner == "" {
		d.owner = session.User.ID
	}
	d.mu.Unlock()

	return nil
}

// Logout ends the session and drops the loaded data, including the cached snapshot.
func (d *Dashboard) Logout(ctx context.Context) {
	d.mu.Lock()
	owner := d.owner
	d.mu.Unlock()

	d.gate.Logout()

	if d.cache != nil && owner != "" {
		d.cache.Clear(ctx, owner)
	}
}

// Refresh fetches accounts, transactions, profile and cards concurrently.
//
// Accounts and transactions each replace their store only when their fetch
// succeeded, a failed fetch keeps the previous data. The first authorization
// failure ends the session once and all results of the refresh are dropped.
// Nothing is retried. The returned error joins the account and transaction
// failures, profile and cards failures are only logged.
func (d *Dashboard) Refresh(ctx context.Context) error {
	done := d.gate.Done()

	cred, ok := d.gate.Authorize()
	if !ok {
		return domain.ErrNotAuthenticated
	}

	// A session that ended between Done and Authorize has closed done.
	if reason := d.endReason(done); reason != nil {
		return fmt.Errorf("refresh aborted: %w", reason)
	}

	ctx, cancel := d.gate.Context(ctx)
	defer cancel()

	l := zerolog.Ctx(ctx)

	var (
		wg       sync.WaitGroup
		accounts []domain.Account
		txs      []domain.Transaction
		profile  domain.Profile
		cards    []domain.Card
		accErr   error
		txErr    error
		profErr  error
		cardsErr error
	)

	wg.Add(4)

	go func() {
		defer wg.Done()
		accounts, accErr = d.ledger.FetchAccounts(ctx, cred)
		accErr = d.fetched(cred, "accounts", accErr)
	}()

	go func() {
		defer wg.Done()
		txs, txErr = d.ledger.FetchTransactions(ctx, cred)
		txErr = d.fetched(cred, "transactions", txErr)
	}()

	go func() {
		defer wg.Done()
		profile, profErr = d.ledger.FetchProfile(ctx, cred)
		profErr = d.fetched(cred, "profile", profErr)
	}()

	go func() {
		defer wg.Done()
		cards, cardsErr = d.ledger.FetchCards(ctx, cred)
		cardsErr = d.fetched(cred, "cards", cardsErr)
	}()

	wg.Wait()

	aborted := func(reason error) error {
		l.Warn().Err(reason).Msg("session ended during refresh, results dropped")
		return fmt.Errorf("refresh aborted: %w", reason)
	}

	d.storeMu.Lock()

	if reason := d.endReason(done); reason != nil {
		d.storeMu.Unlock()
		return aborted(reason)
	}

	if accErr == nil {
		d.accounts.Load(accounts)
	}

	if txErr == nil {
		d.txs.Load(txs)
	}

	d.mu.Lock()
	if profErr == nil {
		d.profile = profile
	}
	if cardsErr == nil {
		d.cards = cards
	}
	owner := d.owner
	d.mu.Unlock()

	err := errors.Join(accErr, txErr)
	if err != nil {
		d.restore(ctx, owner, accErr != nil, txErr != nil)
	}

	d.storeMu.Unlock()

	d.publishBalances()

	d.storeMu.Lock()
	defer d.storeMu.Unlock()

	// sessionEnded may have run while the balances were published.
	if reason := d.endReason(done); reason != nil {
		d.metrics.ResetBalances()
		return aborted(reason)
	}

	if orphans := d.txs.Orphans(d.accounts.HasID); len(orphans) > 0 {
		l.Warn().Int("count", len(orphans)).Msg("transactions reference unknown accounts")
	}

	if profErr != nil {
		l.Info().Err(profErr).Msg("profile not refreshed")
	}

	if cardsErr != nil {
		l.Info().Err(cardsErr).Msg("cards not refreshed")
	}

	if err == nil {
		d.mu.Lock()
		d.stale = false
		d.refreshedAt = d.now()
		d.mu.Unlock()

		if d.cache != nil && owner != "" {
			d.cache.Save(ctx, owner, snapshotcache.Snapshot{
				Accounts:     accounts,
				Transactions: txs,
				SavedAt:      d.now(),
			})
		}

		return nil
	}

	l.Warn().Err(err).Msg("refresh incomplete, keeping previous data")

	return err
}

// restore fills stores that were never loaded from the snapshot cache.
// The caller holds storeMu.
func (d *Dashboard) restore(ctx context.Context, owner string, accounts, txs bool) {
	if d.cache == nil || owner == "" {
		return
	}

	accounts = accounts && d.accounts.Len() == 0
	txs = txs && d.txs.Len() == 0

	if !accounts && !txs {
		return
	}

	snap, ok := d.cache.Load(ctx, owner)
	if !ok {
		return
	}

	if accounts {
		d.accounts.Load(snap.Accounts)
	}

	if txs {
		d.txs.Load(snap.Transactions)
	}

	d.mu.Lock()
	d.stale = true
	d.refreshedAt = snap.SavedAt
	d.mu.Unlock()

	zerolog.Ctx(ctx).Info().Time("saved_at", snap.SavedAt).Msg("showing cached snapshot")
}

// fetched records the outcome of one fetch and ends the session on authorization failure.
func (d *Dashboard) fetched(cred domain.Credential, resource string, err error) error {
	d.metrics.RecordFetch(resource, fetchOutcome(err))

	return d.gate.Guard(cred, err)
}

// Validate checks req against the loaded accounts without submitting it.
func (d *Dashboard) Validate(req domain.TransferRequest) (domain.NormalizedTransfer, error) {
	return d.transfers.Validate(req)
}

// Transfer validates and submits req once, then refreshes accounts and transactions.
//
// A refresh failure after an accepted transfer is logged and does not fail the transfer.
func (d *Dashboard) Transfer(ctx context.Context, req domain.TransferRequest) (domain.TransferConfirmation, error) {
	start := d.now()

	cred, ok := d.gate.Authorize()
	if !ok {
		d.metrics.RecordTransfer(d.now().Sub(start), transferOutcome(domain.ErrAuthExpired))
		return domain.TransferConfirmation{}, domain.ErrNotAuthenticated
	}

	res, err := d.transfers.Transfer(ctx, cred, req)
	err = d.gate.Guard(cred, err)

	d.metrics.RecordTransfer(d.now().Sub(start), transferOutcome(err))

	if err != nil {
		return domain.TransferConfirmation{}, err
	}

	if rerr := d.Refresh(ctx); rerr != nil {
		zerolog.Ctx(ctx).Warn().Err(rerr).Msg("refresh after transfer failed")
	}

	return res, nil
}

// Select makes the account with number the current one.
func (d *Dashboard) Select(number string) bool {
	return d.accounts.Select(number)
}

// Accounts returns the loaded accounts.
func (d *Dashboard) Accounts() []domain.Account {
	return d.accounts.Accounts()
}

// History returns the transactions of the account with number, most recent first.
func (d *Dashboard) History(number string) []ledgerview.Row {
	acc, ok := d.accounts.Find(number)
	if !ok {
		return nil
	}

	return ledgerview.Recent(d.txs.ForAccount(acc.ID), 0, d.now())
}

// Profile returns the last loaded profile and cards.
func (d *Dashboard) Profile() (domain.Profile, []domain.Card) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.profile, append([]domain.Card(nil), d.cards...)
}

func (d *Dashboard) publishBalances() {
	d.metrics.ResetBalances()

	for _, acc := range d.accounts.Accounts() {
		d.metrics.SetBalance(acc.Number, acc.Balance.InexactFloat64())
	}
}

// endReason reports why the session owning done ended, nil while it is open.
func (d *Dashboard) endReason(done <-chan struct{}) error {
	select {
	case <-done:
	default:
		return nil
	}

	if err := d.gate.Err(); err != nil {
		return err
	}

	// A newer session already replaced the one done belonged to.
	return sessiongate.ErrLoggedOut
}

// sessionEnded drops everything tied to the ended session.
func (d *Dashboard) sessionEnded(reason error) {
	if !errors.Is(reason, sessiongate.ErrLoggedOut) {
		d.metrics.RecordInvalidation()
	}

	d.storeMu.Lock()
	defer d.storeMu.Unlock()

	d.accounts.Load(nil)
	d.txs.Load(nil)
	d.metrics.ResetBalances()

	d.mu.Lock()
	d.profile = domain.Profile{}
	d.cards = nil
	d.stale = false
	d.refreshedAt = time.Time{}
	d.mu.Unlock()
}
