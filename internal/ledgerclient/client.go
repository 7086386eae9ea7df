// Package ledgerclient calls the remote ledger HTTP API on behalf of the client core.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// Ledger API paths.
const (
	PathLogin        = "/api/login/"
	PathBalance      = "/api/balance/"
	PathTransactions = "/api/gettransactions/"
	PathTransfer     = "/api/transactions/"
	PathProfile      = "/api/getmyprofile/"
	PathCards        = "/api/mycards/"
)

// Resource names used in fetch errors and metrics.
const (
	ResourceAccounts     = "accounts"
	ResourceTransactions = "transactions"
	ResourceProfile      = "profile"
	ResourceCards        = "cards"
)

// RequestIDHeader carries the id of every ledger request, the ledger logs it.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxBodySize bounds the size of a ledger answer.
const DefaultMaxBodySize = 64 << 20

// ErrResponseTooLarge is returned for answers exceeding the client's body limit.
var ErrResponseTooLarge = errors.New("response too large")

// Client is the HTTP ledger client.
type Client struct {
	baseURL string
	http    *http.Client
	maxBody int64
}

// New returns a ledger client for baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewWithHTTPClient returns a ledger client sending its requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		maxBody: DefaultMaxBodySize,
	}
}

// WithMaxBodySize sets the largest answer body the client accepts.
func (c *Client) WithMaxBodySize(n int64) *Client {
	c.maxBody = n
	return c
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type transferBody struct {
	From   string `json:"from_account"`
	To     string `json:"to_account"`
	Amount string `json:"amount"`
}

// Login exchanges username and password for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	var res domain.Session

	status, body, err := c.do(ctx, http.MethodPost, PathLogin, "", loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil && !errors.Is(err, ErrResponseTooLarge) {
		return res, &domain.TransportError{Op: "login", Err: err}
	}

	if !success(status) {
		msg := errorMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}

		return res, fmt.Errorf("%w: %s", domain.ErrLoginFailed, msg)
	}

	if err != nil {
		return domain.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	if err := json.Unmarshal(body, &res); err != nil {
		return domain.Session{}, fmt.Errorf("decode login response: %w", err)
	}

	if res.Tokens.Access == "" {
		return domain.Session{}, fmt.Errorf("%w: no access token in response", domain.ErrLoginFailed)
	}

	return res, nil
}

// FetchAccounts returns all accounts of the credential owner.
func (c *Client) FetchAccounts(ctx context.Context, cred domain.Credential) ([]domain.Account, error) {
	var res []domain.Account

	err := c.fetch(ctx, cred, ResourceAccounts, PathBalance, &res)

	return res, err
}

// FetchTransactions returns all transactions of the credential owner.
func (c *Client) FetchTransactions(ctx context.Context, cred domain.Credential) ([]domain.Transaction, error) {
	var res []domain.Transaction

	err := c.fetch(ctx, cred, ResourceTransactions, PathTransactions, &res)

	return res, err
}

// FetchProfile returns the profile of the credential owner.
func (c *Client) FetchProfile(ctx context.Context, cred domain.Credential) (domain.Profile, error) {
	var res domain.Profile

	err := c.fetch(ctx, cred, ResourceProfile, PathProfile, &res)

	return res, err
}

// FetchCards returns the payment cards of the credential owner.
func (c *Client) FetchCards(ctx context.Context, cred domain.Credential) ([]domain.Card, error) {
	var res []domain.Card

	err := c.fetch(ctx, cred, ResourceCards, PathCards, &res)

	return res, err
}

// SubmitTransfer posts a validated transfer exactly once.
//
// A 401 answer yields domain.ErrAuthExpired, any other non 2xx answer a
// *domain.RejectedError and a missing answer a *domain.TransportError.
func (c *Client) SubmitTransfer(ctx context.Context, cred domain.Credential, arg domain.NormalizedTransfer) (domain.TransferConfirmation, error) {
	var res domain.TransferConfirmation

	status, body, err := c.do(ctx, http.MethodPost, PathTransfer, cred, transferBody{
		From:   arg.From,
		To:     arg.To,
		Amount: arg.Amount.StringFixed(2),
	})
	if err != nil && !errors.Is(err, ErrResponseTooLarge) {
		return res, &domain.TransportError{Op: "submit transfer", Err: err}
	}

	switch {
	case status == http.StatusUnauthorized:
		return res, domain.ErrAuthExpired
	case !success(status):
		return res, &domain.RejectedError{Status: status, Message: errorMessage(body)}
	}

	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transfer confirmation not read")
		return res, nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return res, nil
	}

	if err := json.Unmarshal(body, &res); err != nil {
		// The transfer was accepted, only the confirmation is unreadable.
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cannot decode transfer confirmation")
		return domain.TransferConfirmation{}, nil
	}

	return res, nil
}

func (c *Client) fetch(ctx context.Context, cred domain.Credential, resource, path string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, cred, nil)
	if err != nil && !errors.Is(err, ErrResponseTooLarge) {
		return &domain.FetchError{
			Resource: resource,
			Err:      &domain.TransportError{Op: "fetch " + resource, Err: err},
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return &domain.FetchError{Resource: resource, Status: status, Err: domain.ErrAuthExpired}
	case !success(status):
		fe := &domain.FetchError{Resource: resource, Status: status}
		if msg := errorMessage(body); msg != "" {
			fe.Err = errors.New(msg)
		}

		return fe
	}

	if err != nil {
		return &domain.FetchError{Resource: resource, Status: status, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &domain.FetchError{Resource: resource, Status: status, Err: fmt.Errorf("decode: %w", err)}
	}

	return nil
}

// do sends one request and returns the status and body of the answer.
// A non nil error other than ErrResponseTooLarge means no answer was received.
func (c *Client) do(ctx context.Context, method, path string, cred domain.Credential, in any) (int, []byte, error) {
	var reqBody io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, nil, err
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if cred != "" {
		req.Header.Set("Authorization", "Bearer "+string(cred))
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	l := zerolog.Ctx(ctx).With().Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		l.Error().Err(err).Str("method", method).Str("path", path).Msg("ledger request failed")
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return 0, nil, err
	}

	if int64(len(body)) > c.maxBody {
		l.Error().Str("path", path).Int64("limit", c.maxBody).Msg("ledger answer exceeds body limit")
		return resp.StatusCode, nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}

	l.Debug().
		Str("method", method).
		Str("path", path).
		Int("status_code", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Send()

	return resp.StatusCode, body, nil
}

func success(status int) bool {
	return status >= 200 && status < 300
}
