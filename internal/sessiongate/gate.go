// Package sessiongate mediates whether the client holds a valid credential for ledger calls.
package sessiongate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/go-petr/pet-bank-client/internal/domain"
)

// State of the session.
type State int

// Possible session states. Expiry is terminal, there is no refreshing state.
const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}

	return "unauthenticated"
}

var (
	// ErrLoggedOut is the reason reported when the user logs out.
	ErrLoggedOut = errors.New("logged out")
	// ErrBlankCredential indicates a login attempt without a credential.
	ErrBlankCredential = errors.New("blank credential")
)

// Gate owns the credential lifecycle.
//
// Every authenticated session gets its own done channel which is closed exactly
// once when the session ends, either by logout or by invalidation.
type Gate struct {
	mu        sync.Mutex
	state     State
	cred      domain.Credential
	done      chan struct{}
	reason    error
	listeners []func(reason error)
	now       func() time.Time
}

// New returns a gate in the unauthenticated state.
func New() *Gate {
	done := make(chan struct{})
	close(done)

	return &Gate{
		done:   done,
		reason: domain.ErrNotAuthenticated,
		now:    time.Now,
	}
}

// Login starts a new authenticated session with cred.
// A previous session still open is ended with ErrLoggedOut first.
func (g *Gate) Login(cred domain.Credential) error {
	if strings.TrimSpace(string(cred)) == "" {
		return ErrBlankCredential
	}

	g.Logout()

	g.mu.Lock()
	g.state = Authenticated
	g.cred = cred
	g.done = make(chan struct{})
	g.reason = nil
	g.mu.Unlock()

	return nil
}

// Logout ends the current session, if any.
func (g *Gate) Logout() {
	g.end("", ErrLoggedOut)
}

// Invalidate ends the session that cred belongs to because the ledger refused it.
//
// It returns true only for the call that actually ended the session: repeated
// failures of the same session, or stale failures of an older credential,
// are ignored.
func (g *Gate) Invalidate(cred domain.Credential, reason error) bool {
	if reason == nil {
		reason = domain.ErrAuthExpired
	}

	if cred == "" {
		return false
	}

	return g.end(cred, reason)
}

// Guard invalidates the session of cred when err is an authorization failure.
// The error is returned unchanged so calls can be wrapped inline.
func (g *Gate) Guard(cred domain.Credential, err error) error {
	if errors.Is(err, domain.ErrAuthExpired) {
		g.Invalidate(cred, err)
	}

	return err
}

// Authorize returns the credential of the current session.
//
// A JWT credential whose exp claim has passed ends the session instead,
// other credentials are treated as opaque.
func (g *Gate) Authorize() (domain.Credential, bool) {
	g.mu.Lock()
	cred, state := g.cred, g.state
	g.mu.Unlock()

	if state != Authenticated {
		return "", false
	}

	if exp, ok := expiry(cred); ok && !g.now().Before(exp) {
		g.Invalidate(cred, domain.ErrAuthExpired)
		return "", false
	}

	return cred, true
}

// State returns the current session state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Done returns a channel closed when the current session ends.
// While unauthenticated the returned channel is already closed.
func (g *Gate) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.done
}

// Err returns why the last session ended, nil while authenticated.
func (g *Gate) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.reason
}

// OnInvalidate registers fn to be called with the reason whenever a session ends.
func (g *Gate) OnInvalidate(fn func(reason error)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.listeners = append(g.listeners, fn)
}

// Context returns a copy of parent cancelled when the current session ends.
// The cancellation cause is the reason of the session end.
func (g *Gate) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	done := g.Done()

	go func() {
		select {
		case <-done:
			cancel(g.Err())
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// end closes the current session when cred matches it, or unconditionally for a blank cred.
func (g *Gate) end(cred domain.Credential, reason error) bool {
	g.mu.Lock()

	if g.state != Authenticated || (cred != "" && cred != g.cred) {
		g.mu.Unlock()
		return false
	}

	g.state = Unauthenticated
	g.cred = ""
	g.reason = reason
	close(g.done)

	listeners := make([]func(error), len(g.listeners))
	copy(listeners, g.listeners)

	g.mu.Unlock()

	for _, fn := range listeners {
		fn(reason)
	}

	return true
}

// expiry reads the exp claim of a JWT credential without verifying its signature.
func expiry(cred domain.Credential) (time.Time, bool) {
	if strings.Count(string(cred), ".") != 2 {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(string(cred), claims); err != nil {
		return time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
