// Package tokenpkg issues and verifies the bearer credentials of the fake ledger.
package tokenpkg

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates a malformed or wrongly signed token.
	ErrInvalidToken = errors.New("token is invalid")
	// ErrExpiredToken indicates an expired token.
	ErrExpiredToken = errors.New("token has expired")
)

// Maker manages tokens.
type Maker interface {
	// CreateToken creates a new token for a specific username and duration.
	CreateToken(username string, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// Payload contains the payload data of the token.
type Payload struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiredAt time.Time `json:"expired_at"`
}

// NewPayload creates a new token payload with a specific username and duration.
func NewPayload(username string, duration time.Duration) (*Payload, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	payload := &Payload{
		ID:        tokenID,
		Username:  username,
		IssuedAt:  time.Now(),
		ExpiredAt: time.Now().Add(duration),
	}

	return payload, nil
}

// Valid checks if the token payload is valid or not.
func (p *Payload) Valid() error {
	if time.Now().After(p.ExpiredAt) {
		return ErrExpiredToken
	}

	return nil
}

// New returns the maker of the given kind, "jwt" or "paseto".
func New(kind, symmetricKey string) (Maker, error) {
	switch kind {
	case "paseto":
		return NewPasetoMaker(symmetricKey)
	case "jwt", "":
		return NewJWTMaker(symmetricKey)
	}

	return nil, errors.New("unsupported token kind " + kind)
}
