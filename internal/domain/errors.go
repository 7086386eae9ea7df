package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired indicates that the ledger rejected the credential.
	ErrAuthExpired = errors.New("session expired")
	// ErrNotAuthenticated indicates that there is no valid credential to call the ledger with.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrLoginFailed indicates that the ledger refused the username and password.
	ErrLoginFailed = errors.New("login failed")

	// ErrValidation matches every local transfer validation failure.
	ErrValidation = errors.New("invalid transfer")
	// ErrMissingField indicates that source, destination or amount is blank.
	ErrMissingField = errors.New("all fields must be filled")
	// ErrInvalidAmount indicates a non numeric, non positive or too small amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnknownSource indicates that the source account does not belong to the user.
	ErrUnknownSource = errors.New("unknown source account")
	// ErrInsufficientFunds indicates that the source balance is lower than the amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSubmissionRejected indicates that the ledger declined a valid transfer.
	ErrSubmissionRejected = errors.New("transfer rejected")
	// ErrTransport indicates that no response was received from the ledger.
	ErrTransport = errors.New("no response from the server")
	// ErrFetchFailed indicates a failed read of accounts, transactions, profile or cards.
	ErrFetchFailed = errors.New("fetch failed")
)

// ValidationError describes why a transfer request was refused before submission.
type ValidationError struct {
	Kind  error
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Msg != "":
		return e.Kind.Error() + ": " + e.Msg
	case e.Field != "":
		return e.Kind.Error() + ": " + e.Field
	}

	return e.Kind.Error()
}

// Is reports whether target is ErrValidation.
// The kind sentinel is matched through Unwrap.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// RejectedError holds the ledger answer for a declined transfer.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return fmt.Sprintf("%s with status %d", ErrSubmissionRejected, e.Status)
}

// Is reports whether target is ErrSubmissionRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrSubmissionRejected
}

// TransportError wraps a failure where the ledger never answered.
// Whether a transfer was applied is unknown, so it is never retried.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrTransport, e.Op, e.Err)
}

// Is reports whether target is ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FetchError wraps a failed read from the ledger.
type FetchError struct {
	Resource string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrFetchFailed, e.Resource, e.Err)
	}

	return fmt.Sprintf("%s: %s: status %d", ErrFetchFailed, e.Resource, e.Status)
}

// Is reports whether target is ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
