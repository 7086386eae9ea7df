// Package web defines the JSON bodies shared by the ledger API handlers.
package web

// MessageError is the body of a refused request carrying a human readable message.
type MessageError struct {
	Message string `json:"message"`
}

// Message wraps a given err into json friendly struct.
func Message(err error) MessageError {
	return MessageError{Message: err.Error()}
}

// DetailError is the body of an authentication failure.
type DetailError struct {
	Detail string `json:"detail"`
}

// Detail wraps a given err into json friendly struct.
func Detail(err error) DetailError {
	return DetailError{Detail: err.Error()}
}

// FieldErrors maps request fields to their validation messages.
type FieldErrors map[string][]string
