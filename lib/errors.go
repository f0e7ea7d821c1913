package lib

import (
	"bijouterie_server/database"
	"errors"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrAuth        = errors.New("not authenticated")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence error")
	ErrStorage     = errors.New("storage error")
	ErrUnavailable = errors.New("notification transport unavailable")
	ErrDispatch    = errors.New("notification dispatch failed")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// OpError tags a failed store operation with its kind. Error() is the cause's message, unchanged.
type OpError struct {
	Kind error
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	return e.Err.Error()
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func Persistence(op string, err error) error {
	return &OpError{Kind: ErrPersistence, Op: op, Err: err}
}

func Storage(op string, err error) error {
	return &OpError{Kind: ErrStorage, Op: op, Err: err}
}

func Dispatch(kind error, err error) error {
	return &OpError{Kind: kind, Op: "send", Err: err}
}

func MapPgError(err error) error {
	switch database.SQLState(err) {
	case "23505": // unique_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict)
}
