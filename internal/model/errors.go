package model

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrPersistence       = errors.New("persistence error")
	ErrGateway           = errors.New("gateway error")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	ErrNotRegistered         = errors.New("no account is registered with this email")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrNotVerified           = errors.New("email address is not verified")
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")
)

var (
	ErrPaymentNotConfirmable = errors.New("payment cannot be confirmed")
)
