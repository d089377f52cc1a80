package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserHasBookings = errors.New("user still has booking records")
)

// Peminjaman errors
var (
	ErrPeminjamanNotFound = errors.New("peminjaman not found")
	ErrRuanganNotFound    = errors.New("ruangan not found")
	ErrInvalidStatus      = errors.New("invalid peminjaman status")
	ErrInvalidTransition  = errors.New("peminjaman is not waiting for approval")
)
