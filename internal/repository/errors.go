// Package repository holds the persistence adapters of the service: MySQL
// tables for refresh tokens and the booking ledger, and Redis keys for seat
// selections and the submission lock.  Sentinel errors defined here let
// handlers and services distinguish failure scenarios without inspecting
// driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row or key.  Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write collides with existing state, such
// as recording a ledger event twice.  Handlers translate it into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidToken is returned for a refresh token that is unknown, revoked
// or expired.
var ErrInvalidToken = errors.New("invalid refresh token")
