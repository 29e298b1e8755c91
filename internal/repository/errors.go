// Package repository implements persistence for users, events, bookings
// and seat claims on top of MongoDB. Sentinel errors defined here let
// handlers distinguish failure scenarios without inspecting driver
// errors: ErrNotFound maps to 404, ErrForbidden to 403, ErrEmailExists
// and ErrActiveBookings to 400.
package repository

import "errors"

// ErrNotFound is returned when a get-by-id misses.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registering with an email that is
// already taken (unique index on users.email).
var ErrEmailExists = errors.New("email already exists")

// ErrActiveBookings is returned when deleting an event that still has
// Confirmed bookings.
var ErrActiveBookings = errors.New("cannot delete event with active bookings")
