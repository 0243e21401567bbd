package domain

import (
	"errors"
	"fmt"
)

// Validation and business-rule outcomes. These are reported to the caller as
// is and never retried.
var (
	ErrAlreadyLoggedIn     = errors.New("user already logged in")
	ErrLoginFailed         = errors.New("login failed")
	ErrNotAuthenticated    = errors.New("not logged in")
	ErrInvalidAmount       = errors.New("initial balance must not be negative")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidRequest      = errors.New("number of itineraries must be positive")
	ErrUnknownItinerary    = errors.New("no such itinerary")
	ErrDuplicateDayBooking = errors.New("cannot book two flights in the same day")
	ErrReservationNotFound = errors.New("unpaid reservation not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
)

// Generic failures. The wrapped cause is only for logs; callers match the
// category.
var (
	ErrCreateFailed    = errors.New("failed to create user")
	ErrSearchFailed    = errors.New("failed to search")
	ErrBookingFailed   = errors.New("booking failed")
	ErrPaymentFailed   = errors.New("payment failed")
	ErrRetrievalFailed = errors.New("failed to retrieve reservations")
)

var (
	ErrFlightFull        = fmt.Errorf("%w: flight is at capacity", ErrBookingFailed)
	ErrFlightUnavailable = fmt.Errorf("%w: flight is canceled or unknown", ErrBookingFailed)
)

type InsufficientFundsError struct {
	Balance int64
	Price   int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("balance %d is less than price %d", e.Balance, e.Price)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
