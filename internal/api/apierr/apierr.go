// Package apierr maps engine errors onto gRPC status codes. The HTTP API
// derives its status from the same codes.
package apierr

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightapp/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrLoginFailed):
		return codes.Unauthenticated
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidRequest):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrAlreadyLoggedIn),
		errors.Is(err, domain.ErrUsernameTaken):
		return codes.AlreadyExists
	case errors.Is(err, domain.ErrUnknownItinerary),
		errors.Is(err, domain.ErrReservationNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrDuplicateDayBooking),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrFlightFull),
		errors.Is(err, domain.ErrFlightUnavailable):
		return codes.FailedPrecondition
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// Status converts err to a gRPC status. Internal failures carry only the
// generic category message, never the wrapped cause.
func Status(err error) error {
	if err == nil {
		return nil
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(code, category(err))
	}
	return status.Error(code, err.Error())
}

func category(err error) string {
	for _, generic := range []error{
		domain.ErrCreateFailed,
		domain.ErrSearchFailed,
		domain.ErrBookingFailed,
		domain.ErrPaymentFailed,
		domain.ErrRetrievalFailed,
	} {
		if errors.Is(err, generic) {
			return generic.Error()
		}
	}
	return "internal error"
}
