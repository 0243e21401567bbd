package apierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestCode(t *testing.T) {
	testCases := []struct {
		err  error
		code codes.Code
	}{
		{nil, codes.OK},
		{domain.ErrNotAuthenticated, codes.Unauthenticated},
		{domain.ErrLoginFailed, codes.Unauthenticated},
		{domain.ErrInvalidRequest, codes.InvalidArgument},
		{domain.ErrUsernameTaken, codes.AlreadyExists},
		{domain.ErrUnknownItinerary, codes.NotFound},
		{domain.ErrReservationNotFound, codes.NotFound},
		{domain.ErrDuplicateDayBooking, codes.FailedPrecondition},
		{&domain.InsufficientFundsError{Balance: 1, Price: 2}, codes.FailedPrecondition},
		{domain.ErrFlightFull, codes.FailedPrecondition},
		{fmt.Errorf("%w: %w", domain.ErrBookingFailed, errors.New("db")), codes.Internal},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.code, Code(tc.err), "%v", tc.err)
	}
}

func TestStatusHidesCause(t *testing.T) {
	err := Status(fmt.Errorf("%w: %w", domain.ErrPaymentFailed, errors.New("password=secret")))

	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "payment failed", st.Message())

	st, _ = status.FromError(Status(domain.ErrUnknownItinerary))
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Nil(t, Status(nil))
}
