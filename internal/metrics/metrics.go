package metrics

import (
	"errors"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Operations counts engine operations by outcome, e.g.
	// {op="book", outcome="duplicate_day"}.
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightapp",
			Subsystem: "engine",
			Name:      "operations_total",
			Help:      "Engine operations by outcome.",
		}, []string{"op", "outcome"})

	TxRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "flightapp",
			Subsystem: "store",
			Name:      "tx_retries_total",
			Help:      "Transactions re-run after a serialization failure or deadlock.",
		}, []string{"op"})

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "flightapp",
			Subsystem: "session",
			Name:      "active",
			Help:      "Open client sessions.",
		})
)

func init() {
	prometheus.MustRegister(Operations, TxRetries, ActiveSessions)
}

// Record counts one finished operation under the outcome err maps to.
func Record(op string, err error) {
	Operations.WithLabelValues(op, Outcome(err)).Inc()
}

func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}

var outcomes = []struct {
	err   error
	label string
}{
	{domain.ErrNotAuthenticated, "not_authenticated"},
	{domain.ErrAlreadyLoggedIn, "already_logged_in"},
	{domain.ErrLoginFailed, "login_failed"},
	{domain.ErrInvalidAmount, "invalid_amount"},
	{domain.ErrInvalidRequest, "invalid_request"},
	{domain.ErrUsernameTaken, "username_taken"},
	{domain.ErrUnknownItinerary, "unknown_itinerary"},
	{domain.ErrDuplicateDayBooking, "duplicate_day"},
	{domain.ErrFlightFull, "flight_full"},
	{domain.ErrFlightUnavailable, "flight_unavailable"},
	{domain.ErrReservationNotFound, "reservation_not_found"},
	{domain.ErrInsufficientFunds, "insufficient_funds"},
}
