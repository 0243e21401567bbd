// Package notify turns reservation events into customer-facing receipts.
package notify

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightapp/internal/kafka"
	"go.uber.org/zap"
)

type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	msg := Receipt(event)
	if msg == "" {
		s.log.Debug("no receipt for event", zap.String("type", event.Type))
		return nil
	}
	s.log.Info("receipt sent",
		zap.String("user", event.Username),
		zap.Int64("reservation_id", event.ReservationID),
		zap.String("message", msg))
	return nil
}

// Receipt renders the message a user receives for event, or "" for event
// types that do not produce one.
func Receipt(event kafka.ReservationEvent) string {
	switch event.Type {
	case kafka.EventReservationBooked:
		return fmt.Sprintf("Reservation %d is booked for %s and awaits payment.", event.ReservationID, event.Username)
	case kafka.EventReservationPaid:
		return fmt.Sprintf("Reservation %d is paid: %d charged, remaining balance %d.", event.ReservationID, event.Amount, event.Balance)
	default:
		return ""
	}
}
