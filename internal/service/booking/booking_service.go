package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/kafka"
	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/Domenick1991/flightapp/internal/repository"
	"github.com/Domenick1991/flightapp/internal/session"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Book(ctx context.Context, sess *session.Session, rank int) (int64, error)
	Pay(ctx context.Context, sess *session.Session, reservationID int64) (domain.Payment, error)
	Reservations(ctx context.Context, sess *session.Session) ([]domain.Reservation, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	reservations       repository.ReservationRepository
	producer           Producer
	reservationTopic   string
	notificationsTopic string
	log                *zap.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// NewBookingService wires the ledger. producer may be nil, in which case no
// events are published.
func NewBookingService(
	reservations repository.ReservationRepository,
	producer Producer,
	reservationTopic string,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		reservations:     reservations,
		producer:         producer,
		reservationTopic: reservationTopic,
		log:              log,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book reserves the itinerary at rank in the session's latest search.
func (s *BookingService) Book(ctx context.Context, sess *session.Session, rank int) (id int64, err error) {
	defer func() { metrics.Record("book", err) }()

	username, ok := sess.Username()
	if !ok {
		return 0, domain.ErrNotAuthenticated
	}
	itinerary, ok := sess.Itinerary(rank)
	if !ok {
		return 0, domain.ErrUnknownItinerary
	}

	id, err = s.reservations.Book(ctx, username, itinerary.Pair())
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateDayBooking) || errors.Is(err, domain.ErrBookingFailed) {
			return 0, err
		}
		s.log.Error("book itinerary",
			zap.String("user", username),
			zap.Int("rank", rank),
			zap.Error(err))
		return 0, fmt.Errorf("%w: %w", domain.ErrBookingFailed, err)
	}

	s.publish(ctx, kafka.ReservationEvent{
		Type:          kafka.EventReservationBooked,
		ReservationID: id,
		Username:      username,
		FlightIDs:     flightIDs(itinerary.Flights),
		Amount:        itinerary.Price(),
	})
	return id, nil
}

func (s *BookingService) Pay(ctx context.Context, sess *session.Session, reservationID int64) (payment domain.Payment, err error) {
	defer func() { metrics.Record("pay", err) }()

	username, ok := sess.Username()
	if !ok {
		return domain.Payment{}, domain.ErrNotAuthenticated
	}

	payment, err = s.reservations.Pay(ctx, username, reservationID)
	if err != nil {
		if errors.Is(err, domain.ErrReservationNotFound) || errors.Is(err, domain.ErrInsufficientFunds) {
			return domain.Payment{}, err
		}
		s.log.Error("pay reservation",
			zap.String("user", username),
			zap.Int64("reservation_id", reservationID),
			zap.Error(err))
		return domain.Payment{}, fmt.Errorf("%w: %w", domain.ErrPaymentFailed, err)
	}

	s.publish(ctx, kafka.ReservationEvent{
		Type:          kafka.EventReservationPaid,
		ReservationID: reservationID,
		Username:      username,
		Amount:        payment.Amount,
		Balance:       payment.Balance,
	})
	return payment, nil
}

// Reservations lists the user's reservations ordered by id. An empty list is
// not an error.
func (s *BookingService) Reservations(ctx context.Context, sess *session.Session) (list []domain.Reservation, err error) {
	defer func() { metrics.Record("reservations", err) }()

	username, ok := sess.Username()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	list, err = s.reservations.ListByUser(ctx, username)
	if err != nil {
		s.log.Error("list reservations", zap.String("user", username), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}
	return list, nil
}

// publish runs after the transaction committed; a failure here must not undo
// the booking or payment.
func (s *BookingService) publish(ctx context.Context, event kafka.ReservationEvent) {
	if s.producer == nil || s.reservationTopic == "" {
		return
	}
	event.OccurredAt = s.now().UTC()

	topics := []string{s.reservationTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, event.Key(), event); err != nil {
			s.log.Warn("publish reservation event",
				zap.String("topic", topic),
				zap.String("type", event.Type),
				zap.Int64("reservation_id", event.ReservationID),
				zap.Error(err))
		}
	}
}

func flightIDs(flights []domain.Flight) []int64 {
	ids := make([]int64, 0, len(flights))
	for _, f := range flights {
		ids = append(ids, f.ID)
	}
	return ids
}

var _ BookingUseCase = (*BookingService)(nil)
