package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository interface {
	// Book creates an unpaid reservation of pair for username and returns
	// its id.
	Book(ctx context.Context, username string, pair domain.FlightPair) (int64, error)
	// Pay debits the itinerary price from username and marks only that
	// reservation paid.
	Pay(ctx context.Context, username string, reservationID int64) (domain.Payment, error)
	ListByUser(ctx context.Context, username string) ([]domain.Reservation, error)
}

type PGReservationRepository struct {
	db Querier
	tx *TxRunner
}

func NewReservationRepository(db Querier, tx *TxRunner) ReservationRepository {
	return &PGReservationRepository{db: db, tx: tx}
}

func (r *PGReservationRepository) Book(ctx context.Context, username string, pair domain.FlightPair) (int64, error) {
	var id int64
	err := r.tx.Serializable(ctx, "book", func(ctx context.Context, tx pgx.Tx) error {
		// Serializes bookings of the same user ahead of the day check.
		if _, err := lockBalance(ctx, tx, username); err != nil {
			return err
		}

		first, err := checkLeg(ctx, tx, pair.FirstID)
		if err != nil {
			return err
		}
		if !pair.Direct() {
			if _, err := checkLeg(ctx, tx, pair.SecondID); err != nil {
				return err
			}
		}

		var sameDay int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM reservations r
			JOIN itineraries i ON i.id = r.itinerary_id
			JOIN flights f ON f.fid = i.first_fid
			WHERE r.username = $1 AND f.month_id = $2 AND f.day_of_month = $3`,
			username, first.Month, first.Day).Scan(&sameDay); err != nil {
			return err
		}
		if sameDay > 0 {
			return domain.ErrDuplicateDayBooking
		}

		itineraryID, err := resolveItinerary(ctx, tx, pair)
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, `INSERT INTO reservations (id, username, itinerary_id, paid)
			SELECT COALESCE(MAX(id), 0) + 1, $1, $2, FALSE FROM reservations
			RETURNING id`, username, itineraryID).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// checkLeg returns the day of a bookable flight. Canceled or unknown flights
// and flights with no seats left are rejected.
func checkLeg(ctx context.Context, tx pgx.Tx, fid int64) (domain.FlightDay, error) {
	var (
		day      domain.FlightDay
		capacity int
		booked   int
	)
	err := tx.QueryRow(ctx, `SELECT f.month_id, f.day_of_month, f.capacity,
			(SELECT COUNT(*) FROM reservations r
				JOIN itineraries i ON i.id = r.itinerary_id
				WHERE i.first_fid = f.fid OR i.second_fid = f.fid)
		FROM flights f
		WHERE f.fid = $1 AND f.canceled = 0`, fid).Scan(&day.Month, &day.Day, &capacity, &booked)
	if errors.Is(err, pgx.ErrNoRows) {
		return day, domain.ErrFlightUnavailable
	}
	if err != nil {
		return day, err
	}
	if booked >= capacity {
		return day, domain.ErrFlightFull
	}
	return day, nil
}

// resolveItinerary returns the id of the durable itinerary for pair,
// creating it the first time the pair is booked.
func resolveItinerary(ctx context.Context, tx pgx.Tx, pair domain.FlightPair) (int64, error) {
	second := nullableID(pair.SecondID)

	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM itineraries WHERE first_fid = $1 AND second_fid IS NOT DISTINCT FROM $2`,
		pair.FirstID, second).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = tx.QueryRow(ctx, `INSERT INTO itineraries (first_fid, second_fid) VALUES ($1, $2) RETURNING id`,
		pair.FirstID, second).Scan(&id)
	return id, err
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (r *PGReservationRepository) Pay(ctx context.Context, username string, reservationID int64) (domain.Payment, error) {
	payment := domain.Payment{ReservationID: reservationID}
	err := r.tx.Serializable(ctx, "pay", func(ctx context.Context, tx pgx.Tx) error {
		var itineraryID int64
		err := tx.QueryRow(ctx, `SELECT itinerary_id FROM reservations
			WHERE id = $1 AND username = $2 AND NOT paid
			FOR UPDATE`, reservationID, username).Scan(&itineraryID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrReservationNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(f.price), 0) FROM itineraries i
			JOIN flights f ON f.fid = i.first_fid OR f.fid = i.second_fid
			WHERE i.id = $1`, itineraryID).Scan(&payment.Amount); err != nil {
			return err
		}

		balance, err := lockBalance(ctx, tx, username)
		if err != nil {
			return err
		}
		if balance < payment.Amount {
			return &domain.InsufficientFundsError{Balance: balance, Price: payment.Amount}
		}

		if payment.Balance, err = debit(ctx, tx, username, payment.Amount); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `UPDATE reservations SET paid = TRUE, paid_at = now()
			WHERE id = $1 AND username = $2 AND NOT paid`, reservationID, username)
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return domain.ErrReservationNotFound
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return payment, nil
}

// nullFlight scans the optional second leg of a LEFT JOIN.
type nullFlight struct {
	ID          *int64
	Month       *int
	DayOfMonth  *int
	CarrierID   *string
	FlightNum   *string
	OriginCity  *string
	DestCity    *string
	DurationMin *int
	Capacity    *int
	Price       *int64
	Canceled    *bool
}

func (n *nullFlight) dest() []any {
	return []any{&n.ID, &n.Month, &n.DayOfMonth, &n.CarrierID, &n.FlightNum, &n.OriginCity, &n.DestCity, &n.DurationMin, &n.Capacity, &n.Price, &n.Canceled}
}

func (n *nullFlight) flight() (domain.Flight, bool) {
	if n.ID == nil {
		return domain.Flight{}, false
	}
	return domain.Flight{
		ID:          *n.ID,
		Month:       *n.Month,
		DayOfMonth:  *n.DayOfMonth,
		CarrierID:   *n.CarrierID,
		FlightNum:   *n.FlightNum,
		OriginCity:  *n.OriginCity,
		DestCity:    *n.DestCity,
		DurationMin: *n.DurationMin,
		Capacity:    *n.Capacity,
		Price:       *n.Price,
		Canceled:    *n.Canceled,
	}, true
}

func (r *PGReservationRepository) ListByUser(ctx context.Context, username string) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, `SELECT r.id, r.username, r.itinerary_id, r.paid, `+hopColumns+`
		FROM reservations r
		JOIN itineraries i ON i.id = r.itinerary_id
		JOIN flights f1 ON f1.fid = i.first_fid
		LEFT JOIN flights f2 ON f2.fid = i.second_fid
		WHERE r.username = $1
		ORDER BY r.id`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var (
			res    domain.Reservation
			first  domain.Flight
			second nullFlight
		)
		dest := []any{&res.ID, &res.Username, &res.ItineraryID, &res.Paid}
		dest = append(dest, flightDest(&first)...)
		dest = append(dest, second.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		res.Flights = []domain.Flight{first}
		if f, ok := second.flight(); ok {
			res.Flights = append(res.Flights, f)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
