package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	FindDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Flight, error)
	FindOneHop(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db Querier
}

func NewFlightRepository(db Querier) FlightRepository {
	return &PGFlightRepository{db: db}
}

const (
	flightColumns = `fid, month_id, day_of_month, carrier_id, flight_num, origin_city, dest_city, actual_time, capacity, price, canceled <> 0`

	hopColumns = `f1.fid, f1.month_id, f1.day_of_month, f1.carrier_id, f1.flight_num, f1.origin_city, f1.dest_city, f1.actual_time, f1.capacity, f1.price, f1.canceled <> 0,
		f2.fid, f2.month_id, f2.day_of_month, f2.carrier_id, f2.flight_num, f2.origin_city, f2.dest_city, f2.actual_time, f2.capacity, f2.price, f2.canceled <> 0`
)

func flightDest(f *domain.Flight) []any {
	return []any{&f.ID, &f.Month, &f.DayOfMonth, &f.CarrierID, &f.FlightNum, &f.OriginCity, &f.DestCity, &f.DurationMin, &f.Capacity, &f.Price, &f.Canceled}
}

func (r *PGFlightRepository) FindDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin_city = $1 AND dest_city = $2 AND day_of_month = $3 AND canceled = 0
		ORDER BY actual_time, fid
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(flightDest(&f)...); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) FindOneHop(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+hopColumns+`
		FROM flights f1
		JOIN flights f2 ON f2.origin_city = f1.dest_city
			AND f2.month_id = f1.month_id AND f2.day_of_month = f1.day_of_month
		WHERE f1.origin_city = $1 AND f2.dest_city = $2 AND f1.day_of_month = $3
			AND f1.canceled = 0 AND f2.canceled = 0
		ORDER BY f1.actual_time + f2.actual_time, f1.fid, f2.fid
		LIMIT $4`, origin, dest, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	itineraries := make([]domain.Itinerary, 0)
	for rows.Next() {
		var first, second domain.Flight
		if err := rows.Scan(append(flightDest(&first), flightDest(&second)...)...); err != nil {
			return nil, err
		}
		itineraries = append(itineraries, domain.NewOneHopItinerary(first, second))
	}
	return itineraries, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	err := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE fid = $1`, id).Scan(flightDest(&f)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
