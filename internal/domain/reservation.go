package domain

type Reservation struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	ItineraryID int64    `json:"itinerary_id"`
	Paid        bool     `json:"paid"`
	Flights     []Flight `json:"flights"`
}

func (r Reservation) Price() int64 {
	return Itinerary{Flights: r.Flights}.Price()
}

// Payment is the result of paying a reservation.
type Payment struct {
	ReservationID int64 `json:"reservation_id"`
	Amount        int64 `json:"amount"`
	Balance       int64 `json:"balance"`
}
