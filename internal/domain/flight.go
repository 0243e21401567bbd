package domain

type Flight struct {
	ID          int64  `json:"fid"`
	Month       int    `json:"month"`
	DayOfMonth  int    `json:"day_of_month"`
	CarrierID   string `json:"carrier_id"`
	FlightNum   string `json:"flight_num"`
	OriginCity  string `json:"origin_city"`
	DestCity    string `json:"dest_city"`
	DurationMin int    `json:"duration_minutes"`
	Capacity    int    `json:"capacity"`
	Price       int64  `json:"price"`
	Canceled    bool   `json:"canceled"`
}

// FlightDay is the calendar day a flight occurs on. At most one reservation
// per user may fall on a given FlightDay.
type FlightDay struct {
	Month int
	Day   int
}

func (f Flight) Day() FlightDay {
	return FlightDay{Month: f.Month, Day: f.DayOfMonth}
}
