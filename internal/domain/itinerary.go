package domain

// Itinerary is a ranked search result of one or two flights. It only lives in
// a session's arena until the next search replaces it.
type Itinerary struct {
	Flights []Flight `json:"flights"`
}

// FlightPair identifies a durable itinerary row. SecondID is zero for
// direct itineraries.
type FlightPair struct {
	FirstID  int64
	SecondID int64
}

func NewDirectItinerary(f Flight) Itinerary {
	return Itinerary{Flights: []Flight{f}}
}

func NewOneHopItinerary(first, second Flight) Itinerary {
	return Itinerary{Flights: []Flight{first, second}}
}

func (it Itinerary) TotalMinutes() int {
	total := 0
	for _, f := range it.Flights {
		total += f.DurationMin
	}
	return total
}

func (it Itinerary) Price() int64 {
	var total int64
	for _, f := range it.Flights {
		total += f.Price
	}
	return total
}

func (it Itinerary) Pair() FlightPair {
	var p FlightPair
	if len(it.Flights) > 0 {
		p.FirstID = it.Flights[0].ID
	}
	if len(it.Flights) > 1 {
		p.SecondID = it.Flights[1].ID
	}
	return p
}

func (p FlightPair) Direct() bool {
	return p.SecondID == 0
}
