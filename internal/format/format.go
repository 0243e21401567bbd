// Package format renders operation results as the line-oriented text shown
// by the console and returned in gRPC HttpBody responses.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightapp/internal/domain"
)

func Flight(f domain.Flight) string {
	return fmt.Sprintf("ID: %d Day: %d Carrier: %s Number: %s Origin: %s Dest: %s Duration: %d Capacity: %d Price: %d",
		f.ID, f.DayOfMonth, f.CarrierID, f.FlightNum, f.OriginCity, f.DestCity, f.DurationMin, f.Capacity, f.Price)
}

func Login(username string, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Logged in as %s\n", username)
	case errors.Is(err, domain.ErrAlreadyLoggedIn):
		return "User already logged in\n"
	default:
		return "Login failed\n"
	}
}

func CreateAccount(username string, err error) string {
	if err != nil {
		return "Failed to create user\n"
	}
	return fmt.Sprintf("Created user %s\n", username)
}

func Logout(err error) string {
	if err != nil {
		return "Cannot log out, not logged in\n"
	}
	return "Logged out\n"
}

func Search(itineraries []domain.Itinerary, err error) string {
	if err != nil {
		return "Failed to search\n"
	}
	if len(itineraries) == 0 {
		return "No flights match your selection\n"
	}

	var sb strings.Builder
	for rank, it := range itineraries {
		fmt.Fprintf(&sb, "Itinerary %d: %d flight(s), %d minutes\n", rank, len(it.Flights), it.TotalMinutes())
		for _, f := range it.Flights {
			sb.WriteString(Flight(f))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func Book(rank int, id int64, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Booked flight(s), reservation ID: %d\n", id)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Cannot book reservations, not logged in\n"
	case errors.Is(err, domain.ErrUnknownItinerary):
		return fmt.Sprintf("No such itinerary %d\n", rank)
	case errors.Is(err, domain.ErrDuplicateDayBooking):
		return "You cannot book two flights in the same day\n"
	default:
		return "Booking failed\n"
	}
}

func Pay(username string, reservationID int64, p domain.Payment, err error) string {
	var funds *domain.InsufficientFundsError
	switch {
	case err == nil:
		return fmt.Sprintf("Paid reservation: %d remaining balance: %d\n", reservationID, p.Balance)
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Cannot pay, not logged in\n"
	case errors.Is(err, domain.ErrReservationNotFound):
		return fmt.Sprintf("Cannot find unpaid reservation %d under user: %s\n", reservationID, username)
	case errors.As(err, &funds):
		return fmt.Sprintf("User has only %d in account but itinerary costs %d\n", funds.Balance, funds.Price)
	default:
		return fmt.Sprintf("Failed to pay for reservation %d\n", reservationID)
	}
}

func Reservations(list []domain.Reservation, err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "Cannot view reservations, not logged in\n"
	case err != nil:
		return "Failed to retrieve reservations\n"
	case len(list) == 0:
		return "No reservations found\n"
	}

	var sb strings.Builder
	for _, r := range list {
		fmt.Fprintf(&sb, "Reservation %d paid: %t:\n", r.ID, r.Paid)
		for _, f := range r.Flights {
			sb.WriteString(Flight(f))
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
