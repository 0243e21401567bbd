package api

import (
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the JSON API under /api/v1.
func NewRouter(registry *session.Registry, accounts account.AccountUseCase, searches search.SearchUseCase, bookings booking.BookingUseCase) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	authed := v1.Group("", RequireSession(registry))

	NewSessionHandler(registry).Register(v1)
	NewAccountHandler(accounts).Register(v1, authed)
	NewSearchHandler(searches).Register(authed)
	NewBookingHandler(bookings).Register(authed)
	return router
}
