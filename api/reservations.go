package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/format"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookRequest struct {
	Itinerary *int `json:"itinerary" binding:"required"`
}

type bookResponse struct {
	ReservationID int64 `json:"reservation_id"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(authed *gin.RouterGroup) {
	authed.POST("/reservations", h.book)
	authed.GET("/reservations", h.list)
	authed.POST("/reservations/:id/payment", h.pay)
}

func (h *BookingHandler) book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	rank := *req.Itinerary
	id, err := h.service.Book(c.Request.Context(), sessionFrom(c), rank)
	if err != nil {
		fail(c, err, format.Book(rank, id, err))
		return
	}
	c.JSON(http.StatusCreated, bookResponse{ReservationID: id})
}

func (h *BookingHandler) pay(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}

	sess := sessionFrom(c)
	payment, err := h.service.Pay(c.Request.Context(), sess, id)
	if err != nil {
		username, _ := sess.Username()
		fail(c, err, format.Pay(username, id, payment, err))
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *BookingHandler) list(c *gin.Context) {
	list, err := h.service.Reservations(c.Request.Context(), sessionFrom(c))
	if err != nil {
		fail(c, err, format.Reservations(list, err))
		return
	}
	if list == nil {
		list = []domain.Reservation{}
	}
	c.JSON(http.StatusOK, list)
}
