package api

import (
	"net/http"

	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/format"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

type itineraryResponse struct {
	Rank         int             `json:"rank"`
	TotalMinutes int             `json:"total_minutes"`
	Price        int64           `json:"price"`
	Flights      []domain.Flight `json:"flights"`
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(authed *gin.RouterGroup) {
	authed.GET("/itineraries", h.search)
}

// search: GET /itineraries?origin=..&destination=..&day=..&limit=..&direct=true
func (h *SearchHandler) search(c *gin.Context) {
	var q search.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Search(c.Request.Context(), sessionFrom(c), q)
	if err != nil {
		fail(c, err, format.Search(result, err))
		return
	}

	resp := make([]itineraryResponse, 0, len(result))
	for rank, it := range result {
		resp = append(resp, itineraryResponse{
			Rank:         rank,
			TotalMinutes: it.TotalMinutes(),
			Price:        it.Price(),
			Flights:      it.Flights,
		})
	}
	c.JSON(http.StatusOK, resp)
}
