package search

import (
	"context"
	"fmt"
	"slices"

	"github.com/Domenick1991/flightapp/internal/cache"
	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/Domenick1991/flightapp/internal/repository"
	"github.com/Domenick1991/flightapp/internal/session"
	"go.uber.org/zap"
)

type SearchUseCase interface {
	Search(ctx context.Context, sess *session.Session, q Query) ([]domain.Itinerary, error)
}

type Cache interface {
	GetItineraries(ctx context.Context, key cache.SearchKey) ([]domain.Itinerary, error)
	SetItineraries(ctx context.Context, key cache.SearchKey, itineraries []domain.Itinerary) error
}

type Query struct {
	Origin      string `form:"origin" json:"origin" binding:"required"`
	Destination string `form:"destination" json:"destination" binding:"required"`
	DirectOnly  bool   `form:"direct" json:"direct"`
	Day         int    `form:"day" json:"day" binding:"required"`
	MaxResults  int    `form:"limit" json:"limit"`
}

func (q Query) key() cache.SearchKey {
	return cache.SearchKey(q)
}

type SearchService struct {
	flights repository.FlightRepository
	cache   Cache
	log     *zap.Logger
}

// NewSearchService builds the engine. cache may be nil.
func NewSearchService(flights repository.FlightRepository, cache Cache, log *zap.Logger) *SearchService {
	return &SearchService{flights: flights, cache: cache, log: log}
}

// Search finds up to q.MaxResults itineraries ordered by total flight time and
// makes them the session's bookable set. Direct flights fill the result
// first; one-hop itineraries only take the slots left over.
func (s *SearchService) Search(ctx context.Context, sess *session.Session, q Query) (result []domain.Itinerary, err error) {
	defer func() { metrics.Record("search", err) }()

	if q.MaxResults <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	result, err = s.lookup(ctx, q)
	if err != nil {
		s.log.Error("search flights",
			zap.String("origin", q.Origin),
			zap.String("destination", q.Destination),
			zap.Int("day", q.Day),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	sess.ReplaceItineraries(result)
	return result, nil
}

func (s *SearchService) lookup(ctx context.Context, q Query) ([]domain.Itinerary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetItineraries(ctx, q.key())
		if err != nil {
			s.log.Warn("search cache read", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	direct, err := s.flights.FindDirect(ctx, q.Origin, q.Destination, q.Day, q.MaxResults)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Itinerary, 0, q.MaxResults)
	for _, f := range direct {
		result = append(result, domain.NewDirectItinerary(f))
	}

	if !q.DirectOnly && len(result) < q.MaxResults {
		hops, err := s.flights.FindOneHop(ctx, q.Origin, q.Destination, q.Day, q.MaxResults-len(result))
		if err != nil {
			return nil, err
		}
		result = append(result, hops...)
	}

	slices.SortStableFunc(result, func(a, b domain.Itinerary) int {
		return a.TotalMinutes() - b.TotalMinutes()
	})
	if len(result) > q.MaxResults {
		result = result[:q.MaxResults]
	}

	if s.cache != nil {
		if err := s.cache.SetItineraries(ctx, q.key(), result); err != nil {
			s.log.Warn("search cache write", zap.Error(err))
		}
	}
	return result, nil
}

var _ SearchUseCase = (*SearchService)(nil)
