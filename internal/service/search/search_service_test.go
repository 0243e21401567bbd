package search

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightapp/internal/cache"
	"github.com/Domenick1991/flightapp/internal/domain"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) FindDirect(ctx context.Context, origin, dest string, day, limit int) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, dest, day, limit)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) FindOneHop(ctx context.Context, origin, dest string, day, limit int) ([]domain.Itinerary, error) {
	args := m.Called(ctx, origin, dest, day, limit)
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetItineraries(ctx context.Context, key cache.SearchKey) ([]domain.Itinerary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Itinerary), args.Error(1)
}

func (m *MockCache) SetItineraries(ctx context.Context, key cache.SearchKey, itineraries []domain.Itinerary) error {
	args := m.Called(ctx, key, itineraries)
	return args.Error(0)
}

func flight(id int64, minutes int) domain.Flight {
	return domain.Flight{ID: id, Month: 7, DayOfMonth: 1, OriginCity: "Seattle WA", DestCity: "Boston MA", DurationMin: minutes, Capacity: 10, Price: 100}
}

func hop(a, b int64, first, second int) domain.Itinerary {
	return domain.NewOneHopItinerary(flight(a, first), flight(b, second))
}

func ids(its []domain.Itinerary) [][]int64 {
	out := make([][]int64, 0, len(its))
	for _, it := range its {
		row := make([]int64, 0, len(it.Flights))
		for _, f := range it.Flights {
			row = append(row, f.ID)
		}
		out = append(out, row)
	}
	return out
}

func TestSearchService_Search_DirectFillsResult(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())
	ctx := context.Background()
	sess := session.New("s")

	repo.On("FindDirect", ctx, "Seattle WA", "Boston MA", 1, 2).
		Return([]domain.Flight{flight(1, 300), flight(2, 310)}, nil).Once()

	result, err := svc.Search(ctx, sess, Query{Origin: "Seattle WA", Destination: "Boston MA", Day: 1, MaxResults: 2})

	require.NoError(t, err)
	assert.Equal(t, [][]int64{{1}, {2}}, ids(result))
	repo.AssertNotCalled(t, "FindOneHop", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestSearchService_Search_HopsTakeRemainingSlots(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())
	ctx := context.Background()
	sess := session.New("s")

	repo.On("FindDirect", ctx, "Seattle WA", "Boston MA", 1, 4).
		Return([]domain.Flight{flight(1, 300)}, nil).Once()
	repo.On("FindOneHop", ctx, "Seattle WA", "Boston MA", 1, 3).
		Return([]domain.Itinerary{hop(5, 6, 100, 150), hop(7, 8, 150, 150), hop(9, 10, 200, 200)}, nil).Once()

	result, err := svc.Search(ctx, sess, Query{Origin: "Seattle WA", Destination: "Boston MA", Day: 1, MaxResults: 4})

	require.NoError(t, err)
	// 250, 300 (direct), 300 (hop), 400
	assert.Equal(t, [][]int64{{5, 6}, {1}, {7, 8}, {9, 10}}, ids(result))

	it, ok := sess.Itinerary(1)
	require.True(t, ok)
	assert.Equal(t, int64(1), it.Flights[0].ID)
	repo.AssertExpectations(t)
}

func TestSearchService_Search_DirectOnly(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())
	ctx := context.Background()

	repo.On("FindDirect", ctx, "A", "B", 3, 5).Return([]domain.Flight{flight(1, 90)}, nil).Once()

	result, err := svc.Search(ctx, session.New("s"), Query{Origin: "A", Destination: "B", DirectOnly: true, Day: 3, MaxResults: 5})

	require.NoError(t, err)
	assert.Len(t, result, 1)
	repo.AssertNotCalled(t, "FindOneHop", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchService_Search_NoMatchClearsArena(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())
	ctx := context.Background()
	sess := session.New("s")
	sess.ReplaceItineraries([]domain.Itinerary{domain.NewDirectItinerary(flight(1, 10))})

	repo.On("FindDirect", ctx, "A", "B", 3, 5).Return([]domain.Flight{}, nil).Once()
	repo.On("FindOneHop", ctx, "A", "B", 3, 5).Return([]domain.Itinerary{}, nil).Once()

	result, err := svc.Search(ctx, sess, Query{Origin: "A", Destination: "B", Day: 3, MaxResults: 5})

	require.NoError(t, err)
	assert.Empty(t, result)
	_, ok := sess.Itinerary(0)
	assert.False(t, ok)
}

func TestSearchService_Search_InvalidLimit(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())

	for _, n := range []int{0, -3} {
		_, err := svc.Search(context.Background(), session.New("s"), Query{Origin: "A", Destination: "B", Day: 1, MaxResults: n})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	}
	repo.AssertNotCalled(t, "FindDirect", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchService_Search_StoreFailureKeepsArena(t *testing.T) {
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, nil, zap.NewNop())
	ctx := context.Background()
	sess := session.New("s")
	sess.ReplaceItineraries([]domain.Itinerary{domain.NewDirectItinerary(flight(42, 10))})

	repo.On("FindDirect", ctx, "A", "B", 1, 1).Return([]domain.Flight(nil), errors.New("db down")).Once()

	_, err := svc.Search(ctx, sess, Query{Origin: "A", Destination: "B", Day: 1, MaxResults: 1})

	assert.ErrorIs(t, err, domain.ErrSearchFailed)
	it, ok := sess.Itinerary(0)
	require.True(t, ok)
	assert.Equal(t, int64(42), it.Flights[0].ID)
}

func TestSearchService_Search_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	c := &MockCache{}
	svc := NewSearchService(repo, c, zap.NewNop())
	ctx := context.Background()
	q := Query{Origin: "A", Destination: "B", Day: 1, MaxResults: 1}
	cached := []domain.Itinerary{domain.NewDirectItinerary(flight(3, 60))}

	c.On("GetItineraries", ctx, q.key()).Return(cached, nil).Once()

	result, err := svc.Search(ctx, session.New("s"), q)

	require.NoError(t, err)
	assert.Equal(t, cached, result)
	repo.AssertNotCalled(t, "FindDirect", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	c.AssertExpectations(t)
}

func TestSearchService_Search_CacheErrorFallsThrough(t *testing.T) {
	repo := &MockFlightRepository{}
	c := &MockCache{}
	svc := NewSearchService(repo, c, zap.NewNop())
	ctx := context.Background()
	q := Query{Origin: "A", Destination: "B", DirectOnly: true, Day: 1, MaxResults: 1}

	c.On("GetItineraries", ctx, q.key()).Return(nil, errors.New("redis down")).Once()
	repo.On("FindDirect", ctx, "A", "B", 1, 1).Return([]domain.Flight{flight(3, 60)}, nil).Once()
	c.On("SetItineraries", ctx, q.key(), mock.Anything).Return(errors.New("redis down")).Once()

	result, err := svc.Search(ctx, session.New("s"), q)

	require.NoError(t, err)
	assert.Len(t, result, 1)
	c.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestSearchService_Search_RedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &MockFlightRepository{}
	svc := NewSearchService(repo, cache.NewRedisCacheWithClient(client, 0), zap.NewNop())
	ctx := context.Background()
	q := Query{Origin: "A", Destination: "B", DirectOnly: true, Day: 1, MaxResults: 2}

	repo.On("FindDirect", ctx, "A", "B", 1, 2).Return([]domain.Flight{flight(3, 60)}, nil).Once()

	first, err := svc.Search(ctx, session.New("a"), q)
	require.NoError(t, err)
	second, err := svc.Search(ctx, session.New("b"), q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "FindDirect", 1)
}
