package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightapp/config"
	"github.com/Domenick1991/flightapp/internal/cache"
	"github.com/Domenick1991/flightapp/internal/kafka"
	"github.com/Domenick1991/flightapp/internal/repository"
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services is the engine wired against PostgreSQL, Redis and Kafka.
type Services struct {
	Pool     *pgxpool.Pool
	Accounts *account.AccountService
	Search   *search.SearchService
	Bookings *booking.BookingService

	cache    *cache.RedisCache
	producer *kafka.Producer
}

// NewServices connects to the stores and applies the schema. Redis and Kafka
// are optional at startup: an unreachable cache is only logged, and an
// unreachable broker only makes event publishing fail.
func NewServices(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Services, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Search.CacheTTL())
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("redis unavailable, searches will hit postgres", zap.Error(err))
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	if err := producer.CheckConnection(ctx); err != nil {
		log.Warn("kafka unavailable, reservation events will be dropped", zap.Error(err))
	}

	tx := repository.NewTxRunner(pool, cfg.Store.MaxAttempts, cfg.Store.RetryBackoff(), log)
	users := repository.NewUserRepository(pool)
	flights := repository.NewFlightRepository(pool)
	reservations := repository.NewReservationRepository(pool, tx)

	return &Services{
		Pool:     pool,
		Accounts: account.NewAccountService(users, log),
		Search:   search.NewSearchService(flights, redisCache, log),
		Bookings: booking.NewBookingService(
			reservations,
			producer,
			cfg.Kafka.ReservationTopic,
			log,
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
		cache:    redisCache,
		producer: producer,
	}, nil
}

func (s *Services) Close() {
	_ = s.producer.Close()
	_ = s.cache.Close()
	s.Pool.Close()
}
