package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/flightapp/api"
	"github.com/Domenick1991/flightapp/config"
	flightappapi "github.com/Domenick1991/flightapp/internal/api/flightapp_service_api"
	"github.com/Domenick1991/flightapp/internal/metrics"
	"github.com/Domenick1991/flightapp/internal/service/account"
	"github.com/Domenick1991/flightapp/internal/service/booking"
	"github.com/Domenick1991/flightapp/internal/service/search"
	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Deps are the services the front ends expose.
type Deps struct {
	Sessions *session.Registry
	Accounts account.AccountUseCase
	Search   search.SearchUseCase
	Bookings booking.BookingUseCase
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
}

// Run starts the gRPC server, the HTTP server (JSON API, health, metrics,
// docs) and the idle-session sweeper. It blocks until ctx is canceled or one
// of them fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, deps Deps) error {
	s, err := newServers(cfg, log, deps)
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("grpc server listening", zap.String("addr", cfg.GRPC.Address))
		return s.grpcServer.Serve(lis)
	})
	g.Go(func() error {
		log.Info("http server listening", zap.String("addr", cfg.HTTP.Address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		SweepSessions(gctx, deps.Sessions, cfg.Session.IdleTimeout(), cfg.Session.SweepInterval(), log)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newServers(cfg *config.Config, log *zap.Logger, deps Deps) (*Servers, error) {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(log)))
	flightappapi.RegisterFlightAppServer(grpcSrv, flightappapi.NewServer(deps.Sessions, deps.Accounts, deps.Search, deps.Bookings))

	handler, err := newHTTPHandler(cfg.HTTP, deps)
	if err != nil {
		return nil, err
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{Addr: cfg.HTTP.Address, Handler: handler},
	}, nil
}

func newHTTPHandler(cfg config.HTTPConfig, deps Deps) (http.Handler, error) {
	gw := runtime.NewServeMux()
	if err := gw.HandlePath(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		if deps.Health != nil {
			if err := deps.Health(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}); err != nil {
		return nil, fmt.Errorf("register health endpoint: %w", err)
	}

	handler := http.NewServeMux()
	handler.Handle("/api/", api.NewRouter(deps.Sessions, deps.Accounts, deps.Search, deps.Bookings))
	handler.Handle("/healthz", gw)
	handler.Handle("/metrics", promhttp.Handler())

	if cfg.SwaggerFile != "" {
		handler.HandleFunc("/swagger/flightapp.swagger.json", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, cfg.SwaggerFile)
		})
		handler.Handle("/docs/", httpSwagger.Handler(httpSwagger.URL("/swagger/flightapp.swagger.json")))
	}
	return handler, nil
}

// SweepSessions closes idle sessions every interval until ctx is done and
// keeps the active-sessions gauge current.
func SweepSessions(ctx context.Context, registry *session.Registry, idle, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Sweep(idle); n > 0 {
				log.Info("closed idle sessions", zap.Int("count", n))
			}
			metrics.ActiveSessions.Set(float64(registry.Len()))
		}
	}
}

func loggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("took", time.Since(start)))
		return resp, err
	}
}
