// cmd/filmservice/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpAPI "film-service/internal/api"
	"film-service/internal/config"
	"film-service/internal/domain"
	grpcServer "film-service/internal/grpc"
	"film-service/internal/service"
	"film-service/internal/store"
)

// connectToDB инициализирует соединение с базой данных
func connectToDB(cfg config.DBConfig, logger *slog.Logger) (*sqlx.DB, error) {
	logger.Info("Attempting to connect to FilmService database", slog.String("dbURL_used", cfg.MaskedURL()))

	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		logger.Error("Failed to connect to FilmService PostgreSQL", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping FilmService PostgreSQL database", slog.String("error", err.Error()))
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	logger.Info("Successfully connected to FilmService PostgreSQL database.")
	return db, nil
}

// openStore поднимает выбранное хранилище. closeFn освобождает ресурсы.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data will be lost on restart")
		return store.NewMemoryStore(logger), func() {}, nil
	}

	db, err := connectToDB(cfg.DB, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		logger.Info("Closing FilmService PostgreSQL database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close FilmService PostgreSQL connection", slog.String("error", err.Error()))
		}
	}
	pg, err := store.NewPostgresStore(db, logger)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Info("PostgreSQL store initialized for FilmService.")
	return pg, closeFn, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("FilmService failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	validate := domain.NewValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("FilmService failed to initialize storage", slog.String("storage", cfg.Storage), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	services := service.New(st, logger)

	// --- Настройка и запуск gRPC сервера ---
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Error("Failed to listen for FilmService gRPC", slog.String("port", cfg.GRPCPort), slog.String("error", err.Error()))
		os.Exit(1)
	}
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcServer.LoggingInterceptor(logger)))
	grpcServer.RegisterFilmLookupServer(grpcSrv, grpcServer.NewServer(services, logger))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(grpcServer.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	go func() {
		logger.Info("FilmService gRPC server starting", slog.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil {
			logger.Error("FilmService gRPC server Serve() failed", slog.String("error", err.Error()))
		}
	}()

	// --- Настройка и запуск HTTP сервера ---
	handler := httpAPI.NewHandler(services, logger, validate)
	httpRouter := httpAPI.NewRouter(handler, httpAPI.RouterOptions{
		RateLimitRPS:   cfg.Limiter.RPS,
		RateLimitBurst: cfg.Limiter.Burst,
	})
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("FilmService HTTP server starting", slog.String("port", cfg.HTTPPort))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("FilmService HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	// Ожидание сигнала для graceful shutdown
	<-ctx.Done()
	logger.Info("FilmService shutting down...")
	healthSrv.Shutdown()

	ctxHttp, cancelHttp := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelHttp()
	if err := httpSrv.Shutdown(ctxHttp); err != nil {
		logger.Error("FilmService HTTP Server Shutdown Failed", slog.String("error", err.Error()))
	} else {
		logger.Info("FilmService HTTP Server gracefully stopped.")
	}

	grpcSrv.GracefulStop()
	logger.Info("FilmService gRPC server gracefully stopped.")
}
