package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"banking-service/internal/config"
	"banking-service/internal/handler/facade"
	hgrpc "banking-service/internal/handler/grpc"
	hrest "banking-service/internal/handler/rest"
	"banking-service/internal/lock"
	"banking-service/internal/pub"
	"banking-service/internal/repository"
	"banking-service/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       *config.AppConfig
	logger    *zap.Logger
	rdb       redis.UniversalClient
	publisher pub.Publisher

	http *http.Server
	grpc *grpc.Server
}

// New wires repositories, usecases and both transports over rdb.
func New(ctx context.Context, cfg *config.AppConfig, rdb redis.UniversalClient, logger *zap.Logger) (*Server, error) {
	// --- Repositories ---
	store := repository.NewStore(rdb, cfg.TxMaxRetries)
	accountRepo := repository.NewAccountRepo(store)
	txRepo := repository.NewTransactionRepo(store)
	depositRepo := repository.NewDepositRepo(store)
	sessionRepo := repository.NewSessionRepo(store)

	// --- Infrastructure ---
	locker := newLocker(cfg, rdb, logger)
	publisher := newPublisher(cfg, rdb, logger)

	ids, err := usecase.NewTransactionIDGenerator(ctx, txRepo, nil)
	if err != nil {
		return nil, err
	}
	logger.Info("transaction counter loaded", zap.Int64("current", ids.Current()))

	// --- Usecases ---
	accountUC := usecase.NewAccountUsecase(accountRepo, logger)
	txUC := usecase.NewTransactionUsecase(store, accountRepo, txRepo, ids, locker, publisher, nil, logger)
	depositUC := usecase.NewDepositUsecase(store, accountRepo, depositRepo, txRepo, ids, locker, publisher, nil, logger)
	sessionUC := usecase.NewSessionUsecase(accountUC, sessionRepo, cfg.SessionTTL, nil, logger)

	f := facade.New(accountUC, txUC, depositUC, sessionUC, logger)

	// --- HTTP ---
	restHandler := hrest.NewBankingRestHandler(f, store, logger)
	router := hrest.SetupRoutes(restHandler, rdb, hrest.RateLimitConfig{
		Limit:  cfg.RateLimit,
		Window: cfg.RateWindow,
		Block:  cfg.RateBlock,
		Prefix: "banking",
	}, logger)

	// --- gRPC ---
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(hgrpc.UnaryInterceptor(logger)))
	hgrpc.RegisterBankingServiceServer(grpcServer, hgrpc.NewBankingGRPCHandler(f, logger))
	reflection.Register(grpcServer)

	return &Server{
		cfg:       cfg,
		logger:    logger,
		rdb:       rdb,
		publisher: publisher,
		http: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		grpc: grpcServer,
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled or either listener fails,
// then shuts both down.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("gRPC server listening", zap.String("addr", s.cfg.GRPCAddr))
		if err := s.grpc.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
		s.grpc.GracefulStop()

		if err := s.publisher.Close(); err != nil {
			s.logger.Warn("publisher close", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

func newLocker(cfg *config.AppConfig, rdb redis.UniversalClient, logger *zap.Logger) lock.Locker {
	if cfg.LockBackend == config.LockBackendRedis {
		logger.Info("using redis account locks", zap.Duration("ttl", cfg.LockTTL))
		return lock.NewRedisLocker(rdb, cfg.LockTTL, cfg.LockWait, logger)
	}
	return lock.NewLocalLocker()
}

func newPublisher(cfg *config.AppConfig, rdb redis.UniversalClient, logger *zap.Logger) pub.Publisher {
	switch cfg.EventsSink {
	case config.EventsSinkRedis:
		logger.Info("publishing events to redis", zap.String("channel", cfg.EventsChannel))
		return pub.NewRedisPublisher(rdb, cfg.EventsChannel, logger)
	case config.EventsSinkKafka:
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return pub.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	default:
		return pub.NopPublisher{}
	}
}
