package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"financehub/internal/config"
	"financehub/internal/events"
	apphttp "financehub/internal/http"
	"financehub/internal/latency"
	"financehub/internal/metrics"
	"financehub/internal/query"
	"financehub/internal/repository"
	"financehub/internal/service"
	"financehub/internal/storage"
	"financehub/internal/storage/file"
	"financehub/internal/storage/memory"
	"financehub/internal/storage/postgres"
	"financehub/internal/storage/redis"
	s3store "financehub/internal/storage/s3"
	"financehub/internal/storage/sqlite"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Fatalf("parse log level: %v", err)
	}
	logger.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var delayer latency.Delayer = latency.None{}
	if cfg.Latency.Enabled {
		delayer = latency.Sleep{Scale: cfg.Latency.Scale}
	}
	opts := service.Options{Delayer: delayer, Logger: logger, Metrics: m}

	userRepo := repository.NewUserRepository(store, cfg.Storage.UsersKey, logger)
	txnRepo := repository.NewTransactionRepository(store, cfg.Storage.TransactionsKey, logger)
	userService := service.NewUserService(userRepo, opts)
	txnService := service.NewTransactionService(txnRepo, opts)

	client := query.NewClient(
		query.WithStaleTime(cfg.Cache.StaleTime),
		query.WithLogger(logger),
		query.WithMetrics(m),
	)

	if cfg.Events.NATSURL != "" {
		bridge, err := events.Connect(events.Config{
			URL:        cfg.Events.NATSURL,
			Subject:    cfg.Events.Subject,
			InstanceID: uuid.NewString(),
			Logger:     logger,
		}, client)
		if err != nil {
			logger.Fatalf("connect events: %v", err)
		}
		defer bridge.Close()
		client.SetPublisher(bridge)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(
		query.NewUsers(client, userService),
		query.NewTransactions(client, txnService),
		metrics.Handler(reg),
		logger,
	)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	logger.Infof("using %s storage", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case storage.DriverMemory:
		return memory.New(), nil
	case storage.DriverFile:
		return file.New(cfg.Storage.Path)
	case storage.DriverSQLite:
		db, err := sqlite.Open(filepath.Join(cfg.Storage.Path, "financehub.db"))
		if err != nil {
			return nil, err
		}
		store := sqlite.NewStore(db)
		if err := store.Init(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		return store, nil
	case storage.DriverPostgres:
		if cfg.Storage.DSN == "" {
			return nil, fmt.Errorf("storage dsn is required for postgres")
		}
		return postgres.NewStore(ctx, cfg.Storage.DSN)
	case storage.DriverRedis:
		return redis.Open(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPrefix)
	case storage.DriverS3:
		return buildS3(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func buildS3(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Store, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return s3store.New(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
}
