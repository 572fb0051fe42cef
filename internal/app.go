package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Xeyame/sharry/config"
	"github.com/Xeyame/sharry/internal/application/ports"
	"github.com/Xeyame/sharry/internal/application/services"
	"github.com/Xeyame/sharry/internal/infrastructure/blob/memory"
	"github.com/Xeyame/sharry/internal/infrastructure/blob/s3"
	"github.com/Xeyame/sharry/internal/infrastructure/db/postgres"
	aliasDB "github.com/Xeyame/sharry/internal/infrastructure/db/postgres/alias"
	linkDB "github.com/Xeyame/sharry/internal/infrastructure/db/postgres/publish_link"
	shareDB "github.com/Xeyame/sharry/internal/infrastructure/db/postgres/share"
	fileDB "github.com/Xeyame/sharry/internal/infrastructure/db/postgres/share_file"
	"github.com/Xeyame/sharry/internal/infrastructure/jwt"
	"github.com/Xeyame/sharry/internal/infrastructure/metrics"
	"github.com/Xeyame/sharry/internal/infrastructure/mq"
	"github.com/Xeyame/sharry/internal/infrastructure/password"
	"github.com/Xeyame/sharry/internal/interface/api/rest"
	"github.com/Xeyame/sharry/internal/interface/api/rest/middleware"
	"github.com/Xeyame/sharry/pkg/rmqconsumer"
)

type App struct {
	logger     *zap.Logger
	cfg        config.Config
	db         *pgxpool.Pool
	blobs      ports.BlobStore
	httpSrv    *http.Server
	router     *gin.Engine
	mCounter   *prometheus.CounterVec
	mq         ports.RabbitMQ
	mqConsumer ports.RMQConsumer

	deleter ports.BlobDeleter
	cleanup ports.CleanupService
}

func NewApp(ctx context.Context) (*App, error) {
	// logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}
	defer logger.Sync()

	// config
	if err = godotenv.Load(".env"); err != nil {
		logger.Fatal("error loading .env file", zap.Error(err))
	}
	cfg := config.Load()

	// metrics
	mCounter := metrics.NewCounter()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(logger, mCounter))

	// httpServer
	httpSrv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: r,
	}

	// db
	dbDsn, err := cfg.DBDSN()
	if err != nil {
		logger.Fatal("DB config error", zap.Error(err))
	}
	dbPool, err := postgres.New(ctx, logger, dbDsn, cfg.DB.MaxConns)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// blob store
	blobs, err := newBlobStore(ctx, logger, cfg)
	if err != nil {
		logger.Fatal("failed to init blob store", zap.Error(err))
	}

	// background workers
	deleter := services.NewBlobDeleter(blobs, logger)
	cleanup := services.NewCleanupService(
		shareDB.NewRepository(dbPool),
		fileDB.NewRepository(dbPool),
		blobs,
		logger,
		mCounter,
	)

	// rabbitMQ
	rabbitDsn, err := cfg.AMQPDSN()
	if err != nil {
		logger.Fatal("RabbitMQ config error", zap.Error(err))
	}
	rbMQ := mq.New(cfg.MQ, logger)
	if err = rbMQ.Connect(ctx, rabbitDsn); err != nil {
		logger.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		logger.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	//rmqConsumer
	rmqConsumer := rmqconsumer.New(cfg.MQ, logger, rbMQ.GetConn())
	if err = rmqConsumer.Connect(rabbitDsn); err != nil {
		logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
	}
	if err = rmqConsumer.Init(); err != nil {
		logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
	}

	return &App{
		logger:     logger,
		cfg:        cfg,
		db:         dbPool,
		blobs:      blobs,
		httpSrv:    httpSrv,
		router:     r,
		mCounter:   mCounter,
		mq:         rbMQ,
		mqConsumer: rmqConsumer,
		deleter:    deleter,
		cleanup:    cleanup,
	}, nil
}

// newBlobStore picks S3 when a bucket is configured and falls back to
// the in-memory store for local runs.
func newBlobStore(ctx context.Context, logger *zap.Logger, cfg config.Config) (ports.BlobStore, error) {
	if !cfg.S3Configured() {
		logger.Warn("no S3 bucket configured, using in-memory blob store")
		return memory.New(), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = &cfg.S3.Endpoint
			o.UsePathStyle = true
		}
	})

	return s3.New(ctx, client, logger, cfg.S3.Bucket, cfg.S3.KeyPrefix)
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.mq.GetConn() != nil {
		a.mq.GetConn().Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	// context with os signals cancel chan
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	// "errgroup" instead of "WaitGroup" because:
	// - allows return an error from gorutine
	// - group errors from multiple gorutines into one
	// - wg.Add(1), wg.Done() - automatically under the hood, so never catch deadlock if you forget something ;-)
	// - allows orchestration of parallel processes through the context.Context(gracefull shut down)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.cfg.App.Host+":"+a.cfg.App.Port))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		a.mq.PublisherWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.mqConsumer.DeliveryWorker(ctx)
		return nil
	})

	g.Go(func() error {
		a.deleter.Worker(ctx)
		return nil
	})

	if a.cfg.Cleanup.Enabled {
		g.Go(func() error {
			a.cleanupWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

// cleanupWorker runs the expiry and orphan sweeps on a fixed ticker.
func (a *App) cleanupWorker(ctx context.Context) {
	a.logger.Info("starting cleanup worker",
		zap.Duration("interval", a.cfg.Cleanup.Interval),
		zap.Duration("invalid_age", a.cfg.Cleanup.InvalidAge),
	)

	defer func() {
		a.logger.Info("cleanup worker gracefully stopped")
	}()

	ticker := time.NewTicker(a.cfg.Cleanup.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := a.cleanup.CleanupExpired(ctx, a.cfg.Cleanup.InvalidAge)
			if err != nil {
				a.logger.Error("expiry sweep error", zap.Error(err))
			}
			orphans, err := a.cleanup.DeleteOrphanedFiles(ctx)
			if err != nil {
				a.logger.Error("orphan sweep error", zap.Error(err))
			}
			a.logger.Info("cleanup pass finished",
				zap.Int("expired_shares", expired),
				zap.Int("orphan_blobs", orphans),
			)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) InitControllers() {
	// repos
	shareRepo := shareDB.NewRepository(a.db)
	fileRepo := fileDB.NewRepository(a.db)
	linkRepo := linkDB.NewRepository(a.db)
	aliasRepo := aliasDB.NewRepository(a.db)

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	hasher := password.New()
	access := services.NewAccess(shareRepo, fileRepo, linkRepo, hasher)
	quota := services.NewQuota(fileRepo, a.cfg.Upload.MaxShareSize)

	shareService := services.NewShareService(
		shareRepo, fileRepo, linkRepo, aliasRepo,
		access, hasher, a.deleter, a.mq, a.mCounter,
		a.cfg.Upload.DefaultValidity,
	)
	uploadService := services.NewUploadService(
		access, fileRepo, a.blobs, quota, a.deleter, a.mCounter,
		a.cfg.Upload.ChunkSize,
	)
	publishService := services.NewPublishService(access, linkRepo, a.mq, a.mCounter)

	// controllers
	rest.NewShareController(a.router, shareService, publishService, a.logger, jwtService)
	rest.NewUploadController(a.router, uploadService, a.logger, jwtService)
	rest.NewPublicController(a.router, shareService, uploadService, a.logger)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
