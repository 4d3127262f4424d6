package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/foodapp/storefront/docs"
	"github.com/foodapp/storefront/internal/api"
	"github.com/foodapp/storefront/internal/api/handler"
	"github.com/foodapp/storefront/internal/core/ports"
	"github.com/foodapp/storefront/internal/core/service"
	"github.com/foodapp/storefront/internal/infrastructure/audit"
	"github.com/foodapp/storefront/internal/infrastructure/config"
	mongodb "github.com/foodapp/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/foodapp/storefront/internal/infrastructure/db/redis"
	"github.com/foodapp/storefront/internal/infrastructure/queue"
	"github.com/foodapp/storefront/internal/infrastructure/storage"
	"github.com/foodapp/storefront/internal/infrastructure/telemetry"
	"github.com/foodapp/storefront/internal/infrastructure/upstream"
	"github.com/foodapp/storefront/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// storefront serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.Tracing.ServiceName,
	})

	shutdownTracing, err := telemetry.Setup(cfg.Tracing.Enabled, cfg.Tracing.ServiceName, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	// --- Storage ---
	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()
	stores := redisdb.NewStores(rdb, cfg.Redis)

	mstore, err := mongodb.Open(ctx, cfg.Mongo, logger.For("mongo"))
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mstore.Close(dctx)
	}()

	images, imagesRoot, err := imageStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	// --- Backend services ---
	hc := telemetry.NewHTTPClient(nil, cfg.Upstream.Timeout)
	users := upstream.NewUserClient(cfg.Upstream.UserServiceURL, hc)
	catalog := upstream.NewMenuClient(cfg.Upstream.MenuServiceURL, hc)
	orderBackend := upstream.NewOrderClient(cfg.Upstream.OrderServiceURL, hc)

	// --- Notification workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Tracking.NotificationWorkers, mstore.Notifications, logger.For("dispatcher"))
	dispatcher.Start(workerCtx)

	// --- Services ---
	sessions := service.NewSessionService(users, stores.Sessions, cfg.JWTSecret, cfg.SessionTTL, logger.For("session"))
	menu := service.NewMenuService(catalog, stores.Menu, logger.For("menu"))
	carts := service.NewCartService(stores.Carts, menu, logger.For("cart"))
	checkout := service.NewCheckoutService(carts, orderBackend, logger.For("checkout"))
	orders := service.NewOrderService(orderBackend, logger.For("orders"))
	notifications := service.NewNotificationService(stores.Dedup, dispatcher, mstore.Notifications, logger.For("notifications"))
	tracker := service.NewOrderTracker(cfg.Tracking.PollInterval, notifications, logger.For("tracker"))
	admin := service.NewAdminUserService(users, audit.NewLogger(log), logger.For("admin"))
	uploads := service.NewUploadService(images, logger.For("upload"))

	e := api.NewRouter(api.Deps{
		Sessions:      sessions,
		Menu:          menu,
		Carts:         carts,
		Checkout:      checkout,
		Orders:        orders,
		Tracker:       tracker,
		Notifications: notifications,
		AdminUsers:    admin,
		Uploads:       uploads,
		Health: []handler.Dependency{
			{Name: "mongodb", Ping: mstore.Ping},
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		ImagesRoot:     imagesRoot,
		ImagesURL:      cfg.Storage.PublicURL,
		CORSOrigins:    strings.Split(cfg.CORSOrigin, ","),
		SessionRecheck: cfg.Tracking.SessionCheckInterval,
		Log:            logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return nil
}

// imageStore picks the upload disk. The returned root is non-empty when the
// storefront itself serves the files.
func imageStore(ctx context.Context, cfg config.StorageConfig) (ports.ImageStore, string, error) {
	if cfg.Driver == "s3" {
		disk, err := storage.NewS3Disk(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		return disk, "", nil
	}
	disk := storage.NewLocalDisk(cfg.LocalRoot, cfg.PublicURL)
	return disk, disk.Root(), nil
}
