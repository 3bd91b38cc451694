package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/moda-storefront/api/controllers"
	"github.com/angelmondragon/moda-storefront/api/routes"
	"github.com/angelmondragon/moda-storefront/internal/cart"
	"github.com/angelmondragon/moda-storefront/internal/catalog"
	"github.com/angelmondragon/moda-storefront/internal/checkout"
	"github.com/angelmondragon/moda-storefront/internal/orders"
	"github.com/angelmondragon/moda-storefront/pkg/config"
	"github.com/angelmondragon/moda-storefront/pkg/db"
	"github.com/angelmondragon/moda-storefront/pkg/instance"
	"github.com/angelmondragon/moda-storefront/pkg/kvstore"
	"github.com/angelmondragon/moda-storefront/pkg/logger"
	"github.com/angelmondragon/moda-storefront/pkg/metrics"
	"github.com/angelmondragon/moda-storefront/pkg/migrate"
	"github.com/angelmondragon/moda-storefront/pkg/redis"
)

const shutdownGrace = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers := []func() error{dbClient.Close}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	if err := migrate.MaybeRun(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	readiness := map[string]controllers.Pinger{"db": dbClient}

	var redisClient *redis.Client
	if cfg.Cart.StorageDriver == config.StorageRedis || cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		readiness["redis"] = redisClient
	}

	kv, err := kvstore.Open(cfg.Cart, kvstore.Backends{Redis: redisClient, DB: dbClient})
	if err != nil {
		return err
	}

	resolver, err := catalog.NewDefaultResolver(cfg.Catalog, logg, metrics.NewCatalogMetrics(reg))
	if err != nil {
		return err
	}

	cartService, err := cart.NewService(
		cart.NewRegistry(kv, cfg.Cart.StorageKey, logg, metrics.NewCartMetrics(reg), cart.WithMaxProfiles(cfg.Cart.MaxProfiles)),
		resolver,
	)
	if err != nil {
		return err
	}

	gateway, err := newOrderGateway(cfg, dbClient)
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(cartService, gateway, checkout.Options{
		ShippingFee:   cfg.Orders.FlatShipping(),
		DefaultUserID: cfg.Orders.DefaultUserID,
	}, logg)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, reg, readiness, resolver, cartService, checkoutService, gateway, kv),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"instance":       instance.ID(),
		"addr":           addr,
		"cart_storage":   cfg.Cart.StorageDriver,
		"orders_mode":    gateway.Mode(),
		"catalog_remote": !cfg.Catalog.ForceOffline,
	})
	logg.Info(logCtx, "starting api server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logg.Info(logCtx, "shutting down api server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newOrderGateway keeps the local order book available and only builds the
// remote client when the catalog is online.
func newOrderGateway(cfg *config.Config, dbClient *db.Client) (*orders.Gateway, error) {
	local, err := orders.NewLocalBackend(orders.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.ForceOffline {
		return orders.NewGateway(nil, local, orders.GatewayOptions{Offline: true})
	}
	client, err := orders.NewRemoteClient(cfg.Orders)
	if err != nil {
		return nil, err
	}
	return orders.NewGateway(orders.NewRemoteBackend(client), local, orders.GatewayOptions{})
}
