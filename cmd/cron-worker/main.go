package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	checkoutsvc "github.com/vastralabs/vastra-backend/internal/checkout"
	"github.com/vastralabs/vastra-backend/internal/coupons"
	"github.com/vastralabs/vastra-backend/internal/cron"
	"github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/metrics"
	"github.com/vastralabs/vastra-backend/pkg/migrate"
	"github.com/vastralabs/vastra-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	couponsRepo := coupons.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	couponsService, err := coupons.NewService(couponsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	payMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)
	voider, err := checkoutsvc.NewOrderVoider(dbClient, ordersRepo, couponsService, payMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order voider", err)
		os.Exit(1)
	}

	staleOrderJob, err := cron.NewStaleOrderJob(cron.StaleOrderJobParams{
		Logger: logg,
		Orders: ordersRepo,
		Voider: voider,
		TTL:    cfg.Checkout.UPIPaymentTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create stale order job", err)
		os.Exit(1)
	}

	couponExpiryJob, err := cron.NewCouponExpiryJob(cron.CouponExpiryJobParams{
		Logger:  logg,
		Coupons: couponsRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon expiry job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker"), cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(staleOrderJob, couponExpiryJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
