package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vastralabs/vastra-backend/api/routes"
	"github.com/vastralabs/vastra-backend/internal/auth"
	"github.com/vastralabs/vastra-backend/internal/cart"
	"github.com/vastralabs/vastra-backend/internal/catalog"
	checkoutsvc "github.com/vastralabs/vastra-backend/internal/checkout"
	"github.com/vastralabs/vastra-backend/internal/coupons"
	"github.com/vastralabs/vastra-backend/internal/orders"
	"github.com/vastralabs/vastra-backend/internal/payments"
	"github.com/vastralabs/vastra-backend/internal/pincodes"
	"github.com/vastralabs/vastra-backend/internal/reviews"
	"github.com/vastralabs/vastra-backend/internal/support"
	"github.com/vastralabs/vastra-backend/internal/tracking"
	"github.com/vastralabs/vastra-backend/internal/wishlist"
	pkgauth "github.com/vastralabs/vastra-backend/pkg/auth"
	"github.com/vastralabs/vastra-backend/pkg/auth/session"
	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/geocode"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/metrics"
	"github.com/vastralabs/vastra-backend/pkg/migrate"
	"github.com/vastralabs/vastra-backend/pkg/razorpay"
	"github.com/vastralabs/vastra-backend/pkg/redis"
	"github.com/vastralabs/vastra-backend/pkg/security"
)

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

	tokenIssuer, err := pkgauth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create token issuer", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.RefreshTokenTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	hasher, err := security.NewPasswordHasher(cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create password hasher", err)
		os.Exit(1)
	}

	bus, err := tracking.NewBus(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create tracking bus", err)
		os.Exit(1)
	}

	payMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	authRepo := auth.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())
	couponsRepo := coupons.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	pincodesRepo := pincodes.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	supportRepo := support.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Repo:     authRepo,
		Tokens:   tokenIssuer,
		Sessions: sessionManager,
		Hasher:   hasher,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlistRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	couponsService, err := coupons.NewService(couponsRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	razorpayConfigured := cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != ""

	paymentsService, err := payments.NewService(paymentsRepo, payments.Gateways{Razorpay: razorpayConfigured})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	voider, err := checkoutsvc.NewOrderVoider(dbClient, ordersRepo, couponsService, payMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order voider", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      ordersRepo,
		Voider:    voider,
		Publisher: bus,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutParams := checkoutsvc.ServiceParams{
		Tx:        dbClient,
		Orders:    ordersRepo,
		Cart:      cartRepo,
		Products:  catalogRepo,
		Coupons:   couponsService,
		Payments:  paymentsService,
		Voider:    voider,
		Publisher: bus,
		Metrics:   payMetrics,
		Config:    cfg.Checkout,
		Logger:    logg,
	}
	if razorpayConfigured {
		gateway, err := razorpay.NewClient(cfg.Razorpay)
		if err != nil {
			logg.Error(context.Background(), "failed to create razorpay client", err)
			os.Exit(1)
		}
		checkoutParams.Razorpay = gateway
	} else {
		logg.Warn(context.Background(), "razorpay keys not configured; hosted checkout disabled")
	}

	checkoutService, err := checkoutsvc.NewService(checkoutParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	geocoder, err := geocode.NewClient(cfg.Geocode)
	if err != nil {
		logg.Error(context.Background(), "failed to create geocode client", err)
		os.Exit(1)
	}

	pincodesService, err := pincodes.NewService(pincodesRepo, geocoder, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create pincodes service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviewsRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	supportService, err := support.NewService(supportRepo, bus, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create support service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			tokenIssuer,
			sessionManager,
			authService,
			catalogService,
			cartService,
			wishlistService,
			checkoutService,
			ordersService,
			couponsService,
			paymentsService,
			pincodesService,
			reviewsService,
			supportService,
			bus,
			promhttp.Handler(),
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
