package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vastralabs/vastra-backend/api/controllers"
	"github.com/vastralabs/vastra-backend/api/middleware"
	authsvc "github.com/vastralabs/vastra-backend/internal/auth"
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
	"github.com/vastralabs/vastra-backend/pkg/config"
	"github.com/vastralabs/vastra-backend/pkg/db"
	"github.com/vastralabs/vastra-backend/pkg/logger"
	"github.com/vastralabs/vastra-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	tokens middleware.TokenParser,
	sessions middleware.SessionChecker,
	authService authsvc.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	wishlistService wishlist.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	couponsService coupons.Service,
	paymentsService payments.Service,
	pincodesService pincodes.Service,
	reviewsService reviews.Service,
	supportService support.Service,
	trackingBus *tracking.Bus,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(registerPolicy, redisClient, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Post("/register", controllers.AuthRegister(authService, logg))
		})
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, tokens, logg))
		r.With(middleware.Auth(tokens, sessions, logg)).Get("/me", controllers.AuthProfile(authService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	// Public storefront surface. Tracking and its SSE feed stay open so
	// guests can follow orders from the link in their confirmation mail.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(catalogService, logg))
		r.Get("/products/{slug}", controllers.ProductDetail(catalogService, logg))
		r.Get("/products/{productId}/reviews", controllers.ReviewList(reviewsService, logg))
		r.Get("/categories", controllers.CategoryList(catalogService, logg))
		r.Get("/pincodes/{pincode}", controllers.PincodeCheck(pincodesService, logg))
		r.Get("/orders/{orderId}/track", controllers.OrderTrack(ordersService, logg))
		r.Get("/orders/{orderId}/events", controllers.OrderEvents(trackingBus, logg))

		r.Route("/checkout", func(r chi.Router) {
			r.Use(middleware.OptionalAuth(tokens, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Post("/quote", controllers.CheckoutQuote(checkoutService, logg))
			r.Post("/razorpay", controllers.CheckoutRazorpayIntent(checkoutService, logg))
			r.Post("/razorpay/verify", controllers.CheckoutRazorpayVerify(checkoutService, logg))
			r.Post("/upi", controllers.CheckoutUPI(checkoutService, logg))
			r.Post("/upi/{orderId}/confirm", controllers.CheckoutUPIConfirm(checkoutService, logg))
			r.Post("/upi/{orderId}/abandon", controllers.CheckoutUPIAbandon(checkoutService, logg))
			r.Post("/cod", controllers.CheckoutCOD(checkoutService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokens, sessions, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Put("/items", controllers.CartPut(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemove(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(wishlistService, logg))
				r.Post("/{productId}", controllers.WishlistAdd(wishlistService, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
			})
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersService, logg))
			})
			r.Post("/products/{productId}/reviews", controllers.ReviewCreate(reviewsService, logg))
			r.Route("/support", func(r chi.Router) {
				r.Get("/messages", controllers.SupportMessages(supportService, logg))
				r.Post("/messages", controllers.SupportPost(supportService, logg))
				r.Get("/events", controllers.SupportEvents(trackingBus, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(tokens, sessions, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(catalogService, logg))
			r.Post("/", controllers.AdminProductCreate(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(catalogService, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminCategoryList(catalogService, logg))
			r.Post("/", controllers.AdminCategoryCreate(catalogService, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(catalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(catalogService, logg))
		})
		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminCouponList(couponsService, logg))
			r.Post("/", controllers.AdminCouponCreate(couponsService, logg))
			r.Patch("/{couponId}", controllers.AdminCouponUpdate(couponsService, logg))
			r.Delete("/{couponId}", controllers.AdminCouponDelete(couponsService, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
		})
		r.Route("/payment-settings", func(r chi.Router) {
			r.Get("/", controllers.AdminPaymentSettingsGet(paymentsService, logg))
			r.Patch("/", controllers.AdminPaymentSettingsUpdate(paymentsService, logg))
		})
		r.Route("/pincodes", func(r chi.Router) {
			r.Get("/", controllers.AdminPincodeList(pincodesService, logg))
			r.Post("/", controllers.AdminPincodeCreate(pincodesService, logg))
			r.Patch("/{pincodeId}", controllers.AdminPincodeUpdate(pincodesService, logg))
			r.Delete("/{pincodeId}", controllers.AdminPincodeDelete(pincodesService, logg))
		})
		r.Delete("/reviews/{reviewId}", controllers.AdminReviewDelete(reviewsService, logg))
		r.Route("/support/{conversationId}", func(r chi.Router) {
			r.Get("/messages", controllers.AdminSupportMessages(supportService, logg))
			r.Post("/messages", controllers.AdminSupportReply(supportService, logg))
			r.Get("/events", controllers.AdminSupportEvents(trackingBus, logg))
		})
	})

	return r
}
