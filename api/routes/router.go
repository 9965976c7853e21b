package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightcart/storefront-backend/api/controllers"
	"github.com/brightcart/storefront-backend/api/middleware"
	"github.com/brightcart/storefront-backend/internal/auth"
	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/internal/orders"
	"github.com/brightcart/storefront-backend/internal/promotions"
	"github.com/brightcart/storefront-backend/internal/wishlist"
	"github.com/brightcart/storefront-backend/pkg/auth/session"
	"github.com/brightcart/storefront-backend/pkg/config"
	"github.com/brightcart/storefront-backend/pkg/db"
	"github.com/brightcart/storefront-backend/pkg/logger"
	"github.com/brightcart/storefront-backend/pkg/metrics"
	"github.com/brightcart/storefront-backend/pkg/redis"
)

// Deps bundles everything the router needs so main stays a straight
// wiring exercise.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Sessions     session.AccessSessionChecker
	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry prometheus.Gatherer

	Auth       auth.Service
	Catalog    catalog.Service
	Cart       cart.Service
	Wishlist   wishlist.Service
	Promotions promotions.Service
	Orders     orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(deps.HTTPMetrics),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogListProducts(deps.Catalog, logg))
		r.Get("/products/{productId}", controllers.CatalogProductDetail(deps.Catalog, logg))
		r.Get("/brands", controllers.CatalogListBrands(deps.Catalog, logg))
		r.Get("/categories", controllers.CatalogListCategories(deps.Catalog, logg))

		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/products/{productId}/reviews", controllers.CatalogSubmitReview(deps.Catalog, logg))
	})

	// Cart is reachable by signed-in users and by guests carrying an
	// X-Session-Id header.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.GuestSession(logg))

		r.Get("/", controllers.CartFetch(deps.Cart, logg))
		r.Post("/", controllers.CartAddItem(deps.Cart, logg))
		r.Put("/{itemId}", controllers.CartUpdateItem(deps.Cart, logg))
		r.Delete("/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
		r.Post("/clear", controllers.CartClear(deps.Cart, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistFetch(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderSubmit(deps.Orders, logg))
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", controllers.AdminListBrands(deps.Catalog, logg))
			r.Post("/", controllers.AdminCreateBrand(deps.Catalog, logg))
			r.Put("/{brandId}", controllers.AdminUpdateBrand(deps.Catalog, logg))
			r.Delete("/{brandId}", controllers.AdminDeleteBrand(deps.Catalog, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(deps.Catalog, logg))
			r.Post("/", controllers.AdminCreateCategory(deps.Catalog, logg))
			r.Put("/{categoryId}", controllers.AdminUpdateCategory(deps.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(deps.Catalog, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.Catalog, logg))
			r.Put("/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Catalog, logg))
		})
		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", controllers.AdminListCoupons(deps.Promotions, logg))
			r.Post("/", controllers.AdminCreateCoupon(deps.Promotions, logg))
			r.Get("/{couponId}", controllers.AdminCouponDetail(deps.Promotions, logg))
			r.Put("/{couponId}", controllers.AdminUpdateCoupon(deps.Promotions, logg))
			r.Delete("/{couponId}", controllers.AdminDeleteCoupon(deps.Promotions, logg))
		})
		r.Route("/shipping-methods", func(r chi.Router) {
			r.Get("/", controllers.AdminListShippingMethods(deps.Promotions, logg))
			r.Post("/", controllers.AdminCreateShippingMethod(deps.Promotions, logg))
			r.Put("/{methodId}", controllers.AdminUpdateShippingMethod(deps.Promotions, logg))
			r.Delete("/{methodId}", controllers.AdminDeleteShippingMethod(deps.Promotions, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
		})
	})

	return r
}
