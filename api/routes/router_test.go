package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightcart/storefront-backend/internal/auth"
	"github.com/brightcart/storefront-backend/internal/cart"
	"github.com/brightcart/storefront-backend/internal/catalog"
	"github.com/brightcart/storefront-backend/internal/orders"
	"github.com/brightcart/storefront-backend/internal/promotions"
	"github.com/brightcart/storefront-backend/internal/wishlist"
	pkgAuth "github.com/brightcart/storefront-backend/pkg/auth"
	"github.com/brightcart/storefront-backend/pkg/auth/session"
	"github.com/brightcart/storefront-backend/pkg/config"
	"github.com/brightcart/storefront-backend/pkg/enums"
	"github.com/brightcart/storefront-backend/pkg/logger"
	"github.com/brightcart/storefront-backend/pkg/pagination"
	"github.com/brightcart/storefront-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*pagination.Page[catalog.ProductDTO], error) {
	page := pagination.NewPage([]catalog.ProductDTO{}, 0, input.Pagination)
	return &page, nil
}

func (stubCatalogService) GetProductDetail(ctx context.Context, productID uuid.UUID) (*catalog.ProductDetailDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListBrands(ctx context.Context, activeOnly bool) ([]catalog.BrandDTO, error) {
	return []catalog.BrandDTO{}, nil
}

func (stubCatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]catalog.CategoryDTO, error) {
	return []catalog.CategoryDTO{}, nil
}

func (stubCatalogService) SubmitReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment *string) (*catalog.ReviewDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) CreateBrand(ctx context.Context, dto catalog.CreateBrandDTO) (*catalog.BrandDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateBrand(ctx context.Context, id uuid.UUID, dto catalog.UpdateBrandDTO) (*catalog.BrandDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateCategory(ctx context.Context, dto catalog.CreateCategoryDTO) (*catalog.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, dto catalog.UpdateCategoryDTO) (*catalog.CategoryDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) CreateProduct(ctx context.Context, dto catalog.CreateProductDTO) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, dto catalog.UpdateProductDTO) (*catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) GetCart(ctx context.Context, owner cart.Owner) (*cart.CartDTO, error) {
	return &cart.CartDTO{Items: []cart.LineDTO{}}, nil
}

func (stubCartService) AddItem(ctx context.Context, owner cart.Owner, dto cart.AddItemDTO) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) UpdateItem(ctx context.Context, owner cart.Owner, lineID uuid.UUID, dto cart.UpdateItemDTO) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) RemoveItem(ctx context.Context, owner cart.Owner, lineID uuid.UUID) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, owner cart.Owner) error {
	return nil
}

type stubWishlistService struct{}

func (stubWishlistService) List(ctx context.Context, userID uuid.UUID) ([]wishlist.ItemDTO, error) {
	return []wishlist.ItemDTO{}, nil
}

func (stubWishlistService) Add(ctx context.Context, userID uuid.UUID, dto wishlist.AddItemDTO) (*wishlist.ItemDTO, error) {
	panic("unimplemented")
}

func (stubWishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	panic("unimplemented")
}

type stubPromotionsService struct{}

func (stubPromotionsService) ListCoupons(ctx context.Context) ([]promotions.CouponDTO, error) {
	return []promotions.CouponDTO{}, nil
}

func (stubPromotionsService) GetCoupon(ctx context.Context, id uuid.UUID) (*promotions.CouponDTO, error) {
	panic("unimplemented")
}

func (stubPromotionsService) CreateCoupon(ctx context.Context, dto promotions.CreateCouponDTO) (*promotions.CouponDTO, error) {
	panic("unimplemented")
}

func (stubPromotionsService) UpdateCoupon(ctx context.Context, id uuid.UUID, dto promotions.UpdateCouponDTO) (*promotions.CouponDTO, error) {
	panic("unimplemented")
}

func (stubPromotionsService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubPromotionsService) ListShippingMethods(ctx context.Context, activeOnly bool) ([]promotions.ShippingMethodDTO, error) {
	return []promotions.ShippingMethodDTO{}, nil
}

func (stubPromotionsService) CreateShippingMethod(ctx context.Context, dto promotions.CreateShippingMethodDTO) (*promotions.ShippingMethodDTO, error) {
	panic("unimplemented")
}

func (stubPromotionsService) UpdateShippingMethod(ctx context.Context, id uuid.UUID, dto promotions.UpdateShippingMethodDTO) (*promotions.ShippingMethodDTO, error) {
	panic("unimplemented")
}

func (stubPromotionsService) DeleteShippingMethod(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Submit(ctx context.Context, userID uuid.UUID, dto orders.SubmitOrderDTO) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListForUser(ctx context.Context, userID uuid.UUID, input orders.ListOrdersInput) (*pagination.Page[orders.OrderDTO], error) {
	page := pagination.NewPage([]orders.OrderDTO{}, 0, input.Pagination)
	return &page, nil
}

func (stubOrdersService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListAll(ctx context.Context, input orders.ListOrdersInput) (*pagination.Page[orders.OrderDTO], error) {
	page := pagination.NewPage([]orders.OrderDTO{}, 0, input.Pagination)
	return &page, nil
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, dto orders.UpdateStatusDTO) (*orders.OrderDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         stubPinger{},
		Redis:      (*redis.Client)(nil),
		Sessions:   stubSessions{},
		Auth:       stubAuthService{},
		Catalog:    stubCatalogService{},
		Cart:       stubCartService{},
		Wishlist:   stubWishlistService{},
		Promotions: stubPromotionsService{},
		Orders:     stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveResponds(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/v1/catalog/products",
		"/api/v1/catalog/brands",
		"/api/v1/catalog/categories",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestOrdersRequireAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/admin/v1/brands", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/brands", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/brands", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestAdminOrdersReachableByAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin order list got %d", resp.Code)
	}
}

func TestCartAcceptsGuestsAndUsers(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token or session got %d", resp.Code)
	}

	guest := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	guest.Header.Set("X-Session-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, guest)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for guest session got %d", resp.Code)
	}

	user := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	user.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, user)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for signed-in cart got %d", resp.Code)
	}

	badSession := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	badSession.Header.Set("X-Session-Id", "not-a-uuid")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, badSession)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed session header got %d", resp.Code)
	}
}

func TestWishlistRequiresAuth(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}
