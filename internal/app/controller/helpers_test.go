package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/acehadwer/storefront-backend/internal/app/model"
	"github.com/acehadwer/storefront-backend/internal/app/repository"
	"github.com/acehadwer/storefront-backend/internal/app/service"
	"github.com/acehadwer/storefront-backend/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testJWTSecret  = "test-secret"
	testUserHeader = "X-Test-User-ID"
)

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	user     *model.User
	other    *model.User
	tea      *model.Product
	rice     *model.Product
	inactive *model.Product

	authService     service.AuthService
	productService  service.ProductService
	adminService    service.ProductAdminService
	cartService     service.CartService
	wishlistService service.WishlistService
	checkoutService service.CheckoutService
	orderService    service.OrderService
	addressService  service.AddressService
}

// Helper function to set user ID in context
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func setupControllerTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	addressRepo := repository.NewAddressRepository(testDB)

	env := &testEnv{db: testDB}
	env.authService = service.NewAuthService(userRepo, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	env.productService = service.NewProductService(productRepo)
	env.adminService = service.NewProductAdminService(productRepo)
	env.cartService = service.NewCartService(cartRepo, productRepo)
	env.wishlistService = service.NewWishlistService(repository.NewWishlistRepository(testDB), productRepo, env.cartService)
	env.checkoutService = service.NewCheckoutService(testDB, cartRepo, orderRepo, userRepo, addressRepo, service.NewLocalCheckoutLocker(), "Rs")
	env.orderService = service.NewOrderService(orderRepo)
	env.addressService = service.NewAddressService(testDB, addressRepo)

	env.user = &model.User{Email: "test@example.com", PasswordHash: "hash", Name: "Test User", Role: model.RoleUser}
	env.other = &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other User", Role: model.RoleUser}
	env.tea = &model.Product{Name: "Green Tea", Description: "Loose leaf", Price: model.NewMoneyFromFloat(450.50), Category: "Beverages", ImageURL: "tea.jpg", Status: model.ProductStatusActive}
	env.rice = &model.Product{Name: "Basmati Rice", Description: "5kg bag", Price: model.NewMoneyFromFloat(1250), Category: "Grocery", Status: model.ProductStatusActive}
	env.inactive = &model.Product{Name: "Old Kettle", Description: "Discontinued", Price: model.NewMoneyFromFloat(99), Category: "Kitchen", Status: model.ProductStatusInactive}
	for _, v := range []interface{}{env.user, env.other, env.tea, env.rice, env.inactive} {
		require.NoError(t, testDB.Create(v).Error)
	}

	gin.SetMode(gin.TestMode)
	env.router = gin.New()
	env.router.Use(func(c *gin.Context) {
		if raw := c.GetHeader(testUserHeader); raw != "" {
			id, _ := strconv.ParseUint(raw, 10, 32)
			setUserIDInContext(c, uint(id))
		}
		c.Next()
	})

	return env
}

// request sends body as JSON (or no body when nil). userID 0 means anonymous.
func (e *testEnv) request(method, path string, body interface{}, userID uint) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) form(method, path string, values url.Values, userID uint) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(uint64(userID), 10))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func resultOf(t *testing.T, response map[string]interface{}) map[string]interface{} {
	result, ok := response["result"].(map[string]interface{})
	require.True(t, ok, "response has no result object")
	return result
}

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
