package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"permata/internal/handlers"
	"permata/internal/middleware"
	"permata/internal/models"
	"permata/internal/repositories"
	"permata/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services. Each call gets its own named in-memory database so tests
// do not see each other's rows. The guest wishlist uses the in-memory store
// in place of Redis.
func setupApp(dbName string) (*fiber.App, error) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Product{},
		&models.Category{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
		&models.Address{},
		&models.WishlistEntry{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	notificationRepo := repositories.NewGORMNotificationRepository(db)
	guestWishlist := repositories.NewMockWishlistStore()
	userWishlist := repositories.NewGORMWishlistStore(db)

	// Services
	authService := services.NewAuthService(userRepo, "test_jwt_secret", []string{"admin@example.com"})
	productService := services.NewProductService(productRepo, categoryRepo)
	cartService := services.NewCartService()
	wishlistService := services.NewWishlistService(guestWishlist, userWishlist)
	notificationService := services.NewNotificationService(notificationRepo)
	checkoutService := services.NewCheckoutService(cartService, orderRepo, notificationRepo, nil, 15000)
	orderService := services.NewOrderService(orderRepo, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, wishlistService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService, productService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, productService)
	orderHandler := handlers.NewOrderHandler(checkoutService, orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	authHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	wishlistRoutes := apiV1.Group("", middleware.OptionalAuth(authService))
	wishlistHandler.RegisterRoutes(wishlistRoutes)

	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protectedRoutes)
	cartHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)
	notificationHandler.RegisterRoutes(protectedRoutes)

	adminRoutes := apiV1.Group("/admin", middleware.AuthRequired(authService), middleware.AdminRequired())
	productHandler.RegisterAdminRoutes(adminRoutes)
	orderHandler.RegisterAdminRoutes(adminRoutes)

	seedProductsForTest(productRepo)

	return app, nil
}

// seedProductsForTest populates the product repository for tests.
func seedProductsForTest(repo repositories.ProductRepository) {
	products := []models.Product{
		{ID: "prod-ring", Name: "Gold Ring", Description: "18k gold ring", Price: 1200000, Stock: 5, Sizes: []string{"6", "7", "8"}},
		{ID: "prod-chain", Name: "Silver Chain", Description: "Sterling silver chain", Price: 350000, Stock: 10},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			log.Printf("Failed to seed product %s: %v", products[i].Name, err)
		}
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1) // -1 for no timeout
	assert.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	var parsed map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		assert.NoError(t, json.Unmarshal(raw, &parsed))
	}
	return resp, parsed
}

func registerAndLogin(t *testing.T, app *fiber.App, email string, headers map[string]string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	}, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, err := setupApp("auth_flow")
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "test@example.com", nil)

	// Duplicate registration is rejected.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "test@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Profile requires and honors the token.
	resp, body := doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", nil, authHeader(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test@example.com", body["email"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProductListingAndSearch(t *testing.T) {
	app, err := setupApp("product_flow")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	raw, _ := io.ReadAll(resp.Body)
	assert.NoError(t, json.Unmarshal(raw, &products))
	assert.Len(t, products, 2)

	// Search filters by name substring.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/search?q=gold", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	raw, _ = io.ReadAll(resp.Body)
	products = nil
	assert.NoError(t, json.Unmarshal(raw, &products))
	assert.Len(t, products, 1)
	assert.Equal(t, "Gold Ring", products[0].Name)
}

func TestAdminGateOnCatalogManagement(t *testing.T) {
	app, err := setupApp("admin_gate")
	assert.NoError(t, err)

	customerToken := registerAndLogin(t, app, "customer@example.com", nil)
	adminToken := registerAndLogin(t, app, "admin@example.com", nil)

	newProduct := map[string]interface{}{"name": "Pearl Earrings", "price": 800000, "stock": 3}

	// Customers are forbidden.
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/admin/products/", newProduct, authHeader(customerToken))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The configured admin email gets the admin role claim at login.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/products/", newProduct, authHeader(adminToken))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	app, err := setupApp("checkout_flow")
	assert.NoError(t, err)

	token := registerAndLogin(t, app, "buyer@example.com", nil)

	// Add the same product and size twice; quantity merges.
	addBody := map[string]interface{}{"product_id": "prod-ring", "size": "7", "quantity": 1}
	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", addBody, authHeader(token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, item := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", addBody, authHeader(token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), item["quantity"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": "prod-chain"}, authHeader(token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, cart := doJSON(t, app, http.MethodGet, "/api/v1/cart/?keys=prod-ring-7", nil, authHeader(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), cart["count"])
	assert.Equal(t, 2*1200000.0, cart["selected_total"])

	// Checkout only the selected ring.
	resp, order := doJSON(t, app, http.MethodPost, "/api/v1/orders/checkout", map[string]interface{}{
		"selected_keys":  []string{"prod-ring-7"},
		"payment_method": "cod",
		"recipient":      "Buyer",
		"phone":          "0800000000",
		"street":         "Jl. Test 1",
		"city":           "Jakarta",
		"postal_code":    "12345",
	}, authHeader(token))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, 2*1200000.0, order["subtotal"])

	// The chain is still in the cart, the ring is gone.
	resp, cart = doJSON(t, app, http.MethodGet, "/api/v1/cart/", nil, authHeader(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), cart["count"])

	// One order and one notification exist.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	ordersResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var orders []models.Order
	raw, _ := io.ReadAll(ordersResp.Body)
	assert.NoError(t, json.Unmarshal(raw, &orders))
	assert.Len(t, orders, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/notifications/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	notifResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var notifications []models.Notification
	raw, _ = io.ReadAll(notifResp.Body)
	assert.NoError(t, json.Unmarshal(raw, &notifications))
	assert.Len(t, notifications, 1)
	assert.False(t, notifications[0].Read)

	// Empty selection is rejected before any write.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/orders/checkout", map[string]interface{}{
		"selected_keys":  []string{},
		"payment_method": "cod",
		"recipient":      "Buyer",
		"phone":          "0800000000",
		"street":         "Jl. Test 1",
		"city":           "Jakarta",
		"postal_code":    "12345",
	}, authHeader(token))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	app, err := setupApp("order_status_flow")
	assert.NoError(t, err)

	buyerToken := registerAndLogin(t, app, "buyer2@example.com", nil)
	adminToken := registerAndLogin(t, app, "admin@example.com", nil)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": "prod-chain"}, authHeader(buyerToken))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, order := doJSON(t, app, http.MethodPost, "/api/v1/orders/checkout", map[string]interface{}{
		"selected_keys":  []string{"prod-chain"},
		"payment_method": "bank_transfer",
		"recipient":      "Buyer",
		"phone":          "0800000000",
		"street":         "Jl. Test 1",
		"city":           "Jakarta",
		"postal_code":    "12345",
	}, authHeader(buyerToken))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	orderID, _ := order["id"].(string)
	assert.NotEmpty(t, orderID)
	assert.Equal(t, "paid", order["payment_status"])

	statusPath := fmt.Sprintf("/api/v1/admin/orders/%s/status", orderID)

	// Customers cannot drive the status machine.
	resp, _ = doJSON(t, app, http.MethodPatch, statusPath, map[string]string{"status": "shipping"}, authHeader(buyerToken))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// pending -> completed skips a state and is rejected.
	resp, _ = doJSON(t, app, http.MethodPatch, statusPath, map[string]string{"status": "completed"}, authHeader(adminToken))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// pending -> shipping -> completed is the happy path.
	resp, _ = doJSON(t, app, http.MethodPatch, statusPath, map[string]string{"status": "shipping"}, authHeader(adminToken))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, app, http.MethodPatch, statusPath, map[string]string{"status": "completed"}, authHeader(adminToken))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Completed orders cannot be cancelled.
	resp, _ = doJSON(t, app, http.MethodPatch, statusPath, map[string]string{"status": "cancelled"}, authHeader(adminToken))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGuestWishlistMigratesOnLogin(t *testing.T) {
	app, err := setupApp("wishlist_flow")
	assert.NoError(t, err)

	device := map[string]string{"X-Device-ID": "device-abc"}

	// A guest toggles two products into the wishlist.
	resp, body := doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"product_id": "prod-ring"}, device)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["in_wishlist"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"product_id": "prod-chain"}, device)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Toggle is its own inverse: the chain is removed again.
	resp, body = doJSON(t, app, http.MethodPost, "/api/v1/wishlist/toggle", map[string]string{"product_id": "prod-chain"}, device)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["in_wishlist"])

	// Logging in with the device header migrates the guest set.
	token := registerAndLogin(t, app, "wisher@example.com", device)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	listResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	var items []models.WishlistItem
	raw, _ := io.ReadAll(listResp.Body)
	assert.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, 1)
	assert.Equal(t, "prod-ring", items[0].ProductID)

	// The guest set was cleared by the migration.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/", nil)
	req.Header.Set("X-Device-ID", "device-abc")
	guestResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	items = nil
	raw, _ = io.ReadAll(guestResp.Body)
	assert.NoError(t, json.Unmarshal(raw, &items))
	assert.Empty(t, items)
}
