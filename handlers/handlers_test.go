package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mitulaghara/villageconnect/handlers"
	"github.com/mitulaghara/villageconnect/internal/ws"
	"github.com/mitulaghara/villageconnect/middleware"
	"github.com/mitulaghara/villageconnect/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTokenSecret = "test-secret"

var testDBSeq atomic.Int64

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	hub *ws.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Notification{}))

	log := zap.NewNop()
	hub := ws.NewHub(log)
	go hub.Run()

	app := fiber.New()

	authHandler := handlers.NewAuthHandler(db, testTokenSecret, log)
	userHandler := handlers.NewUserHandler(db, log)
	productHandler := handlers.NewProductHandler(db, hub, t.TempDir(), log)
	notificationHandler := handlers.NewNotificationHandler(db, log)
	statsHandler := handlers.NewStatsHandler(db)
	adminHandler := handlers.NewAdminHandler(db, log)

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Get("/products", productHandler.GetProducts)
	api.Get("/villages", statsHandler.GetVillages)
	api.Get("/stats", statsHandler.GetStats)

	auth := middleware.Authenticate(db, testTokenSecret)
	api.Get("/user/profile", auth, userHandler.GetProfile)
	api.Put("/user/profile", auth, userHandler.UpdateProfile)
	api.Delete("/user/profile", auth, userHandler.DeleteProfile)
	api.Get("/user/saved-products", auth, userHandler.GetSavedProducts)
	api.Post("/products", auth, productHandler.CreateProduct)
	api.Get("/products/user/:userId<int>", auth, productHandler.GetUserProducts)
	api.Get("/products/:id<int>", productHandler.GetProduct)
	api.Put("/products/:id<int>", auth, productHandler.UpdateProduct)
	api.Delete("/products/:id<int>", auth, productHandler.DeleteProduct)
	api.Post("/products/:id<int>/save", auth, userHandler.SaveProduct)
	api.Delete("/products/:id<int>/save", auth, userHandler.UnsaveProduct)
	api.Get("/notifications", auth, notificationHandler.GetNotifications)
	api.Delete("/notifications", auth, notificationHandler.ClearNotifications)

	admin := api.Group("/admin", auth, middleware.RequireAdmin)
	admin.Get("/users", adminHandler.GetUsers)
	admin.Get("/products", adminHandler.GetProducts)
	admin.Delete("/users/:id<int>", adminHandler.DeleteUser)
	admin.Delete("/products/:id<int>", adminHandler.DeleteProduct)
	admin.Put("/users/:id<int>/role", adminHandler.UpdateUserRole)

	return &testEnv{app: app, db: db, hub: hub}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// register creates a user through the API and returns its id and token.
func (e *testEnv) register(t *testing.T, name, email, village string) (uint, string) {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "password123",
		"phone":    "9876543210",
		"village":  village,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		User struct {
			ID    uint   `json:"id"`
			Token string `json:"token"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.User.Token)
	return body.User.ID, body.User.Token
}

// createProduct posts a multipart product creation without images.
func (e *testEnv) createProduct(t *testing.T, token, title, category string, price float64) uint {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", title))
	require.NoError(t, w.WriteField("description", "test listing"))
	require.NoError(t, w.WriteField("price", fmt.Sprint(price)))
	require.NoError(t, w.WriteField("category", category))
	require.NoError(t, w.WriteField("contact", "9876543210"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Product models.Product `json:"product"`
	}
	decodeBody(t, resp, &body)
	return body.Product.ID
}

// connectFakeClient registers a hub client without a real websocket
// connection so tests can observe broadcast payloads.
func (e *testEnv) connectFakeClient(id string) *ws.Client {
	client := ws.NewClient(id, e.hub, nil, 0, zap.NewNop())
	e.hub.Register <- client
	return client
}

func receiveEvent(t *testing.T, client *ws.Client) ws.Event {
	t.Helper()
	select {
	case payload := <-client.Send:
		var event ws.Event
		require.NoError(t, json.Unmarshal(payload, &event))
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("expected a broadcast event")
		return ws.Event{}
	}
}

func assertNoEvent(t *testing.T, client *ws.Client) {
	t.Helper()
	select {
	case payload := <-client.Send:
		t.Fatalf("unexpected broadcast event: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	_, token := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")

	// Duplicate email is rejected, case-insensitively.
	resp := env.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"name":     "Someone Else",
		"email":    "RAMESH@example.com",
		"password": "otherpass",
		"phone":    "1",
		"village":  "Rampur",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/login", "", fiber.Map{
		"email":    "ramesh@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodPost, "/api/login", "", fiber.Map{
		"email":    "ramesh@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User struct {
			Token string `json:"token"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	// Login returns the token issued at registration; it is never rotated.
	assert.Equal(t, token, body.User.Token)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/api/register", "", fiber.Map{
		"name":  "No Email",
		"phone": "1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")

	resp := env.request(t, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/user/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/user/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateProductNotifiesAndBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")

	connected := env.connectFakeClient("conn-1")

	productID := env.createProduct(t, token, "X", models.CategoryFreshProduce, 25)

	// Exactly one persisted notification with the expected message.
	var notifications []models.Notification
	require.NoError(t, env.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Ramesh posted a new product: X", notifications[0].Message)
	assert.Equal(t, models.KindNewProduct, notifications[0].Kind)
	require.NotNil(t, notifications[0].ProductID)
	assert.Equal(t, productID, *notifications[0].ProductID)
	assert.False(t, notifications[0].IsRead)
	// Notifications are global; no recipient is ever recorded.
	assert.Nil(t, notifications[0].UserID)

	// The connected client receives exactly one push with the same message.
	event := receiveEvent(t, connected)
	assert.Equal(t, "new_product", event.Type)
	assert.Equal(t, "Ramesh posted a new product: X", event.Message)
	assert.Equal(t, productID, event.ProductID)
	assert.Equal(t, "Ramesh", event.OwnerName)
	assertNoEvent(t, connected)

	// A client connecting after the broadcast never receives that push...
	late := env.connectFakeClient("conn-2")
	assertNoEvent(t, late)

	// ...but sees the persisted record on its next fetch.
	resp := env.request(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched []models.Notification
	decodeBody(t, resp, &fetched)
	require.Len(t, fetched, 1)
	assert.Equal(t, "Ramesh posted a new product: X", fetched[0].Message)
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")

	post := func(title, price, category string) int {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		require.NoError(t, w.WriteField("title", title))
		require.NoError(t, w.WriteField("price", price))
		require.NoError(t, w.WriteField("category", category))
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := env.app.Test(req, 5000)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadRequest, post("", "10", models.CategoryOther))
	assert.Equal(t, http.StatusBadRequest, post("Okra", "-1", models.CategoryOther))
	assert.Equal(t, http.StatusBadRequest, post("Okra", "abc", models.CategoryOther))
	assert.Equal(t, http.StatusBadRequest, post("Okra", "10", "spaceships"))

	// Validation failures must not leave notifications behind.
	var count int64
	require.NoError(t, env.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProductSnapshotSurvivesProfileEdit(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	productID := env.createProduct(t, token, "Tomatoes", models.CategoryFreshProduce, 40)

	resp := env.request(t, http.MethodPut, "/api/user/profile", token, fiber.Map{
		"name":    "Ramesh Kumar",
		"village": "Lakshmipur",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The listing keeps the owner snapshot taken at creation time.
	var product models.Product
	require.NoError(t, env.db.First(&product, productID).Error)
	assert.Equal(t, "Ramesh", product.OwnerName)
	assert.Equal(t, "Rampur", product.OwnerVillage)
}

func TestProductListingAndFilters(t *testing.T) {
	env := newTestEnv(t)
	_, rameshToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	_, sitaToken := env.register(t, "Sita", "sita@example.com", "Lakshmipur")

	env.createProduct(t, rameshToken, "Fresh Tomatoes", models.CategoryFreshProduce, 40)
	env.createProduct(t, rameshToken, "Hand Tiller", models.CategoryEquipment, 5000)
	env.createProduct(t, sitaToken, "Bamboo Basket", models.CategoryHandicrafts, 150)

	var body struct {
		Products []models.Product `json:"products"`
		Total    int64            `json:"total"`
		Page     int              `json:"page"`
		Pages    int              `json:"pages"`
	}

	resp := env.request(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(3), body.Total)
	assert.Len(t, body.Products, 3)
	assert.Equal(t, 1, body.Pages)

	resp = env.request(t, http.MethodGet, "/api/products?category=fresh_produce&search=tomato", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Fresh Tomatoes", body.Products[0].Title)

	resp = env.request(t, http.MethodGet, "/api/products?village=Lakshmipur", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Bamboo Basket", body.Products[0].Title)

	resp = env.request(t, http.MethodGet, "/api/products?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Len(t, body.Products, 1)
	assert.Equal(t, 2, body.Pages)
}

func TestUpdateProductOwnership(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	_, otherToken := env.register(t, "Sita", "sita@example.com", "Lakshmipur")
	adminID, adminToken := env.register(t, "Admin", "admin@example.com", "Rampur")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)

	productID := env.createProduct(t, ownerToken, "Tomatoes", models.CategoryFreshProduce, 40)
	path := fmt.Sprintf("/api/products/%d", productID)

	resp := env.request(t, http.MethodPut, path, otherToken, fiber.Map{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodPut, path, ownerToken, fiber.Map{"status": "nonsense"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPut, path, ownerToken, fiber.Map{"status": models.StatusSold})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodPut, path, adminToken, fiber.Map{"title": "Ripe Tomatoes"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	require.NoError(t, env.db.First(&product, productID).Error)
	assert.Equal(t, "Ripe Tomatoes", product.Title)
	assert.Equal(t, models.StatusSold, product.Status)

	resp = env.request(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.request(t, http.MethodDelete, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSaveUnsaveEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, rameshToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	_, sitaToken := env.register(t, "Sita", "sita@example.com", "Lakshmipur")

	first := env.createProduct(t, rameshToken, "Tomatoes", models.CategoryFreshProduce, 40)
	second := env.createProduct(t, rameshToken, "Basket", models.CategoryHandicrafts, 150)

	var body struct {
		SavedProducts []uint `json:"saved_products"`
	}

	resp := env.request(t, http.MethodPost, fmt.Sprintf("/api/products/%d/save", first), sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = env.request(t, http.MethodPost, fmt.Sprintf("/api/products/%d/save", second), sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Saving again is a no-op on the set.
	resp = env.request(t, http.MethodPost, fmt.Sprintf("/api/products/%d/save", first), sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, []uint{first, second}, body.SavedProducts)

	// Saving a missing product is a 404.
	resp = env.request(t, http.MethodPost, "/api/products/99999/save", sitaToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unsaving an id that was never saved is a no-op, not an error.
	resp = env.request(t, http.MethodDelete, "/api/products/99999/save", sitaToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Saved listing follows addition order.
	var saved []models.Product
	resp = env.request(t, http.MethodGet, "/api/user/saved-products", sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &saved)
	require.Len(t, saved, 2)
	assert.Equal(t, first, saved[0].ID)
	assert.Equal(t, second, saved[1].ID)

	// A deleted product leaves a dangling saved id that is silently skipped.
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/products/%d", first), rameshToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.request(t, http.MethodGet, "/api/user/saved-products", sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &saved)
	require.Len(t, saved, 1)
	assert.Equal(t, second, saved[0].ID)
}

// TestSavedListLastWriteWins pins the accepted race: the saved list is a
// whole-column read-modify-write, so two interleaved updates lose one of the
// writes rather than merging.
func TestSavedListLastWriteWins(t *testing.T) {
	env := newTestEnv(t)
	userID, _ := env.register(t, "Sita", "sita@example.com", "Lakshmipur")

	var copy1, copy2 models.User
	require.NoError(t, env.db.First(&copy1, userID).Error)
	require.NoError(t, env.db.First(&copy2, userID).Error)

	copy1.SaveProduct(101)
	require.NoError(t, env.db.Model(&copy1).Update("saved_products", copy1.SavedProducts).Error)

	copy2.SaveProduct(202)
	require.NoError(t, env.db.Model(&copy2).Update("saved_products", copy2.SavedProducts).Error)

	var final models.User
	require.NoError(t, env.db.First(&final, userID).Error)
	assert.Equal(t, []uint{202}, final.SavedProducts)
}

func TestDeleteProfileCascadesProducts(t *testing.T) {
	env := newTestEnv(t)
	sitaID, sitaToken := env.register(t, "Sita", "sita@example.com", "Lakshmipur")
	_, otherToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")

	env.createProduct(t, sitaToken, "Basket", models.CategoryHandicrafts, 150)
	env.createProduct(t, sitaToken, "Shawl", models.CategoryHandicrafts, 300)

	resp := env.request(t, http.MethodDelete, "/api/user/profile", sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The deleted user's token is no longer a valid credential.
	resp = env.request(t, http.MethodGet, "/api/user/profile", sitaToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var products []models.Product
	resp = env.request(t, http.MethodGet, fmt.Sprintf("/api/products/user/%d", sitaID), otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Empty(t, products)
}

func TestClearNotificationsIsGlobal(t *testing.T) {
	env := newTestEnv(t)
	_, rameshToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	_, sitaToken := env.register(t, "Sita", "sita@example.com", "Lakshmipur")

	env.createProduct(t, rameshToken, "Tomatoes", models.CategoryFreshProduce, 40)

	// One user clearing wipes the history for everyone.
	resp := env.request(t, http.MethodDelete, "/api/notifications", sitaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched []models.Notification
	resp = env.request(t, http.MethodGet, "/api/notifications", rameshToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &fetched)
	assert.Empty(t, fetched)
}

func TestVillagesAndStats(t *testing.T) {
	env := newTestEnv(t)
	_, rameshToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	env.register(t, "Sita", "sita@example.com", "Lakshmipur")
	env.createProduct(t, rameshToken, "Tomatoes", models.CategoryFreshProduce, 40)

	var villages []string
	resp := env.request(t, http.MethodGet, "/api/villages", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &villages)
	assert.ElementsMatch(t, []string{"Rampur", "Lakshmipur"}, villages)

	var stats struct {
		TotalUsers    int64 `json:"total_users"`
		TotalProducts int64 `json:"total_products"`
		TotalVillages int   `json:"total_villages"`
	}
	resp = env.request(t, http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &stats)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalVillages)
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	memberID, memberToken := env.register(t, "Ramesh", "ramesh@example.com", "Rampur")
	adminID, adminToken := env.register(t, "Admin", "admin@example.com", "Rampur")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", adminID).Update("role", models.RoleAdmin).Error)

	env.createProduct(t, memberToken, "Tomatoes", models.CategoryFreshProduce, 40)

	// Members are locked out of the admin surface.
	resp := env.request(t, http.MethodGet, "/api/admin/users", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var users []models.PublicUser
	resp = env.request(t, http.MethodGet, "/api/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &users)
	assert.Len(t, users, 2)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", memberID), adminToken, fiber.Map{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/role", memberID), adminToken, fiber.Map{"role": models.RoleAdmin})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var promoted models.User
	require.NoError(t, env.db.First(&promoted, memberID).Error)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	// Admin deletion of a user cascades to their products.
	resp = env.request(t, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", memberID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var productCount int64
	require.NoError(t, env.db.Model(&models.Product{}).Where("owner_id = ?", memberID).Count(&productCount).Error)
	assert.Zero(t, productCount)
}
