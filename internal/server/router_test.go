package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shop-admin/internal/config"
	"shop-admin/internal/database/dbtest"
	"shop-admin/internal/metrics"
	"shop-admin/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-battery"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t       *testing.T
	engine  *gin.Engine
	db      *gorm.DB
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		App: config.AppConfig{Name: "shop-admin", Env: "test"},
		JWT: config.JWTConfig{
			Secret:                 "router-test-secret-0123456789abcdefgh",
			AccessTokenExpiration:  time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "shop-admin",
		},
	}
	db := dbtest.New(t)
	m := metrics.New()
	engine := NewRouter(Deps{Config: cfg, DB: db, Redis: rdb, Log: zap.NewNop(), Metrics: m})
	return &testServer{t: t, engine: engine, db: db, metrics: m}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) createUser(username string, staff bool) *models.User {
	s.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(s.t, err)
	u := &models.User{
		Username:     username,
		Email:        username + "@shop.local",
		PasswordHash: string(hash),
		IsStaff:      staff,
		IsActive:     true,
	}
	require.NoError(s.t, s.db.Create(u).Error)
	return u
}

type loginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		Username string `json:"username"`
		IsStaff  bool   `json:"is_staff"`
	} `json:"user"`
}

func (s *testServer) login(username string) loginData {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": testPassword})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var data loginData
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type cartData struct {
	Items []struct {
		ID           uint `json:"id"`
		Quantity     int  `json:"quantity"`
		CatalogEntry struct {
			ID uint `json:"id"`
		} `json:"catalog_entry"`
		Subtotal decimal.Decimal `json:"subtotal"`
	} `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func TestRouter_CartScenario(t *testing.T) {
	s := newTestServer(t)
	s.createUser("shopper", false)
	token := s.login("shopper").AccessToken

	entry := &models.CatalogEntry{SKU: "A-1", Name: "Keyboard", Price: decimal.RequireFromString("10.00"), WarrantyMonths: 12, Status: models.CatalogActive}
	require.NoError(t, s.db.Create(entry).Error)

	w, env := s.do(http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[cartData](t, env).Items)

	w, _ = s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"catalog_entry_id": entry.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, env = s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"catalog_entry_id": entry.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cart := decode[cartData](t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, entry.ID, cart.Items[0].CatalogEntry.ID)
	assert.Equal(t, 5, cart.TotalItems)
	assert.True(t, cart.TotalPrice.Equal(decimal.NewFromInt(50)), cart.TotalPrice.String())

	itemPath := fmt.Sprintf("/api/v1/cart/items/%d", cart.Items[0].ID)
	w, env = s.do(http.MethodPatch, itemPath, token, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[cartData](t, env).Items)

	w, env = s.do(http.MethodDelete, itemPath, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"catalog_entry_id": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ERR_NOT_FOUND", env.Error.Code)

	w, env = s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"catalog_entry_id": entry.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
}

func TestRouter_CartItemsAreScopedToOwner(t *testing.T) {
	s := newTestServer(t)
	s.createUser("alice", false)
	s.createUser("bob", false)
	alice := s.login("alice").AccessToken
	bob := s.login("bob").AccessToken

	entry := &models.CatalogEntry{SKU: "B-1", Name: "Monitor", Price: decimal.NewFromInt(100), WarrantyMonths: 12, Status: models.CatalogActive}
	require.NoError(t, s.db.Create(entry).Error)

	_, env := s.do(http.MethodPost, "/api/v1/cart/items", alice, gin.H{"catalog_entry_id": entry.ID, "quantity": 1})
	cart := decode[cartData](t, env)
	require.Len(t, cart.Items, 1)
	itemPath := fmt.Sprintf("/api/v1/cart/items/%d", cart.Items[0].ID)

	w, _ := s.do(http.MethodPatch, itemPath, bob, gin.H{"quantity": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(http.MethodDelete, itemPath, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = s.do(http.MethodGet, "/api/v1/cart", alice, nil)
	cart = decode[cartData](t, env)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestRouter_AccessControl(t *testing.T) {
	s := newTestServer(t)
	s.createUser("boss", true)
	s.createUser("clerk", false)
	boss := s.login("boss").AccessToken
	clerk := s.login("clerk").AccessToken

	w, env := s.do(http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)

	w, env = s.do(http.MethodGet, "/api/v1/cart", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_TOKEN_INVALID", env.Error.Code)

	for _, path := range []string{"/api/v1/users", "/api/v1/roles", "/api/v1/clients", "/api/v1/audit-logs", "/api/v1/cities"} {
		w, env = s.do(http.MethodGet, path, clerk, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
		assert.Equal(t, "ERR_FORBIDDEN", env.Error.Code, path)

		w, _ = s.do(http.MethodGet, path, boss, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w, _ = s.do(http.MethodGet, "/api/v1/catalog", clerk, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/brands", clerk, gin.H{"name": "Dell"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(http.MethodPost, "/api/v1/brands", boss, gin.H{"name": "Dell"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "clerk", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
}

func TestRouter_LoginRefreshLogout(t *testing.T) {
	s := newTestServer(t)
	s.createUser("ops", true)

	tokens := s.login("ops")
	assert.Equal(t, "ops", tokens.User.Username)
	assert.True(t, tokens.User.IsStaff)

	w, env := s.do(http.MethodGet, "/api/v1/auth/me", tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"username":"ops"`)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", tokens.AccessToken, gin.H{"refresh_token": tokens.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_TOKEN_INVALID", env.Error.Code)

	// access tokens are not refresh tokens
	w, _ = s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": tokens.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AdministrationAudit(t *testing.T) {
	s := newTestServer(t)
	boss := s.createUser("boss", true)
	s.createUser("seller", true)
	bossToken := s.login("boss").AccessToken
	sellerToken := s.login("seller").AccessToken

	w, env := s.do(http.MethodPost, "/api/v1/users", bossToken, gin.H{
		"username": "temp", "email": "temp@shop.local", "password": "temporary-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.User](t, env)

	w, _ = s.do(http.MethodPost, "/api/v1/clients", sellerToken, gin.H{"name": "ACME", "phone": "555-0100"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var seller models.User
	require.NoError(t, s.db.Where("username = ?", "seller").First(&seller).Error)
	w, env = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", seller.ID), bossToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ERR_REFERENCED", env.Error.Code)

	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", created.ID), bossToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var logs []models.AuditLog
	require.NoError(t, s.db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 3)
	assert.Equal(t, models.ActionCreate, logs[0].Action)
	assert.Equal(t, models.ModuleAdministration, logs[0].Module)
	require.NotNil(t, logs[0].UserID)
	assert.Equal(t, boss.ID, *logs[0].UserID)
	assert.Equal(t, "Client created: ACME", logs[1].Description)
	assert.Equal(t, models.ModuleClients, logs[1].Module)
	assert.Equal(t, models.ActionDelete, logs[2].Action)

	w, _ = s.do(http.MethodGet, "/api/v1/audit-logs?module=Clients", bossToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"ok"`)

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "shop_admin_http_requests_total")
}
