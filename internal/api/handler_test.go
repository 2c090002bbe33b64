package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/scope"
	"storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router  *gin.Engine
	handler *Handler
	history *service.OrderHistory
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog, err := service.LoadCatalog(context.Background(), service.SeedProducts{})
	require.NoError(t, err)

	history := service.NewOrderHistory()
	sessions := service.NewSessionManager(service.SessionDeps{
		Backend:   scope.NewMemory(),
		Pricing:   service.DefaultPricing(),
		Publisher: history,
		TTL:       time.Hour,
	})

	h := NewHandler(catalog, sessions, service.NewTokenIssuer("test-secret", time.Hour), history, service.DefaultPricing())
	router := gin.New()
	h.SetupRoutes(router)

	return &testServer{router: router, handler: h, history: history}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) signIn(t *testing.T, token string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/sign-in", token, gin.H{"email": "user@example.com", "password": "password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ready", "", nil).Code)

	s.handler.AddReadinessCheck("redis", func(context.Context) error { return errors.New("connection refused") })
	w := s.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestProducts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["products"], 8)

	w = s.do(t, http.MethodGet, "/api/v1/products?category=Furniture", "", nil)
	assert.Len(t, decode(t, w)["products"], 1)

	w = s.do(t, http.MethodGet, "/api/v1/products/1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "249.99", decode(t, w)["price"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/products/404", "", nil).Code)
}

func TestSessionRequired(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/cart", "not-a-token", nil).Code)

	token := s.newSession(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/cart", token, nil).Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/sessions", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/cart", token, nil).Code)
}

func TestCart(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "1", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(3), body["itemCount"])
	totals := body["totals"].(map[string]interface{})
	assert.Equal(t, "749.97", totals["subtotal"])
	assert.Equal(t, "10.00", totals["shipping"])
	assert.Equal(t, "759.97", totals["total"])

	w = s.do(t, http.MethodPatch, "/api/v1/cart/items/1", token, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["itemCount"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "404"}).Code)

	w = s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "productId")

	w = s.do(t, http.MethodDelete, "/api/v1/cart/items/1", token, nil)
	assert.Equal(t, float64(0), decode(t, w)["itemCount"])
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/auth/sign-in", token, gin.H{"email": "nope", "password": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "email")

	w = s.do(t, http.MethodPost, "/api/v1/auth/sign-in", token, gin.H{"email": "user@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.signIn(t, token)
	w = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Demo User", decode(t, w)["user"].(map[string]interface{})["name"])

	w = s.do(t, http.MethodPut, "/api/v1/profile/password", token,
		gin.H{"currentPassword": "password", "newPassword": "a", "confirmPassword": "b"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "New passwords do not match")

	w = s.do(t, http.MethodPut, "/api/v1/profile", token, gin.H{"name": "Renamed", "email": "renamed@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/api/v1/auth/sign-out", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil).Code)
}

func TestCheckoutGuards(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)

	w := s.do(t, http.MethodGet, "/api/v1/checkout/address", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["emptyCart"])

	w = s.do(t, http.MethodPost, "/api/v1/checkout/begin", token, nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, service.PathCart, decode(t, w)["redirect"])

	s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "1", "quantity": 1})
	w = s.do(t, http.MethodPost, "/api/v1/checkout/begin", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, service.PathSignIn, decode(t, w)["redirect"])

	s.signIn(t, token)
	w = s.do(t, http.MethodGet, "/api/v1/checkout/payment", token, nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Equal(t, service.PathAddress, decode(t, w)["redirect"])

	w = s.do(t, http.MethodGet, "/api/v1/checkout/success", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)
	s.signIn(t, token)

	s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "1", "quantity": 2})
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/checkout/begin", token, nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/checkout/address", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, "This field is required", errs["fullName"])

	w = s.do(t, http.MethodPatch, "/api/v1/checkout/address", token, gin.H{
		"shipping": gin.H{
			"fullName":      "Jane Doe",
			"streetAddress": "1 Main St",
			"city":          "Springfield",
			"state":         "IL",
			"zipCode":       "62704",
			"phone":         "(555) 123-4567",
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["errors"])

	w = s.do(t, http.MethodPatch, "/api/v1/checkout/address", token, gin.H{"shipping": gin.H{"country": "Atlantis"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/checkout/address", token, nil).Code)

	w = s.do(t, http.MethodPatch, "/api/v1/checkout/payment", token, gin.H{
		"cardNumber":  "4111111111111111",
		"cardName":    "Jane Doe",
		"expiryMonth": "04",
		"expiryYear":  time.Now().AddDate(1, 0, 0).Format("2006"),
		"cvv":         "123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decode(t, w)
	assert.Equal(t, "4111 1111 1111 1111", view["details"].(map[string]interface{})["cardNumber"])
	assert.Equal(t, "Jane Doe", view["shippingAddress"].(map[string]interface{})["fullName"])
	totals := view["totals"].(map[string]interface{})
	assert.Equal(t, "499.98", totals["subtotal"])
	assert.Equal(t, "40.00", totals["tax"])
	assert.Equal(t, "549.98", totals["total"])

	w = s.do(t, http.MethodPost, "/api/v1/checkout/payment", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	orderNumber := decode(t, w)["orderNumber"].(string)
	assert.Regexp(t, `^ORD-\d{4}$`, orderNumber)

	w = s.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	assert.Equal(t, float64(0), decode(t, w)["itemCount"])

	w = s.do(t, http.MethodGet, "/api/v1/checkout/success", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	confirmation := decode(t, w)
	assert.Equal(t, orderNumber, confirmation["orderNumber"])
	assert.Equal(t, "62704", confirmation["shippingAddress"].(map[string]interface{})["zipCode"])

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/checkout/success", token, nil).Code)

	w = s.do(t, http.MethodGet, "/api/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode(t, w)["orders"].([]interface{})
	require.Len(t, orders, 1)
	assert.Equal(t, orderNumber, orders[0].(map[string]interface{})["id"])
	assert.Equal(t, "549.98", orders[0].(map[string]interface{})["total"])
}

func TestCheckoutBack(t *testing.T) {
	s := newTestServer(t)
	token := s.newSession(t)
	s.signIn(t, token)
	s.do(t, http.MethodPost, "/api/v1/cart/items", token, gin.H{"productId": "2"})
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/checkout/begin", token, nil).Code)

	w := s.do(t, http.MethodPost, "/api/v1/checkout/back", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(service.StageCart), decode(t, w)["stage"])

	w = s.do(t, http.MethodGet, "/api/v1/checkout", token, nil)
	assert.Equal(t, string(service.StageCart), decode(t, w)["stage"])
}
