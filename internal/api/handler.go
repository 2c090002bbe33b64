package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/service"
	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const signInPath = "/auth/sign-in"

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.Catalog
	sessions *service.SessionManager
	tokens   *service.TokenIssuer
	history  *service.OrderHistory
	pricing  service.Pricing
	checks   map[string]ReadinessCheck
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.Catalog,
	sessions *service.SessionManager,
	tokens *service.TokenIssuer,
	history *service.OrderHistory,
	pricing service.Pricing,
) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		tokens:   tokens,
		history:  history,
		pricing:  pricing,
		checks:   make(map[string]ReadinessCheck),
		logger:   util.GetLogger(),
	}
}

// AddReadinessCheck registers a dependency probed by /ready.
func (h *Handler) AddReadinessCheck(name string, check ReadinessCheck) {
	h.checks[name] = check
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	SetupValidator()

	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sessions", h.createSession)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
	}

	s := v1.Group("")
	s.Use(h.sessionMiddleware())
	{
		s.DELETE("/sessions", h.endSession)

		s.GET("/cart", h.getCart)
		s.POST("/cart/items", h.addCartItem)
		s.PATCH("/cart/items/:productId", h.updateCartItem)
		s.DELETE("/cart/items/:productId", h.removeCartItem)
		s.DELETE("/cart", h.clearCart)

		s.POST("/auth/sign-in", h.signIn)
		s.POST("/auth/sign-up", h.signUp)
		s.POST("/auth/sign-out", h.signOut)
		s.GET("/auth/me", h.me)
		s.PUT("/profile", h.updateProfile)
		s.PUT("/profile/password", h.updatePassword)

		s.GET("/checkout", h.checkoutStatus)
		s.POST("/checkout/begin", h.beginCheckout)
		s.GET("/checkout/address", h.getAddress)
		s.PATCH("/checkout/address", h.editAddress)
		s.POST("/checkout/address", h.submitAddress)
		s.GET("/checkout/payment", h.getPayment)
		s.PATCH("/checkout/payment", h.editPayment)
		s.POST("/checkout/payment", h.submitPayment)
		s.GET("/checkout/success", h.getSuccess)
		s.POST("/checkout/back", h.checkoutBack)

		s.GET("/orders", h.listOrders)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every registered dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"sessions": h.sessions.Len(),
		"time":     time.Now().Unix(),
	})
}

func (h *Handler) createSession(c *gin.Context) {
	session := h.sessions.Create()

	token, err := h.tokens.Issue(session.ID)
	if err != nil {
		_ = h.sessions.Delete(c.Request.Context(), session.ID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create session",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) endSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), currentSession(c).ID); err != nil {
		h.logger.Warn("Failed to end session", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listProducts(c *gin.Context) {
	products := h.catalog.ListAll()
	if category := c.Query("category"); category != "" {
		products = h.catalog.ListByCategory(category)
	}
	c.JSON(http.StatusOK, gin.H{"products": toProducts(products)})
}

func (h *Handler) getProduct(c *gin.Context) {
	product, ok := h.catalog.FindByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}
	c.JSON(http.StatusOK, toProduct(product))
}

// writeError maps workflow and auth errors onto HTTP responses.
func (h *Handler) writeError(c *gin.Context, err error) {
	var redirect *service.RedirectError
	var invalid *service.ValidationError

	switch {
	case errors.As(err, &redirect):
		status := http.StatusPreconditionFailed
		if redirect.Path == service.PathSignIn {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"redirect": redirect.Path, "reason": redirect.Reason})
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": invalid.Fields})
	case errors.Is(err, service.ErrSubmissionInProgress), errors.Is(err, service.ErrCheckoutReset):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoOrderToConfirm):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "redirect": service.PathHome})
	case errors.Is(err, service.ErrUnknownField), errors.Is(err, service.ErrUnknownOption),
		errors.Is(err, service.ErrMissingCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrNotSignedIn):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in", "redirect": signInPath})
	case errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"confirmPassword": "New passwords do not match"}})
	default:
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}
}
