package api

import (
	"net/http"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) cartResponse(cart *service.CartStore) cartResponse {
	lines := cart.Lines()
	return cartResponse{
		Lines:     toLines(lines),
		ItemCount: cart.ItemCount(),
		Totals:    toTotals(h.pricing.CartTotals(lines)),
	}
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartResponse(currentSession(c).Cart))
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	product, ok := h.catalog.FindByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	cart := currentSession(c).Cart
	cart.AddToCart(product, req.Quantity)
	c.JSON(http.StatusOK, h.cartResponse(cart))
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	cart := currentSession(c).Cart
	cart.UpdateQuantity(c.Param("productId"), *req.Quantity)
	c.JSON(http.StatusOK, h.cartResponse(cart))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.RemoveFromCart(c.Param("productId"))
	c.JSON(http.StatusOK, h.cartResponse(cart))
}

func (h *Handler) clearCart(c *gin.Context) {
	cart := currentSession(c).Cart
	cart.ClearCart()
	c.JSON(http.StatusOK, h.cartResponse(cart))
}
