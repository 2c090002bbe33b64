package api

import (
	"net/http"

	"storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// addressEditRequest carries field edits keyed by field name.
type addressEditRequest struct {
	Shipping       map[string]string `json:"shipping"`
	Billing        map[string]string `json:"billing"`
	SameAsShipping *bool             `json:"sameAsShipping"`
}

func (h *Handler) checkoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, currentSession(c).Checkout.Status())
}

func (h *Handler) beginCheckout(c *gin.Context) {
	if err := currentSession(c).Checkout.Begin(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stage": service.StageAddress, "next": service.PathAddress})
}

func (h *Handler) getAddress(c *gin.Context) {
	view, err := currentSession(c).Checkout.AddressView(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAddressView(view))
}

func (h *Handler) editAddress(c *gin.Context) {
	var req addressEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleBindError(c, err)
		return
	}

	workflow := currentSession(c).Checkout
	if req.SameAsShipping != nil {
		workflow.SetSameAsShipping(*req.SameAsShipping)
	}
	for field, value := range req.Shipping {
		if err := workflow.EditShipping(field, value); err != nil {
			h.writeError(c, err)
			return
		}
	}
	for field, value := range req.Billing {
		if err := workflow.EditBilling(field, value); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.getAddress(c)
}

func (h *Handler) submitAddress(c *gin.Context) {
	if err := currentSession(c).Checkout.SubmitAddress(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stage": service.StagePayment, "next": service.PathPayment})
}

func (h *Handler) getPayment(c *gin.Context) {
	view, err := currentSession(c).Checkout.PaymentView(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentView(view))
}

func (h *Handler) editPayment(c *gin.Context) {
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		handleBindError(c, err)
		return
	}

	workflow := currentSession(c).Checkout
	for field, value := range fields {
		if err := workflow.EditPayment(field, value); err != nil {
			h.writeError(c, err)
			return
		}
	}

	h.getPayment(c)
}

func (h *Handler) submitPayment(c *gin.Context) {
	order, err := currentSession(c).Checkout.SubmitPayment(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stage":       service.StageSuccess,
		"next":        service.PathSuccess,
		"orderNumber": order.OrderNumber,
	})
}

// getSuccess renders the confirmation once; later calls send the client home.
func (h *Handler) getSuccess(c *gin.Context) {
	order, err := currentSession(c).Checkout.Success(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(order))
}

func (h *Handler) checkoutBack(c *gin.Context) {
	stage := currentSession(c).Checkout.Back()
	c.JSON(http.StatusOK, gin.H{"stage": stage})
}

func (h *Handler) listOrders(c *gin.Context) {
	user := currentSession(c).Auth.CurrentUser(c.Request.Context())
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not signed in", "redirect": signInPath})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": toOrderSummaries(h.history.ListOrders(user.ID))})
}
