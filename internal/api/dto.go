package api

import (
	"storefront/internal/models"
	"storefront/internal/service"
)

// Money leaves the API as fixed two-decimal strings.

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Rating      int      `json:"rating"`
	Reviews     int      `json:"reviews"`
	Details     []string `json:"details"`
}

type lineResponse struct {
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal string          `json:"lineTotal"`
}

type totalsResponse struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type cartResponse struct {
	Lines     []lineResponse `json:"lines"`
	ItemCount int            `json:"itemCount"`
	Totals    totalsResponse `json:"totals"`
}

type addressViewResponse struct {
	EmptyCart  bool                `json:"emptyCart"`
	Form       service.AddressForm `json:"form"`
	Errors     service.FieldErrors `json:"errors"`
	Countries  []string            `json:"countries"`
	Lines      []lineResponse      `json:"lines"`
	Totals     totalsResponse      `json:"totals"`
	Processing bool                `json:"processing"`
}

type paymentViewResponse struct {
	ShippingAddress *models.Address       `json:"shippingAddress"`
	Details         models.PaymentDetails `json:"details"`
	Errors          service.FieldErrors   `json:"errors"`
	Months          []string              `json:"months"`
	Years           []string              `json:"years"`
	Lines           []lineResponse        `json:"lines"`
	Totals          totalsResponse        `json:"totals"`
	Processing      bool                  `json:"processing"`
}

type orderResponse struct {
	OrderNumber     string          `json:"orderNumber"`
	OrderDate       string          `json:"orderDate"`
	ShippingAddress *models.Address `json:"shippingAddress"`
	Lines           []lineResponse  `json:"lines"`
	Totals          totalsResponse  `json:"totals"`
}

type orderSummaryItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type orderSummaryResponse struct {
	ID     string                     `json:"id"`
	Date   string                     `json:"date"`
	Status string                     `json:"status"`
	Total  string                     `json:"total"`
	Items  []orderSummaryItemResponse `json:"items"`
}

func toProduct(p models.Product) productResponse {
	details := p.Details
	if details == nil {
		details = []string{}
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Image:       p.Image,
		Category:    p.Category,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
		Details:     details,
	}
}

func toProducts(products []models.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(p))
	}
	return out
}

func toLines(lines []models.CartLine) []lineResponse {
	out := make([]lineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, lineResponse{
			Product:   toProduct(l.Product),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().StringFixed(2),
		})
	}
	return out
}

func toTotals(t models.Totals) totalsResponse {
	return totalsResponse{
		Subtotal: t.Subtotal.StringFixed(2),
		Shipping: t.Shipping.StringFixed(2),
		Tax:      t.Tax.StringFixed(2),
		Total:    t.Total.StringFixed(2),
	}
}

func toAddressView(v *service.AddressView) addressViewResponse {
	return addressViewResponse{
		EmptyCart:  v.EmptyCart,
		Form:       v.Form,
		Errors:     v.Errors,
		Countries:  v.Countries,
		Lines:      toLines(v.Lines),
		Totals:     toTotals(v.Totals),
		Processing: v.Processing,
	}
}

func toPaymentView(v *service.PaymentView) paymentViewResponse {
	return paymentViewResponse{
		ShippingAddress: v.ShippingAddress,
		Details:         v.Details,
		Errors:          v.Errors,
		Months:          v.Months,
		Years:           v.Years,
		Lines:           toLines(v.Lines),
		Totals:          toTotals(v.Totals),
		Processing:      v.Processing,
	}
}

func toOrder(o *models.Order) orderResponse {
	return orderResponse{
		OrderNumber:     o.OrderNumber,
		OrderDate:       o.OrderDate,
		ShippingAddress: o.ShippingAddress,
		Lines:           toLines(o.Lines),
		Totals:          toTotals(o.Totals),
	}
}

func toOrderSummaries(orders []models.OrderSummary) []orderSummaryResponse {
	out := make([]orderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		items := make([]orderSummaryItemResponse, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, orderSummaryItemResponse{
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    it.Price.StringFixed(2),
			})
		}
		out = append(out, orderSummaryResponse{
			ID:     o.ID,
			Date:   o.Date,
			Status: o.Status,
			Total:  o.Total.StringFixed(2),
			Items:  items,
		})
	}
	return out
}
