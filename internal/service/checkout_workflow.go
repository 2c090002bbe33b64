package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"storefront/internal/models"
	"storefront/internal/scope"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage is a step of the checkout.
type Stage string

const (
	StageCart    Stage = "cart"
	StageAddress Stage = "address"
	StagePayment Stage = "payment"
	StageSuccess Stage = "success"
)

// Navigation targets returned in redirects.
const (
	PathHome     = "/"
	PathCart     = "/cart"
	PathSignIn   = "/auth/sign-in?redirect=/cart"
	PathAddress  = "/checkout/address"
	PathPayment  = "/checkout/payment"
	PathSuccess  = "/checkout/success"
	orderDateFmt = "January 2, 2006"
)

// Cross-stage snapshot keys.
const (
	ShippingAddressKey = "shippingAddress"
	BillingAddressKey  = "billingAddress"
)

var (
	ErrNoOrderToConfirm = errors.New("no order to confirm")
	ErrUnknownField     = errors.New("unknown form field")
	ErrUnknownOption    = errors.New("value is not a selectable option")
	ErrCheckoutReset    = errors.New("checkout was reset while the submission was pending")
)

// RedirectError tells the caller to navigate elsewhere instead of showing
// the requested stage. It is a guard outcome, not a failure.
type RedirectError struct {
	Path   string
	Reason string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s: %s", e.Path, e.Reason)
}

// UserSource yields the signed-in user, or nil.
type UserSource interface {
	CurrentUser(ctx context.Context) *models.User
}

// OrderPublisher receives completed orders.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// Delays are the simulated latencies of the checkout submissions.
type Delays struct {
	CheckoutStart time.Duration
	Address       time.Duration
	Payment       time.Duration
	Auth          time.Duration
}

// WorkflowDeps are the collaborators of a CheckoutWorkflow.
type WorkflowDeps struct {
	Cart      *CartStore
	Users     UserSource
	Scope     scope.Store
	Payments  *PaymentProcessor
	Publisher OrderPublisher
	Pricing   Pricing
	Delays    Delays
	// Now and OrderNumber default to the wall clock and a random ORD-NNNN.
	Now         func() time.Time
	OrderNumber func() string
}

// AddressView is what the address stage renders.
type AddressView struct {
	EmptyCart  bool              `json:"emptyCart"`
	Form       AddressForm       `json:"form"`
	Errors     FieldErrors       `json:"errors"`
	Countries  []string          `json:"countries"`
	Lines      []models.CartLine `json:"lines"`
	Totals     models.Totals     `json:"totals"`
	Processing bool              `json:"processing"`
}

// PaymentView is what the payment stage renders. ShippingAddress is nil
// when no readable snapshot exists.
type PaymentView struct {
	ShippingAddress *models.Address       `json:"shippingAddress,omitempty"`
	Details         models.PaymentDetails `json:"details"`
	Errors          FieldErrors           `json:"errors"`
	Months          []string              `json:"months"`
	Years           []string              `json:"years"`
	Lines           []models.CartLine     `json:"lines"`
	Totals          models.Totals         `json:"totals"`
	Processing      bool                  `json:"processing"`
}

// Status summarises where a checkout stands.
type Status struct {
	Stage            Stage `json:"stage"`
	AddressValidated bool  `json:"addressValidated"`
	OrderPending     bool  `json:"orderPending"`
	Processing       bool  `json:"processing"`
}

// CheckoutWorkflow drives one session through
// Cart, Address, Payment, Success.
type CheckoutWorkflow struct {
	deps   WorkflowDeps
	logger *zap.Logger

	mu               sync.Mutex
	stage            Stage
	generation       uint64
	form             AddressForm
	addressErrors    FieldErrors
	addressValidated bool
	payment          models.PaymentDetails
	paymentErrors    FieldErrors
	order            *models.Order

	pending inflight
}

func NewCheckoutWorkflow(deps WorkflowDeps) *CheckoutWorkflow {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.OrderNumber == nil {
		deps.OrderNumber = randomOrderNumber
	}
	if deps.Payments == nil {
		deps.Payments = NewPaymentProcessor(deps.Delays.Payment)
	}
	return &CheckoutWorkflow{
		deps:          deps,
		logger:        util.GetLogger(),
		stage:         StageCart,
		form:          NewAddressForm(),
		addressErrors: FieldErrors{},
		paymentErrors: FieldErrors{},
	}
}

func randomOrderNumber() string {
	return fmt.Sprintf("ORD-%04d", rand.Intn(10000))
}

// Status reports the current stage.
func (w *CheckoutWorkflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	return Status{
		Stage:            w.stage,
		AddressValidated: w.addressValidated,
		OrderPending:     w.order != nil,
		Processing:       w.pending.busy(string(w.stage)),
	}
}

// Begin leaves the cart for the address stage.
func (w *CheckoutWorkflow) Begin(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CheckoutWorkflow.Begin")
	defer span.End()

	if err := w.entryGuard(ctx); err != nil {
		return err
	}

	if !w.pending.begin(string(StageCart)) {
		util.SubmissionsRejectedTotal.WithLabelValues(string(StageCart)).Inc()
		return ErrSubmissionInProgress
	}
	defer w.pending.end(string(StageCart))

	gen := w.currentGeneration()
	if err := simulateLatency(ctx, w.deps.Delays.CheckoutStart); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		return ErrCheckoutReset
	}
	w.moveTo(StageAddress)
	return nil
}

// AddressView renders the address stage. An empty cart yields the guard
// view and touches nothing.
func (w *CheckoutWorkflow) AddressView(ctx context.Context) (*AddressView, error) {
	lines := w.deps.Cart.Lines()
	if len(lines) == 0 {
		return &AddressView{EmptyCart: true, Countries: models.Countries, Errors: FieldErrors{}}, nil
	}
	if w.deps.Users.CurrentUser(ctx) == nil {
		return nil, w.redirect(PathSignIn, "auth_required")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.enterAddressLocked()
	return &AddressView{
		Form:       w.form,
		Errors:     copyErrors(w.addressErrors),
		Countries:  models.Countries,
		Lines:      lines,
		Totals:     w.deps.Pricing.CheckoutTotals(lines),
		Processing: w.pending.busy(string(StageAddress)),
	}, nil
}

// EditShipping sets one shipping field and clears that field's error.
func (w *CheckoutWorkflow) EditShipping(field, value string) error {
	return w.editAddress(&w.form.Shipping, "", field, value)
}

// EditBilling sets one billing field and clears that field's error.
func (w *CheckoutWorkflow) EditBilling(field, value string) error {
	return w.editAddress(&w.form.Billing, BillingPrefix, field, value)
}

func (w *CheckoutWorkflow) editAddress(a *models.Address, prefix, field, value string) error {
	if field == FieldCountry && !contains(models.Countries, value) {
		return fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !setAddressField(a, field, value) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	delete(w.addressErrors, prefix+field)
	w.addressValidated = false
	return nil
}

// SetSameAsShipping toggles whether billing mirrors shipping.
func (w *CheckoutWorkflow) SetSameAsShipping(same bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.form.SameAsShipping = same
	w.addressValidated = false
}

// SubmitAddress validates the address form and, after the simulated
// delay, snapshots both addresses and advances to payment.
func (w *CheckoutWorkflow) SubmitAddress(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "CheckoutWorkflow.SubmitAddress")
	defer span.End()

	if err := w.entryGuard(ctx); err != nil {
		return err
	}

	if !w.pending.begin(string(StageAddress)) {
		util.SubmissionsRejectedTotal.WithLabelValues(string(StageAddress)).Inc()
		return ErrSubmissionInProgress
	}
	defer w.pending.end(string(StageAddress))

	w.mu.Lock()
	w.enterAddressLocked()
	errs := ValidateAddressForm(w.form)
	if len(errs) > 0 {
		w.addressErrors = errs
		w.mu.Unlock()
		util.ValidationFailuresTotal.WithLabelValues(string(StageAddress)).Inc()
		return &ValidationError{Stage: StageAddress, Fields: copyErrors(errs)}
	}
	w.addressErrors = FieldErrors{}
	form := w.form
	gen := w.generation
	w.mu.Unlock()

	if err := simulateLatency(ctx, w.deps.Delays.Address); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.generation {
		return ErrCheckoutReset
	}

	if err := w.writeSnapshot(ctx, ShippingAddressKey, form.Shipping); err != nil {
		return err
	}
	if err := w.writeSnapshot(ctx, BillingAddressKey, form.BillingAddress()); err != nil {
		return err
	}

	w.addressValidated = true
	w.moveTo(StagePayment)
	return nil
}

// PaymentView renders the payment stage.
func (w *CheckoutWorkflow) PaymentView(ctx context.Context) (*PaymentView, error) {
	lines := w.deps.Cart.Lines()
	if len(lines) == 0 {
		return nil, w.redirect(PathCart, "empty_cart")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.addressValidated {
		return nil, w.redirect(PathAddress, "address_required")
	}
	if w.stage != StagePayment {
		w.moveTo(StagePayment)
	}

	return &PaymentView{
		ShippingAddress: w.readSnapshot(ctx, ShippingAddressKey),
		Details:         w.payment,
		Errors:          copyErrors(w.paymentErrors),
		Months:          ExpiryMonths(),
		Years:           ExpiryYears(w.deps.Now()),
		Lines:           lines,
		Totals:          w.deps.Pricing.CheckoutTotals(lines),
		Processing:      w.pending.busy(string(StagePayment)),
	}, nil
}

// EditPayment sets one payment field and clears that field's error. The
// card number is reformatted on every edit.
func (w *CheckoutWorkflow) EditPayment(field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch field {
	case FieldCardNumber:
		w.payment.CardNumber = FormatCardNumber(value)
	case FieldCardName:
		w.payment.CardName = value
	case FieldExpiryMonth:
		if value != "" && !contains(ExpiryMonths(), value) {
			return fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
		}
		w.payment.ExpiryMonth = value
	case FieldExpiryYear:
		if value != "" && !contains(ExpiryYears(w.deps.Now()), value) {
			return fmt.Errorf("%w: %s %q", ErrUnknownOption, field, value)
		}
		w.payment.ExpiryYear = value
	case FieldCVV:
		w.payment.CVV = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	delete(w.paymentErrors, field)
	return nil
}

// SubmitPayment validates the payment form and, once the simulated charge
// completes, creates the order from the lines charged and takes exactly
// those lines out of the cart.
func (w *CheckoutWorkflow) SubmitPayment(ctx context.Context) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutWorkflow.SubmitPayment")
	defer span.End()

	lines := w.deps.Cart.Lines()
	if len(lines) == 0 {
		return nil, w.redirect(PathCart, "empty_cart")
	}

	if !w.pending.begin(string(StagePayment)) {
		util.SubmissionsRejectedTotal.WithLabelValues(string(StagePayment)).Inc()
		return nil, ErrSubmissionInProgress
	}
	defer w.pending.end(string(StagePayment))

	w.mu.Lock()
	if !w.addressValidated {
		w.mu.Unlock()
		return nil, w.redirect(PathAddress, "address_required")
	}
	w.stage = StagePayment
	errs := ValidatePayment(w.payment)
	if len(errs) > 0 {
		w.paymentErrors = errs
		w.mu.Unlock()
		util.ValidationFailuresTotal.WithLabelValues(string(StagePayment)).Inc()
		return nil, &ValidationError{Stage: StagePayment, Fields: copyErrors(errs)}
	}
	w.paymentErrors = FieldErrors{}
	gen := w.generation
	w.mu.Unlock()

	totals := w.deps.Pricing.CheckoutTotals(lines)
	txID, err := w.deps.Payments.Charge(ctx, totals.Total)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if gen != w.generation {
		w.mu.Unlock()
		return nil, ErrCheckoutReset
	}

	var userID string
	if u := w.deps.Users.CurrentUser(ctx); u != nil {
		userID = u.ID
	}

	w.deps.Cart.RemoveOrdered(lines)
	order := &models.Order{
		OrderNumber: w.deps.OrderNumber(),
		OrderDate:   w.deps.Now().Format(orderDateFmt),
		UserID:      userID,
		Lines:       lines,
		Totals:      totals,
	}
	w.order = order
	w.payment = models.PaymentDetails{}
	w.moveTo(StageSuccess)
	w.mu.Unlock()

	util.OrdersPlacedTotal.Inc()
	w.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.String("tx_id", txID),
		zap.String("total", totals.Total.StringFixed(2)))

	w.publish(ctx, order)

	out := *order
	return &out, nil
}

// Success returns the confirmation of the completed order once, with the
// shipping snapshot if one is readable, and erases both snapshots. The
// workflow then starts over at the cart.
func (w *CheckoutWorkflow) Success(ctx context.Context) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutWorkflow.Success")
	defer span.End()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.order == nil {
		return nil, ErrNoOrderToConfirm
	}

	confirmation := *w.order
	confirmation.ShippingAddress = w.readSnapshot(ctx, ShippingAddressKey)

	for _, key := range []string{ShippingAddressKey, BillingAddressKey} {
		if err := w.deps.Scope.Remove(ctx, key); err != nil {
			w.logger.Warn("Failed to erase checkout snapshot", zap.String("key", key), zap.Error(err))
		}
	}

	w.order = nil
	w.resetLocked()
	return &confirmation, nil
}

// Back steps one stage backwards without re-validating anything.
func (w *CheckoutWorkflow) Back() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.stage {
	case StagePayment:
		w.stage = StageAddress
	case StageAddress:
		w.stage = StageCart
	}
	return w.stage
}

// Abandon tears the checkout down. Pending submissions finish without
// applying their effects.
func (w *CheckoutWorkflow) Abandon() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.order = nil
	w.resetLocked()
}

func (w *CheckoutWorkflow) resetLocked() {
	w.generation++
	w.stage = StageCart
	w.form = NewAddressForm()
	w.addressErrors = FieldErrors{}
	w.addressValidated = false
	w.payment = models.PaymentDetails{}
	w.paymentErrors = FieldErrors{}
}

// entryGuard enforces a non-empty cart and a signed-in user.
func (w *CheckoutWorkflow) entryGuard(ctx context.Context) error {
	if w.deps.Cart.IsEmpty() {
		return w.redirect(PathCart, "empty_cart")
	}
	if w.deps.Users.CurrentUser(ctx) == nil {
		return w.redirect(PathSignIn, "auth_required")
	}
	return nil
}

func (w *CheckoutWorkflow) enterAddressLocked() {
	if w.stage != StageAddress {
		w.moveTo(StageAddress)
	}
}

func (w *CheckoutWorkflow) moveTo(stage Stage) {
	w.stage = stage
	util.CheckoutTransitionsTotal.WithLabelValues(string(stage)).Inc()
}

func (w *CheckoutWorkflow) currentGeneration() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.generation
}

func (w *CheckoutWorkflow) redirect(path, reason string) error {
	util.CheckoutRedirectsTotal.WithLabelValues(reason).Inc()
	return &RedirectError{Path: path, Reason: reason}
}

func (w *CheckoutWorkflow) writeSnapshot(ctx context.Context, key string, a models.Address) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := w.deps.Scope.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// readSnapshot degrades every failure to "no address".
func (w *CheckoutWorkflow) readSnapshot(ctx context.Context, key string) *models.Address {
	raw, ok, err := w.deps.Scope.Get(ctx, key)
	if err != nil {
		w.logger.Warn("Failed to read checkout snapshot", zap.String("key", key), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var a models.Address
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		w.logger.Warn("Failed to parse checkout snapshot", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &a
}

func (w *CheckoutWorkflow) publish(ctx context.Context, order *models.Order) {
	if w.deps.Publisher == nil {
		return
	}

	items := make([]models.OrderItemData, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, models.OrderItemData{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Product.Price,
		})
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: w.deps.Now(),
		},
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		OrderDate:   order.OrderDate,
		Total:       order.Totals.Total,
		Items:       items,
	}

	if err := w.deps.Publisher.PublishOrderPlaced(ctx, event); err != nil {
		util.EventsPublishFailedTotal.Inc()
		w.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func copyErrors(errs FieldErrors) FieldErrors {
	out := make(FieldErrors, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
