// Package checkout drives the linear Cart → Shipping → Payment →
// Confirmation flow. Each forward move is gated by a guard; backward moves
// never touch committed data.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/simulate"
	"github.com/safar/go-storefront/internal/validation"
)

type Step int

const (
	StepCart Step = iota + 1
	StepShipping
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrEmptyCart    = errors.New("cart is empty")
	ErrNoTransition = errors.New("no transition from current step")
	ErrSubmitting   = errors.New("order submission in progress")
	ErrCompleted    = errors.New("checkout already completed")
)

type transition struct {
	from, to Step
	guard    func(*Wizard) error
}

// forward is the whole state machine: one guarded edge per step.
var forward = []transition{
	{from: StepCart, to: StepShipping, guard: (*Wizard).requireItems},
	{from: StepShipping, to: StepPayment, guard: (*Wizard).validateShipping},
	{from: StepPayment, to: StepConfirmation, guard: (*Wizard).validatePayment},
}

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt events.OrderPlaced) error
}

type Wizard struct {
	mu sync.Mutex

	deviceID  string
	ledger    *cart.Ledger
	engine    *pricing.Engine
	latency   *simulate.Latency
	publisher OrderPublisher
	logger    *zap.Logger

	step       Step
	shipping   models.ShippingDetails
	payment    models.PaymentDetails
	promo      *pricing.Promo
	order      *models.Order
	submitting bool
}

func New(deviceID string, ledger *cart.Ledger, engine *pricing.Engine, latency *simulate.Latency, publisher OrderPublisher, logger *zap.Logger) *Wizard {
	return &Wizard{
		deviceID:  deviceID,
		ledger:    ledger,
		engine:    engine,
		latency:   latency,
		publisher: publisher,
		logger:    logger.Named("checkout").With(zap.String("device_id", deviceID)),
		step:      StepCart,
		payment:   models.PaymentDetails{Method: models.PaymentCard},
	}
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// CanAdvance reports whether the forward control should be enabled. Only
// the cart step can be disabled up front; later guards need the form data.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepCart:
		return w.ledger.Len() > 0
	case StepConfirmation:
		return false
	default:
		return !w.submitting
	}
}

// Advance moves one step forward if the current step's guard passes. Guard
// failures leave the step unchanged; shipping and payment failures come back
// as validation.FieldErrors.
func (w *Wizard) Advance(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutable(); err != nil {
		return err
	}

	t, ok := w.transitionFrom(w.step)
	if !ok {
		return ErrNoTransition
	}

	if err := t.guard(w); err != nil {
		return err
	}

	if t.to == StepConfirmation {
		return w.complete(ctx)
	}

	w.logger.Debug("checkout advanced", zap.Stringer("from", t.from), zap.Stringer("to", t.to))
	w.step = t.to
	return nil
}

// Back is always allowed from shipping and payment.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutable(); err != nil {
		return err
	}

	switch w.step {
	case StepShipping, StepPayment:
		w.step--
		return nil
	default:
		return ErrNoTransition
	}
}

// Submit is Advance from the payment step, returning the placed order.
func (w *Wizard) Submit(ctx context.Context) (models.Order, error) {
	if step := w.Step(); step != StepPayment {
		return models.Order{}, fmt.Errorf("%w: at %s", ErrNoTransition, step)
	}

	if err := w.Advance(ctx); err != nil {
		return models.Order{}, err
	}

	order, _ := w.Order()
	return order, nil
}

func (w *Wizard) SetShipping(details models.ShippingDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutable(); err != nil {
		return err
	}

	validation.TrimStrings(&details)
	if details.ShippingMethod == "" {
		details.ShippingMethod = models.ShippingStandard
	}
	w.shipping = details
	return nil
}

func (w *Wizard) SetPayment(details models.PaymentDetails) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutable(); err != nil {
		return err
	}

	validation.TrimStrings(&details)
	if details.Method == "" {
		details.Method = models.PaymentCard
	}
	w.payment = details
	return nil
}

func (w *Wizard) Shipping() models.ShippingDetails {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shipping
}

// ApplyPromo resolves code against the promo table. A failed attempt clears
// any previously applied promo.
func (w *Wizard) ApplyPromo(code string) (pricing.Promo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.mutable(); err != nil {
		return pricing.Promo{}, err
	}

	promo, err := w.engine.ResolvePromo(code)
	if err != nil {
		w.promo = nil
		return pricing.Promo{}, err
	}

	w.promo = &promo
	w.logger.Info("promo applied", zap.String("code", promo.Code))
	return promo, nil
}

func (w *Wizard) ClearPromo() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.promo = nil
}

func (w *Wizard) PromoCode() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.promo == nil {
		return ""
	}
	return w.promo.Code
}

// Quote prices the current ledger contents with the applied promo.
func (w *Wizard) Quote() models.Totals {
	w.mu.Lock()
	promo := w.promo
	w.mu.Unlock()

	return w.engine.Quote(w.ledger.Items(), promo)
}

func (w *Wizard) Order() (models.Order, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.order == nil {
		return models.Order{}, false
	}
	return copyOrder(*w.order), true
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Reset starts a fresh checkout, typically after confirmation.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitting
	}

	w.step = StepCart
	w.shipping = models.ShippingDetails{}
	w.payment = models.PaymentDetails{Method: models.PaymentCard}
	w.promo = nil
	w.order = nil
	return nil
}

func (w *Wizard) transitionFrom(step Step) (transition, bool) {
	for _, t := range forward {
		if t.from == step {
			return t, true
		}
	}
	return transition{}, false
}

func (w *Wizard) mutable() error {
	if w.submitting {
		return ErrSubmitting
	}
	if w.step == StepConfirmation {
		return ErrCompleted
	}
	return nil
}

func (w *Wizard) requireItems() error {
	if w.ledger.Len() == 0 {
		return ErrEmptyCart
	}
	return nil
}

// complete runs with w.mu held and releases it across the simulated network
// wait. The submission finishes even if ctx is cancelled meanwhile.
func (w *Wizard) complete(ctx context.Context) error {
	w.submitting = true
	w.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	_ = w.latency.Wait(ctx, simulate.OpOrder)

	w.mu.Lock()
	w.submitting = false

	items := w.ledger.Items()
	if len(items) == 0 {
		return ErrEmptyCart
	}
	totals := w.engine.Quote(items, w.promo)

	if err := w.ledger.Clear(ctx); err != nil {
		return fmt.Errorf("complete order: %w", err)
	}

	now := w.latency.Clock().Now()
	order := models.Order{
		ID:        uuid.NewString(),
		Status:    models.OrderStatusConfirmed,
		ShipTo:    w.shipping,
		Payment:   summarizePayment(w.payment),
		Items:     items,
		Totals:    totals,
		OrderDate: now,
	}
	order.OrderNumber = generateOrderNumber(now, order.ID)
	if w.promo != nil {
		order.PromoCode = w.promo.Code
	}

	w.order = &order
	w.step = StepConfirmation

	w.logger.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", order.ItemCount()),
		zap.String("total", order.Total.StringFixed(2)))

	if w.publisher != nil {
		evt := events.OrderPlaced{DeviceID: w.deviceID, Order: copyOrder(order)}
		if err := w.publisher.PublishOrderPlaced(ctx, evt); err != nil {
			w.logger.Error("publish order placed", zap.Error(err))
		}
	}

	return nil
}

func generateOrderNumber(at time.Time, id string) string {
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

func summarizePayment(p models.PaymentDetails) models.PaymentSummary {
	s := models.PaymentSummary{Method: p.Method, BillingSameAsShipping: p.BillingSameAsShipping}
	if p.Method != models.PaymentCard {
		return s
	}

	digits := make([]byte, 0, len(p.CardNumber))
	for i := 0; i < len(p.CardNumber); i++ {
		if c := p.CardNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) >= 4 {
		s.CardLast = string(digits[len(digits)-4:])
	}
	s.CardName = p.CardName
	return s
}

func copyOrder(o models.Order) models.Order {
	items := make([]models.CartLineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
