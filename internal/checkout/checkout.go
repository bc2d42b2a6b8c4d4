package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/shopspring/decimal"
)

const (
	DashboardPath = "/Dashboard"
	SignInPath    = "/sign-in"
	ProductsPath  = "/products"

	DefaultRedirectDelay = 1500 * time.Millisecond

	MsgSuccess         = "Order placed successfully!"
	MsgFailed          = "Failed to create order"
	MsgQuantityTooLow  = "Quantity must be at least 1"
	MsgProductNotFound = "Product not found"
	MsgLoadFailed      = "Failed to load product"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type OrderPlacer interface {
	CreateOrder(ctx context.Context, productID string, in models.OrderInput) (*models.Order, error)
}

type Navigator interface {
	Navigate(path string)
}

type Auth interface {
	SignedIn() bool
}

// Flow is one checkout screen for a single product.
type Flow struct {
	mu sync.Mutex

	product *models.Product
	orders  OrderPlacer
	nav     Navigator
	auth    Auth
	clock   clockwork.Clock
	delay   time.Duration
	logger  zerolog.Logger

	state     State
	message   string
	order     *models.Order
	timer     clockwork.Timer
	navigated bool
	closed    bool
}

type Option func(*Flow)

func WithClock(clock clockwork.Clock) Option {
	return func(f *Flow) {
		f.clock = clock
	}
}

func WithRedirectDelay(d time.Duration) Option {
	return func(f *Flow) {
		if d >= 0 {
			f.delay = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

func New(product *models.Product, orders OrderPlacer, nav Navigator, auth Auth, opts ...Option) *Flow {
	f := &Flow{
		product: product,
		orders:  orders,
		nav:     nav,
		auth:    auth,
		clock:   clockwork.NewRealClock(),
		delay:   DefaultRedirectDelay,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit validates quantity and places the order. On success the flow
// navigates to the dashboard once the redirect delay has passed.
func (f *Flow) Submit(ctx context.Context, quantity int) (*models.Order, error) {
	f.mu.Lock()

	switch f.state {
	case StateSubmitting, StateSucceeded:
		f.mu.Unlock()
		return nil, errs.ErrBusy
	case StateFailed:
		f.state = StateIdle
		f.message = ""
	}

	if !f.auth.SignedIn() {
		f.fail(errs.ErrNotSignedIn.Message)
		f.mu.Unlock()
		f.nav.Navigate(SignInPath)
		return nil, errs.ErrNotSignedIn
	}

	f.state = StateValidating
	if err := f.validate(quantity); err != nil {
		f.fail(err.Message)
		f.mu.Unlock()
		return nil, err
	}

	f.state = StateSubmitting
	productID := f.product.ID
	f.mu.Unlock()

	order, err := f.orders.CreateOrder(ctx, productID, models.OrderInput{Quantity: quantity, Status: models.StatusPending})

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.fail(errs.Message(err, MsgFailed))
		f.logger.Warn().Err(err).Str("product_id", productID).Int("quantity", quantity).Msg("order failed")
		return nil, err
	}

	f.state = StateSucceeded
	f.message = MsgSuccess
	f.order = order
	f.logger.Info().Str("order_id", order.ID).Str("product_id", productID).Int("quantity", quantity).Msg("order placed")

	if !f.closed {
		f.timer = f.clock.AfterFunc(f.delay, f.redirect)
	}
	return order, nil
}

func (f *Flow) validate(quantity int) *errs.Error {
	if f.product == nil {
		return errs.NotFound(MsgProductNotFound)
	}
	if quantity < 1 {
		return errs.Validation(MsgQuantityTooLow)
	}
	if stock := f.product.Quantity; stock > 0 && quantity > stock {
		return errs.Validation(fmt.Sprintf("Not enough stock. Available: %d", stock))
	}
	return nil
}

func (f *Flow) fail(message string) {
	f.state = StateFailed
	f.message = message
}

func (f *Flow) redirect() {
	f.mu.Lock()
	if f.navigated || f.closed {
		f.mu.Unlock()
		return
	}
	f.navigated = true
	f.mu.Unlock()

	f.logger.Debug().Str("path", DashboardPath).Msg("redirecting after checkout")
	f.nav.Navigate(DashboardPath)
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the one line shown under the checkout form, empty when idle.
func (f *Flow) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

func (f *Flow) Order() *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

func (f *Flow) Product() *models.Product {
	return f.product
}

// Total is the advisory price shown before the order is placed.
func (f *Flow) Total(quantity int) decimal.Decimal {
	if f.product == nil || quantity < 1 {
		return decimal.Zero
	}
	return f.product.EstimateTotal(quantity)
}

// Reset returns a finished flow to idle. A submission in flight is left alone.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return
	}
	f.stopTimer()
	f.state = StateIdle
	f.message = ""
	f.order = nil
	f.navigated = false
}

// Close cancels any pending redirect. The flow must not be used afterwards.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.stopTimer()
}

func (f *Flow) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
