package resources

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/store"
)

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]*models.Order, error)
	CreateOrder(ctx context.Context, productID string, in models.OrderInput) (*models.Order, error)
}

type Orders struct {
	api    OrderAPI
	store  *store.Store[*models.Order]
	logger zerolog.Logger
}

func NewOrders(api OrderAPI, logger zerolog.Logger) *Orders {
	return &Orders{
		api:    api,
		store:  store.New[*models.Order](),
		logger: logger.With().Str("resource", "order").Logger(),
	}
}

func (o *Orders) Store() *store.Store[*models.Order] {
	return o.store
}

func (o *Orders) Load(ctx context.Context) ([]*models.Order, error) {
	items, err := o.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	o.store.Reset(items)
	o.logger.Debug().Int("count", len(items)).Msg("orders loaded")
	return o.store.Items(), nil
}

// Place creates an order for productID and appends the server's copy.
func (o *Orders) Place(ctx context.Context, productID string, in models.OrderInput) (*models.Order, error) {
	if productID == "" {
		return nil, errs.Validation("product id is required")
	}
	if err := o.store.Begin(); err != nil {
		return nil, err
	}
	defer o.store.End()

	order, err := o.api.CreateOrder(ctx, productID, in)
	if err != nil {
		return nil, err
	}
	o.store.Append(order)
	o.logger.Info().Str("id", order.ID).Str("product_id", productID).Int("quantity", in.Quantity).Msg("order placed")
	return order, nil
}

// CreateOrder lets Orders stand in for the raw API in the checkout flow.
func (o *Orders) CreateOrder(ctx context.Context, productID string, in models.OrderInput) (*models.Order, error) {
	return o.Place(ctx, productID, in)
}
