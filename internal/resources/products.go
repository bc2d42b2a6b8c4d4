package resources

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/store"
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Products keeps the product list in step with the server.
type Products struct {
	api    ProductAPI
	store  *store.Store[*models.Product]
	logger zerolog.Logger
}

func NewProducts(api ProductAPI, logger zerolog.Logger) *Products {
	return &Products{
		api:    api,
		store:  store.New[*models.Product](),
		logger: logger.With().Str("resource", "product").Logger(),
	}
}

func (p *Products) Store() *store.Store[*models.Product] {
	return p.store
}

func (p *Products) Load(ctx context.Context) ([]*models.Product, error) {
	items, err := p.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	p.store.Reset(items)
	p.logger.Debug().Int("count", len(items)).Msg("products loaded")
	return p.store.Items(), nil
}

// Get returns the local copy, reloading the list once when id is not in it.
// A product absent from a fresh list is not found. GetProduct is only asked
// when the list itself cannot be fetched.
func (p *Products) Get(ctx context.Context, id string) (*models.Product, error) {
	if item, err := p.store.Find(id); err == nil {
		return item, nil
	}

	if _, loadErr := p.Load(ctx); loadErr != nil {
		item, err := p.api.GetProduct(ctx, id)
		if err != nil {
			p.logger.Debug().Err(err).Str("id", id).Msg("product lookup fallback failed")
			return nil, loadErr
		}
		return item, nil
	}

	if item, err := p.store.Find(id); err == nil {
		return item, nil
	}
	return nil, errs.NotFound(fmt.Sprintf("product %s not found", id))
}

func (p *Products) Create(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err.Error())
	}
	if err := p.store.Begin(); err != nil {
		return nil, err
	}
	defer p.store.End()

	created, err := p.api.CreateProduct(ctx, in)
	if err != nil {
		return nil, err
	}
	p.store.Append(created)
	p.store.Select(created.ID)
	p.logger.Info().Str("id", created.ID).Msg("product created")
	return created, nil
}

func (p *Products) Update(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	if id == "" {
		return nil, errs.Validation("product id is required")
	}
	if err := in.Validate(); err != nil {
		return nil, errs.Validation(err.Error())
	}
	if err := p.store.Begin(); err != nil {
		return nil, err
	}
	defer p.store.End()

	updated, err := p.api.UpdateProduct(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if !p.store.Replace(updated) {
		p.logger.Debug().Str("id", updated.ID).Msg("updated product not in local list")
	}
	p.store.Select(updated.ID)
	p.logger.Info().Str("id", updated.ID).Msg("product updated")
	return updated, nil
}

func (p *Products) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errs.Validation("product id is required")
	}
	if err := p.store.Begin(); err != nil {
		return err
	}
	defer p.store.End()

	if err := p.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	p.store.Remove(id)
	p.logger.Info().Str("id", id).Msg("product deleted")
	return nil
}
