package checkout

import (
	"context"

	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
)

type ProductFinder interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

// Open resolves productID and starts a flow for it. Without a product id the
// user is sent back to the product list.
func Open(ctx context.Context, products ProductFinder, productID string, orders OrderPlacer, nav Navigator, auth Auth, opts ...Option) (*Flow, error) {
	if productID == "" {
		nav.Navigate(ProductsPath)
		return nil, errs.Validation("product id is required")
	}

	product, err := products.Get(ctx, productID)
	if err != nil {
		if errs.Is(err, errs.KindNotFound) {
			return nil, errs.NotFound(MsgProductNotFound)
		}
		return nil, &errs.Error{Kind: errs.KindOf(err), Message: MsgLoadFailed, Err: err}
	}
	return New(product, orders, nav, auth, opts...), nil
}
