package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/safar/artprint/internal/checkout"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/forms"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/store"
	"github.com/safar/artprint/internal/view"
)

func (a *app) dispatch(ctx context.Context, args []string) error {
	switch args[0] {
	case "signin":
		return a.signIn(ctx, args[1:])
	case "signout":
		return a.signOut(ctx)
	case "nav":
		return a.nav(args[1:])
	case "products":
		return a.productsCmd(ctx, args[1:])
	case "orders":
		return a.dashboard(ctx)
	case "buy":
		return a.buy(ctx, args[1:])
	default:
		return errs.Validation(fmt.Sprintf("unknown command %q", args[0]))
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errs.Validation(fmt.Sprintf("%s: %v", fs.Name(), err))
	}
	return nil
}

func (a *app) signIn(ctx context.Context, args []string) error {
	fs := newFlagSet("signin")
	token := fs.String("token", "", "bearer token issued by the server")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.session.SignIn(ctx, *token); err != nil {
		return err
	}
	a.router.Navigate("/products")
	fmt.Fprintln(a.out, "Signed in")
	return nil
}

func (a *app) signOut(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		return err
	}
	a.router.Navigate("/")
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *app) nav(args []string) error {
	fs := newFlagSet("nav")
	path := fs.String("path", "/", "location to resolve")
	if err := parse(fs, args); err != nil {
		return err
	}

	route := view.Resolve(*path)
	fmt.Fprintf(a.out, "%s (%s)\n", route.Path, route.Screen)
	for _, opt := range view.NavOptions(a.session.SignedIn()) {
		target := opt.Path
		if opt.SignOut {
			target = "artprint signout"
		}
		fmt.Fprintf(a.out, "  %-12s %s\n", opt.Label, target)
	}
	return nil
}

func (a *app) productsCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errs.Validation("expected one of: list, show, create, update, delete, form")
	}

	switch args[0] {
	case "list":
		return a.listProducts(ctx, args[1:])
	case "show":
		return a.showProduct(ctx, args[1:])
	case "create":
		return a.saveProduct(ctx, args[1:], false)
	case "update":
		return a.saveProduct(ctx, args[1:], true)
	case "delete":
		return a.deleteProduct(ctx, args[1:])
	case "form":
		return a.productForm(ctx, args[1:])
	default:
		return errs.Validation(fmt.Sprintf("unknown products command %q", args[0]))
	}
}

func (a *app) listProducts(ctx context.Context, args []string) error {
	fs := newFlagSet("products list")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", store.DefaultPageSize, "products per page")
	if err := parse(fs, args); err != nil {
		return err
	}

	items, err := a.products.Load(ctx)
	if err != nil {
		a.logger.Error().Err(err).Msg("list products")
		return &errs.Error{Kind: errs.KindOf(err), Message: view.MsgProductsFailed, Err: err}
	}
	return view.RenderProducts(a.out, store.Paginate(items, *page, *size), a.products.Store().SelectedID())
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	fs := newFlagSet("products show")
	id := fs.String("id", "", "product id")
	if err := parse(fs, args); err != nil {
		return err
	}

	p, err := a.products.Get(ctx, *id)
	if err != nil {
		return err
	}
	return view.RenderProduct(a.out, p)
}

func (a *app) saveProduct(ctx context.Context, args []string, editing bool) error {
	name := "products create"
	if editing {
		name = "products update"
	}
	fs := newFlagSet(name)
	id := fs.String("id", "", "product id (update only)")
	image := fs.String("image", "", "image file to upload")
	sets := setFlags{}
	fs.Var(sets, "set", "field=value, repeatable")
	if err := parse(fs, args); err != nil {
		return err
	}

	if editing && *id == "" {
		return errs.Validation("product id is required")
	}

	base := forms.ProductSchema.Defaults()
	if editing {
		existing, err := a.products.Get(ctx, *id)
		if err != nil {
			return err
		}
		base = forms.ProductValues(existing)
	}
	values, err := forms.ProductSchema.Merge(base, forms.Values(sets))
	if err != nil {
		return err
	}

	var file *models.ImageFile
	if *image != "" {
		f, err := os.Open(*image)
		if err != nil {
			return errs.Validation(fmt.Sprintf("open image: %v", err))
		}
		defer f.Close()
		file = &models.ImageFile{Name: f.Name(), Content: f}
	}

	in, err := forms.ProductInputFrom(values, editing, file)
	if err != nil {
		return err
	}

	var saved *models.Product
	if editing {
		saved, err = a.products.Update(ctx, *id, in)
	} else {
		saved, err = a.products.Create(ctx, in)
	}
	if err != nil {
		return &errs.Error{Kind: errs.KindOf(err), Message: errs.Message(err, view.MsgSaveFailed), Err: err}
	}
	return view.RenderProduct(a.out, saved)
}

func (a *app) deleteProduct(ctx context.Context, args []string) error {
	fs := newFlagSet("products delete")
	id := fs.String("id", "", "product id")
	if err := parse(fs, args); err != nil {
		return err
	}

	if err := a.products.Delete(ctx, *id); err != nil {
		if errs.Is(err, errs.KindValidation) {
			return err
		}
		a.logger.Error().Err(err).Str("id", *id).Msg("delete product")
		return &errs.Error{Kind: errs.KindOf(err), Message: view.MsgDeleteFailed, Err: err}
	}
	fmt.Fprintf(a.out, "Deleted %s\n", *id)
	return nil
}

func (a *app) productForm(ctx context.Context, args []string) error {
	fs := newFlagSet("products form")
	id := fs.String("id", "", "prefill from this product")
	if err := parse(fs, args); err != nil {
		return err
	}

	values := forms.ProductSchema.Defaults()
	if *id != "" {
		p, err := a.products.Get(ctx, *id)
		if err != nil {
			return err
		}
		values = forms.ProductValues(p)
	}
	return forms.ProductSchema.Render(a.out, values)
}

func (a *app) dashboard(ctx context.Context) error {
	orders, err := a.orders.Load(ctx)
	if err != nil {
		return err
	}
	if _, err := a.products.Load(ctx); err != nil {
		a.logger.Debug().Err(err).Msg("products unavailable for order estimates")
	}
	return view.RenderDashboard(a.out, orders, a.lookupProduct)
}

func (a *app) buy(ctx context.Context, args []string) error {
	fs := newFlagSet("buy")
	productID := fs.String("product", "", "product id")
	qty := fs.String("qty", forms.OrderSchema.Defaults().Get(forms.FieldQuantity), "quantity")
	if err := parse(fs, args); err != nil {
		return err
	}

	quantity, err := forms.OrderQuantity(forms.Values{forms.FieldQuantity: *qty})
	if err != nil {
		return err
	}

	arrived := make(chan struct{})
	var once sync.Once
	a.router.OnNavigate(func(r view.Route) {
		if r.Screen == view.ScreenDashboard {
			once.Do(func() { close(arrived) })
		}
	})

	flow, err := checkout.Open(ctx, a.products, *productID, a.orders, a.router, a.session,
		checkout.WithRedirectDelay(a.cfg.Checkout.RedirectDelay),
		checkout.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	defer flow.Close()

	_, submitErr := flow.Submit(ctx, quantity)
	if err := view.RenderCheckout(a.out, view.NewCheckoutSummary(flow, quantity)); err != nil {
		return err
	}
	if submitErr != nil {
		return &errs.Error{Kind: errs.KindOf(submitErr), Message: flow.Message(), Err: submitErr}
	}

	select {
	case <-arrived:
	case <-ctx.Done():
		return ctx.Err()
	}
	fmt.Fprintln(a.out)
	return a.dashboard(ctx)
}
