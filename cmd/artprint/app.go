package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/safar/artprint/internal/client"
	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/resources"
	"github.com/safar/artprint/internal/session"
	"github.com/safar/artprint/internal/transport"
	"github.com/safar/artprint/internal/view"
)

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	out      io.Writer
	session  *session.Session
	router   *view.Router
	products *resources.Products
	orders   *resources.Orders
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, out io.Writer) (*app, error) {
	storage, err := session.OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	sess := session.New(storage, logger)
	if err := sess.Init(ctx); err != nil {
		storage.Close()
		return nil, err
	}

	tr := transport.New(cfg.API, transport.WithLogger(logger))
	api := client.New(cfg.API.BaseURL, tr, sess)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		out:      out,
		session:  sess,
		router:   view.NewRouter("/"),
		products: resources.NewProducts(api, logger),
		orders:   resources.NewOrders(api, logger),
	}

	sess.OnSignOut(func() {
		a.products.Store().Reset(nil)
		a.orders.Store().Reset(nil)
	})
	a.router.OnNavigate(func(r view.Route) {
		a.logger.Debug().Str("path", r.Path).Str("screen", string(r.Screen)).Msg("navigate")
	})

	return a, nil
}

func (a *app) close() {
	if err := a.session.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close session storage")
	}
}

func (a *app) lookupProduct(id string) (*models.Product, bool) {
	p, err := a.products.Store().Find(id)
	return p, err == nil
}
