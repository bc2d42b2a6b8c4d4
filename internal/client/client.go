package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/transport"
)

const (
	ProductsPath = "/product"
	OrdersPath   = "/Order"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

type Sender interface {
	Send(ctx context.Context, req transport.Request) (*transport.Response, error)
}

// Client is the typed API client for the marketplace backend.
type Client struct {
	baseURL string
	sender  Sender
	tokens  TokenSource

	products *Resource[models.Product]
	orders   *Resource[models.Order]
}

func New(baseURL string, sender Sender, tokens TokenSource) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sender:  sender,
		tokens:  tokens,
	}
	c.products = NewResource[models.Product](c, ProductsPath, "product")
	c.orders = NewResource[models.Order](c, OrdersPath, "order")
	return c
}

func (c *Client) headers(contentType string) map[string]string {
	h := map[string]string{"Accept": "application/json"}
	if token := c.tokens.Token(); token != "" {
		h["Authorization"] = "Bearer " + token
	}
	if contentType != "" {
		h["Content-Type"] = contentType
	}
	return h
}

// do sends one request and turns any non-2xx response into an *errs.Error.
func (c *Client) do(ctx context.Context, method, path string, payload Payload) (*transport.Response, error) {
	req := transport.Request{Method: method, URL: c.baseURL + path}

	contentType := ""
	if payload != nil {
		body, ct, err := payload.encode()
		if err != nil {
			return nil, errs.Transport(err)
		}
		req.Body = body
		contentType = ct
	}
	req.Headers = c.headers(contentType)

	resp, err := c.sender.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, decodeError(resp)
	}
	return resp, nil
}

// decodeError extracts {error|message} from a failed response, falling back to
// "<status> <status text>" for HTML pages, plain text and empty bodies.
func decodeError(resp *transport.Response) *errs.Error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}

	message := ""
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		message = body.Error
		if message == "" {
			message = body.Message
		}
	}
	if message == "" {
		message = errs.StatusMessage(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		e := errs.NotFound(message)
		e.Body = resp.Body
		return e
	}
	return errs.Server(resp.StatusCode, message, resp.Body)
}

func (c *Client) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return c.products.List(ctx)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return c.products.Get(ctx, id)
}

func (c *Client) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	return c.products.Create(ctx, productPayload(in))
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	return c.products.Update(ctx, id, productPayload(in))
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.products.Delete(ctx, id)
}

func (c *Client) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return c.orders.List(ctx)
}

func (c *Client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return c.orders.Get(ctx, id)
}

// CreateOrder places an order for productID. The order collection is addressed by product.
func (c *Client) CreateOrder(ctx context.Context, productID string, in models.OrderInput) (*models.Order, error) {
	return c.orders.CreateUnder(ctx, productID, JSON(in))
}

func (c *Client) UpdateOrder(ctx context.Context, id string, in models.OrderInput) (*models.Order, error) {
	return c.orders.Update(ctx, id, JSON(in))
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.orders.Delete(ctx, id)
}
