package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/models"
	"github.com/safar/artprint/internal/transport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recordedRequest struct {
	Method      string
	Path        string
	Auth        string
	Accept      string
	ContentType string
	Body        []byte
}

type recorder struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorder) all() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedRequest(nil), r.reqs...)
}

// newTestClient serves every request with handler and records what it saw.
func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *recorder) {
	t.Helper()
	seen := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen.mu.Lock()
		seen.reqs = append(seen.reqs, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			Auth:        r.Header.Get("Authorization"),
			Accept:      r.Header.Get("Accept"),
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		})
		seen.mu.Unlock()
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	tr := transport.New(config.APIConfig{BreakerMinRequests: 100, BreakerFailureRatio: 1, BreakerOpenTimeout: time.Minute})
	return New(srv.URL+"/", tr, staticToken(token)), seen
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListProductsAttachesHeaders(t *testing.T) {
	c, seen := newTestClient(t, "s3cret", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"_id": "a", "ProductName": "Sunset", "Price": 10, "Quantity": 2},
			{"_id": "b", "ProductName": "Harbor", "Price": "7.50", "Quantity": 0},
		})
	})

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("7.5")))

	require.Len(t, seen.all(), 1)
	req := seen.all()[0]
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/product", req.Path)
	assert.Equal(t, "Bearer s3cret", req.Auth)
	assert.Equal(t, "application/json", req.Accept)
}

func TestListTwiceIsStable(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"_id": "1"}, {"_id": "2"}, {"_id": "3"}})
	})

	first, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	second, err := c.ListProducts(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestListEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	orders, err := c.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestNoTokenOmitsAuthorization(t *testing.T) {
	c, seen := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No token provided"})
	})

	_, err := c.ListOrders(context.Background())
	require.Error(t, err)
	assert.Empty(t, seen.all()[0].Auth)
	assert.Equal(t, "No token provided", errs.Message(err, ""))
	assert.True(t, errs.Is(err, errs.KindServer))
}

func TestErrorDecoding(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		contentType string
		body        string
		expectedMsg string
		expectedKnd errs.Kind
	}{
		{
			name:        "json error field",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":"Price is required"}`,
			expectedMsg: "Price is required",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "json message field",
			status:      http.StatusConflict,
			contentType: "application/json",
			body:        `{"message":"Duplicate product"}`,
			expectedMsg: "Duplicate product",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "json without message",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"ok":false}`,
			expectedMsg: "400 Bad Request",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "html error page",
			status:      http.StatusInternalServerError,
			contentType: "text/html",
			body:        `<html><body><h1>Internal Server Error</h1></body></html>`,
			expectedMsg: "500 Internal Server Error",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "plain text",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "upstream timed out",
			expectedMsg: "502 Bad Gateway",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "empty body",
			status:      http.StatusForbidden,
			expectedMsg: "403 Forbidden",
			expectedKnd: errs.KindServer,
		},
		{
			name:        "not found",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{"error":"Product not found"}`,
			expectedMsg: "Product not found",
			expectedKnd: errs.KindNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.CreateProduct(context.Background(), models.ProductInput{Name: "x", Size: 1})
			require.Error(t, err)

			assert.Equal(t, tc.expectedMsg, errs.Message(err, ""))
			assert.Equal(t, tc.expectedKnd, errs.KindOf(err))
		})
	}
}

func TestOpaqueBodyIsKept(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("stack trace here"))
	})

	_, err := c.ListProducts(context.Background())

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "stack trace here", string(e.Body))
	assert.Equal(t, http.StatusInternalServerError, e.Status)
}

func TestGetProductNonSuccessIsNotFound(t *testing.T) {
	c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Cast to ObjectId failed"})
	})

	_, err := c.GetProduct(context.Background(), "not an id")
	require.Error(t, err)

	assert.True(t, errs.Is(err, errs.KindNotFound))
	assert.Equal(t, "Cast to ObjectId failed", errs.Message(err, ""))
	assert.Equal(t, "/product/not an id", seen.all()[0].Path)
}

func TestGetProduct(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"_id": "abc", "ProductName": "Sunset"})
	})

	p, err := c.GetProduct(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Sunset", p.Name)
}

func TestCreateProductJSON(t *testing.T) {
	c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"_id": "srv-1", "ProductName": "Sunset", "Price": 10, "Quantity": 2})
	})

	created, err := c.CreateProduct(context.Background(), models.ProductInput{
		Name:     "Sunset",
		Category: "Art",
		Price:    decimal.NewFromInt(10),
		Size:     1,
		Quantity: 2,
		Image:    &models.Image{URL: "https://cdn/sunset.jpg", CloudinaryID: "listings/sunset"},
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", created.ID)

	req := seen.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/product", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"ProductName":"Sunset","Category":"Art","Price":10,"Size":1,"Quantity":2,
		"imageUrl":"https://cdn/sunset.jpg","cloudinary_id":"listings/sunset"}`, string(req.Body))
}

func TestUpdateProductMultipart(t *testing.T) {
	var fields map[string]string
	var fileName, fileContent string
	c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		fileName, fileContent = hdr.Filename, string(b)

		writeJSON(w, http.StatusOK, map[string]any{"_id": "abc", "ProductName": "Sunset II"})
	})

	updated, err := c.UpdateProduct(context.Background(), "abc", models.ProductInput{
		Name:     "Sunset II",
		Category: "Art",
		Price:    decimal.RequireFromString("12.50"),
		Size:     2,
		Quantity: 4,
		File:     &models.ImageFile{Name: "/tmp/sunset.png", Content: strings.NewReader("PNGDATA")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sunset II", updated.Name)

	req := seen.all()[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/product/abc", req.Path)
	assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data"))
	assert.Equal(t, map[string]string{
		"ProductName": "Sunset II",
		"Category":    "Art",
		"Price":       "12.5",
		"Size":        "2",
		"Quantity":    "4",
	}, fields)
	assert.Equal(t, "sunset.png", fileName)
	assert.Equal(t, "PNGDATA", fileContent)
}

func TestDeleteToleratesEmptyBody(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "204 no content", status: http.StatusNoContent},
		{name: "200 empty", status: http.StatusOK},
		{name: "200 with message", status: http.StatusOK, body: `{"message":"deleted"}`},
		{name: "200 plain text", status: http.StatusOK, body: "OK"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			require.NoError(t, c.DeleteProduct(context.Background(), "abc"))
			assert.Equal(t, http.MethodDelete, seen.all()[0].Method)
			assert.Equal(t, "/product/abc", seen.all()[0].Path)
		})
	}
}

func TestCreateOrder(t *testing.T) {
	c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"_id": "o-1", "product": "p-9", "Quantity": 2, "Status": 0, "TotalAmount": 20})
	})

	order, err := c.CreateOrder(context.Background(), "p-9", models.OrderInput{Quantity: 2, Status: models.StatusPending})
	require.NoError(t, err)

	assert.Equal(t, "o-1", order.ID)
	assert.Equal(t, "p-9", order.Product.ID)
	total, authoritative := order.Total()
	assert.True(t, authoritative)
	assert.True(t, total.Equal(decimal.NewFromInt(20)))

	req := seen.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/Order/p-9", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"Quantity":2,"Status":0}`, string(req.Body))
}

func TestCreateWithEmptySuccessBodyIsTransportError(t *testing.T) {
	c, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	_, err := c.CreateOrder(context.Background(), "p", models.OrderInput{Quantity: 1})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindTransport))
}

func TestOrderGenericOperations(t *testing.T) {
	c, seen := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"_id": "o-1", "Status": "processing"})
		case http.MethodPut:
			writeJSON(w, http.StatusOK, map[string]any{"_id": "o-1", "Status": 2})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	got, err := c.GetOrder(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)

	updated, err := c.UpdateOrder(context.Background(), "o-1", models.OrderInput{Quantity: 1, Status: models.StatusShipped})
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)

	require.NoError(t, c.DeleteOrder(context.Background(), "o-1"))

	paths := []string{}
	for _, r := range seen.all() {
		paths = append(paths, r.Method+" "+r.Path)
	}
	assert.Equal(t, []string{"GET /Order/o-1", "PUT /Order/o-1", "DELETE /Order/o-1"}, paths)
}

func TestTransportFailureIsNormalized(t *testing.T) {
	tr := transport.New(config.APIConfig{BreakerMinRequests: 100, BreakerFailureRatio: 1, BreakerOpenTimeout: time.Minute})
	c := New("http://127.0.0.1:1", tr, staticToken("tok"))

	_, err := c.ListProducts(context.Background())
	require.Error(t, err)

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.KindTransport, e.Kind)
}
