package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/safar/artprint/internal/errs"
)

// Resource implements the five collection operations for one resource kind.
type Resource[T any] struct {
	c    *Client
	path string
	name string
}

func NewResource[T any](c *Client, path, name string) *Resource[T] {
	return &Resource[T]{c: c, path: path, name: name}
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) List(ctx context.Context) ([]*T, error) {
	resp, err := r.c.do(ctx, http.MethodGet, r.path, nil)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.name, err)
	}

	items := []*T{}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.name, errs.Transport(fmt.Errorf("decode response: %w", err)))
	}
	return items, nil
}

// Get fetches one resource. Any non-success status is reported as not found.
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	resp, err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil)
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) && e.Kind == errs.KindServer {
			nf := errs.NotFound(e.Message)
			nf.Status = e.Status
			nf.Body = e.Body
			err = nf
		}
		return nil, fmt.Errorf("get %s %s: %w", r.name, id, err)
	}
	return r.decodeOne(resp.Body, "get")
}

func (r *Resource[T]) Create(ctx context.Context, payload Payload) (*T, error) {
	resp, err := r.c.do(ctx, http.MethodPost, r.path, payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.name, err)
	}
	return r.decodeOne(resp.Body, "create")
}

// CreateUnder posts to a sub-path of the collection, e.g. /Order/:productId.
func (r *Resource[T]) CreateUnder(ctx context.Context, parentID string, payload Payload) (*T, error) {
	resp, err := r.c.do(ctx, http.MethodPost, r.itemPath(parentID), payload)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.name, err)
	}
	return r.decodeOne(resp.Body, "create")
}

func (r *Resource[T]) Update(ctx context.Context, id string, payload Payload) (*T, error) {
	resp, err := r.c.do(ctx, http.MethodPut, r.itemPath(id), payload)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", r.name, id, err)
	}
	return r.decodeOne(resp.Body, "update")
}

// Delete removes one resource. A 204 or any other empty success body is fine.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if _, err := r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil); err != nil {
		return fmt.Errorf("delete %s %s: %w", r.name, id, err)
	}
	return nil
}

func (r *Resource[T]) decodeOne(body []byte, op string) (*T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s %s: %w", op, r.name, errs.Transport(fmt.Errorf("empty response body")))
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, r.name, errs.Transport(fmt.Errorf("decode response: %w", err)))
	}
	return &item, nil
}
