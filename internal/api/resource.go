package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resource is a CRUD collection endpoint such as /api/brand/
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path to the client
func NewResource[T any](c *Client, path string) *Resource[T] {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return &Resource[T]{client: c, path: path}
}

// Path returns the collection path
func (r *Resource[T]) Path() string {
	return r.path
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + url.PathEscape(id)
}

// List retrieves the whole collection. The envelope's data must be an array.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var raw json.RawMessage
	if err := r.client.call(ctx, http.MethodGet, r.path, nil, &raw, true); err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, &EnvelopeError{Method: http.MethodGet, Path: r.path, Reason: "data is not a list"}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &EnvelopeError{Method: http.MethodGet, Path: r.path, Reason: "malformed data", Err: err}
	}
	return items, nil
}

// Get retrieves one record by id
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.client.call(ctx, http.MethodGet, r.itemPath(id), nil, &item, true)
	return item, err
}

// Create posts a draft and returns the record the server stored
func (r *Resource[T]) Create(ctx context.Context, draft T) (T, error) {
	var created T
	if err := r.client.call(ctx, http.MethodPost, r.path, draft, &created, true); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update replaces the record with the given id. Some endpoints answer
// without a body; ok is false in that case and the caller decides what the
// stored record looks like.
func (r *Resource[T]) Update(ctx context.Context, id string, draft T) (updated T, ok bool, err error) {
	var raw json.RawMessage
	if err := r.client.call(ctx, http.MethodPut, r.itemPath(id), draft, &raw, false); err != nil {
		return updated, false, err
	}

	ok, err = decodeRecord(http.MethodPut, r.itemPath(id), raw, &updated)
	return updated, ok, err
}

// decodeRecord decodes raw into target when it is a JSON object. Only an
// object body describes a stored record; anything else is ignored.
func decodeRecord(method, path string, raw json.RawMessage, target interface{}) (bool, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, &EnvelopeError{Method: method, Path: path, Reason: "malformed data", Err: err}
	}
	return true, nil
}

// Delete removes the record with the given id
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.client.call(ctx, http.MethodDelete, r.itemPath(id), nil, nil, false)
}

// Amount returns the size of the collection
func (r *Resource[T]) Amount(ctx context.Context) (int, error) {
	return r.client.Amount(ctx, r.path)
}

// Amount returns the value of GET {collection}amount
func (c *Client) Amount(ctx context.Context, collection string) (int, error) {
	if !strings.HasSuffix(collection, "/") {
		collection += "/"
	}

	var n int
	if err := c.call(ctx, http.MethodGet, collection+"amount", nil, &n, true); err != nil {
		return 0, fmt.Errorf("failed to get amount: %w", err)
	}
	return n, nil
}
