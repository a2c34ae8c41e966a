package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Products is the product endpoint. Unlike the other collections it has no
// list or delete verb: products are reached by id, at random or by search.
type Products struct {
	client *Client
}

// NewProducts binds the product endpoint to the client
func NewProducts(c *Client) *Products {
	return &Products{client: c}
}

// Get retrieves a product by uuid
func (p *Products) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := p.client.call(ctx, http.MethodGet, ProductPath+url.PathEscape(id), nil, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}

// Random retrieves a random selection of products for the home screen
func (p *Products) Random(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := p.client.call(ctx, http.MethodGet, ProductPath+"random", nil, &products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// Search runs the server-side product search
func (p *Products) Search(ctx context.Context, query string) ([]Product, error) {
	path := ProductPath + "search?q=" + url.QueryEscape(query)

	var products []Product
	if err := p.client.call(ctx, http.MethodGet, path, nil, &products, false); err != nil {
		return nil, err
	}
	return products, nil
}

// Create registers a new product
func (p *Products) Create(ctx context.Context, draft *ProductDraft) (*Product, error) {
	var raw json.RawMessage
	if err := p.client.call(ctx, http.MethodPost, ProductPath, draft, &raw, false); err != nil {
		return nil, err
	}

	var created Product
	if _, err := decodeRecord(http.MethodPost, ProductPath, raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the product with the given uuid
func (p *Products) Update(ctx context.Context, id string, draft *ProductDraft) (*Product, error) {
	path := ProductPath + url.PathEscape(id)

	var raw json.RawMessage
	if err := p.client.call(ctx, http.MethodPut, path, draft, &raw, false); err != nil {
		return nil, err
	}

	var updated Product
	if _, err := decodeRecord(http.MethodPut, path, raw, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return &updated, nil
}

// Amount returns the number of products
func (p *Products) Amount(ctx context.Context) (int, error) {
	return p.client.Amount(ctx, ProductPath)
}
