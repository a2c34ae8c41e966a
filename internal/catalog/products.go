package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
)

// productSearch adapts the product endpoint to listmgr.Store. Listing runs
// the current server-side query, or the random selection when it is empty.
// Writes go through Products, which sends drafts and then patches the
// results with Put.
type productSearch struct {
	api *api.Products

	mu    sync.Mutex
	query string
}

func (s *productSearch) setQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

func (s *productSearch) currentQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *productSearch) List(ctx context.Context) ([]api.Product, error) {
	if q := s.currentQuery(); q != "" {
		return s.api.Search(ctx, q)
	}
	return s.api.Random(ctx)
}

func (s *productSearch) Create(ctx context.Context, p api.Product) (api.Product, error) {
	return api.Product{}, fmt.Errorf("create product from a record: %w", api.ErrUnsupported)
}

func (s *productSearch) Update(ctx context.Context, id string, p api.Product) (api.Product, bool, error) {
	return api.Product{}, false, fmt.Errorf("update product %s from a record: %w", id, api.ErrUnsupported)
}

func (s *productSearch) Delete(ctx context.Context, id string) error {
	return fmt.Errorf("delete product %s: %w", id, api.ErrUnsupported)
}

// Products is the product service: lookup by id, random selection,
// server-side search and create/update from drafts. Search results are
// cached in a list manager so they page like the other collections.
type Products struct {
	api      *api.Products
	search   *productSearch
	Results  *listmgr.Manager[api.Product]
	notifier *notify.Notifier
	log      *logger.Logger
}

func newProducts(p *api.Products, notifier *notify.Notifier, log *logger.Logger) *Products {
	search := &productSearch{api: p}
	return &Products{
		api:    p,
		search: search,
		Results: listmgr.New[api.Product](search, listmgr.Options[api.Product]{
			Name:     ProductEntity.Name,
			PageSize: ProductEntity.PageSize,
			ID:       productID,
			WithID:   productWithID,
			Match:    MatchProduct,
			Notifier: notifier,
			Logger:   log,
		}),
		notifier: notifier,
		log:      log,
	}
}

// Query returns the last server-side search query
func (p *Products) Query() string {
	return p.search.currentQuery()
}

// Search runs a server-side search and caches the results on page 1
func (p *Products) Search(ctx context.Context, query string) error {
	p.search.setQuery(query)
	if err := p.Results.Load(ctx); err != nil {
		return err
	}
	p.Results.Search("")
	return nil
}

// Random loads the random selection shown on the home screen
func (p *Products) Random(ctx context.Context) error {
	return p.Search(ctx, "")
}

// Get fetches one product
func (p *Products) Get(ctx context.Context, id string) (*api.Product, error) {
	product, err := p.api.Get(ctx, id)
	if err != nil {
		p.notifier.Error("could not load product: %s", api.Message(err))
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

// Create normalizes and sends a new product
func (p *Products) Create(ctx context.Context, draft api.ProductDraft) (*api.Product, error) {
	normalized := NormalizeProductDraft(draft)
	created, err := p.api.Create(ctx, &normalized)
	if err != nil {
		p.notifier.Error("could not create product: %s", api.Message(err))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if created.ID != "" {
		p.Results.Put(*created)
	}
	p.notifier.Success("product created")
	return created, nil
}

// Update normalizes and sends the draft for id
func (p *Products) Update(ctx context.Context, id string, draft api.ProductDraft) (*api.Product, error) {
	normalized := NormalizeProductDraft(draft)
	updated, err := p.api.Update(ctx, id, &normalized)
	if err != nil {
		p.notifier.Error("could not update product: %s", api.Message(err))
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if updated.GenericName == "" {
		// no record in the response: patch the cached one with the draft
		cached, ok := p.Results.Find(id)
		if !ok {
			cached = api.Product{ID: id}
		}
		*updated = applyDraft(cached, normalized)
	}
	p.Results.Put(*updated)

	p.notifier.Success("product updated")
	p.log.Debug("updated product %s", id)
	return updated, nil
}

// applyDraft returns p with the fields of an accepted draft. References
// whose id changed keep only the id until the next load; attachments are
// left as they were.
func applyDraft(p api.Product, d api.ProductDraft) api.Product {
	p.GenericName = d.GenericName
	p.CommercialName = d.CommercialName
	p.Description = d.Description
	p.Measurement = d.Measurement
	p.Formulation = d.Formulation
	p.Composition = d.Composition
	p.Reference = d.Reference
	p.Use = d.Use
	p.SanitizeMethod = d.SanitizeMethod
	p.Status = api.FlexBool(d.Status)
	p.IVA = d.IVA
	p.Characteristics = append([]api.Characteristic(nil), d.Characteristics...)
	p.Brand = patchRef(p.Brand, d.Brand)
	p.Category = patchRef(p.Category, d.Category)

	switch {
	case d.SanitaryRegistry == "":
		p.SanitaryRegistry = nil
	case p.SanitaryRegistry == nil || p.SanitaryRegistry.ID != d.SanitaryRegistry:
		p.SanitaryRegistry = &api.SanitaryRegistry{ID: d.SanitaryRegistry}
	}

	providers := make([]api.Provider, len(d.Providers))
	for i, ref := range d.Providers {
		providers[i] = api.Provider{ID: ref.ID, Name: ref.Name}
	}
	p.Providers = providers
	return p
}

func patchRef(current *api.Ref, id string) *api.Ref {
	if id == "" {
		return nil
	}
	if current != nil && current.ID == id {
		return current
	}
	return &api.Ref{ID: id}
}

// NewCharacteristic creates a characteristic for a draft. It gets a
// temporary id so the form can address it before the server assigns one.
func NewCharacteristic(name, description string) api.Characteristic {
	return api.Characteristic{
		ID:             uuid.NewString(),
		Characteristic: name,
		Description:    description,
	}
}
