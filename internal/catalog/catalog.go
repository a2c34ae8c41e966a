// Package catalog wires the generic list manager to each catalog entity and
// provides the product service and dashboard counters.
package catalog

import (
	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/listmgr"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
)

// Catalog holds one manager per entity, all sharing the same notifier
type Catalog struct {
	Client     *api.Client
	Brands     *listmgr.Manager[api.Brand]
	Categories *listmgr.Manager[api.Category]
	Providers  *listmgr.Manager[api.Provider]
	Registries *listmgr.Manager[api.SanitaryRegistry]
	Products   *Products

	notifier *notify.Notifier
	log      *logger.Logger
}

// New builds the catalog over client
func New(client *api.Client, notifier *notify.Notifier, log *logger.Logger) *Catalog {
	if notifier == nil {
		notifier = notify.New(notify.DefaultTTL)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Catalog{
		Client: client,
		Brands: listmgr.New[api.Brand](api.NewResource[api.Brand](client, BrandEntity.Path), listmgr.Options[api.Brand]{
			Name:      BrandEntity.Name,
			PageSize:  BrandEntity.PageSize,
			ID:        brandID,
			WithID:    brandWithID,
			Match:     MatchBrand,
			Normalize: NormalizeBrand,
			Notifier:  notifier,
			Logger:    log.With("brand"),
		}),
		Categories: listmgr.New[api.Category](api.NewResource[api.Category](client, CategoryEntity.Path), listmgr.Options[api.Category]{
			Name:      CategoryEntity.Name,
			PageSize:  CategoryEntity.PageSize,
			ID:        categoryID,
			WithID:    categoryWithID,
			Match:     MatchCategory,
			Normalize: NormalizeCategory,
			Notifier:  notifier,
			Logger:    log.With("category"),
		}),
		Providers: listmgr.New[api.Provider](api.NewResource[api.Provider](client, ProviderEntity.Path), listmgr.Options[api.Provider]{
			Name:      ProviderEntity.Name,
			PageSize:  ProviderEntity.PageSize,
			ID:        providerID,
			WithID:    providerWithID,
			Match:     MatchProvider,
			Normalize: NormalizeProvider,
			Notifier:  notifier,
			Logger:    log.With("provider"),
		}),
		Registries: listmgr.New[api.SanitaryRegistry](api.NewResource[api.SanitaryRegistry](client, SanitaryRegistryEntity.Path), listmgr.Options[api.SanitaryRegistry]{
			Name:      SanitaryRegistryEntity.Name,
			PageSize:  SanitaryRegistryEntity.PageSize,
			ID:        sanitaryRegistryID,
			WithID:    sanitaryRegistryWithID,
			Match:     MatchSanitaryRegistry,
			Normalize: NormalizeSanitaryRegistry,
			Notifier:  notifier,
			Logger:    log.With("registry"),
		}),
		Products: newProducts(api.NewProducts(client), notifier, log.With("product")),
		notifier: notifier,
		log:      log,
	}
}

// Notifier returns the shared notifier
func (c *Catalog) Notifier() *notify.Notifier {
	return c.notifier
}

// BrandRefs returns the cached brands as picker candidates
func (c *Catalog) BrandRefs() []api.Ref {
	var refs []api.Ref
	for _, b := range c.Brands.Items() {
		refs = append(refs, api.Ref{ID: b.ID, Name: b.Name})
	}
	return refs
}

// CategoryRefs returns the cached categories as picker candidates
func (c *Catalog) CategoryRefs() []api.Ref {
	var refs []api.Ref
	for _, cat := range c.Categories.Items() {
		refs = append(refs, api.Ref{ID: cat.ID, Name: cat.Name})
	}
	return refs
}

// RegistryRefs returns the cached sanitary registries as picker candidates,
// named by their registry number
func (c *Catalog) RegistryRefs() []api.Ref {
	var refs []api.Ref
	for _, r := range c.Registries.Items() {
		refs = append(refs, api.Ref{ID: r.ID, Name: r.NumberRegistry})
	}
	return refs
}

// ProviderRefs returns the cached providers as picker candidates
func (c *Catalog) ProviderRefs() []api.Ref {
	var refs []api.Ref
	for _, p := range c.Providers.Items() {
		refs = append(refs, api.Ref{ID: p.ID, Name: p.Name})
	}
	return refs
}
