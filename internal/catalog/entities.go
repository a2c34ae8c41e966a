package catalog

import (
	"fmt"
	"strings"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/listmgr"
)

// Entity describes how one collection is presented
type Entity struct {
	Name     string
	Plural   string
	Path     string
	PageSize int
	// ConfirmDelete asks the user before a delete is issued
	ConfirmDelete bool
}

// Catalog entities. Product has no list endpoint; its page size applies to
// search results.
var (
	BrandEntity            = Entity{Name: "brand", Plural: "brands", Path: api.BrandPath, PageSize: 8, ConfirmDelete: true}
	CategoryEntity         = Entity{Name: "category", Plural: "categories", Path: api.CategoryPath, PageSize: 7}
	ProviderEntity         = Entity{Name: "provider", Plural: "providers", Path: api.ProviderPath, PageSize: 4}
	SanitaryRegistryEntity = Entity{Name: "sanitary registry", Plural: "sanitary registries", Path: api.SanitaryRegistryPath, PageSize: 3}
	ProductEntity          = Entity{Name: "product", Plural: "products", Path: api.ProductPath, PageSize: 8}
)

func brandID(b api.Brand) string                       { return b.ID }
func categoryID(c api.Category) string                 { return c.ID }
func providerID(p api.Provider) string                 { return p.ID }
func sanitaryRegistryID(r api.SanitaryRegistry) string { return r.ID }
func productID(p api.Product) string                   { return p.ID }

func brandWithID(b api.Brand, id string) api.Brand {
	b.ID = id
	return b
}

func categoryWithID(c api.Category, id string) api.Category {
	c.ID = id
	return c
}

func providerWithID(p api.Provider, id string) api.Provider {
	p.ID = id
	return p
}

func sanitaryRegistryWithID(r api.SanitaryRegistry, id string) api.SanitaryRegistry {
	r.ID = id
	return r
}

func productWithID(p api.Product, id string) api.Product {
	p.ID = id
	return p
}

// MatchBrand matches on the name
func MatchBrand(b api.Brand, term string) bool {
	return listmgr.ContainsFold(term, b.Name)
}

// MatchCategory matches on the name
func MatchCategory(c api.Category, term string) bool {
	return listmgr.ContainsFold(term, c.Name)
}

// MatchProvider matches on the contact fields and the distributed brands
func MatchProvider(p api.Provider, term string) bool {
	if listmgr.ContainsFold(term, p.Name, p.Represent, p.Email, p.NIT, p.Phone, p.PersonType) {
		return true
	}
	for _, b := range p.Brands {
		if listmgr.ContainsFold(term, b.Name) {
			return true
		}
	}
	return false
}

// MatchSanitaryRegistry matches on number, cluster and status
func MatchSanitaryRegistry(r api.SanitaryRegistry, term string) bool {
	return listmgr.ContainsFold(term, r.NumberRegistry, r.Cluster, r.Status)
}

// MatchProduct matches on the product names and the brand
func MatchProduct(p api.Product, term string) bool {
	if listmgr.ContainsFold(term, p.GenericName, p.CommercialName) {
		return true
	}
	return p.Brand != nil && listmgr.ContainsFold(term, p.Brand.Name)
}

// NormalizeBrand lower-cases the name
func NormalizeBrand(b api.Brand) api.Brand {
	b.Name = strings.ToLower(strings.TrimSpace(b.Name))
	return b
}

// NormalizeCategory lower-cases the name
func NormalizeCategory(c api.Category) api.Category {
	c.Name = strings.ToLower(strings.TrimSpace(c.Name))
	return c
}

// NormalizeProvider lower-cases the user-entered text and the brand names
func NormalizeProvider(p api.Provider) api.Provider {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	p.NIT = strings.ToLower(strings.TrimSpace(p.NIT))
	p.Represent = strings.ToLower(strings.TrimSpace(p.Represent))
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)

	brands := make([]api.Ref, len(p.Brands))
	for i, b := range p.Brands {
		brands[i] = api.Ref{ID: b.ID, Name: strings.ToLower(b.Name)}
	}
	p.Brands = brands
	return p
}

// NormalizeSanitaryRegistry lower-cases the registry fields. The file
// payload is left untouched.
func NormalizeSanitaryRegistry(r api.SanitaryRegistry) api.SanitaryRegistry {
	r.NumberRegistry = strings.ToLower(strings.TrimSpace(r.NumberRegistry))
	r.Cluster = strings.ToLower(strings.TrimSpace(r.Cluster))
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.TypeRisk = strings.ToLower(strings.TrimSpace(r.TypeRisk))
	return r
}

// NormalizeProductDraft lower-cases every text field of the draft,
// characteristics included. References and attachments are left as is.
func NormalizeProductDraft(d api.ProductDraft) api.ProductDraft {
	lower := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	d.GenericName = lower(d.GenericName)
	d.CommercialName = lower(d.CommercialName)
	d.Description = lower(d.Description)
	d.Measurement = lower(d.Measurement)
	d.Formulation = lower(d.Formulation)
	d.Composition = lower(d.Composition)
	d.Reference = lower(d.Reference)
	d.Use = lower(d.Use)
	d.SanitizeMethod = lower(d.SanitizeMethod)

	chars := make([]api.Characteristic, len(d.Characteristics))
	for i, c := range d.Characteristics {
		chars[i] = api.Characteristic{
			ID:             c.ID,
			Characteristic: lower(c.Characteristic),
			Description:    lower(c.Description),
		}
	}
	d.Characteristics = chars

	providers := make([]api.Ref, len(d.Providers))
	for i, p := range d.Providers {
		providers[i] = api.Ref{ID: p.ID, Name: lower(p.Name)}
	}
	d.Providers = providers
	return d
}

// ParsePersonType accepts the short forms "natural" and "legal" (or
// "juridica") as well as the stored values
func ParsePersonType(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "natural", strings.ToLower(api.PersonNatural):
		return api.PersonNatural, nil
	case "legal", "juridica", "jurídica", strings.ToLower(api.PersonLegal):
		return api.PersonLegal, nil
	default:
		return "", fmt.Errorf("invalid person type %q (use natural or legal)", v)
	}
}
