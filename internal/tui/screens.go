package tui

import (
	"context"
	"strings"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/attach"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/form"
)

func createdColumn[T any](at func(T) *api.APITime) column[T] {
	return column[T]{title: "CREATED", width: 12, value: func(r T) string {
		if t := at(r); t != nil && !t.Time().IsZero() {
			return t.Time().Format("2006-01-02")
		}
		return "-"
	}}
}

func nameField[T any](get func(T) string, set func(*T, string)) field[T] {
	return field[T]{
		label: "Name",
		get:   get,
		set: func(_ context.Context, r *T, v string) error {
			set(r, v)
			return nil
		},
	}
}

func newBrandScreen(ctx context.Context, cat *catalog.Catalog) *EntityModel[api.Brand] {
	return newEntityModel(ctx, entityConfig[api.Brand]{
		entity:   catalog.BrandEntity,
		manager:  cat.Brands,
		notifier: cat.Notifier(),
		id:       func(b api.Brand) string { return b.ID },
		label:    func(b api.Brand) string { return catalog.Capitalize(b.Name) },
		columns: []column[api.Brand]{
			{title: "NAME", width: 36, value: func(b api.Brand) string { return catalog.Capitalize(b.Name) }},
			createdColumn(func(b api.Brand) *api.APITime { return b.CreatedAt }),
		},
		fields: []field[api.Brand]{
			nameField(func(b api.Brand) string { return b.Name }, func(b *api.Brand, v string) { b.Name = v }),
		},
		validate: func(b api.Brand) error {
			return form.Required(form.Field{Name: "name", Value: b.Name})
		},
	})
}

func newCategoryScreen(ctx context.Context, cat *catalog.Catalog) *EntityModel[api.Category] {
	return newEntityModel(ctx, entityConfig[api.Category]{
		entity:   catalog.CategoryEntity,
		manager:  cat.Categories,
		notifier: cat.Notifier(),
		id:       func(c api.Category) string { return c.ID },
		label:    func(c api.Category) string { return catalog.Capitalize(c.Name) },
		columns: []column[api.Category]{
			{title: "NAME", width: 36, value: func(c api.Category) string { return catalog.Capitalize(c.Name) }},
			createdColumn(func(c api.Category) *api.APITime { return c.CreatedAt }),
		},
		fields: []field[api.Category]{
			nameField(func(c api.Category) string { return c.Name }, func(c *api.Category, v string) { c.Name = v }),
		},
		validate: func(c api.Category) error {
			return form.Required(form.Field{Name: "name", Value: c.Name})
		},
	})
}

func newProviderScreen(ctx context.Context, cat *catalog.Catalog) *EntityModel[api.Provider] {
	text := func(label string, get func(api.Provider) string, set func(*api.Provider, string)) field[api.Provider] {
		return field[api.Provider]{
			label: label,
			get:   get,
			set: func(_ context.Context, p *api.Provider, v string) error {
				set(p, v)
				return nil
			},
		}
	}

	return newEntityModel(ctx, entityConfig[api.Provider]{
		entity:   catalog.ProviderEntity,
		manager:  cat.Providers,
		notifier: cat.Notifier(),
		id:       func(p api.Provider) string { return p.ID },
		label:    func(p api.Provider) string { return catalog.Capitalize(p.Name) },
		columns: []column[api.Provider]{
			{title: "NAME", width: 24, value: func(p api.Provider) string { return catalog.Capitalize(p.Name) }},
			{title: "NIT", width: 12, value: func(p api.Provider) string { return p.NIT }},
			{title: "EMAIL", width: 24, value: func(p api.Provider) string { return p.Email }},
			{title: "BRANDS", width: 28, value: func(p api.Provider) string {
				names := make([]string, len(p.Brands))
				for i, b := range p.Brands {
					names[i] = catalog.Capitalize(b.Name)
				}
				return strings.Join(names, ", ")
			}},
		},
		fields: []field[api.Provider]{
			text("Name", func(p api.Provider) string { return p.Name }, func(p *api.Provider, v string) { p.Name = v }),
			text("NIT", func(p api.Provider) string { return p.NIT }, func(p *api.Provider, v string) { p.NIT = v }),
			{
				label:       "Person type",
				placeholder: "natural or legal",
				get:         func(p api.Provider) string { return p.PersonType },
				set: func(_ context.Context, p *api.Provider, v string) error {
					if strings.TrimSpace(v) == "" {
						p.PersonType = ""
						return nil
					}
					pt, err := catalog.ParsePersonType(v)
					if err != nil {
						return err
					}
					p.PersonType = pt
					return nil
				},
			},
			text("Represent", func(p api.Provider) string { return p.Represent }, func(p *api.Provider, v string) { p.Represent = v }),
			text("Phone", func(p api.Provider) string { return p.Phone }, func(p *api.Provider, v string) { p.Phone = v }),
			text("Email", func(p api.Provider) string { return p.Email }, func(p *api.Provider, v string) { p.Email = v }),
		},
		refs: &refsField[api.Provider]{
			label:      "Brands",
			load:       cat.Brands.Load,
			candidates: cat.BrandRefs,
			get:        func(p api.Provider) []api.Ref { return p.Brands },
			set:        func(p *api.Provider, refs []api.Ref) { p.Brands = refs },
		},
		validate: func(p api.Provider) error {
			return form.Required(
				form.Field{Name: "name", Value: p.Name},
				form.Field{Name: "nit", Value: p.NIT},
				form.Field{Name: "person type", Value: p.PersonType},
			)
		},
	})
}

func newRegistryScreen(ctx context.Context, cat *catalog.Catalog) *EntityModel[api.SanitaryRegistry] {
	text := func(label, placeholder string, get func(api.SanitaryRegistry) string, set func(*api.SanitaryRegistry, string)) field[api.SanitaryRegistry] {
		return field[api.SanitaryRegistry]{
			label:       label,
			placeholder: placeholder,
			get:         get,
			set: func(_ context.Context, r *api.SanitaryRegistry, v string) error {
				set(r, v)
				return nil
			},
		}
	}

	return newEntityModel(ctx, entityConfig[api.SanitaryRegistry]{
		entity:   catalog.SanitaryRegistryEntity,
		manager:  cat.Registries,
		notifier: cat.Notifier(),
		id:       func(r api.SanitaryRegistry) string { return r.ID },
		label:    func(r api.SanitaryRegistry) string { return strings.ToUpper(r.NumberRegistry) },
		columns: []column[api.SanitaryRegistry]{
			{title: "NUMBER", width: 18, value: func(r api.SanitaryRegistry) string { return strings.ToUpper(r.NumberRegistry) }},
			{title: "EXPIRES", width: 12, value: func(r api.SanitaryRegistry) string { return r.ExpirationDate }},
			{title: "CLUSTER", width: 16, value: func(r api.SanitaryRegistry) string { return catalog.Capitalize(r.Cluster) }},
			{title: "STATUS", width: 12, value: func(r api.SanitaryRegistry) string { return catalog.Capitalize(r.Status) }},
			{title: "RISK", width: 6, value: func(r api.SanitaryRegistry) string { return r.TypeRisk }},
			{title: "FILE", width: 20, value: func(r api.SanitaryRegistry) string { return attach.NameFromURL(r.URL) }},
		},
		fields: []field[api.SanitaryRegistry]{
			text("Number", "", func(r api.SanitaryRegistry) string { return r.NumberRegistry }, func(r *api.SanitaryRegistry, v string) { r.NumberRegistry = v }),
			text("Expiration", "YYYY-MM-DD", func(r api.SanitaryRegistry) string { return r.ExpirationDate }, func(r *api.SanitaryRegistry, v string) { r.ExpirationDate = v }),
			text("Cluster", "", func(r api.SanitaryRegistry) string { return r.Cluster }, func(r *api.SanitaryRegistry, v string) { r.Cluster = v }),
			text("Status", "", func(r api.SanitaryRegistry) string { return r.Status }, func(r *api.SanitaryRegistry, v string) { r.Status = v }),
			text("Risk", "", func(r api.SanitaryRegistry) string { return r.TypeRisk }, func(r *api.SanitaryRegistry, v string) { r.TypeRisk = v }),
			{
				label:       "File",
				placeholder: "path to a PDF (empty keeps the current one)",
				get:         func(api.SanitaryRegistry) string { return "" },
				set: func(ctx context.Context, r *api.SanitaryRegistry, v string) error {
					if strings.TrimSpace(v) == "" {
						return nil
					}
					payload, err := attach.EncodePDF(ctx, strings.TrimSpace(v))
					if err != nil {
						return err
					}
					r.FileName = payload.FileName
					r.FileContent = payload.FileContent
					return nil
				},
			},
		},
		validate: func(r api.SanitaryRegistry) error {
			return form.Required(
				form.Field{Name: "number", Value: r.NumberRegistry},
				form.Field{Name: "expiration", Value: r.ExpirationDate},
			)
		},
	})
}
