package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/notify"
)

type envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Response string      `json:"response,omitempty"`
}

// fakeAPI serves a scripted set of routes keyed by "METHOD path"
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]func(body []byte) (int, envelope)
	bodies map[string][]byte
}

func newFakeAPI(t *testing.T) (*fakeAPI, *api.Client) {
	t.Helper()
	f := &fakeAPI{routes: map[string]func([]byte) (int, envelope){}, bodies: map[string][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, api.NewClient(srv.URL, 5*time.Second)
}

func (f *fakeAPI) handle(method, path string, h func(body []byte) (int, envelope)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

func (f *fakeAPI) body(method, path string) map[string]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out map[string]interface{}
	_ = json.Unmarshal(f.bodies[method+" "+path], &out)
	return out
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	h, ok := f.routes[key]
	f.bodies[key] = body
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(envelope{Response: "no route " + key})
		return
	}
	status, env := h(body)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func ok(data interface{}) func([]byte) (int, envelope) {
	return func([]byte) (int, envelope) {
		return http.StatusOK, envelope{Success: true, Data: data}
	}
}

func TestCreateBrandScenario(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.BrandPath, ok([]interface{}{}))
	fake.handle(http.MethodPost, api.BrandPath, ok(map[string]string{"uuid": "b1", "name": "acme"}))

	c := New(client, notify.New(time.Minute), nil)
	ctx := context.Background()
	require.NoError(t, c.Brands.Load(ctx))

	_, err := c.Brands.Create(ctx, api.Brand{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"name": "acme"}, fake.body(http.MethodPost, api.BrandPath))
	assert.Empty(t, cmp.Diff([]api.Brand{{ID: "b1", Name: "acme"}}, c.Brands.Items()))
}

func TestFailedBrandDeleteScenario(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.BrandPath, ok([]map[string]string{{"uuid": "b1", "name": "acme"}}))
	fake.handle(http.MethodDelete, api.BrandPath+"b1", func([]byte) (int, envelope) {
		return http.StatusInternalServerError, envelope{Response: "brand in use"}
	})

	c := New(client, notify.New(time.Minute), nil)
	ctx := context.Background()
	require.NoError(t, c.Brands.Load(ctx))

	require.Error(t, c.Brands.Remove(ctx, "b1"))
	assert.Equal(t, 1, c.Brands.Len())

	msg, shown := c.Notifier().Current()
	require.True(t, shown)
	assert.Contains(t, msg.Text, "brand in use")
}

func TestUpdateCategoryWithoutBody(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.CategoryPath, ok([]map[string]string{{"uuid": "c1", "name": "x"}}))
	fake.handle(http.MethodPut, api.CategoryPath+"c1", ok(nil))

	c := New(client, nil, nil)
	ctx := context.Background()
	require.NoError(t, c.Categories.Load(ctx))

	_, err := c.Categories.Update(ctx, "c1", api.Category{Name: "X"})
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff([]api.Category{{ID: "c1", Name: "x"}}, c.Categories.Items()))
}

func TestProviderSearchIncludesBrands(t *testing.T) {
	p := api.Provider{Name: "distrimed", Email: "ventas@distrimed.co", Brands: []api.Ref{{ID: "b1", Name: "acme"}}}

	assert.True(t, MatchProvider(p, "acme"))
	assert.True(t, MatchProvider(p, "ventas"))
	assert.False(t, MatchProvider(p, "bayer"))
}

func TestNormalizers(t *testing.T) {
	provider := NormalizeProvider(api.Provider{
		Name:   " DistriMed ",
		NIT:    "900ABC",
		Email:  "Ventas@DistriMed.co",
		Phone:  " 300 ",
		Brands: []api.Ref{{ID: "B1", Name: "ACME"}},
	})
	assert.Equal(t, "distrimed", provider.Name)
	assert.Equal(t, "900abc", provider.NIT)
	assert.Equal(t, "ventas@distrimed.co", provider.Email)
	assert.Equal(t, "300", provider.Phone)
	assert.Equal(t, []api.Ref{{ID: "B1", Name: "acme"}}, provider.Brands)

	registry := NormalizeSanitaryRegistry(api.SanitaryRegistry{NumberRegistry: "INVIMA 2020DM", FileName: "Reg.PDF"})
	assert.Equal(t, "invima 2020dm", registry.NumberRegistry)
	assert.Equal(t, "Reg.PDF", registry.FileName)

	draft := NormalizeProductDraft(api.ProductDraft{
		GenericName:     "GAUZE",
		Brand:           "B1",
		Characteristics: []api.Characteristic{{ID: "T1", Characteristic: "SIZE", Description: "10X10"}},
		Images:          []api.FilePayload{{FileName: "A.png", FileContent: "https://files/A.png"}},
	})
	assert.Equal(t, "gauze", draft.GenericName)
	assert.Equal(t, "B1", draft.Brand)
	assert.Equal(t, api.Characteristic{ID: "T1", Characteristic: "size", Description: "10x10"}, draft.Characteristics[0])
	assert.Equal(t, "A.png", draft.Images[0].FileName)
}

func TestProductSearchPaging(t *testing.T) {
	fake, client := newFakeAPI(t)
	var results []map[string]interface{}
	for i := 0; i < 10; i++ {
		results = append(results, map[string]interface{}{"uuid": string(rune('a' + i)), "generic_name": "gauze"})
	}
	fake.handle(http.MethodGet, api.ProductPath+"search", ok(results))

	c := New(client, nil, nil)
	require.NoError(t, c.Products.Search(context.Background(), "gauze"))

	assert.Equal(t, "gauze", c.Products.Query())
	assert.Equal(t, 2, c.Products.Results.TotalPages())
	assert.Len(t, c.Products.Results.Visible(), 8)

	err := c.Products.Results.Remove(context.Background(), "a")
	assert.ErrorIs(t, err, api.ErrUnsupported)
	_, err = c.Products.Results.Create(context.Background(), api.Product{GenericName: "venda"})
	assert.ErrorIs(t, err, api.ErrUnsupported)
	_, err = c.Products.Results.Update(context.Background(), "a", api.Product{GenericName: "venda"})
	assert.ErrorIs(t, err, api.ErrUnsupported)
	assert.Equal(t, 10, c.Products.Results.Len())
}

func TestProductUpdateReconcilesResults(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.ProductPath+"search", ok([]map[string]interface{}{
		{"uuid": "p1", "generic_name": "gasa", "brand": map[string]string{"uuid": "b1", "name": "acme"}},
		{"uuid": "p2", "generic_name": "gasa esteril"},
	}))
	fake.handle(http.MethodPut, api.ProductPath+"p1", ok(map[string]interface{}{
		"uuid": "p1", "generic_name": "venda", "brand": map[string]string{"uuid": "b1", "name": "acme"},
	}))

	c := New(client, nil, nil)
	require.NoError(t, c.Products.Search(context.Background(), "gasa"))

	_, err := c.Products.Update(context.Background(), "p1", api.ProductDraft{GenericName: "Venda", Brand: "b1"})
	require.NoError(t, err)

	got, found := c.Products.Results.Find("p1")
	require.True(t, found)
	assert.Equal(t, "venda", got.GenericName)
	assert.Equal(t, 2, c.Products.Results.Len())
}

func TestProductUpdateWithoutBodyPatchesCachedRecord(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.ProductPath+"search", ok([]map[string]interface{}{
		{
			"uuid": "p1", "generic_name": "gasa", "images": []string{"https://files/a.png"},
			"brand":    map[string]string{"uuid": "b1", "name": "acme"},
			"category": map[string]string{"uuid": "c1", "name": "curaciones"},
		},
	}))
	fake.handle(http.MethodPut, api.ProductPath+"p1", ok("product updated"))

	c := New(client, nil, nil)
	require.NoError(t, c.Products.Search(context.Background(), "gasa"))

	_, err := c.Products.Update(context.Background(), "p1", api.ProductDraft{
		GenericName: "Venda", Brand: "b1", Category: "c2", Status: true,
		Providers: []api.Ref{{ID: "pr1", Name: "Distrimed"}},
	})
	require.NoError(t, err)

	got, found := c.Products.Results.Find("p1")
	require.True(t, found)
	assert.Equal(t, "venda", got.GenericName)
	assert.Equal(t, &api.Ref{ID: "b1", Name: "acme"}, got.Brand, "unchanged reference keeps its name")
	assert.Equal(t, &api.Ref{ID: "c2"}, got.Category)
	assert.True(t, bool(got.Status))
	assert.Equal(t, []api.Provider{{ID: "pr1", Name: "distrimed"}}, got.Providers)
	assert.Equal(t, []string{"https://files/a.png"}, got.Images)
}

func TestProductCreateAddsToResults(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.ProductPath+"random", ok([]map[string]interface{}{}))
	fake.handle(http.MethodPost, api.ProductPath, ok(map[string]string{"uuid": "p9", "generic_name": "venda"}))

	c := New(client, nil, nil)
	require.NoError(t, c.Products.Random(context.Background()))
	_, err := c.Products.Create(context.Background(), api.ProductDraft{GenericName: "Venda"})
	require.NoError(t, err)

	got, found := c.Products.Results.Find("p9")
	require.True(t, found)
	assert.Equal(t, "venda", got.GenericName)
}

func TestProductQueryDuringSearch(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.ProductPath+"search", ok([]map[string]interface{}{}))

	c := New(client, nil, nil)
	done := make(chan error)
	go func() { done <- c.Products.Search(context.Background(), "gasa") }()
	for i := 0; i < 100; i++ {
		q := c.Products.Query()
		assert.Contains(t, []string{"", "gasa"}, q)
	}
	require.NoError(t, <-done)
	assert.Equal(t, "gasa", c.Products.Query())
}

func TestProductCreateNormalizes(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodPost, api.ProductPath, ok(map[string]string{"uuid": "p1", "generic_name": "gauze"}))

	c := New(client, nil, nil)
	created, err := c.Products.Create(context.Background(), api.ProductDraft{GenericName: "Gauze", Status: true})
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)

	body := fake.body(http.MethodPost, api.ProductPath)
	assert.Equal(t, "gauze", body["generic_name"])
	assert.Equal(t, true, body["status"])
	assert.Equal(t, []interface{}{}, body["providers"])
}

func TestFetchAmounts(t *testing.T) {
	fake, client := newFakeAPI(t)
	fake.handle(http.MethodGet, api.ProductPath+"amount", ok(12))
	fake.handle(http.MethodGet, api.BrandPath+"amount", ok(5))
	fake.handle(http.MethodGet, api.ProviderPath+"amount", ok(3))
	fake.handle(http.MethodGet, api.CategoryPath+"amount", ok(7))
	fake.handle(http.MethodGet, api.SanitaryRegistryPath+"amount", ok(2))

	amounts, err := FetchAmounts(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, Amounts{Products: 12, Brands: 5, Providers: 3, Categories: 7, Registries: 2}, amounts)

	fake.handle(http.MethodGet, api.CategoryPath+"amount", func([]byte) (int, envelope) {
		return http.StatusOK, envelope{Success: false, Response: "boom"}
	})
	_, err = FetchAmounts(context.Background(), client)
	require.Error(t, err)
}

func TestDisplayHelpers(t *testing.T) {
	assert.Equal(t, "Gasa Estéril", Capitalize("gasa ESTÉRIL"))
	assert.Equal(t, "Sterile gauze", Sentence("sTERILE GAUZE"))
	assert.Equal(t, "", Sentence(""))

	short, cut := TruncateWords("one two three", 5)
	assert.False(t, cut)
	assert.Equal(t, "one two three", short)

	short, cut = TruncateWords("one two three four", 2)
	assert.True(t, cut)
	assert.Equal(t, "one two...", short)
}

func TestNewCharacteristicHasTemporaryID(t *testing.T) {
	a := NewCharacteristic("size", "10x10")
	b := NewCharacteristic("size", "10x10")
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBrandDeleteNeedsConfirmation(t *testing.T) {
	assert.True(t, BrandEntity.ConfirmDelete)
	for _, e := range []Entity{CategoryEntity, ProviderEntity, SanitaryRegistryEntity} {
		assert.False(t, e.ConfirmDelete, e.Name)
	}
}
