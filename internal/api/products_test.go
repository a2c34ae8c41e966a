package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
	"uuid": "p1",
	"generic_name": "gauze",
	"commercial_name": "gaza esteril",
	"description": "sterile cotton gauze",
	"status": "True",
	"iva": true,
	"brand": {"uuid": "b1", "name": "acme"},
	"category": {"uuid": "c1", "name": "wound care"},
	"sanitary_registry": {"uuid": "s1", "number_registry": "invima 2020dm-1", "url": "https://files/s1.pdf"},
	"characteristics": [{"uuid": "ch1", "characteristic": "size", "description": "10x10"}],
	"images": ["https://files/img1.png"],
	"technical_sheets": [{"documents": "https://files/sheet.pdf"}],
	"providers": [{"uuid": "pr1", "name": "distrimed"}],
	"comments": [{"uuid": "cm1", "comment": "best seller"}]
}`

func TestProductsGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProductPath+"p1", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": ` + productJSON + `}`))
	})

	p, err := NewProducts(client).Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "gauze", p.GenericName)
	assert.True(t, bool(p.Status))
	require.NotNil(t, p.Brand)
	assert.Equal(t, "b1", p.Brand.ID)
	require.NotNil(t, p.SanitaryRegistry)
	assert.Equal(t, "invima 2020dm-1", p.SanitaryRegistry.NumberRegistry)
	assert.Len(t, p.Providers, 1)

	draft := DraftFromProduct(p)
	assert.Equal(t, "b1", draft.Brand)
	assert.Equal(t, "c1", draft.Category)
	assert.Equal(t, "s1", draft.SanitaryRegistry)
	assert.True(t, draft.Status)
	assert.Equal(t, []Ref{{ID: "pr1", Name: "distrimed"}}, draft.Providers)
}

func TestProductsSearchEscapesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProductPath+"search", r.URL.Path)
		assert.Equal(t, "gasa & algodón", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"success": true, "data": [` + productJSON + `]}`))
	})

	products, err := NewProducts(client).Search(context.Background(), "gasa & algodón")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestProductsRandomEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProductPath+"random", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true, "data": null}`))
	})

	products, err := NewProducts(client).Random(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductsUpdateWireFormat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "s1", body["sanitary_register"])
		assert.Nil(t, body["technical_sheet"])
		images := body["images"].([]interface{})
		require.Len(t, images, 1)
		assert.Equal(t, "img1.png", images[0].(map[string]interface{})["file_name"])

		_, _ = w.Write([]byte(`{"success": true, "data": "product updated"}`))
	})

	updated, err := NewProducts(client).Update(context.Background(), "p1", &ProductDraft{
		SanitaryRegistry: "s1",
		Images:           []FilePayload{{FileName: "img1.png", FileContent: "https://files/img1.png"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", updated.ID)
}

func TestFlexBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"True"`, true},
		{`"false"`, false},
		{`"yes"`, false},
	}

	for _, tt := range tests {
		var b FlexBool
		require.NoError(t, json.Unmarshal([]byte(tt.in), &b), tt.in)
		assert.Equal(t, tt.want, bool(b), tt.in)
	}
}
