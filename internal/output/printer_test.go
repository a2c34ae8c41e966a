package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/notify"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrintBrandsTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatTable, false)

	brands := []api.Brand{{ID: "b1", Name: "acme labs"}, {ID: "b2", Name: "bayer"}}
	require.NoError(t, p.PrintBrands(brands, Page{Number: 2, TotalPages: 3, Matches: 18, Window: []int{1, 2, 3}}))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Acme Labs")
	assert.Contains(t, out, "Page 2 of 3  « 1 [2] 3 »  (18 brands)")
}

func TestPrintEmptyList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatTable, false)

	require.NoError(t, p.PrintCategories(nil, Page{Number: 1, TotalPages: 1, Search: "zzz"}))
	assert.Equal(t, "No categories match \"zzz\"\n", buf.String())
}

func TestPrintProvidersJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatJSON, false)

	providers := []api.Provider{{ID: "p1", Name: "distrimed", Brands: []api.Ref{{ID: "b1", Name: "acme"}}}}
	require.NoError(t, p.PrintProviders(providers, Page{Number: 1, TotalPages: 1, Matches: 1}))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(1), got["page"])
	items := got["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "distrimed", items[0].(map[string]interface{})["name"])
}

func TestPrintRegistriesYAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatYAML, false)

	created := api.APITime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	registries := []api.SanitaryRegistry{{ID: "s1", NumberRegistry: "2020dm-1", Status: "true", CreatedAt: &created}}
	require.NoError(t, p.PrintRegistries(registries, Page{Number: 1, TotalPages: 1, Matches: 1}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "page: 1\n"), out)
	assert.Contains(t, out, "number_registry: 2020dm-1")
	assert.Regexp(t, `status: ["']true["']`, out)

	var decoded struct {
		Items []struct {
			ID        string `yaml:"uuid"`
			CreatedAt string `yaml:"created_at"`
		} `yaml:"items"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, "s1", decoded.Items[0].ID)
	assert.Equal(t, "2024-03-01T00:00:00Z", decoded.Items[0].CreatedAt)
}

func TestPrintAmounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatTable, false)

	require.NoError(t, p.PrintAmounts(catalog.Amounts{Products: 12, Brands: 4}))
	assert.Contains(t, buf.String(), "Products")
	assert.Contains(t, buf.String(), "12")
}

func TestPrintRecordTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriter(&buf, FormatTable, false)

	require.NoError(t, p.PrintRecord(api.Provider{ID: "p1", Name: "distrimed", Brands: []api.Ref{{ID: "b1", Name: "acme"}}}))
	out := buf.String()
	assert.Contains(t, out, "brands:")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "uuid:")
}

func TestNotice(t *testing.T) {
	n := notify.New(time.Minute)
	n.Success("brand created")

	var table bytes.Buffer
	NewPrinterWithWriter(&table, FormatTable, false).Notice(n)
	assert.Equal(t, "✓ brand created\n", table.String())

	var structured bytes.Buffer
	NewPrinterWithWriter(&structured, FormatJSON, false).Notice(n)
	assert.Empty(t, structured.String())

	n.Error("could not delete brand")
	NewPrinterWithWriter(&structured, FormatJSON, false).Notice(n)
	assert.Equal(t, "✗ could not delete brand\n", structured.String())
}

func TestPageBar(t *testing.T) {
	assert.Equal(t, "Page 1 of 1  [1]", PageBar(nil, 1, 1))
	assert.Equal(t, "Page 1 of 2  [1] 2 »", PageBar([]int{1, 2}, 1, 2))
	assert.Equal(t, "Page 3 of 3  « 1 2 [3]", PageBar([]int{1, 2, 3}, 3, 3))
}
