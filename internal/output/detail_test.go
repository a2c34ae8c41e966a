package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsupply/catadmin/internal/api"
)

func sampleProduct() *api.Product {
	return &api.Product{
		ID:             "p1",
		GenericName:    "gasa esteril",
		CommercialName: "gaza plus",
		Description:    strings.Repeat("word ", 40),
		Status:         true,
		Brand:          &api.Ref{ID: "b1", Name: "acme"},
		SanitaryRegistry: &api.SanitaryRegistry{
			NumberRegistry: "invima 2020dm-1",
			ExpirationDate: "2030-01-01",
			Status:         "vigente",
		},
		Characteristics: []api.Characteristic{{Characteristic: "size", Description: "10x10"}},
		Providers:       []api.Provider{{Name: "distrimed", Phone: "300"}},
		Images:          []string{"https://files/a.png"},
	}
}

func TestWriteProductTruncates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProduct(&buf, sampleProduct(), false))

	out := buf.String()
	assert.Contains(t, out, "Gasa Esteril")
	assert.Regexp(t, `Brand:\s+Acme`, out)
	assert.Contains(t, out, "INVIMA 2020DM-1")
	assert.Contains(t, out, "Distrimed (300)")
	assert.Contains(t, out, "Images: 1")
	assert.Contains(t, out, "word...")
	assert.Equal(t, 30, strings.Count(strings.ToLower(out), "word"))
}

func TestWriteProductExpanded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProduct(&buf, sampleProduct(), true))
	assert.Equal(t, 40, strings.Count(strings.ToLower(buf.String()), "word"))
}

func TestWriteProductRecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	err := WriteProduct(&buf, nil, false)
	require.ErrorIs(t, err, ErrRender)
	assert.Empty(t, buf.String())
}
