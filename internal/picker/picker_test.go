package picker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medsupply/catadmin/internal/api"
)

var brands = []api.Ref{
	{ID: "b1", Name: "Acme"},
	{ID: "b2", Name: "Bayer"},
	{ID: "b3", Name: "acme labs"},
}

func TestCandidatesFilterAndExclude(t *testing.T) {
	p := New(brands)

	p.Filter("ACME")
	assert.Equal(t, []api.Ref{brands[0], brands[2]}, p.Candidates())

	p.Select(brands[0])
	assert.Empty(t, p.FilterText())
	assert.Equal(t, []api.Ref{{ID: "b1", Name: "acme"}}, p.Selected())

	p.Filter("acme")
	assert.Equal(t, []api.Ref{brands[2]}, p.Candidates())
}

func TestSelectTwiceIsNoop(t *testing.T) {
	p := New(brands)
	p.Select(brands[1])
	p.Select(brands[1])
	assert.Len(t, p.Selected(), 1)
}

func TestRemove(t *testing.T) {
	p := New(brands, api.Ref{ID: "b1", Name: "acme"}, api.Ref{ID: "b2", Name: "bayer"})

	p.Remove("b1")
	assert.Equal(t, []api.Ref{{ID: "b2", Name: "bayer"}}, p.Selected())
	assert.False(t, p.IsSelected("b1"))
	assert.Len(t, p.Candidates(), 2)
}

func TestSingleReplacesSelection(t *testing.T) {
	p := NewSingle(brands, &api.Ref{ID: "b1", Name: "acme"})

	assert.True(t, p.SelectID("b2"))
	one, ok := p.SelectedOne()
	assert.True(t, ok)
	assert.Equal(t, api.Ref{ID: "b2", Name: "bayer"}, one)
	assert.False(t, p.SelectID("missing"))
}
