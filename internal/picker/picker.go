// Package picker implements the association picker used by forms to attach
// references to other records (a provider's brands, a product's brand).
package picker

import (
	"strings"

	"github.com/medsupply/catadmin/internal/api"
)

// Picker filters a fixed candidate list and tracks the selected references.
// Candidates are loaded once when the form opens and are read-only.
type Picker struct {
	candidates []api.Ref
	selected   []api.Ref
	filter     string
	single     bool
}

// New creates a multi-select picker
func New(candidates []api.Ref, selected ...api.Ref) *Picker {
	return &Picker{
		candidates: candidates,
		selected:   append([]api.Ref(nil), selected...),
	}
}

// NewSingle creates a picker that holds at most one reference
func NewSingle(candidates []api.Ref, selected *api.Ref) *Picker {
	p := &Picker{candidates: candidates, single: true}
	if selected != nil && selected.ID != "" {
		p.selected = []api.Ref{*selected}
	}
	return p
}

// Filter sets the filter text
func (p *Picker) Filter(text string) {
	p.filter = text
}

// FilterText returns the filter text
func (p *Picker) FilterText() string {
	return p.filter
}

// Candidates returns the candidates whose name contains the filter text,
// excluding those already selected
func (p *Picker) Candidates() []api.Ref {
	term := strings.ToLower(strings.TrimSpace(p.filter))

	var out []api.Ref
	for _, c := range p.candidates {
		if p.IsSelected(c.ID) {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(c.Name), term) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Select adds ref with its display name lower-cased and clears the filter.
// A single picker replaces its current selection. Selecting an already
// selected id is a no-op.
func (p *Picker) Select(ref api.Ref) {
	p.filter = ""
	if p.IsSelected(ref.ID) {
		return
	}
	ref.Name = strings.ToLower(ref.Name)
	if p.single {
		p.selected = []api.Ref{ref}
		return
	}
	p.selected = append(p.selected, ref)
}

// SelectID selects the candidate with the given id
func (p *Picker) SelectID(id string) bool {
	for _, c := range p.candidates {
		if c.ID == id {
			p.Select(c)
			return true
		}
	}
	return false
}

// Remove drops the selected reference with the given id
func (p *Picker) Remove(id string) {
	kept := p.selected[:0]
	for _, s := range p.selected {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	p.selected = kept
}

// IsSelected reports whether id is selected
func (p *Picker) IsSelected(id string) bool {
	for _, s := range p.selected {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Selected returns a copy of the selected references
func (p *Picker) Selected() []api.Ref {
	return append([]api.Ref(nil), p.selected...)
}

// SelectedOne returns the selection of a single picker
func (p *Picker) SelectedOne() (api.Ref, bool) {
	if len(p.selected) == 0 {
		return api.Ref{}, false
	}
	return p.selected[0], true
}
