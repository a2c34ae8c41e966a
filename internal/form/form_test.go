package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brand struct {
	ID   string
	Name string
}

type recorder struct {
	created []brand
	updated map[string]brand
	err     error
}

func (r *recorder) Create(ctx context.Context, draft brand) (brand, error) {
	if r.err != nil {
		return brand{}, r.err
	}
	draft.ID = "b1"
	r.created = append(r.created, draft)
	return draft, nil
}

func (r *recorder) Update(ctx context.Context, id string, draft brand) (brand, error) {
	if r.err != nil {
		return brand{}, r.err
	}
	if r.updated == nil {
		r.updated = map[string]brand{}
	}
	draft.ID = id
	r.updated[id] = draft
	return draft, nil
}

func TestComposeAndSubmit(t *testing.T) {
	rec := &recorder{}
	f := New[brand]("brand", rec, nil)
	assert.Equal(t, Idle, f.State())

	f.Compose()
	assert.Equal(t, ComposingNew, f.State())
	assert.Equal(t, "New brand", f.Title())
	assert.Equal(t, "Create", f.SubmitLabel())

	f.SetDraft(brand{Name: "acme"})
	saved, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b1", saved.ID)
	assert.Len(t, rec.created, 1)

	assert.Equal(t, Idle, f.State())
	assert.Equal(t, brand{}, f.Draft())
}

func TestEditSubmitsUpdate(t *testing.T) {
	rec := &recorder{}
	f := New[brand]("category", rec, nil)

	f.Edit("c1", brand{ID: "c1", Name: "x"})
	assert.Equal(t, Editing, f.State())
	assert.Equal(t, "c1", f.EditingID())
	assert.Equal(t, "Update category", f.Title())
	assert.Equal(t, "Update", f.SubmitLabel())

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Contains(t, rec.updated, "c1")
	assert.Empty(t, rec.created)
	assert.Empty(t, f.EditingID())
}

func TestFailedSubmitKeepsDraft(t *testing.T) {
	rec := &recorder{err: errors.New("HTTP 500")}
	f := New[brand]("brand", rec, nil)

	f.Edit("b9", brand{ID: "b9", Name: "kept"})
	_, err := f.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, Editing, f.State())
	assert.Equal(t, "b9", f.EditingID())
	assert.Equal(t, "kept", f.Draft().Name)
}

func TestSendLeavesFormUntouched(t *testing.T) {
	rec := &recorder{}
	f := New[brand]("brand", rec, nil)

	f.Edit("b1", brand{ID: "b1", Name: "acme"})
	req := f.Request()
	assert.Equal(t, Request[brand]{ID: "b1", Draft: brand{ID: "b1", Name: "acme"}}, req)

	req.Draft.Name = "acme labs"
	saved, err := f.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "acme labs", saved.Name)
	assert.Equal(t, "acme labs", rec.updated["b1"].Name)

	assert.Equal(t, Editing, f.State(), "only Cancel resets the form")
	assert.Equal(t, "acme", f.Draft().Name)

	f.Compose()
	assert.Empty(t, f.Request().ID)
}

func TestCancel(t *testing.T) {
	f := New[brand]("brand", &recorder{}, func() brand { return brand{Name: "default"} })

	f.Edit("b1", brand{ID: "b1", Name: "acme"})
	f.Cancel()
	assert.Equal(t, Idle, f.State())
	assert.Equal(t, "default", f.Draft().Name)
}

func TestValidationBlocksSubmit(t *testing.T) {
	rec := &recorder{}
	f := New[brand]("brand", rec, nil).WithValidation(func(b brand) error {
		return Required(Field{Name: "name", Value: b.Name})
	})

	f.SetDraft(brand{Name: "  "})
	_, err := f.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"name"}, verr.Missing)
	assert.Empty(t, rec.created)
	assert.Equal(t, ComposingNew, f.State())
}

func TestRequired(t *testing.T) {
	assert.NoError(t, Required(Field{"name", "acme"}, Field{"nit", "900"}))

	err := Required(Field{"name", ""}, Field{"nit", "900"}, Field{"email", " "})
	require.Error(t, err)
	assert.Equal(t, "required: name, email", err.Error())
}
