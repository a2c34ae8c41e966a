// Package form implements the draft lifecycle shared by every entity form:
// idle, composing a new record, or editing an existing one.
package form

import (
	"context"
	"fmt"
	"strings"
)

// State of a form
type State int

const (
	Idle State = iota
	ComposingNew
	Editing
)

func (s State) String() string {
	switch s {
	case ComposingNew:
		return "new"
	case Editing:
		return "editing"
	default:
		return "idle"
	}
}

// Submitter persists drafts. *listmgr.Manager satisfies it.
type Submitter[T any] interface {
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, draft T) (T, error)
}

// Form holds one draft and knows whether it is a new record or an edit
type Form[T any] struct {
	noun     string
	submit   Submitter[T]
	empty    func() T
	validate func(T) error

	state State
	id    string
	draft T
}

// New creates an idle form. empty builds the blank draft; it may be nil
// when the zero value of T is blank.
func New[T any](noun string, submit Submitter[T], empty func() T) *Form[T] {
	if empty == nil {
		empty = func() T {
			var zero T
			return zero
		}
	}
	return &Form[T]{noun: noun, submit: submit, empty: empty, draft: empty()}
}

// WithValidation sets a check run before every submit
func (f *Form[T]) WithValidation(validate func(T) error) *Form[T] {
	f.validate = validate
	return f
}

// Compose starts a new record with a blank draft
func (f *Form[T]) Compose() {
	f.state = ComposingNew
	f.id = ""
	f.draft = f.empty()
}

// Edit loads a copy of an existing record and remembers its id
func (f *Form[T]) Edit(id string, record T) {
	f.state = Editing
	f.id = id
	f.draft = record
}

// Draft returns the current draft
func (f *Form[T]) Draft() T {
	return f.draft
}

// SetDraft replaces the draft. An idle form starts composing.
func (f *Form[T]) SetDraft(draft T) {
	if f.state == Idle {
		f.state = ComposingNew
	}
	f.draft = draft
}

// State returns the lifecycle state
func (f *Form[T]) State() State {
	return f.state
}

// EditingID returns the id being edited, or "" when not editing
func (f *Form[T]) EditingID() string {
	return f.id
}

// Title is the heading for the form
func (f *Form[T]) Title() string {
	if f.state == Editing {
		return "Update " + f.noun
	}
	return "New " + f.noun
}

// SubmitLabel is the text for the submit action
func (f *Form[T]) SubmitLabel() string {
	if f.state == Editing {
		return "Update"
	}
	return "Create"
}

// Request is a snapshot of one submit. It does not refer back to the
// form, so it can be sent from another goroutine.
type Request[T any] struct {
	// ID is the edited record, "" for a new one
	ID    string
	Draft T
}

// Request snapshots the draft and the edited id
func (f *Form[T]) Request() Request[T] {
	r := Request[T]{Draft: f.draft}
	if f.state == Editing {
		r.ID = f.id
	}
	return r
}

// Send validates r and creates or updates the record. The form itself is
// not touched; the caller resets it with Cancel once the save succeeded.
func (f *Form[T]) Send(ctx context.Context, r Request[T]) (T, error) {
	var zero T
	if f.validate != nil {
		if err := f.validate(r.Draft); err != nil {
			return zero, err
		}
	}
	if r.ID != "" {
		return f.submit.Update(ctx, r.ID, r.Draft)
	}
	return f.submit.Create(ctx, r.Draft)
}

// Submit creates or updates depending on the state. On success the form
// is reset; on failure the draft and the edited id are kept.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	saved, err := f.Send(ctx, f.Request())
	if err != nil {
		var zero T
		return zero, err
	}
	f.Cancel()
	return saved, nil
}

// Cancel drops the draft and returns to idle
func (f *Form[T]) Cancel() {
	f.state = Idle
	f.id = ""
	f.draft = f.empty()
}

// Field is a named form value for required-field checks
type Field struct {
	Name  string
	Value string
}

// ValidationError lists the required fields that are blank
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required: %s", strings.Join(e.Missing, ", "))
}

// Required returns a *ValidationError when any field is blank
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
