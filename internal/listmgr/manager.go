// Package listmgr provides the generic Entity List Manager: a client-side
// cache of one API collection with search, pagination and mutations that
// are reconciled only after the server accepted them.
package listmgr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
)

// Store is the remote collection a Manager caches. *api.Resource satisfies it.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft T) (T, error)
	// Update returns ok=false when the server accepted the change but sent
	// no record back.
	Update(ctx context.Context, id string, draft T) (T, bool, error)
	Delete(ctx context.Context, id string) error
}

// Options configures a Manager for one entity type
type Options[T any] struct {
	// Name is the singular entity name used in notifications, e.g. "brand"
	Name     string
	PageSize int
	// ID extracts the server-assigned id
	ID func(T) string
	// WithID returns a copy of the record carrying id
	WithID func(T, string) T
	// Match reports whether the record matches a lower-cased search term
	Match func(T, string) bool
	// Normalize rewrites a draft before it is sent (lower-casing)
	Normalize func(T) T
	Notifier  *notify.Notifier
	Logger    *logger.Logger
}

// Manager caches a server collection.
//
// The cache is NOT authoritative: it is replaced wholesale by Load and
// patched by one element after each successful mutation. Changes made by
// other clients are invisible until the next Load. When two mutations are
// in flight, the reconciliation of whichever response arrives last wins.
type Manager[T any] struct {
	store Store[T]
	opts  Options[T]

	mu    sync.RWMutex
	items []T
	term  string
	page  int
}

// New creates a Manager over store
func New[T any](store Store[T], opts Options[T]) *Manager[T] {
	if opts.PageSize < 1 {
		opts.PageSize = 1
	}
	if opts.Name == "" {
		opts.Name = "record"
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.New(notify.DefaultTTL)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Manager[T]{store: store, opts: opts, page: 1}
}

// Name returns the entity name
func (m *Manager[T]) Name() string {
	return m.opts.Name
}

// PageSize returns the number of records per page
func (m *Manager[T]) PageSize() int {
	return m.opts.PageSize
}

// Notifier returns the notifier the Manager reports to
func (m *Manager[T]) Notifier() *notify.Notifier {
	return m.opts.Notifier
}

// Load replaces the cached collection with the server's. On failure the
// previous collection is kept.
func (m *Manager[T]) Load(ctx context.Context) error {
	items, err := m.store.List(ctx)
	if err != nil {
		m.fail("load", err)
		return fmt.Errorf("failed to load %ss: %w", m.opts.Name, err)
	}

	m.mu.Lock()
	m.items = items
	m.page = clamp(m.page, m.totalPagesLocked())
	m.mu.Unlock()

	m.opts.Logger.Debug("loaded %d %ss", len(items), m.opts.Name)
	return nil
}

// Create sends a normalized draft and appends the record the server
// returns. On failure the collection is unchanged and the error is
// returned so the caller can keep the draft.
func (m *Manager[T]) Create(ctx context.Context, draft T) (T, error) {
	created, err := m.store.Create(ctx, m.normalize(draft))
	if err != nil {
		m.fail("create", err)
		var zero T
		return zero, fmt.Errorf("failed to create %s: %w", m.opts.Name, err)
	}

	m.mu.Lock()
	m.items = append(m.items, created)
	m.mu.Unlock()

	m.opts.Notifier.Success("%s created", m.opts.Name)
	return created, nil
}

// Update sends a normalized draft for id and replaces the cached record
// with the server's version. When the server sends no record back the
// normalized draft carrying id is cached instead. An id that is no longer
// cached is appended.
func (m *Manager[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	normalized := m.normalize(draft)

	updated, ok, err := m.store.Update(ctx, id, normalized)
	if err != nil {
		m.fail("update", err)
		var zero T
		return zero, fmt.Errorf("failed to update %s %s: %w", m.opts.Name, id, err)
	}
	if !ok {
		updated = normalized
		if m.opts.WithID != nil {
			updated = m.opts.WithID(normalized, id)
		}
	}

	m.mu.Lock()
	if i := m.indexLocked(id); i >= 0 {
		m.items[i] = updated
	} else {
		m.items = append(m.items, updated)
	}
	m.mu.Unlock()

	m.opts.Notifier.Success("%s updated", m.opts.Name)
	return updated, nil
}

// Put caches a record the server accepted through another path,
// replacing the cached record with the same id or appending it
func (m *Manager[T]) Put(record T) {
	id := m.opts.ID(record)

	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexLocked(id); i >= 0 {
		m.items[i] = record
		return
	}
	m.items = append(m.items, record)
}

// Remove deletes id on the server and drops it from the cache. On failure
// the record stays.
func (m *Manager[T]) Remove(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		m.fail("delete", err)
		return fmt.Errorf("failed to delete %s %s: %w", m.opts.Name, id, err)
	}

	m.mu.Lock()
	kept := m.items[:0:0]
	for _, item := range m.items {
		if m.opts.ID(item) != id {
			kept = append(kept, item)
		}
	}
	m.items = kept
	m.page = clamp(m.page, m.totalPagesLocked())
	m.mu.Unlock()

	m.opts.Notifier.Success("%s deleted", m.opts.Name)
	return nil
}

// Search sets the search term and goes back to the first page
func (m *Manager[T]) Search(term string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.term = term
	m.page = 1
}

// Term returns the current search term
func (m *Manager[T]) Term() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.term
}

// SetPage moves to page n, clamped to [1, TotalPages]
func (m *Manager[T]) SetPage(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page = clamp(n, m.totalPagesLocked())
}

// Page returns the current 1-based page
func (m *Manager[T]) Page() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clamp(m.page, m.totalPagesLocked())
}

// TotalPages is max(1, ceil(len(Filtered)/PageSize))
func (m *Manager[T]) TotalPages() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPagesLocked()
}

// Filtered returns the cached records matching the search term
func (m *Manager[T]) Filtered() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filteredLocked()
}

// Visible returns the records on the current page
func (m *Manager[T]) Visible() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filtered := m.filteredLocked()
	page := clamp(m.page, pages(len(filtered), m.opts.PageSize))
	start := (page - 1) * m.opts.PageSize
	end := start + m.opts.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// Items returns a copy of the whole cache
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// Len returns the number of cached records
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Find returns the cached record with the given id
func (m *Manager[T]) Find(id string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexLocked(id); i >= 0 {
		return m.items[i], true
	}
	var zero T
	return zero, false
}

// PageWindow returns up to max page numbers around the current page,
// shifted to stay within [1, TotalPages]
func (m *Manager[T]) PageWindow(max int) []int {
	if max < 1 {
		return nil
	}
	page, total := m.Page(), m.TotalPages()

	start := page - max/2
	if start+max-1 > total {
		start = total - max + 1
	}
	if start < 1 {
		start = 1
	}

	var window []int
	for p := start; p <= total && len(window) < max; p++ {
		window = append(window, p)
	}
	return window
}

func (m *Manager[T]) normalize(draft T) T {
	if m.opts.Normalize == nil {
		return draft
	}
	return m.opts.Normalize(draft)
}

func (m *Manager[T]) fail(op string, err error) {
	m.opts.Logger.Warn("%s %s failed: %v", op, m.opts.Name, err)
	if errors.Is(err, context.Canceled) {
		return
	}
	m.opts.Notifier.Error("could not %s %s: %s", op, m.opts.Name, api.Message(err))
}

func (m *Manager[T]) filteredLocked() []T {
	term := strings.ToLower(strings.TrimSpace(m.term))
	if term == "" || m.opts.Match == nil {
		return append([]T(nil), m.items...)
	}

	var out []T
	for _, item := range m.items {
		if m.opts.Match(item, term) {
			out = append(out, item)
		}
	}
	return out
}

func (m *Manager[T]) totalPagesLocked() int {
	return pages(len(m.filteredLocked()), m.opts.PageSize)
}

func (m *Manager[T]) indexLocked(id string) int {
	for i, item := range m.items {
		if m.opts.ID(item) == id {
			return i
		}
	}
	return -1
}

func pages(n, size int) int {
	total := (n + size - 1) / size
	if total < 1 {
		return 1
	}
	return total
}

func clamp(n, total int) int {
	if n < 1 {
		return 1
	}
	if n > total {
		return total
	}
	return n
}

// ContainsFold reports whether any of fields contains the lower-cased term
func ContainsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
