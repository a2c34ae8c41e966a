// Package attach turns files chosen on disk into the base64 payloads the
// API accepts, and tracks which persisted attachments a product keeps.
package attach

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/medsupply/catadmin/internal/api"
)

// ErrNotPDF is returned when a PDF-only upload gets another kind of file
var ErrNotPDF = errors.New("file is not a PDF")

// Encode reads the file at p and returns it as a base64 payload named after
// its base name. The file is closed before Encode returns.
func Encode(ctx context.Context, p string) (api.FilePayload, error) {
	if err := ctx.Err(); err != nil {
		return api.FilePayload{}, err
	}

	f, err := os.Open(p)
	if err != nil {
		return api.FilePayload{}, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	var sb strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := io.Copy(enc, f); err != nil {
		return api.FilePayload{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	if err := enc.Close(); err != nil {
		return api.FilePayload{}, fmt.Errorf("failed to encode %s: %w", p, err)
	}

	return api.FilePayload{FileName: filepath.Base(p), FileContent: sb.String()}, nil
}

// EncodePDF is Encode for uploads that must be PDF documents
func EncodePDF(ctx context.Context, p string) (api.FilePayload, error) {
	if err := CheckPDF(p); err != nil {
		return api.FilePayload{}, err
	}
	return Encode(ctx, p)
}

// CheckPDF verifies the extension and the sniffed content type of p
func CheckPDF(p string) error {
	if !strings.EqualFold(filepath.Ext(p), ".pdf") {
		return fmt.Errorf("%s: %w", p, ErrNotPDF)
	}

	f, err := os.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read %s: %w", p, err)
	}
	if http.DetectContentType(head[:n]) != "application/pdf" {
		return fmt.Errorf("%s: %w", p, ErrNotPDF)
	}
	return nil
}

// NameFromURL returns the last path segment of a persisted file URL
func NameFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		raw = u.Path
	}
	return path.Base(strings.TrimRight(raw, "/"))
}

// Existing is a persisted attachment referenced by URL
type Existing struct {
	URL     string
	Deleted bool
}

// Set is a product's image list: persisted references plus new files
// waiting to be uploaded
type Set struct {
	existing []Existing
	pending  []string
}

// NewSet starts from the URLs the product already has
func NewSet(urls []string) *Set {
	s := &Set{}
	for _, u := range urls {
		if u != "" {
			s.existing = append(s.existing, Existing{URL: u})
		}
	}
	return s
}

// Add queues a new file for upload
func (s *Set) Add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", p, err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to add %s: is a directory", p)
	}
	s.pending = append(s.pending, p)
	return nil
}

// DeleteExisting marks the i-th persisted reference for removal.
// Pending files are not affected.
func (s *Set) DeleteExisting(i int) error {
	if i < 0 || i >= len(s.existing) {
		return fmt.Errorf("no existing attachment at index %d", i)
	}
	s.existing[i].Deleted = true
	return nil
}

// DeleteURL marks the persisted reference with the given URL or file name
func (s *Set) DeleteURL(ref string) error {
	for i, e := range s.existing {
		if e.URL == ref || NameFromURL(e.URL) == ref {
			s.existing[i].Deleted = true
			return nil
		}
	}
	return fmt.Errorf("no existing attachment %q", ref)
}

// DeleteNew drops the i-th pending file
func (s *Set) DeleteNew(i int) error {
	if i < 0 || i >= len(s.pending) {
		return fmt.Errorf("no new attachment at index %d", i)
	}
	s.pending = append(s.pending[:i], s.pending[i+1:]...)
	return nil
}

// Existing returns the persisted references with their deleted marks
func (s *Set) Existing() []Existing {
	return append([]Existing(nil), s.existing...)
}

// Pending returns the queued file paths
func (s *Set) Pending() []string {
	return append([]string(nil), s.pending...)
}

// Payloads builds the upload list: kept references pass through by URL,
// pending files are encoded
func (s *Set) Payloads(ctx context.Context) ([]api.FilePayload, error) {
	out := []api.FilePayload{}
	for _, e := range s.existing {
		if e.Deleted {
			continue
		}
		out = append(out, api.FilePayload{FileName: NameFromURL(e.URL), FileContent: e.URL})
	}
	for _, p := range s.pending {
		payload, err := Encode(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, nil
}

// SlotKind is what a single-file slot currently holds
type SlotKind int

const (
	SlotEmpty SlotKind = iota
	SlotURL
	SlotFile
	SlotDeleted
)

// Slot is a single attachment such as the technical sheet: a new file, a
// persisted URL, or an explicit deletion
type Slot struct {
	kind SlotKind
	url  string
	path string
}

// NewSlot starts from a persisted URL, or empty when url is ""
func NewSlot(url string) *Slot {
	if url == "" {
		return &Slot{}
	}
	return &Slot{kind: SlotURL, url: url}
}

// Kind returns what the slot holds
func (s *Slot) Kind() SlotKind {
	return s.kind
}

// SetFile replaces the slot content with a new file
func (s *Slot) SetFile(p string) error {
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("failed to set %s: %w", p, err)
	}
	s.kind = SlotFile
	s.path = p
	return nil
}

// Delete marks the slot as removed
func (s *Slot) Delete() {
	s.kind = SlotDeleted
	s.path = ""
}

// Describe returns a short label for display
func (s *Slot) Describe() string {
	switch s.kind {
	case SlotURL:
		return NameFromURL(s.url)
	case SlotFile:
		return filepath.Base(s.path) + " (new)"
	case SlotDeleted:
		return "(removed)"
	default:
		return "(none)"
	}
}

// Payload returns the slot's upload, or nil when it is empty or deleted
func (s *Slot) Payload(ctx context.Context) (*api.FilePayload, error) {
	switch s.kind {
	case SlotURL:
		return &api.FilePayload{FileName: NameFromURL(s.url), FileContent: s.url}, nil
	case SlotFile:
		payload, err := Encode(ctx, s.path)
		if err != nil {
			return nil, err
		}
		return &payload, nil
	default:
		return nil, nil
	}
}
