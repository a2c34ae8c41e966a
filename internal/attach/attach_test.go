package attach

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsupply/catadmin/internal/api"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, content, 0o600))
	return p
}

func TestEncode(t *testing.T) {
	p := writeFile(t, "photo.png", []byte("not really a png"))

	payload, err := Encode(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "photo.png", payload.FileName)

	decoded, err := base64.StdEncoding.DecodeString(payload.FileContent)
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(decoded))
}

func TestEncodeMissingFile(t *testing.T) {
	_, err := Encode(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Encode(ctx, "whatever")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckPDF(t *testing.T) {
	pdf := writeFile(t, "registry.pdf", []byte("%PDF-1.4\n1 0 obj\n"))
	assert.NoError(t, CheckPDF(pdf))

	fake := writeFile(t, "fake.pdf", []byte("hello world"))
	assert.ErrorIs(t, CheckPDF(fake), ErrNotPDF)

	wrongExt := writeFile(t, "registry.txt", []byte("%PDF-1.4\n"))
	assert.ErrorIs(t, CheckPDF(wrongExt), ErrNotPDF)

	_, err := EncodePDF(context.Background(), fake)
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "img1.png", NameFromURL("https://files.example.com/products/img1.png"))
	assert.Equal(t, "sheet.pdf", NameFromURL("https://files.example.com/sheet.pdf?sig=abc"))
	assert.Equal(t, "plain.png", NameFromURL("plain.png"))
}

func TestSetPayloads(t *testing.T) {
	s := NewSet([]string{"https://files/a.png", "https://files/b.png"})
	newFile := writeFile(t, "c.png", []byte("c"))
	other := writeFile(t, "d.png", []byte("d"))

	require.NoError(t, s.Add(newFile))
	require.NoError(t, s.Add(other))
	require.NoError(t, s.DeleteExisting(0))
	require.NoError(t, s.DeleteNew(1))

	assert.Len(t, s.Pending(), 1)
	assert.True(t, s.Existing()[0].Deleted)

	payloads, err := s.Payloads(context.Background())
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, api.FilePayload{FileName: "b.png", FileContent: "https://files/b.png"}, payloads[0])
	assert.Equal(t, "c.png", payloads[1].FileName)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("c")), payloads[1].FileContent)
}

func TestSetIndexErrors(t *testing.T) {
	s := NewSet(nil)
	assert.Error(t, s.DeleteExisting(0))
	assert.Error(t, s.DeleteNew(0))
	assert.Error(t, s.Add(t.TempDir()))
	assert.Error(t, s.DeleteURL("x.png"))

	payloads, err := s.Payloads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestSlot(t *testing.T) {
	ctx := context.Background()

	s := NewSlot("https://files/sheet.pdf")
	assert.Equal(t, SlotURL, s.Kind())
	p, err := s.Payload(ctx)
	require.NoError(t, err)
	assert.Equal(t, &api.FilePayload{FileName: "sheet.pdf", FileContent: "https://files/sheet.pdf"}, p)

	file := writeFile(t, "new.pdf", []byte("%PDF-1.7"))
	require.NoError(t, s.SetFile(file))
	assert.Equal(t, "new.pdf (new)", s.Describe())
	p, err = s.Payload(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", p.FileName)

	s.Delete()
	p, err = s.Payload(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = NewSlot("").Payload(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
}
