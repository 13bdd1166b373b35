package upload

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FieldName, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File[FieldName], 1)
	return form.File[FieldName][0]
}

func fixedIngestor(dir string, ms int64, rands ...int64) *Ingestor {
	g := New(dir)
	g.Now = func() time.Time { return time.UnixMilli(ms) }
	i := 0
	g.Rand = func() int64 {
		v := rands[i%len(rands)]
		i++
		return v
	}
	return g
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "my-photo--1-", Sanitize("My Photo (1)"))
	assert.Equal(t, "abc123", Sanitize("ABC123"))
	assert.Equal(t, "caf-", Sanitize("café"))
	assert.Equal(t, "", Sanitize(""))
}

func TestStoredName_Format(t *testing.T) {
	t.Parallel()

	g := fixedIngestor(t.TempDir(), 1700000000123, 42)
	assert.Equal(t, "1700000000123-42-my-lamp.png", g.StoredName("My Lamp.PNG"))
	assert.Equal(t, "1700000000123-42-readme", g.StoredName("README"))
	assert.Equal(t, "1700000000123-42-archive-tar.gz", g.StoredName("archive.tar.GZ"))
	assert.Equal(t, "1700000000123-42-shot.jp_g", g.StoredName("Shot.JP_G"), "extension is only lower-cased")

	live := New(t.TempDir())
	assert.Regexp(t, regexp.MustCompile(`^\d{13}-\d{1,10}-lamp\.png$`), live.StoredName("lamp.png"))
}

func TestIngest_SameMillisecondSameNameIsDistinct(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := fixedIngestor(dir, 1700000000000, 111111111, 222222222)
	ctx := context.Background()

	first := g.Ingest(ctx, fileHeader(t, "lamp.png", "image/png", []byte("one")))
	second := g.Ingest(ctx, fileHeader(t, "lamp.png", "image/png", []byte("two")))

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.NotEqual(t, first.StoredFilename, second.StoredFilename)

	b, err := os.ReadFile(filepath.Join(dir, first.StoredFilename))
	require.NoError(t, err)
	assert.Equal(t, "one", string(b))
}

func TestIngest_RetriesWhenNameTaken(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := fixedIngestor(dir, 1700000000000, 7, 7, 8)
	ctx := context.Background()

	first := g.Ingest(ctx, fileHeader(t, "a.png", "image/png", []byte("1")))
	second := g.Ingest(ctx, fileHeader(t, "a.png", "image/png", []byte("2")))

	require.True(t, first.OK())
	require.True(t, second.OK())
	assert.Equal(t, "1700000000000-7-a.png", first.StoredFilename)
	assert.Equal(t, "1700000000000-8-a.png", second.StoredFilename)
}

func TestIngest_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("no file", func(t *testing.T) {
		t.Parallel()
		res := New(t.TempDir()).Ingest(ctx, nil)
		require.False(t, res.OK())
		assert.Equal(t, NoFile, res.Failure.Kind)
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		res := New(dir).Ingest(ctx, fileHeader(t, "notes.txt", "text/plain", []byte("hi")))
		require.False(t, res.OK())
		assert.Equal(t, InvalidType, res.Failure.Kind)
		assert.Equal(t, "Only image files are allowed!", res.Failure.Message)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		g := New(t.TempDir())
		g.MaxBytes = 8
		res := g.Ingest(ctx, fileHeader(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 16)))
		require.False(t, res.OK())
		assert.Equal(t, TooLarge, res.Failure.Kind)
	})

	t.Run("storage fault", func(t *testing.T) {
		t.Parallel()
		blocker := filepath.Join(t.TempDir(), "not-a-dir")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		res := New(blocker).Ingest(ctx, fileHeader(t, "a.png", "image/png", []byte("x")))
		require.False(t, res.OK())
		assert.Equal(t, Storage, res.Failure.Kind)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := New(dir)
	res := g.Ingest(context.Background(), fileHeader(t, "a.png", "image/png", []byte("x")))
	require.True(t, res.OK())

	require.NoError(t, g.Remove(res.StoredFilename))
	_, err := os.Stat(filepath.Join(dir, res.StoredFilename))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, g.Remove(res.StoredFilename))
	require.Error(t, g.Remove("../etc/passwd"))
}
