// Package upload validates and stores a single uploaded image.
//
// Ingest never returns an error: every problem is reported as a Failure in
// the Result so callers can re-render a form with the rest of the submission
// intact.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
)

const (
	FieldName = "image"
	MaxSize   = 5 << 20

	maxNameAttempts = 3
)

type FailureKind string

const (
	NoFile      FailureKind = "no_file"
	TooLarge    FailureKind = "too_large"
	InvalidType FailureKind = "invalid_type"
	Storage     FailureKind = "storage"
)

type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Result is consumed once; exactly one of StoredFilename and Failure is set.
type Result struct {
	StoredFilename string
	Failure        *Failure
}

func (r Result) OK() bool { return r.Failure == nil && r.StoredFilename != "" }

func fail(kind FailureKind, msg string) Result {
	return Result{Failure: &Failure{Kind: kind, Message: msg}}
}

type Ingestor struct {
	Dir      string
	MaxBytes int64
	Now      func() time.Time
	// Rand returns a value in [0, 1e9].
	Rand func() int64
}

func New(dir string) *Ingestor {
	return &Ingestor{
		Dir:      dir,
		MaxBytes: MaxSize,
		Now:      time.Now,
		Rand:     func() int64 { return rand.Int63n(1_000_000_001) },
	}
}

// Ingest validates fh and writes it into the content directory. A nil fh
// yields a NoFile failure.
func (g *Ingestor) Ingest(ctx context.Context, fh *multipart.FileHeader) Result {
	l := logging.FromContext(ctx).With("component", "upload")

	if fh == nil {
		return fail(NoFile, "No file uploaded")
	}
	if fh.Size > g.MaxBytes {
		l.Warn("upload_rejected", "reason", "too large", "size", fh.Size, "filename", fh.Filename)
		return fail(TooLarge, "File too large")
	}
	if ct := fh.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		l.Warn("upload_rejected", "reason", "not an image", "content_type", ct, "filename", fh.Filename)
		return fail(InvalidType, "Only image files are allowed!")
	}

	src, err := fh.Open()
	if err != nil {
		l.Error("upload_failed", "reason", "cannot open part", "error", err)
		return fail(Storage, "Error uploading file")
	}
	defer src.Close()

	name, err := g.store(fh.Filename, src)
	if err != nil {
		var tooBig *Failure
		if errors.As(err, &tooBig) {
			l.Warn("upload_rejected", "reason", "too large", "filename", fh.Filename)
			return Result{Failure: tooBig}
		}
		l.Error("upload_failed", "reason", "cannot write file", "dir", g.Dir, "error", err)
		return fail(Storage, "Error uploading file")
	}

	l.Info("upload_stored", "stored_filename", name, "size", fh.Size)
	return Result{StoredFilename: name}
}

func (g *Ingestor) store(original string, src io.Reader) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", g.Dir, err)
	}

	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < maxNameAttempts; i++ {
		name = g.StoredName(original)
		f, err = os.OpenFile(filepath.Join(g.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, os.ErrExist) {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	n, err := io.Copy(f, io.LimitReader(src, g.MaxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > g.MaxBytes {
		err = &Failure{Kind: TooLarge, Message: "File too large"}
	}
	if err != nil {
		_ = os.Remove(filepath.Join(g.Dir, name))
		return "", err
	}
	return name, nil
}

// StoredName builds <unixMillis>-<random>-<sanitizedBase><.lowerExt>.
// Uniqueness is probabilistic: two names collide only when the clock and the
// random suffix both coincide.
func (g *Ingestor) StoredName(original string) string {
	base := filepath.Base(original)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}

	return fmt.Sprintf("%d-%d-%s%s", g.Now().UnixMilli(), g.Rand(), Sanitize(base), strings.ToLower(ext))
}

// Remove discards a stored file; a missing file is not an error.
func (g *Ingestor) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid stored filename %q", name)
	}
	err := os.Remove(filepath.Join(g.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Sanitize maps every character outside [A-Za-z0-9] to '-' and lower-cases
// the result.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
