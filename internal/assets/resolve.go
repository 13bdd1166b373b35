// Package assets reconciles stored image filenames with the files actually
// present in the content directory.
package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/Skotchmaster/shop_backoffice/internal/logging"
	"github.com/Skotchmaster/shop_backoffice/internal/models"
)

type Resolver struct {
	Dir       string
	URLPrefix string
}

func NewResolver(dir, urlPrefix string) *Resolver {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Resolver{Dir: dir, URLPrefix: urlPrefix}
}

// Snapshot lists regular files in the content directory. An unreadable
// directory yields an empty snapshot so listings still render.
func (r *Resolver) Snapshot(ctx context.Context) []string {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		logging.FromContext(ctx).Warn("asset_snapshot_failed", "dir", r.Dir, "error", err)
		return nil
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	return files
}

// Resolve maps product id -> public image path. Products whose image cannot
// be matched are absent from the result.
func (r *Resolver) Resolve(ctx context.Context, products []models.Product, files []string) map[string]string {
	l := logging.FromContext(ctx).With("component", "assets")

	onDisk := make(map[string]struct{}, len(files))
	for _, f := range files {
		onDisk[f] = struct{}{}
	}

	out := make(map[string]string, len(products))
	for _, p := range products {
		if p.Image == "" {
			continue
		}
		if _, ok := onDisk[p.Image]; ok {
			out[p.ID] = r.URLPrefix + p.Image
			continue
		}

		base := strings.TrimSuffix(p.Image, filepath.Ext(p.Image))
		if base == "" {
			continue
		}
		match := ""
		for _, f := range files {
			if strings.Contains(f, base) {
				match = f
				break
			}
		}
		if match == "" {
			l.Warn("asset_unresolved", "product_id", p.ID, "stored", p.Image)
			continue
		}
		// substring matches are a heuristic; a steady stream of these points at
		// a naming bug upstream
		l.Warn("asset_fallback_match", "product_id", p.ID, "stored", p.Image, "matched", match)
		out[p.ID] = r.URLPrefix + match
	}
	return out
}
