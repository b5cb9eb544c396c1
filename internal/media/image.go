package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
)

// DefaultExtensions lists the file extensions treated as images when the
// configuration does not override them.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".heic"}

// Image is a single image asset in the library. Pixel data is never loaded;
// consumers open Path themselves.
type Image struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Format  string    `json:"format"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modified"`
}

// NewImage builds an Image for path. The ID is stable for a given absolute path.
func NewImage(path string, size int64, modTime time.Time) *Image {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Image{
		ID:      assetID(abs),
		Path:    abs,
		Name:    filepath.Base(abs),
		Format:  strings.TrimPrefix(strings.ToLower(filepath.Ext(abs)), "."),
		Size:    size,
		ModTime: modTime,
	}
}

// HumanSize returns the size in a readable form like "1.2 MB".
func (i *Image) HumanSize() string {
	if i.Size <= 0 {
		return "—"
	}
	return humanize.Bytes(uint64(i.Size))
}

// Age returns a relative modification time like "3 hours ago".
func (i *Image) Age() string {
	if i.ModTime.IsZero() {
		return "—"
	}
	return humanize.Time(i.ModTime)
}

func assetID(path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(path))
}

// IsImage reports whether path has one of the given extensions.
// Comparison is case-insensitive.
func IsImage(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
