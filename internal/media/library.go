package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmptyLibrary is returned by pickers that have nothing to offer.
var ErrEmptyLibrary = errors.New("no images found")

// Source provides the assets a picker offers.
// Library implements this interface. Tests can provide mock implementations.
type Source interface {
	Scan(ctx context.Context) ([]*Image, error)
	Dir() string
}

// Library is a directory of image files.
type Library struct {
	Root       string
	Recursive  bool
	Extensions []string
}

var _ Source = (*Library)(nil)

// Dir returns the library root.
func (l *Library) Dir() string {
	if l.Root == "" {
		return "."
	}
	return l.Root
}

func (l *Library) extensions() []string {
	if len(l.Extensions) == 0 {
		return DefaultExtensions
	}
	return l.Extensions
}

// Contains reports whether path is an image that belongs to the library.
func (l *Library) Contains(path string) bool {
	if !IsImage(path, l.extensions()) {
		return false
	}
	root, err := filepath.Abs(l.Dir())
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	if !l.Recursive && filepath.Dir(rel) != "." {
		return false
	}
	return true
}

// Scan lists the images in the library, newest first.
// Hidden files and directories are skipped.
func (l *Library) Scan(ctx context.Context) ([]*Image, error) {
	root := l.Dir()
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	exts := l.extensions()
	var images []*Image

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the root itself was checked above
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !l.Recursive || isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if isHidden(d.Name()) || !d.Type().IsRegular() || !IsImage(path, exts) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		images = append(images, NewImage(path, fi.Size(), fi.ModTime()))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	SortNewestFirst(images)
	return images, nil
}

// SortNewestFirst orders images by modification time, newest first,
// breaking ties by name.
func SortNewestFirst(images []*Image) {
	sort.SliceStable(images, func(i, j int) bool {
		a, b := images[i], images[j]
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
		return a.Name < b.Name
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
