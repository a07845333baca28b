package sitesource

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a source has no object for the key.
var ErrNotFound = errors.New("sitesource: not found")

// Source fetches raw site files by key. Keys are relative paths with
// no leading slash, e.g. "index.html" or "docs/install.html".
type Source interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Page resolves a URL path against src the way a static file server
// would: the path itself, then path + ".html", then the directory
// index. Returns ErrNotFound when no candidate exists.
func Page(ctx context.Context, src Source, path string) ([]byte, error) {
	for _, key := range candidates(path) {
		data, err := src.Get(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

func candidates(path string) []string {
	key := strings.TrimPrefix(path, "/")
	if key == "" {
		return []string{"index.html"}
	}
	if strings.HasSuffix(key, "/") {
		return []string{key + "index.html"}
	}
	if strings.HasSuffix(key, ".html") {
		return []string{key}
	}
	return []string{key, key + ".html", key + "/index.html"}
}
