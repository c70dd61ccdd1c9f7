package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Local writes uploads under a directory served by the HTTP server at baseURL.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir is the root directory files are written to.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	full := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		return "", err
	}
	return l.baseURL + "/" + key, nil
}
