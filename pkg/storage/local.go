package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// localDisk stores files under a root directory on the local filesystem.
// The server exposes the root at the /uploads URL prefix.
type localDisk struct {
	root    string
	baseURL string
}

func newLocalDisk(root, baseURL string) *localDisk {
	return &localDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *localDisk) Put(_ context.Context, path string, content []byte, _ string) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) Delete(_ context.Context, path string) error {
	full, err := d.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}

func (d *localDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(path, "/")
}

// resolve joins path under the root and refuses to escape it.
func (d *localDisk) resolve(path string) (string, error) {
	full := filepath.Join(d.root, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, filepath.Clean(d.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage/local: path %q escapes root", path)
	}
	return full, nil
}
