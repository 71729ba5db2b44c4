package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Disk writes blobs under Root and serves them from BaseURL.
type Disk struct {
	Root    string
	BaseURL string
}

func NewDisk(root, baseURL string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (d *Disk) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(d.Root, clean), nil
}

func (d *Disk) Upload(_ context.Context, key string, data []byte, _ string) (Ref, error) {
	p, err := d.path(key)
	if err != nil {
		return Ref{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Ref{}, fmt.Errorf("mkdir for %s: %w", key, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return Ref{}, fmt.Errorf("write %s: %w", key, err)
	}
	return Ref{Key: key}, nil
}

func (d *Disk) URL(_ context.Context, ref Ref) (string, error) {
	p, err := d.path(ref.Key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", ref.Key, ErrNotFound)
		}
		return "", err
	}

	parts := strings.Split(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+ref.Key)), "/"), "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return d.BaseURL + "/" + strings.Join(parts, "/"), nil
}
