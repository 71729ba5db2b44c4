package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const publicHost = "https://storage.googleapis.com"

// GCS stores blobs in one Cloud Storage bucket. With SignedURLTTL set, URL
// returns V4 signed links; otherwise objects are assumed publicly readable.
type GCS struct {
	Client       *storage.Client
	Bucket       string
	SignedURLTTL time.Duration
}

func NewGCS(client *storage.Client, bucket string, signedURLTTL time.Duration) *GCS {
	return &GCS{Client: client, Bucket: strings.TrimSpace(bucket), SignedURLTTL: signedURLTTL}
}

func (g *GCS) Upload(ctx context.Context, key string, data []byte, contentType string) (Ref, error) {
	if g.Client == nil {
		return Ref{}, errors.New("gcs: nil storage client")
	}

	w := g.Client.Bucket(g.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "private, max-age=0"

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return Ref{}, fmt.Errorf("gcs write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Ref{}, fmt.Errorf("gcs close %s: %w", key, err)
	}
	return Ref{Bucket: g.Bucket, Key: key}, nil
}

func (g *GCS) URL(ctx context.Context, ref Ref) (string, error) {
	bucket := ref.Bucket
	if bucket == "" {
		bucket = g.Bucket
	}

	if g.SignedURLTTL > 0 {
		u, err := g.Client.Bucket(bucket).SignedURL(ref.Key, &storage.SignedURLOptions{
			Method:  "GET",
			Expires: time.Now().Add(g.SignedURLTTL),
			Scheme:  storage.SigningSchemeV4,
		})
		if err != nil {
			return "", fmt.Errorf("gcs sign %s: %w", ref.Key, err)
		}
		return u, nil
	}

	if _, err := g.Client.Bucket(bucket).Object(ref.Key).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", fmt.Errorf("gcs %s: %w", ref.Key, ErrNotFound)
		}
		return "", fmt.Errorf("gcs attrs %s: %w", ref.Key, err)
	}
	return publicURL(bucket, ref.Key), nil
}

func publicURL(bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/%s/%s", publicHost, bucket, strings.Join(parts, "/"))
}
