package blobstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Ref locates an uploaded blob.
type Ref struct {
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key"`
}

type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (Ref, error)
	URL(ctx context.Context, ref Ref) (string, error)
}
