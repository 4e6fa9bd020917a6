// Package blobstore keeps profile pictures outside the relational store.
// Accounts only hold the opaque name a Store returns.
package blobstore

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves a local file under a fresh name and reads it back by name.
type Store interface {
	Save(ctx context.Context, srcPath string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// newName keeps the source extension so viewers can infer the image type.
func newName(srcPath string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(srcPath))
}
