package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_SaveOpen(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(filepath.Join(t.TempDir(), "pictures"))
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "Me.PNG")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o600))

	name, err := s.Save(ctx, src)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))

	rc, err := s.Open(ctx, name)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(b))

	other, err := s.Save(ctx, src)
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestFSStore_OpenMissingAndTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open(ctx, "nope.png")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = s.Open(ctx, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFSStore_SaveMissingSource(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
