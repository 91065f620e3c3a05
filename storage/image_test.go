package storage

import (
	"context"
	"direct-chat/errors"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Smallest valid PNG: signature plus IHDR, IDAT and IEND chunks of a 1x1 pixel.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func Test_Save_Data_URL(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store, err := NewDiskImageStore(dir, 1<<20, slog.Default())
	req.NoError(err)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(onePixelPNG)
	url, err := store.Save(context.Background(), payload)
	req.NoError(err)
	req.True(strings.HasPrefix(url, PublicPrefix))
	req.True(strings.HasSuffix(url, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, PublicPrefix)))
	req.NoError(err)
	req.Equal(onePixelPNG, written)
}

func Test_Save_Bare_Base64(t *testing.T) {
	req := require.New(t)
	store, err := NewDiskImageStore(t.TempDir(), 0, slog.Default())
	req.NoError(err)

	url, err := store.Save(context.Background(), base64.StdEncoding.EncodeToString(onePixelPNG))
	req.NoError(err)
	req.True(strings.HasSuffix(url, ".png"))
}

func Test_Save_Rejects_Invalid_Payloads(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir(), 16, slog.Default())
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"data url without base64 marker", "data:image/png," + base64.StdEncoding.EncodeToString(onePixelPNG)},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("plain text"))},
		{"too large", base64.StdEncoding.EncodeToString(onePixelPNG)},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), tt.payload)
			require.ErrorIs(t, err, errors.ErrInvalidImage)
		})
	}
}

func Test_Save_Leaves_No_Temporary_Files(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store, err := NewDiskImageStore(dir, 0, slog.Default())
	req.NoError(err)

	_, err = store.Save(context.Background(), base64.StdEncoding.EncodeToString(onePixelPNG))
	req.NoError(err)

	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Len(entries, 1)
	req.False(strings.HasPrefix(entries[0].Name(), ".upload-"))
}

func Test_Delete_Removes_Saved_Image(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	store, err := NewDiskImageStore(dir, 0, slog.Default())
	req.NoError(err)
	ctx := context.Background()

	// Given a saved image
	url, err := store.Save(ctx, base64.StdEncoding.EncodeToString(onePixelPNG))
	req.NoError(err)

	// When it is deleted twice
	req.NoError(store.Delete(ctx, url))
	req.NoError(store.Delete(ctx, url))

	// Then the directory is empty
	entries, err := os.ReadDir(dir)
	req.NoError(err)
	req.Empty(entries)
}

func Test_Delete_Rejects_Foreign_References(t *testing.T) {
	req := require.New(t)
	store, err := NewDiskImageStore(t.TempDir(), 0, slog.Default())
	req.NoError(err)

	for _, reference := range []string{"", "cat.png", PublicPrefix, PublicPrefix + "../secret.png"} {
		req.ErrorIs(store.Delete(context.Background(), reference), errors.ErrInvalidImage, reference)
	}
}
