package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	url, err := s.Upload(context.Background(), "leases/l1/agreement.pdf", strings.NewReader("%PDF"), 4, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "leases/l1/agreement.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "leases", "l1", "agreement.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, s.Delete(context.Background(), "leases/l1/agreement.pdf"))
	_, err = os.Stat(filepath.Join(dir, "leases", "l1", "agreement.pdf"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), "leases/l1/agreement.pdf"))
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.Error(t, err)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.Error(t, err, "missing bucket")
}
