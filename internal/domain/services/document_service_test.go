package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/storage"
)

type failingStorage struct{}

func (failingStorage) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingStorage) Delete(context.Context, string) error { return nil }

func TestDocumentKey(t *testing.T) {
	key := DocumentKey("lease-1", "Signed Lease.PDF")
	assert.True(t, strings.HasPrefix(key, "leases/lease-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, DocumentKey("lease-1", "Signed Lease.PDF"))

	assert.Equal(t, "", filepath.Ext(DocumentKey("lease-1", "README")))
	assert.NotContains(t, DocumentKey("lease-1", "../../etc/passwd.txt"), "..")
}

func TestDocumentUploadListRemove(t *testing.T) {
	env := newTestEnv(t)
	fx := env.leased(t)
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	docs := NewDocumentService(env.db, env.cfg, store)

	content := "lease agreement body"
	doc, err := docs.Upload(env.ctx, fx.owner, fx.lease.ID, UploadDocumentInput{
		Type:     models.DocumentTypeLeaseAgreement,
		FileName: "agreement.pdf",
		Size:     int64(len(content)),
		Body:     strings.NewReader(content),
	})
	require.NoError(t, err)
	assert.Equal(t, "agreement.pdf", doc.Name, "file name is the default display name")
	assert.Equal(t, fx.lease.ID, doc.LeaseID)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(doc.StorageKey)))
	require.NoError(t, err)
	assert.Equal(t, content, string(stored))

	other, err := docs.Upload(env.ctx, fx.owner, fx.lease.ID, UploadDocumentInput{
		Name: "Pet addendum", FileName: "pets.txt", Body: strings.NewReader("no cats"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentTypeOther, other.Type)

	list, err := docs.List(env.ctx, fx.owner, fx.lease.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, docs.Remove(env.ctx, fx.owner, fx.lease.ID, doc.ID))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(doc.StorageKey)))
	assert.True(t, os.IsNotExist(err))

	err = docs.Remove(env.ctx, fx.owner, fx.lease.ID, doc.ID)
	assert.True(t, code.Is(err, code.ErrDocumentNotFound))

	list, err = docs.List(env.ctx, fx.owner, fx.lease.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pet addendum", list[0].Name)
}

func TestDocumentServiceIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	fx := env.leased(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	docs := NewDocumentService(env.db, env.cfg, store)
	intruder := env.owner(t)

	_, err = docs.Upload(env.ctx, intruder, fx.lease.ID, UploadDocumentInput{FileName: "x.pdf", Body: strings.NewReader("x")})
	assert.True(t, code.Is(err, code.ErrLeaseNotFound))

	_, err = docs.List(env.ctx, intruder, fx.lease.ID)
	assert.True(t, code.Is(err, code.ErrLeaseNotFound))
}

func TestDocumentUploadStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	fx := env.leased(t)
	docs := NewDocumentService(env.db, env.cfg, failingStorage{})

	_, err := docs.Upload(env.ctx, fx.owner, fx.lease.ID, UploadDocumentInput{FileName: "x.pdf", Body: strings.NewReader("x")})
	e, ok := code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.ErrStorage, e.Code)
	assert.Equal(t, 500, e.Status())

	var count int64
	require.NoError(t, env.db.Model(&models.LeaseDocument{}).Count(&count).Error)
	assert.Zero(t, count)
}
