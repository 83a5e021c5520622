package services

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/internal/infrastructure/storage"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// InterfaceDocumentService manages files attached to leases
type InterfaceDocumentService interface {
	Upload(ctx context.Context, ownerID, leaseID string, in UploadDocumentInput) (*models.LeaseDocument, error)
	List(ctx context.Context, ownerID, leaseID string) ([]models.LeaseDocument, error)
	Remove(ctx context.Context, ownerID, leaseID, documentID string) error
}

// UploadDocumentInput is a file read from a multipart form
type UploadDocumentInput struct {
	Name        string
	Type        models.DocumentType
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentService stores document bytes in the configured backend and the
// metadata in the database
type DocumentService struct {
	DB      *gorm.DB
	Config  *config.Config
	Storage storage.Storage
}

// NewDocumentService creates a new document service
func NewDocumentService(db *gorm.DB, cfg *config.Config, store storage.Storage) InterfaceDocumentService {
	return &DocumentService{
		DB:      db,
		Config:  cfg,
		Storage: store,
	}
}

// DocumentKey is where a lease document lives in the storage backend
func DocumentKey(leaseID, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(fileName)))
	return path.Join("leases", leaseID, uuid.NewString()+ext)
}

func (s *DocumentService) Upload(ctx context.Context, ownerID, leaseID string, in UploadDocumentInput) (*models.LeaseDocument, error) {
	db := s.DB.WithContext(ctx)
	lease, err := findOwnedLease(db, ownerID, leaseID)
	if err != nil {
		return nil, err
	}

	docType := in.Type
	if docType == "" {
		docType = models.DocumentTypeOther
	}
	name := in.Name
	if name == "" {
		name = in.FileName
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := DocumentKey(lease.ID, in.FileName)
	url, err := s.Storage.Upload(ctx, key, in.Body, in.Size, contentType)
	if err != nil {
		return nil, code.Wrap(code.ErrStorage, "", err)
	}

	doc := &models.LeaseDocument{
		LeaseID:    lease.ID,
		OwnerID:    ownerID,
		Name:       name,
		URL:        url,
		Type:       docType,
		StorageKey: key,
		UploadedAt: timeNow(),
	}
	if err := db.Create(doc).Error; err != nil {
		s.deleteObject(ctx, key)
		return nil, dbError(err)
	}
	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, ownerID, leaseID string) ([]models.LeaseDocument, error) {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedLease(db, ownerID, leaseID); err != nil {
		return nil, err
	}

	docs := []models.LeaseDocument{}
	if err := db.Where("lease_id = ?", leaseID).Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		return nil, dbError(err)
	}
	return docs, nil
}

// Remove deletes the record first; a leftover object in storage is only logged
func (s *DocumentService) Remove(ctx context.Context, ownerID, leaseID, documentID string) error {
	db := s.DB.WithContext(ctx)
	if _, err := findOwnedLease(db, ownerID, leaseID); err != nil {
		return err
	}

	var doc models.LeaseDocument
	if err := db.Where("id = ? AND lease_id = ?", documentID, leaseID).First(&doc).Error; err != nil {
		return notFoundOr(err, code.ErrDocumentNotFound)
	}
	if err := db.Delete(&models.LeaseDocument{}, "id = ?", doc.ID).Error; err != nil {
		return dbError(err)
	}

	s.deleteObject(ctx, doc.StorageKey)
	return nil
}

func (s *DocumentService) deleteObject(ctx context.Context, key string) {
	if err := s.Storage.Delete(ctx, key); err != nil {
		logger.Warning("delete stored document %s failed: %v", key, err)
	}
}
