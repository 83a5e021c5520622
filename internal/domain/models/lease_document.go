package models

import "time"

// DocumentType classifies a lease attachment
type DocumentType string

const (
	DocumentTypeLeaseAgreement DocumentType = "lease_agreement"
	DocumentTypeAddendum       DocumentType = "addendum"
	DocumentTypeNotice         DocumentType = "notice"
	DocumentTypeOther          DocumentType = "other"
)

// LeaseDocument is a file attached to a lease and kept in the storage backend
type LeaseDocument struct {
	BaseModel
	LeaseID    string       `gorm:"type:varchar(36);not null;index" json:"leaseId"`
	OwnerID    string       `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Name       string       `gorm:"type:varchar(255);not null" json:"name"`
	URL        string       `gorm:"type:varchar(1024);not null" json:"url"`
	Type       DocumentType `gorm:"type:varchar(30);not null" json:"type"`
	StorageKey string       `gorm:"type:varchar(512);not null" json:"-"`
	UploadedAt time.Time    `gorm:"not null" json:"uploadedAt"`
}
