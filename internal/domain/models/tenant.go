package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantStatus turns active when a lease is created for the tenant
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
	TenantStatusPending  TenantStatus = "pending"
	TenantStatusEvicted  TenantStatus = "evicted"
)

// EmergencyContact is stored inline with the emergency_contact_ prefix
type EmergencyContact struct {
	Name         string `gorm:"type:varchar(100)" json:"name,omitempty"`
	Relationship string `gorm:"type:varchar(50)" json:"relationship,omitempty"`
	Phone        string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email        string `gorm:"type:varchar(255)" json:"email,omitempty"`
}

// EmploymentInfo is stored inline with the employment_ prefix
type EmploymentInfo struct {
	Employer        string              `gorm:"type:varchar(255)" json:"employer,omitempty"`
	Position        string              `gorm:"type:varchar(100)" json:"position,omitempty"`
	MonthlyIncome   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"monthlyIncome"`
	EmployerPhone   string              `gorm:"type:varchar(30)" json:"employerPhone,omitempty"`
	EmployerAddress string              `gorm:"type:varchar(255)" json:"employerAddress,omitempty"`
}

// Tenant is a renter managed by a user
type Tenant struct {
	BaseModel
	OwnerID          string           `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	FirstName        string           `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName         string           `gorm:"type:varchar(100);not null" json:"lastName"`
	Email            string           `gorm:"type:varchar(255);not null" json:"email"`
	Phone            string           `gorm:"type:varchar(30)" json:"phone,omitempty"`
	DateOfBirth      *time.Time       `json:"dateOfBirth,omitempty"`
	Status           TenantStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_contact_" json:"emergencyContact"`
	EmploymentInfo   EmploymentInfo   `gorm:"embedded;embeddedPrefix:employment_" json:"employmentInfo"`
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`

	Leases   []Lease   `gorm:"foreignKey:TenantID" json:"leases,omitempty"`
	Payments []Payment `gorm:"foreignKey:TenantID" json:"payments,omitempty"`
}

// FullName joins first and last name
func (t *Tenant) FullName() string {
	return t.FirstName + " " + t.LastName
}
