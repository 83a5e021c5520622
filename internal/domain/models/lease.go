package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaseType is fixed term or month to month
type LeaseType string

const (
	LeaseTypeFixed        LeaseType = "fixed"
	LeaseTypeMonthToMonth LeaseType = "month_to_month"
)

// LeaseStatus moves draft -> active -> expired|terminated|renewed, driven by callers
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusExpired    LeaseStatus = "expired"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusRenewed    LeaseStatus = "renewed"
)

// ReleasesProperty reports whether moving a lease into s frees its property
func (s LeaseStatus) ReleasesProperty() bool {
	return s == LeaseStatusTerminated || s == LeaseStatusExpired
}

// DefaultPaymentDueDay applies when a lease does not name one
const DefaultPaymentDueDay = 1

// Lease binds one tenant to one property. A property has at most one active lease.
type Lease struct {
	BaseModel
	PropertyID             string              `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	TenantID               string              `gorm:"type:varchar(36);not null;index" json:"tenantId"`
	OwnerID                string              `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Type                   LeaseType           `gorm:"type:varchar(20);not null" json:"type"`
	Status                 LeaseStatus         `gorm:"type:varchar(20);not null;index" json:"status"`
	StartDate              time.Time           `gorm:"not null" json:"startDate"`
	EndDate                time.Time           `gorm:"not null;index" json:"endDate"`
	MonthlyRent            decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"monthlyRent"`
	SecurityDeposit        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"securityDeposit"`
	SecurityDepositPaid    bool                `gorm:"not null" json:"securityDepositPaid"`
	LateFeeAmount          decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"lateFeeAmount"`
	LateFeeGracePeriodDays *int                `json:"lateFeeGracePeriodDays,omitempty"`
	PaymentDueDay          int                 `gorm:"not null" json:"paymentDueDay"`
	Terms                  string              `gorm:"type:text" json:"terms,omitempty"`

	Property  *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Tenant    *Tenant         `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Payments  []Payment       `gorm:"foreignKey:LeaseID" json:"payments,omitempty"`
	Documents []LeaseDocument `gorm:"foreignKey:LeaseID" json:"documents,omitempty"`
}
