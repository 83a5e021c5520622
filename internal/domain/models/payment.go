package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType classifies what a payment is for
type PaymentType string

const (
	PaymentTypeRent            PaymentType = "rent"
	PaymentTypeSecurityDeposit PaymentType = "security_deposit"
	PaymentTypeLateFee         PaymentType = "late_fee"
	PaymentTypeMaintenance     PaymentType = "maintenance"
	PaymentTypeUtility         PaymentType = "utility"
	PaymentTypeOther           PaymentType = "other"
)

// PaymentStatus moves pending -> completed|failed|refunded|cancelled
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// PaymentMethod is how the money arrived
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodVenmo        PaymentMethod = "venmo"
	PaymentMethodZelle        PaymentMethod = "zelle"
	PaymentMethodOther        PaymentMethod = "other"
)

// Payment is a charge against a lease. TotalAmount is always Amount plus LateFee.
type Payment struct {
	BaseModel
	LeaseID       string              `gorm:"type:varchar(36);not null;index" json:"leaseId"`
	TenantID      string              `gorm:"type:varchar(36);not null;index" json:"tenantId"`
	PropertyID    string              `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	OwnerID       string              `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Type          PaymentType         `gorm:"type:varchar(20);not null" json:"type"`
	Status        PaymentStatus       `gorm:"type:varchar(20);not null;index" json:"status"`
	Amount        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"amount"`
	LateFee       decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"lateFee"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Method        *PaymentMethod      `gorm:"type:varchar(20)" json:"method"`
	DueDate       time.Time           `gorm:"not null;index" json:"dueDate"`
	PaidDate      *time.Time          `gorm:"index" json:"paidDate"`
	PeriodStart   *time.Time          `json:"periodStart,omitempty"`
	PeriodEnd     *time.Time          `json:"periodEnd,omitempty"`
	TransactionID string              `gorm:"type:varchar(100)" json:"transactionId,omitempty"`
	Notes         string              `gorm:"type:text" json:"notes,omitempty"`

	Lease    *Lease    `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	Tenant   *Tenant   `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TotalOf returns amount plus the late fee, treating a missing fee as zero
func TotalOf(amount decimal.Decimal, lateFee decimal.NullDecimal) decimal.Decimal {
	if lateFee.Valid {
		return amount.Add(lateFee.Decimal)
	}
	return amount
}
