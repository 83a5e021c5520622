package models

import "time"

// ReminderType enumerates reminder kinds
type ReminderType string

const (
	ReminderTypeRentDue         ReminderType = "rent_due"
	ReminderTypeLeaseExpiration ReminderType = "lease_expiration"
	ReminderTypeMaintenance     ReminderType = "maintenance"
	ReminderTypeInspection      ReminderType = "inspection"
	ReminderTypeOther           ReminderType = "other"
)

// Reminder is a dated to-do for a user, read by the dashboard
type Reminder struct {
	BaseModel
	OwnerID           string       `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Type              ReminderType `gorm:"type:varchar(30);not null" json:"type"`
	Title             string       `gorm:"type:varchar(255);not null" json:"title"`
	Description       string       `gorm:"type:text" json:"description,omitempty"`
	DueDate           time.Time    `gorm:"not null;index" json:"dueDate"`
	RelatedEntityID   string       `gorm:"type:varchar(36)" json:"relatedEntityId,omitempty"`
	RelatedEntityType string       `gorm:"type:varchar(30)" json:"relatedEntityType,omitempty"`
	IsCompleted       bool         `gorm:"not null" json:"isCompleted"`
}
