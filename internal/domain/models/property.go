package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PropertyType enumerates the kinds of rentable property
type PropertyType string

const (
	PropertyTypeSingleFamily PropertyType = "single_family"
	PropertyTypeMultiFamily  PropertyType = "multi_family"
	PropertyTypeApartment    PropertyType = "apartment"
	PropertyTypeCondo        PropertyType = "condo"
	PropertyTypeTownhouse    PropertyType = "townhouse"
	PropertyTypeCommercial   PropertyType = "commercial"
)

// PropertyStatus is occupied exactly while an active lease exists
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
	PropertyStatusInactive    PropertyStatus = "inactive"
)

// DefaultCountry is stored when an address omits its country
const DefaultCountry = "USA"

// Address is embedded into the properties table
type Address struct {
	Street  string `gorm:"type:varchar(255);not null" json:"street"`
	Unit    string `gorm:"type:varchar(50)" json:"unit,omitempty"`
	City    string `gorm:"type:varchar(100);not null;index" json:"city"`
	State   string `gorm:"type:varchar(100);not null" json:"state"`
	ZipCode string `gorm:"type:varchar(20);not null" json:"zipCode"`
	Country string `gorm:"type:varchar(100);not null" json:"country"`
}

// Property is a rentable unit owned by a user
type Property struct {
	BaseModel
	OwnerID         string          `gorm:"type:varchar(36);not null;index" json:"ownerId"`
	Name            string          `gorm:"type:varchar(255);not null" json:"name"`
	Type            PropertyType    `gorm:"type:varchar(20);not null" json:"type"`
	Status          PropertyStatus  `gorm:"type:varchar(20);not null;index" json:"status"`
	Address         Address         `gorm:"embedded" json:"address"`
	Units           int             `gorm:"not null" json:"units"`
	Bedrooms        *int            `json:"bedrooms,omitempty"`
	Bathrooms       *float64        `json:"bathrooms,omitempty"`
	SquareFeet      *int            `json:"squareFeet,omitempty"`
	YearBuilt       *int            `json:"yearBuilt,omitempty"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	Amenities       datatypes.JSON  `json:"amenities"`
	MonthlyRent     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monthlyRent"`
	SecurityDeposit decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"securityDeposit"`

	Leases []Lease `gorm:"foreignKey:PropertyID" json:"leases,omitempty"`
}

// AmenitiesJSON encodes a string set for the amenities column; nil becomes []
func AmenitiesJSON(amenities []string) datatypes.JSON {
	if amenities == nil {
		amenities = []string{}
	}
	raw, _ := json.Marshal(amenities)
	return datatypes.JSON(raw)
}
