package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

// latestPaymentsPerLease bounds the payments embedded in a property detail
const latestPaymentsPerLease = 5

// InterfacePropertyService is owner-scoped property CRUD
type InterfacePropertyService interface {
	Create(ctx context.Context, ownerID string, req CreatePropertyRequest) (*models.Property, error)
	FindAll(ctx context.Context, ownerID string, query PropertyQuery) (*models.PaginatedResult[models.Property], error)
	FindOne(ctx context.Context, ownerID, id string) (*models.Property, error)
	Update(ctx context.Context, ownerID, id string, req UpdatePropertyRequest) (*models.Property, error)
	Remove(ctx context.Context, ownerID, id string) error
}

// AddressRequest is the nested address of a new property
type AddressRequest struct {
	Street  string `json:"street" binding:"required" example:"123 Main St"`
	Unit    string `json:"unit" example:"4B"`
	City    string `json:"city" binding:"required" example:"Austin"`
	State   string `json:"state" binding:"required" example:"TX"`
	ZipCode string `json:"zipCode" binding:"required" example:"78701"`
	Country string `json:"country" example:"USA"`
}

// UpdateAddressRequest patches individual address fields
type UpdateAddressRequest struct {
	Street  *string `json:"street" binding:"omitempty,min=1"`
	Unit    *string `json:"unit"`
	City    *string `json:"city" binding:"omitempty,min=1"`
	State   *string `json:"state" binding:"omitempty,min=1"`
	ZipCode *string `json:"zipCode" binding:"omitempty,min=1"`
	Country *string `json:"country" binding:"omitempty,min=1"`
}

// CreatePropertyRequest is the body of POST /properties
type CreatePropertyRequest struct {
	Name            string              `json:"name" binding:"required" example:"Sunset Apartments"`
	Type            models.PropertyType `json:"type" binding:"required,oneof=single_family multi_family apartment condo townhouse commercial" example:"apartment"`
	Address         AddressRequest      `json:"address" binding:"required"`
	Units           *int                `json:"units" binding:"omitempty,min=1" example:"1"`
	Bedrooms        *int                `json:"bedrooms" binding:"omitempty,gte=0" example:"2"`
	Bathrooms       *float64            `json:"bathrooms" binding:"omitempty,gte=0" example:"1.5"`
	SquareFeet      *int                `json:"squareFeet" binding:"omitempty,gte=0" example:"950"`
	YearBuilt       *int                `json:"yearBuilt" binding:"omitempty,gte=1800,lte=2100" example:"1998"`
	Description     string              `json:"description"`
	Amenities       []string            `json:"amenities"`
	MonthlyRent     *float64            `json:"monthlyRent" binding:"required,gte=0" example:"1500"`
	SecurityDeposit *float64            `json:"securityDeposit" binding:"omitempty,gte=0" example:"1500"`
}

// UpdatePropertyRequest is the body of PATCH /properties/:id
type UpdatePropertyRequest struct {
	Name            *string                `json:"name" binding:"omitempty,min=1"`
	Type            *models.PropertyType   `json:"type" binding:"omitempty,oneof=single_family multi_family apartment condo townhouse commercial"`
	Status          *models.PropertyStatus `json:"status" binding:"omitempty,oneof=available occupied maintenance inactive"`
	Address         *UpdateAddressRequest  `json:"address"`
	Units           *int                   `json:"units" binding:"omitempty,min=1"`
	Bedrooms        *int                   `json:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms       *float64               `json:"bathrooms" binding:"omitempty,gte=0"`
	SquareFeet      *int                   `json:"squareFeet" binding:"omitempty,gte=0"`
	YearBuilt       *int                   `json:"yearBuilt" binding:"omitempty,gte=1800,lte=2100"`
	Description     *string                `json:"description"`
	Amenities       []string               `json:"amenities"`
	MonthlyRent     *float64               `json:"monthlyRent" binding:"omitempty,gte=0"`
	SecurityDeposit *float64               `json:"securityDeposit" binding:"omitempty,gte=0"`
}

// PropertyQuery is bound from the query string of GET /properties
type PropertyQuery struct {
	models.PaginationQuery
	Status  models.PropertyStatus `form:"status" binding:"omitempty,oneof=available occupied maintenance inactive"`
	Type    models.PropertyType   `form:"type" binding:"omitempty,oneof=single_family multi_family apartment condo townhouse commercial"`
	City    string                `form:"city"`
	MinRent *float64              `form:"minRent" binding:"omitempty,gte=0"`
	MaxRent *float64              `form:"maxRent" binding:"omitempty,gte=0"`
}

// PropertyService implements InterfacePropertyService
type PropertyService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
}

// NewPropertyService creates a new property service
func NewPropertyService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService) InterfacePropertyService {
	return &PropertyService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

func (s *PropertyService) Create(ctx context.Context, ownerID string, req CreatePropertyRequest) (*models.Property, error) {
	units := 1
	if req.Units != nil {
		units = *req.Units
	}
	country := req.Address.Country
	if country == "" {
		country = models.DefaultCountry
	}

	property := &models.Property{
		OwnerID: ownerID,
		Name:    req.Name,
		Type:    req.Type,
		Status:  models.PropertyStatusAvailable,
		Address: models.Address{
			Street:  req.Address.Street,
			Unit:    req.Address.Unit,
			City:    req.Address.City,
			State:   req.Address.State,
			ZipCode: req.Address.ZipCode,
			Country: country,
		},
		Units:           units,
		Bedrooms:        req.Bedrooms,
		Bathrooms:       req.Bathrooms,
		SquareFeet:      req.SquareFeet,
		YearBuilt:       req.YearBuilt,
		Description:     req.Description,
		Amenities:       models.AmenitiesJSON(req.Amenities),
		MonthlyRent:     decimalFrom(req.MonthlyRent),
		SecurityDeposit: decimalFrom(req.SecurityDeposit),
	}

	if err := s.DB.WithContext(ctx).Create(property).Error; err != nil {
		return nil, dbError(err)
	}

	invalidate(ctx, s.Cache, ownerID)
	return property, nil
}

func (s *PropertyService) filters(ownerID string, q PropertyQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(ownedBy(ownerID))
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.City != "" {
			db = db.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(q.City)+"%")
		}
		if q.MinRent != nil {
			db = db.Where("monthly_rent >= ?", *q.MinRent)
		}
		if q.MaxRent != nil {
			db = db.Where("monthly_rent <= ?", *q.MaxRent)
		}
		return db
	}
}

// FindAll lists newest first; each property carries its active leases with tenants
func (s *PropertyService) FindAll(ctx context.Context, ownerID string, q PropertyQuery) (*models.PaginatedResult[models.Property], error) {
	q.Normalize()
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Property{}).Scopes(s.filters(ownerID, q)).Count(&total).Error; err != nil {
		return nil, dbError(err)
	}

	var properties []models.Property
	err := db.Scopes(s.filters(ownerID, q), paginate(q.PaginationQuery)).
		Preload("Leases", "status = ?", models.LeaseStatusActive).
		Preload("Leases.Tenant").
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, dbError(err)
	}

	return models.NewPaginatedResult(properties, total, q.PaginationQuery), nil
}

// FindOne returns the property with every lease, each lease's tenant and its latest payments
func (s *PropertyService) FindOne(ctx context.Context, ownerID, id string) (*models.Property, error) {
	db := s.DB.WithContext(ctx)

	var property models.Property
	err := db.Scopes(ownedBy(ownerID)).
		Preload("Leases", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Leases.Tenant").
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrPropertyNotFound)
	}

	// a preload limit would apply across all leases, not per lease
	for i := range property.Leases {
		lease := &property.Leases[i]
		err := db.Where("lease_id = ?", lease.ID).
			Order("due_date DESC").
			Limit(latestPaymentsPerLease).
			Find(&lease.Payments).Error
		if err != nil {
			return nil, dbError(err)
		}
	}

	return &property, nil
}

func (s *PropertyService) findOwned(db *gorm.DB, ownerID, id string) (*models.Property, error) {
	var property models.Property
	if err := db.Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, notFoundOr(err, code.ErrPropertyNotFound)
	}
	return &property, nil
}

func (s *PropertyService) Update(ctx context.Context, ownerID, id string, req UpdatePropertyRequest) (*models.Property, error) {
	db := s.DB.WithContext(ctx)
	property, err := s.findOwned(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if a := req.Address; a != nil {
		if a.Street != nil {
			updates["street"] = *a.Street
		}
		if a.Unit != nil {
			updates["unit"] = *a.Unit
		}
		if a.City != nil {
			updates["city"] = *a.City
		}
		if a.State != nil {
			updates["state"] = *a.State
		}
		if a.ZipCode != nil {
			updates["zip_code"] = *a.ZipCode
		}
		if a.Country != nil {
			updates["country"] = *a.Country
		}
	}
	if req.Units != nil {
		updates["units"] = *req.Units
	}
	if req.Bedrooms != nil {
		updates["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		updates["bathrooms"] = *req.Bathrooms
	}
	if req.SquareFeet != nil {
		updates["square_feet"] = *req.SquareFeet
	}
	if req.YearBuilt != nil {
		updates["year_built"] = *req.YearBuilt
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amenities != nil {
		updates["amenities"] = models.AmenitiesJSON(req.Amenities)
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = decimalFrom(req.MonthlyRent)
	}
	if req.SecurityDeposit != nil {
		updates["security_deposit"] = decimalFrom(req.SecurityDeposit)
	}

	if len(updates) == 0 {
		return property, nil
	}

	if err := db.Model(&models.Property{}).Where("id = ?", property.ID).Updates(updates).Error; err != nil {
		return nil, dbError(err)
	}

	invalidate(ctx, s.Cache, ownerID)
	return s.findOwned(db, ownerID, id)
}

// Remove deletes the property together with its leases, their payments and documents
func (s *PropertyService) Remove(ctx context.Context, ownerID, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		property, err := s.findOwned(tx, ownerID, id)
		if err != nil {
			return err
		}

		leaseIDs := tx.Model(&models.Lease{}).Select("id").Where("property_id = ?", property.ID)
		if err := tx.Where("lease_id IN (?)", leaseIDs).Delete(&models.LeaseDocument{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.Payment{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("property_id = ?", property.ID).Delete(&models.Lease{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Delete(&models.Property{}, "id = ?", property.ID).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidate(ctx, s.Cache, ownerID)
	return nil
}
