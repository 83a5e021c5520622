package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

// InterfaceLeaseService drives the lease lifecycle and its side effects on
// property and tenant status
type InterfaceLeaseService interface {
	Create(ctx context.Context, ownerID string, req CreateLeaseRequest) (*models.Lease, error)
	FindAll(ctx context.Context, ownerID string, query LeaseQuery) (*models.PaginatedResult[models.Lease], error)
	FindOne(ctx context.Context, ownerID, id string) (*models.Lease, error)
	Update(ctx context.Context, ownerID, id string, req UpdateLeaseRequest) (*models.Lease, error)
	Remove(ctx context.Context, ownerID, id string) error
}

// CreateLeaseRequest is the body of POST /leases. Status is not accepted; new leases are active.
type CreateLeaseRequest struct {
	PropertyID             string           `json:"propertyId" binding:"required"`
	TenantID               string           `json:"tenantId" binding:"required"`
	Type                   models.LeaseType `json:"type" binding:"required,oneof=fixed month_to_month" example:"fixed"`
	StartDate              string           `json:"startDate" binding:"required,datestring" example:"2024-01-01"`
	EndDate                string           `json:"endDate" binding:"required,datestring" example:"2024-12-31"`
	MonthlyRent            *float64         `json:"monthlyRent" binding:"required,gte=0" example:"1500"`
	SecurityDeposit        *float64         `json:"securityDeposit" binding:"required,gte=0" example:"1500"`
	LateFeeAmount          *float64         `json:"lateFeeAmount" binding:"omitempty,gte=0" example:"50"`
	LateFeeGracePeriodDays *int             `json:"lateFeeGracePeriodDays" binding:"omitempty,gte=0,lte=31" example:"5"`
	PaymentDueDay          *int             `json:"paymentDueDay" binding:"omitempty,gte=1,lte=31" example:"1"`
	Terms                  string           `json:"terms"`
}

// UpdateLeaseRequest is the body of PATCH /leases/:id
type UpdateLeaseRequest struct {
	Type                   *models.LeaseType   `json:"type" binding:"omitempty,oneof=fixed month_to_month"`
	Status                 *models.LeaseStatus `json:"status" binding:"omitempty,oneof=draft active expired terminated renewed"`
	StartDate              *string             `json:"startDate" binding:"omitempty,datestring"`
	EndDate                *string             `json:"endDate" binding:"omitempty,datestring"`
	MonthlyRent            *float64            `json:"monthlyRent" binding:"omitempty,gte=0"`
	SecurityDeposit        *float64            `json:"securityDeposit" binding:"omitempty,gte=0"`
	SecurityDepositPaid    *bool               `json:"securityDepositPaid"`
	LateFeeAmount          *float64            `json:"lateFeeAmount" binding:"omitempty,gte=0"`
	LateFeeGracePeriodDays *int                `json:"lateFeeGracePeriodDays" binding:"omitempty,gte=0,lte=31"`
	PaymentDueDay          *int                `json:"paymentDueDay" binding:"omitempty,gte=1,lte=31"`
	Terms                  *string             `json:"terms"`
}

// LeaseQuery is bound from the query string of GET /leases
type LeaseQuery struct {
	models.PaginationQuery
	Status     models.LeaseStatus `form:"status" binding:"omitempty,oneof=draft active expired terminated renewed"`
	Type       models.LeaseType   `form:"type" binding:"omitempty,oneof=fixed month_to_month"`
	PropertyID string             `form:"propertyId"`
	TenantID   string             `form:"tenantId"`
}

// LeaseService implements InterfaceLeaseService
type LeaseService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
	Events InterfaceEventService
}

// NewLeaseService creates a new lease service
func NewLeaseService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService, events InterfaceEventService) InterfaceLeaseService {
	return &LeaseService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
		Events: events,
	}
}

// Create signs a new active lease. The property must not already carry an
// active lease; the check spans every owner since a property row is unique.
// Lease insert, property occupation and tenant activation commit together.
func (s *LeaseService) Create(ctx context.Context, ownerID string, req CreateLeaseRequest) (*models.Lease, error) {
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	dueDay := models.DefaultPaymentDueDay
	if req.PaymentDueDay != nil && *req.PaymentDueDay > 0 {
		dueDay = *req.PaymentDueDay
	}

	lease := &models.Lease{
		PropertyID:             req.PropertyID,
		TenantID:               req.TenantID,
		OwnerID:                ownerID,
		Type:                   req.Type,
		Status:                 models.LeaseStatusActive,
		StartDate:              startDate,
		EndDate:                endDate,
		MonthlyRent:            decimalFrom(req.MonthlyRent),
		SecurityDeposit:        decimalFrom(req.SecurityDeposit),
		LateFeeAmount:          nullDecimalFrom(req.LateFeeAmount),
		LateFeeGracePeriodDays: req.LateFeeGracePeriodDays,
		PaymentDueDay:          dueDay,
		Terms:                  req.Terms,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Property{}).Scopes(ownedBy(ownerID)).Where("id = ?", req.PropertyID).Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count == 0 {
			return code.New(code.ErrPropertyNotFound, "")
		}

		if err := tx.Model(&models.Tenant{}).Scopes(ownedBy(ownerID)).Where("id = ?", req.TenantID).Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count == 0 {
			return code.New(code.ErrTenantNotFound, "")
		}

		if err := tx.Model(&models.Lease{}).Where("property_id = ? AND status = ?", req.PropertyID, models.LeaseStatusActive).Count(&count).Error; err != nil {
			return dbError(err)
		}
		if count > 0 {
			return code.New(code.ErrLeaseActiveExists, "")
		}

		if err := tx.Create(lease).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Model(&models.Property{}).Where("id = ?", req.PropertyID).Update("status", models.PropertyStatusOccupied).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Model(&models.Tenant{}).Where("id = ?", req.TenantID).Update("status", models.TenantStatusActive).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, ownerID, EventLeaseCreated, lease)
	return s.findWithParties(s.DB.WithContext(ctx), ownerID, lease.ID)
}

func (s *LeaseService) filters(ownerID string, q LeaseQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(ownedBy(ownerID))
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.PropertyID != "" {
			db = db.Where("property_id = ?", q.PropertyID)
		}
		if q.TenantID != "" {
			db = db.Where("tenant_id = ?", q.TenantID)
		}
		return db
	}
}

func (s *LeaseService) FindAll(ctx context.Context, ownerID string, q LeaseQuery) (*models.PaginatedResult[models.Lease], error) {
	q.Normalize()
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Lease{}).Scopes(s.filters(ownerID, q)).Count(&total).Error; err != nil {
		return nil, dbError(err)
	}

	var leases []models.Lease
	err := db.Scopes(s.filters(ownerID, q), paginate(q.PaginationQuery)).
		Preload("Property").
		Preload("Tenant").
		Order("created_at DESC").
		Find(&leases).Error
	if err != nil {
		return nil, dbError(err)
	}

	return models.NewPaginatedResult(leases, total, q.PaginationQuery), nil
}

// FindOne includes property, tenant, payments newest due first and documents
func (s *LeaseService) FindOne(ctx context.Context, ownerID, id string) (*models.Lease, error) {
	var lease models.Lease
	err := s.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Preload("Property").
		Preload("Tenant").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB { return tx.Order("due_date DESC") }).
		Preload("Documents", func(tx *gorm.DB) *gorm.DB { return tx.Order("uploaded_at DESC") }).
		Where("id = ?", id).
		First(&lease).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrLeaseNotFound)
	}
	return &lease, nil
}

func (s *LeaseService) findWithParties(db *gorm.DB, ownerID, id string) (*models.Lease, error) {
	var lease models.Lease
	err := db.Scopes(ownedBy(ownerID)).Preload("Property").Preload("Tenant").Where("id = ?", id).First(&lease).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrLeaseNotFound)
	}
	return &lease, nil
}

func findOwnedLease(db *gorm.DB, ownerID, id string) (*models.Lease, error) {
	var lease models.Lease
	if err := db.Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&lease).Error; err != nil {
		return nil, notFoundOr(err, code.ErrLeaseNotFound)
	}
	return &lease, nil
}

// Update applies a partial patch. A patch that terminates or expires the
// lease frees its property; tenant status is left alone.
func (s *LeaseService) Update(ctx context.Context, ownerID, id string, req UpdateLeaseRequest) (*models.Lease, error) {
	updates := make(map[string]interface{})
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, err
		}
		updates["end_date"] = t
	}
	if req.MonthlyRent != nil {
		updates["monthly_rent"] = decimalFrom(req.MonthlyRent)
	}
	if req.SecurityDeposit != nil {
		updates["security_deposit"] = decimalFrom(req.SecurityDeposit)
	}
	if req.SecurityDepositPaid != nil {
		updates["security_deposit_paid"] = *req.SecurityDepositPaid
	}
	if req.LateFeeAmount != nil {
		updates["late_fee_amount"] = nullDecimalFrom(req.LateFeeAmount)
	}
	if req.LateFeeGracePeriodDays != nil {
		updates["late_fee_grace_period_days"] = *req.LateFeeGracePeriodDays
	}
	if req.PaymentDueDay != nil {
		updates["payment_due_day"] = *req.PaymentDueDay
	}
	if req.Terms != nil {
		updates["terms"] = *req.Terms
	}

	var lease *models.Lease
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lease, err = findOwnedLease(tx, ownerID, id)
		if err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Lease{}).Where("id = ?", lease.ID).Updates(updates).Error; err != nil {
			return dbError(err)
		}
		if req.Status != nil && req.Status.ReleasesProperty() {
			if err := tx.Model(&models.Property{}).Where("id = ?", lease.PropertyID).Update("status", models.PropertyStatusAvailable).Error; err != nil {
				return dbError(err)
			}
		}

		lease, err = findOwnedLease(tx, ownerID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		s.afterWrite(ctx, ownerID, EventLeaseUpdated, lease)
	}
	return lease, nil
}

// Remove frees the property whatever the lease status and deletes the lease
// with its payments and documents
func (s *LeaseService) Remove(ctx context.Context, ownerID, id string) error {
	var lease *models.Lease
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lease, err = findOwnedLease(tx, ownerID, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Property{}).Where("id = ?", lease.PropertyID).Update("status", models.PropertyStatusAvailable).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.LeaseDocument{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("lease_id = ?", lease.ID).Delete(&models.Payment{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Delete(&models.Lease{}, "id = ?", lease.ID).Error; err != nil {
			return dbError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterWrite(ctx, ownerID, EventLeaseRemoved, map[string]string{
		"id":         lease.ID,
		"propertyId": lease.PropertyID,
		"tenantId":   lease.TenantID,
	})
	return nil
}

func (s *LeaseService) afterWrite(ctx context.Context, ownerID, event string, payload interface{}) {
	invalidate(ctx, s.Cache, ownerID)
	s.Events.Publish(ownerID, event, payload)
}
