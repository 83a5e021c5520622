package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

const latestPaymentsPerTenant = 10

// InterfaceTenantService is owner-scoped tenant CRUD
type InterfaceTenantService interface {
	Create(ctx context.Context, ownerID string, req CreateTenantRequest) (*models.Tenant, error)
	FindAll(ctx context.Context, ownerID string, query TenantQuery) (*models.PaginatedResult[models.Tenant], error)
	FindOne(ctx context.Context, ownerID, id string) (*models.Tenant, error)
	Update(ctx context.Context, ownerID, id string, req UpdateTenantRequest) (*models.Tenant, error)
	Remove(ctx context.Context, ownerID, id string) error
}

type EmergencyContactRequest struct {
	Name         string `json:"name" binding:"required" example:"Jane Doe"`
	Relationship string `json:"relationship" binding:"required" example:"Sister"`
	Phone        string `json:"phone" binding:"required" example:"555-987-6543"`
	Email        string `json:"email" binding:"omitempty,email"`
}

type EmploymentInfoRequest struct {
	Employer        string   `json:"employer" binding:"required" example:"Acme Corp"`
	Position        string   `json:"position" example:"Engineer"`
	MonthlyIncome   *float64 `json:"monthlyIncome" binding:"omitempty,gte=0" example:"6500"`
	EmployerPhone   string   `json:"employerPhone"`
	EmployerAddress string   `json:"employerAddress"`
}

// CreateTenantRequest is the body of POST /tenants
type CreateTenantRequest struct {
	FirstName        string                   `json:"firstName" binding:"required" example:"Sarah"`
	LastName         string                   `json:"lastName" binding:"required" example:"Johnson"`
	Email            string                   `json:"email" binding:"required,email" example:"sarah.johnson@email.com"`
	Phone            string                   `json:"phone" example:"555-234-5678"`
	DateOfBirth      *string                  `json:"dateOfBirth" binding:"omitempty,datestring" example:"1990-05-14"`
	EmergencyContact *EmergencyContactRequest `json:"emergencyContact"`
	EmploymentInfo   *EmploymentInfoRequest   `json:"employmentInfo"`
	Notes            string                   `json:"notes"`
}

// UpdateTenantRequest is the body of PATCH /tenants/:id
type UpdateTenantRequest struct {
	FirstName        *string                  `json:"firstName" binding:"omitempty,min=1"`
	LastName         *string                  `json:"lastName" binding:"omitempty,min=1"`
	Email            *string                  `json:"email" binding:"omitempty,email"`
	Phone            *string                  `json:"phone"`
	DateOfBirth      *string                  `json:"dateOfBirth" binding:"omitempty,datestring"`
	Status           *models.TenantStatus     `json:"status" binding:"omitempty,oneof=active inactive pending evicted"`
	EmergencyContact *EmergencyContactRequest `json:"emergencyContact"`
	EmploymentInfo   *EmploymentInfoRequest   `json:"employmentInfo"`
	Notes            *string                  `json:"notes"`
}

// TenantQuery is bound from the query string of GET /tenants
type TenantQuery struct {
	models.PaginationQuery
	Status         models.TenantStatus `form:"status" binding:"omitempty,oneof=active inactive pending evicted"`
	Search         string              `form:"search"`
	HasActiveLease *bool               `form:"hasActiveLease"`
}

// TenantService implements InterfaceTenantService
type TenantService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
}

// NewTenantService creates a new tenant service
func NewTenantService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService) InterfaceTenantService {
	return &TenantService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

func emergencyContactFrom(r *EmergencyContactRequest) models.EmergencyContact {
	if r == nil {
		return models.EmergencyContact{}
	}
	return models.EmergencyContact{
		Name:         r.Name,
		Relationship: r.Relationship,
		Phone:        r.Phone,
		Email:        r.Email,
	}
}

func employmentInfoFrom(r *EmploymentInfoRequest) models.EmploymentInfo {
	if r == nil {
		return models.EmploymentInfo{}
	}
	return models.EmploymentInfo{
		Employer:        r.Employer,
		Position:        r.Position,
		MonthlyIncome:   nullDecimalFrom(r.MonthlyIncome),
		EmployerPhone:   r.EmployerPhone,
		EmployerAddress: r.EmployerAddress,
	}
}

// Create stores a new tenant as pending until a lease is signed
func (s *TenantService) Create(ctx context.Context, ownerID string, req CreateTenantRequest) (*models.Tenant, error) {
	dob, err := parseDatePtr(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		OwnerID:          ownerID,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      dob,
		Status:           models.TenantStatusPending,
		EmergencyContact: emergencyContactFrom(req.EmergencyContact),
		EmploymentInfo:   employmentInfoFrom(req.EmploymentInfo),
		Notes:            req.Notes,
	}

	if err := s.DB.WithContext(ctx).Create(tenant).Error; err != nil {
		return nil, dbError(err)
	}

	invalidate(ctx, s.Cache, ownerID)
	return tenant, nil
}

const activeLeaseExists = "EXISTS (SELECT 1 FROM leases WHERE leases.tenant_id = tenants.id AND leases.status = ?)"

func (s *TenantService) filters(ownerID string, q TenantQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("tenants.owner_id = ?", ownerID)
		if q.Status != "" {
			db = db.Where("tenants.status = ?", q.Status)
		}
		if q.Search != "" {
			like := "%" + strings.ToLower(q.Search) + "%"
			db = db.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
		}
		if q.HasActiveLease != nil {
			if *q.HasActiveLease {
				db = db.Where(activeLeaseExists, models.LeaseStatusActive)
			} else {
				db = db.Where("NOT "+activeLeaseExists, models.LeaseStatusActive)
			}
		}
		return db
	}
}

// FindAll lists newest first; each tenant carries its active leases with properties
func (s *TenantService) FindAll(ctx context.Context, ownerID string, q TenantQuery) (*models.PaginatedResult[models.Tenant], error) {
	q.Normalize()
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Tenant{}).Scopes(s.filters(ownerID, q)).Count(&total).Error; err != nil {
		return nil, dbError(err)
	}

	var tenants []models.Tenant
	err := db.Scopes(s.filters(ownerID, q), paginate(q.PaginationQuery)).
		Preload("Leases", "status = ?", models.LeaseStatusActive).
		Preload("Leases.Property").
		Order("created_at DESC").
		Find(&tenants).Error
	if err != nil {
		return nil, dbError(err)
	}

	return models.NewPaginatedResult(tenants, total, q.PaginationQuery), nil
}

// FindOne includes every lease with its property and the latest payments
func (s *TenantService) FindOne(ctx context.Context, ownerID, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Preload("Leases", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }).
		Preload("Leases.Property").
		Preload("Payments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("due_date DESC").Limit(latestPaymentsPerTenant)
		}).
		Where("id = ?", id).
		First(&tenant).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrTenantNotFound)
	}
	return &tenant, nil
}

func (s *TenantService) findOwned(db *gorm.DB, ownerID, id string) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := db.Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, notFoundOr(err, code.ErrTenantNotFound)
	}
	return &tenant, nil
}

func (s *TenantService) Update(ctx context.Context, ownerID, id string, req UpdateTenantRequest) (*models.Tenant, error) {
	db := s.DB.WithContext(ctx)
	tenant, err := s.findOwned(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := parseDatePtr(req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dob
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.EmergencyContact != nil {
		ec := emergencyContactFrom(req.EmergencyContact)
		updates["emergency_contact_name"] = ec.Name
		updates["emergency_contact_relationship"] = ec.Relationship
		updates["emergency_contact_phone"] = ec.Phone
		updates["emergency_contact_email"] = ec.Email
	}
	if req.EmploymentInfo != nil {
		ei := employmentInfoFrom(req.EmploymentInfo)
		updates["employment_employer"] = ei.Employer
		updates["employment_position"] = ei.Position
		updates["employment_monthly_income"] = ei.MonthlyIncome
		updates["employment_employer_phone"] = ei.EmployerPhone
		updates["employment_employer_address"] = ei.EmployerAddress
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return tenant, nil
	}

	if err := db.Model(&models.Tenant{}).Where("id = ?", tenant.ID).Updates(updates).Error; err != nil {
		return nil, dbError(err)
	}

	invalidate(ctx, s.Cache, ownerID)
	return s.findOwned(db, ownerID, id)
}

// Remove deletes the tenant with its leases and payments. Properties held
// by the tenant's active leases become available again.
func (s *TenantService) Remove(ctx context.Context, ownerID, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenant, err := s.findOwned(tx, ownerID, id)
		if err != nil {
			return err
		}

		held := tx.Model(&models.Lease{}).Select("property_id").
			Where("tenant_id = ? AND status = ?", tenant.ID, models.LeaseStatusActive)
		if err := tx.Model(&models.Property{}).Where("id IN (?)", held).
			Update("status", models.PropertyStatusAvailable).Error; err != nil {
			return dbError(err)
		}

		leaseIDs := tx.Model(&models.Lease{}).Select("id").Where("tenant_id = ?", tenant.ID)
		if err := tx.Where("lease_id IN (?)", leaseIDs).Delete(&models.LeaseDocument{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("tenant_id = ?", tenant.ID).Delete(&models.Payment{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Where("tenant_id = ?", tenant.ID).Delete(&models.Lease{}).Error; err != nil {
			return dbError(err)
		}
		if err := tx.Delete(&models.Tenant{}, "id = ?", tenant.ID).Error; err != nil {
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
