package services

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/utils"
)

// InterfacePaymentService records money against leases
type InterfacePaymentService interface {
	Create(ctx context.Context, ownerID string, req CreatePaymentRequest) (*models.Payment, error)
	RecordPayment(ctx context.Context, ownerID string, req RecordPaymentRequest) (*models.Payment, error)
	FindAll(ctx context.Context, ownerID string, query PaymentQuery) (*models.PaginatedResult[models.Payment], error)
	FindOne(ctx context.Context, ownerID, id string) (*models.Payment, error)
	Update(ctx context.Context, ownerID, id string, req UpdatePaymentRequest) (*models.Payment, error)
	Remove(ctx context.Context, ownerID, id string) error
	GetSummary(ctx context.Context, ownerID string) (*PaymentSummary, error)
}

// CreatePaymentRequest is the body of POST /payments. New payments are always pending.
type CreatePaymentRequest struct {
	LeaseID     string                `json:"leaseId" binding:"required"`
	Type        models.PaymentType    `json:"type" binding:"required,oneof=rent security_deposit late_fee maintenance utility other" example:"rent"`
	Amount      *float64              `json:"amount" binding:"required,gte=0" example:"1500"`
	LateFee     *float64              `json:"lateFee" binding:"omitempty,gte=0" example:"50"`
	Method      *models.PaymentMethod `json:"method" binding:"omitempty,oneof=cash check bank_transfer credit_card debit_card venmo zelle other"`
	DueDate     string                `json:"dueDate" binding:"required,datestring" example:"2024-03-01"`
	PaidDate    *string               `json:"paidDate" binding:"omitempty,datestring"`
	PeriodStart *string               `json:"periodStart" binding:"omitempty,datestring"`
	PeriodEnd   *string               `json:"periodEnd" binding:"omitempty,datestring"`
	Notes       string                `json:"notes"`
}

// RecordPaymentRequest is the body of POST /payments/record
type RecordPaymentRequest struct {
	LeaseID  string               `json:"leaseId" binding:"required"`
	Amount   *float64             `json:"amount" binding:"required,gte=0" example:"1500"`
	Method   models.PaymentMethod `json:"method" binding:"required,oneof=cash check bank_transfer credit_card debit_card venmo zelle other" example:"bank_transfer"`
	PaidDate *string              `json:"paidDate" binding:"omitempty,datestring"`
	Notes    *string              `json:"notes"`
}

// UpdatePaymentRequest is the body of PATCH /payments/:id
type UpdatePaymentRequest struct {
	Status        *models.PaymentStatus `json:"status" binding:"omitempty,oneof=pending completed failed refunded cancelled"`
	Amount        *float64              `json:"amount" binding:"omitempty,gte=0"`
	LateFee       *float64              `json:"lateFee" binding:"omitempty,gte=0"`
	Method        *models.PaymentMethod `json:"method" binding:"omitempty,oneof=cash check bank_transfer credit_card debit_card venmo zelle other"`
	DueDate       *string               `json:"dueDate" binding:"omitempty,datestring"`
	PaidDate      *string               `json:"paidDate" binding:"omitempty,datestring"`
	TransactionID *string               `json:"transactionId"`
	Notes         *string               `json:"notes"`
}

// PaymentQuery is bound from the query string of GET /payments
type PaymentQuery struct {
	models.PaginationQuery
	Status      models.PaymentStatus `form:"status" binding:"omitempty,oneof=pending completed failed refunded cancelled"`
	Type        models.PaymentType   `form:"type" binding:"omitempty,oneof=rent security_deposit late_fee maintenance utility other"`
	Method      models.PaymentMethod `form:"method" binding:"omitempty,oneof=cash check bank_transfer credit_card debit_card venmo zelle other"`
	LeaseID     string               `form:"leaseId"`
	TenantID    string               `form:"tenantId"`
	PropertyID  string               `form:"propertyId"`
	DueDateFrom string               `form:"dueDateFrom" binding:"omitempty,datestring"`
	DueDateTo   string               `form:"dueDateTo" binding:"omitempty,datestring"`
}

// PaymentSummary covers the current calendar month
type PaymentSummary struct {
	TotalCollected    decimal.Decimal `json:"totalCollected"`
	TotalPending      decimal.Decimal `json:"totalPending"`
	TotalOverdue      decimal.Decimal `json:"totalOverdue"`
	PaymentsThisMonth int64           `json:"paymentsThisMonth"`
	OverdueCount      int64           `json:"overdueCount"`
}

// PaymentService implements InterfacePaymentService
type PaymentService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
	Events InterfaceEventService
	Mail   InterfaceMailService
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService, events InterfaceEventService, mail InterfaceMailService) InterfacePaymentService {
	return &PaymentService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
		Events: events,
		Mail:   mail,
	}
}

func (s *PaymentService) Create(ctx context.Context, ownerID string, req CreatePaymentRequest) (*models.Payment, error) {
	db := s.DB.WithContext(ctx)
	lease, err := findOwnedLease(db, ownerID, req.LeaseID)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}
	paidDate, err := parseDatePtr(req.PaidDate)
	if err != nil {
		return nil, err
	}
	periodStart, err := parseDatePtr(req.PeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := parseDatePtr(req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	amount := decimalFrom(req.Amount)
	lateFee := nullDecimalFrom(req.LateFee)
	payment := &models.Payment{
		LeaseID:     lease.ID,
		TenantID:    lease.TenantID,
		PropertyID:  lease.PropertyID,
		OwnerID:     ownerID,
		Type:        req.Type,
		Status:      models.PaymentStatusPending,
		Amount:      amount,
		LateFee:     lateFee,
		TotalAmount: models.TotalOf(amount, lateFee),
		Method:      req.Method,
		DueDate:     dueDate,
		PaidDate:    paidDate,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Notes:       req.Notes,
	}
	if err := db.Create(payment).Error; err != nil {
		return nil, dbError(err)
	}

	s.afterWrite(ctx, ownerID, EventPaymentCreated, payment)
	return s.FindOne(ctx, ownerID, payment.ID)
}

// RecordPayment completes the lease's earliest-due pending rent payment. With
// nothing pending it books a completed rent payment for the current month.
// The recorded amount replaces amount and total, so any late fee is cleared.
func (s *PaymentService) RecordPayment(ctx context.Context, ownerID string, req RecordPaymentRequest) (*models.Payment, error) {
	db := s.DB.WithContext(ctx)

	var lease models.Lease
	err := db.Scopes(ownedBy(ownerID)).Preload("Property").Preload("Tenant").Where("id = ?", req.LeaseID).First(&lease).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrLeaseNotFound)
	}

	now := timeNow()
	paidDate := now
	if req.PaidDate != nil && *req.PaidDate != "" {
		if paidDate, err = parseDate(*req.PaidDate); err != nil {
			return nil, err
		}
	}
	amount := decimalFrom(req.Amount)
	method := req.Method

	var paymentID string
	err = db.Transaction(func(tx *gorm.DB) error {
		var pending models.Payment
		err := tx.Where("lease_id = ? AND status = ? AND type = ?", lease.ID, models.PaymentStatusPending, models.PaymentTypeRent).
			Order("due_date ASC").
			First(&pending).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"status":       models.PaymentStatusCompleted,
				"amount":       amount,
				"late_fee":     decimal.NullDecimal{},
				"total_amount": amount,
				"method":       method,
				"paid_date":    paidDate,
			}
			if req.Notes != nil {
				updates["notes"] = *req.Notes
			}
			if err := tx.Model(&models.Payment{}).Where("id = ?", pending.ID).Updates(updates).Error; err != nil {
				return dbError(err)
			}
			paymentID = pending.ID
			return nil
		case notFound(err):
			periodStart := utils.MonthStart(now)
			periodEnd := utils.MonthEnd(now)
			payment := &models.Payment{
				LeaseID:     lease.ID,
				TenantID:    lease.TenantID,
				PropertyID:  lease.PropertyID,
				OwnerID:     ownerID,
				Type:        models.PaymentTypeRent,
				Status:      models.PaymentStatusCompleted,
				Amount:      amount,
				TotalAmount: amount,
				Method:      &method,
				DueDate:     periodStart,
				PaidDate:    &paidDate,
				PeriodStart: &periodStart,
				PeriodEnd:   &periodEnd,
			}
			if req.Notes != nil {
				payment.Notes = *req.Notes
			}
			if err := tx.Create(payment).Error; err != nil {
				return dbError(err)
			}
			paymentID = payment.ID
			return nil
		default:
			return dbError(err)
		}
	})
	if err != nil {
		return nil, err
	}

	payment, err := s.FindOne(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}

	s.afterWrite(ctx, ownerID, EventPaymentRecorded, payment)
	if lease.Tenant != nil && lease.Property != nil {
		s.Mail.SendPaymentReceipt(PaymentReceipt{
			To:           lease.Tenant.Email,
			TenantName:   lease.Tenant.FullName(),
			PropertyName: lease.Property.Name,
			Amount:       payment.TotalAmount,
			PaidDate:     paidDate,
			Method:       string(method),
			PaymentID:    payment.ID,
		})
	}
	return payment, nil
}

func (s *PaymentService) filters(ownerID string, q PaymentQuery) (func(*gorm.DB) *gorm.DB, error) {
	var from, to *string
	if q.DueDateFrom != "" {
		from = &q.DueDateFrom
	}
	if q.DueDateTo != "" {
		to = &q.DueDateTo
	}
	dueFrom, err := parseDatePtr(from)
	if err != nil {
		return nil, err
	}
	dueTo, err := parseDatePtr(to)
	if err != nil {
		return nil, err
	}

	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(ownedBy(ownerID))
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		if q.Type != "" {
			db = db.Where("type = ?", q.Type)
		}
		if q.Method != "" {
			db = db.Where("method = ?", q.Method)
		}
		if q.LeaseID != "" {
			db = db.Where("lease_id = ?", q.LeaseID)
		}
		if q.TenantID != "" {
			db = db.Where("tenant_id = ?", q.TenantID)
		}
		if q.PropertyID != "" {
			db = db.Where("property_id = ?", q.PropertyID)
		}
		if dueFrom != nil {
			db = db.Where("due_date >= ?", *dueFrom)
		}
		if dueTo != nil {
			db = db.Where("due_date <= ?", *dueTo)
		}
		return db
	}, nil
}

// FindAll lists by due date, latest first
func (s *PaymentService) FindAll(ctx context.Context, ownerID string, q PaymentQuery) (*models.PaginatedResult[models.Payment], error) {
	q.Normalize()
	filters, err := s.filters(ownerID, q)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Payment{}).Scopes(filters).Count(&total).Error; err != nil {
		return nil, dbError(err)
	}

	var payments []models.Payment
	err = db.Scopes(filters, paginate(q.PaginationQuery)).
		Preload("Lease").
		Preload("Tenant").
		Preload("Property").
		Order("due_date DESC").
		Find(&payments).Error
	if err != nil {
		return nil, dbError(err)
	}

	return models.NewPaginatedResult(payments, total, q.PaginationQuery), nil
}

func (s *PaymentService) FindOne(ctx context.Context, ownerID, id string) (*models.Payment, error) {
	var payment models.Payment
	err := s.DB.WithContext(ctx).Scopes(ownedBy(ownerID)).
		Preload("Lease").
		Preload("Tenant").
		Preload("Property").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, notFoundOr(err, code.ErrPaymentNotFound)
	}
	return &payment, nil
}

func (s *PaymentService) findOwned(db *gorm.DB, ownerID, id string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, notFoundOr(err, code.ErrPaymentNotFound)
	}
	return &payment, nil
}

// Update recomputes totalAmount only when amount or lateFee is patched,
// taking the stored value for whichever one is absent
func (s *PaymentService) Update(ctx context.Context, ownerID, id string, req UpdatePaymentRequest) (*models.Payment, error) {
	db := s.DB.WithContext(ctx)
	payment, err := s.findOwned(db, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Amount != nil || req.LateFee != nil {
		amount := payment.Amount
		if req.Amount != nil {
			amount = decimalFrom(req.Amount)
			updates["amount"] = amount
		}
		lateFee := payment.LateFee
		if req.LateFee != nil {
			lateFee = nullDecimalFrom(req.LateFee)
			updates["late_fee"] = lateFee
		}
		updates["total_amount"] = models.TotalOf(amount, lateFee)
	}
	if req.Method != nil {
		updates["method"] = *req.Method
	}
	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			return nil, err
		}
		updates["due_date"] = t
	}
	if req.PaidDate != nil {
		t, err := parseDatePtr(req.PaidDate)
		if err != nil {
			return nil, err
		}
		if t != nil {
			updates["paid_date"] = *t
		}
	}
	if req.TransactionID != nil {
		updates["transaction_id"] = *req.TransactionID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(updates).Error; err != nil {
			return nil, dbError(err)
		}
		invalidate(ctx, s.Cache, ownerID)
	}
	return s.FindOne(ctx, ownerID, id)
}

func (s *PaymentService) Remove(ctx context.Context, ownerID, id string) error {
	db := s.DB.WithContext(ctx)
	payment, err := s.findOwned(db, ownerID, id)
	if err != nil {
		return err
	}
	if err := db.Delete(&models.Payment{}, "id = ?", payment.ID).Error; err != nil {
		return dbError(err)
	}

	invalidate(ctx, s.Cache, ownerID)
	return nil
}

// paymentAggregate is one SUM/COUNT row over payments
type paymentAggregate struct {
	Total decimal.Decimal
	Count int64
}

func aggregatePayments(db *gorm.DB, scope func(*gorm.DB) *gorm.DB) (paymentAggregate, error) {
	var agg paymentAggregate
	err := db.Model(&models.Payment{}).
		Scopes(scope).
		Select("COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count").
		Scan(&agg).Error
	return agg, err
}

// GetSummary aggregates the current month: collected (completed, paid this
// month), pending (due from now on) and overdue (pending, already due)
func (s *PaymentService) GetSummary(ctx context.Context, ownerID string) (*PaymentSummary, error) {
	return cached(ctx, s.Cache, ownerID, CacheFieldPaymentSummary, func() (*PaymentSummary, error) {
		return s.summary(ctx, ownerID)
	})
}

func (s *PaymentService) summary(ctx context.Context, ownerID string) (*PaymentSummary, error) {
	now := timeNow()
	monthStart := utils.MonthStart(now)
	nextMonth := utils.NextMonthStart(now)

	var completed, pending, overdue paymentAggregate
	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	g.Go(func() (err error) {
		completed, err = aggregatePayments(db, func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(ownedBy(ownerID)).
				Where("status = ? AND paid_date >= ? AND paid_date < ?", models.PaymentStatusCompleted, monthStart, nextMonth)
		})
		return err
	})
	g.Go(func() (err error) {
		pending, err = aggregatePayments(db, func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(ownedBy(ownerID)).Where("status = ? AND due_date >= ?", models.PaymentStatusPending, now)
		})
		return err
	})
	g.Go(func() (err error) {
		overdue, err = aggregatePayments(db, func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(ownedBy(ownerID)).Where("status = ? AND due_date < ?", models.PaymentStatusPending, now)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, dbError(err)
	}

	return &PaymentSummary{
		TotalCollected:    completed.Total,
		TotalPending:      pending.Total,
		TotalOverdue:      overdue.Total,
		PaymentsThisMonth: completed.Count,
		OverdueCount:      overdue.Count,
	}, nil
}

func (s *PaymentService) afterWrite(ctx context.Context, ownerID, event string, payload interface{}) {
	invalidate(ctx, s.Cache, ownerID)
	s.Events.Publish(ownerID, event, payload)
}
