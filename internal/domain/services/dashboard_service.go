package services

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/utils"
)

// DefaultActivityLimit is used when recent-activity is requested without a limit
const DefaultActivityLimit = 10

// leaseExpiryWindow is how far ahead a lease end counts as upcoming
const leaseExpiryWindow = 30 * 24 * time.Hour

// InterfaceDashboardService is read-only aggregation over an owner's portfolio
type InterfaceDashboardService interface {
	GetStats(ctx context.Context, ownerID string) (*DashboardStats, error)
	GetRecentActivity(ctx context.Context, ownerID string, limit int) (*RecentActivity, error)
	GetFinancialSummary(ctx context.Context, ownerID string) (*FinancialSummary, error)
}

// DashboardStats are the headline counters
type DashboardStats struct {
	TotalProperties          int64           `json:"totalProperties"`
	TotalTenants             int64           `json:"totalTenants"`
	ActiveLeases             int64           `json:"activeLeases"`
	MonthlyRevenue           decimal.Decimal `json:"monthlyRevenue"`
	OccupancyRate            int64           `json:"occupancyRate"`
	OverduePayments          int64           `json:"overduePayments"`
	UpcomingLeaseExpirations int64           `json:"upcomingLeaseExpirations"`
}

// ActivityTenant is the tenant projection shown in activity feeds
type ActivityTenant struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ActivityProperty is the property projection shown in activity feeds
type ActivityProperty struct {
	Name string `json:"name"`
}

// RecentPayment shadows the payment's tenant and property with projections
type RecentPayment struct {
	models.Payment
	Tenant   *ActivityTenant   `json:"tenant,omitempty"`
	Property *ActivityProperty `json:"property,omitempty"`
}

// RecentLease shadows the lease's tenant and property with projections
type RecentLease struct {
	models.Lease
	Tenant   *ActivityTenant   `json:"tenant,omitempty"`
	Property *ActivityProperty `json:"property,omitempty"`
}

type RecentActivity struct {
	RecentPayments    []RecentPayment   `json:"recentPayments"`
	RecentLeases      []RecentLease     `json:"recentLeases"`
	UpcomingReminders []models.Reminder `json:"upcomingReminders"`
}

// MonthlyRevenue is one slot of the yearly histogram; Month is 0 for January
type MonthlyRevenue struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type FinancialSummary struct {
	YearToDateRevenue   decimal.Decimal  `json:"yearToDateRevenue"`
	CurrentMonthRevenue decimal.Decimal  `json:"currentMonthRevenue"`
	MonthlyRevenue      []MonthlyRevenue `json:"monthlyRevenue"`
}

// DashboardService implements InterfaceDashboardService
type DashboardService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService) InterfaceDashboardService {
	return &DashboardService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// OccupancyRate is occupied/total as a rounded percentage, 0 for an empty portfolio
func OccupancyRate(occupied, total int64) int64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(occupied * 100).Div(decimal.NewFromInt(total)).Round(0).IntPart()
}

func (s *DashboardService) GetStats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	return cached(ctx, s.Cache, ownerID, CacheFieldDashboardStats, func() (*DashboardStats, error) {
		return s.stats(ctx, ownerID)
	})
}

func (s *DashboardService) stats(ctx context.Context, ownerID string) (*DashboardStats, error) {
	now := timeNow()
	monthStart := utils.MonthStart(now)
	expiryHorizon := now.Add(leaseExpiryWindow)

	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	count := func(dest *int64, model interface{}, query string, args ...interface{}) {
		g.Go(func() error {
			tx := db.Model(model).Scopes(ownedBy(ownerID))
			if query != "" {
				tx = tx.Where(query, args...)
			}
			return tx.Count(dest).Error
		})
	}

	var stats DashboardStats
	var occupied int64
	count(&stats.TotalProperties, &models.Property{}, "")
	count(&occupied, &models.Property{}, "status = ?", models.PropertyStatusOccupied)
	count(&stats.TotalTenants, &models.Tenant{}, "status = ?", models.TenantStatusActive)
	count(&stats.ActiveLeases, &models.Lease{}, "status = ?", models.LeaseStatusActive)
	count(&stats.OverduePayments, &models.Payment{}, "status = ? AND due_date < ?", models.PaymentStatusPending, now)
	count(&stats.UpcomingLeaseExpirations, &models.Lease{}, "status = ? AND end_date >= ? AND end_date <= ?",
		models.LeaseStatusActive, now, expiryHorizon)

	var revenue paymentAggregate
	g.Go(func() (err error) {
		revenue, err = aggregatePayments(db, func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(ownedBy(ownerID)).Where("status = ? AND paid_date >= ?", models.PaymentStatusCompleted, monthStart)
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, dbError(err)
	}

	stats.MonthlyRevenue = revenue.Total
	stats.OccupancyRate = OccupancyRate(occupied, stats.TotalProperties)
	return &stats, nil
}

func (s *DashboardService) GetRecentActivity(ctx context.Context, ownerID string, limit int) (*RecentActivity, error) {
	if limit < 1 {
		limit = DefaultActivityLimit
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}
	field := CacheFieldRecentActivity + strconv.Itoa(limit)
	return cached(ctx, s.Cache, ownerID, field, func() (*RecentActivity, error) {
		return s.recentActivity(ctx, ownerID, limit)
	})
}

func (s *DashboardService) recentActivity(ctx context.Context, ownerID string, limit int) (*RecentActivity, error) {
	now := timeNow()
	g, gctx := errgroup.WithContext(ctx)
	db := s.DB.WithContext(gctx)

	var payments []models.Payment
	var leases []models.Lease
	var reminders []models.Reminder

	g.Go(func() error {
		return db.Scopes(ownedBy(ownerID)).Preload("Tenant").Preload("Property").
			Order("updated_at DESC").Limit(limit).Find(&payments).Error
	})
	g.Go(func() error {
		return db.Scopes(ownedBy(ownerID)).Preload("Tenant").Preload("Property").
			Order("updated_at DESC").Limit(limit).Find(&leases).Error
	})
	g.Go(func() error {
		return db.Scopes(ownedBy(ownerID)).
			Where("is_completed = ? AND due_date >= ?", false, now).
			Order("due_date ASC").Limit(limit).Find(&reminders).Error
	})
	if err := g.Wait(); err != nil {
		return nil, dbError(err)
	}

	activity := &RecentActivity{
		RecentPayments:    make([]RecentPayment, 0, len(payments)),
		RecentLeases:      make([]RecentLease, 0, len(leases)),
		UpcomingReminders: reminders,
	}
	if activity.UpcomingReminders == nil {
		activity.UpcomingReminders = []models.Reminder{}
	}

	for _, p := range payments {
		tenant, property := projectParties(p.Tenant, p.Property)
		p.Tenant, p.Property = nil, nil
		activity.RecentPayments = append(activity.RecentPayments, RecentPayment{Payment: p, Tenant: tenant, Property: property})
	}
	for _, l := range leases {
		tenant, property := projectParties(l.Tenant, l.Property)
		l.Tenant, l.Property = nil, nil
		activity.RecentLeases = append(activity.RecentLeases, RecentLease{Lease: l, Tenant: tenant, Property: property})
	}
	return activity, nil
}

func projectParties(t *models.Tenant, p *models.Property) (*ActivityTenant, *ActivityProperty) {
	var tenant *ActivityTenant
	var property *ActivityProperty
	if t != nil {
		tenant = &ActivityTenant{FirstName: t.FirstName, LastName: t.LastName}
	}
	if p != nil {
		property = &ActivityProperty{Name: p.Name}
	}
	return tenant, property
}

func (s *DashboardService) GetFinancialSummary(ctx context.Context, ownerID string) (*FinancialSummary, error) {
	return cached(ctx, s.Cache, ownerID, CacheFieldFinancialSummary, func() (*FinancialSummary, error) {
		return s.financialSummary(ctx, ownerID)
	})
}

// financialSummary buckets this year's completed payments by UTC calendar month
func (s *DashboardService) financialSummary(ctx context.Context, ownerID string) (*FinancialSummary, error) {
	now := timeNow()

	var rows []struct {
		TotalAmount decimal.Decimal
		PaidDate    *time.Time
	}
	err := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Scopes(ownedBy(ownerID)).
		Select("total_amount, paid_date").
		Where("status = ? AND paid_date >= ?", models.PaymentStatusCompleted, utils.YearStart(now)).
		Scan(&rows).Error
	if err != nil {
		return nil, dbError(err)
	}

	summary := &FinancialSummary{
		YearToDateRevenue:   decimal.Zero,
		CurrentMonthRevenue: decimal.Zero,
		MonthlyRevenue:      make([]MonthlyRevenue, 12),
	}
	for i := range summary.MonthlyRevenue {
		summary.MonthlyRevenue[i] = MonthlyRevenue{Month: i, Amount: decimal.Zero}
	}

	for _, row := range rows {
		summary.YearToDateRevenue = summary.YearToDateRevenue.Add(row.TotalAmount)
		if row.PaidDate == nil {
			continue
		}
		month := row.PaidDate.UTC().Month()
		slot := &summary.MonthlyRevenue[int(month)-1]
		slot.Amount = slot.Amount.Add(row.TotalAmount)
		if month == now.Month() {
			summary.CurrentMonthRevenue = summary.CurrentMonthRevenue.Add(row.TotalAmount)
		}
	}
	return summary, nil
}
