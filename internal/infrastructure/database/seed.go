package database

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/pkg/logger"
	"github.com/arasfeld/rent-app/pkg/utils"
)

// Demo account created by Seed
const (
	DemoEmail    = "demo@rentapp.com"
	DemoPassword = "password123"
)

// Seed loads a demo landlord with a small portfolio. It does nothing when the
// demo user already owns properties.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ensureDemoUser(tx)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Property{}).Where("owner_id = ?", user.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			logger.Info("demo data already present for %s, skipping seed", DemoEmail)
			return nil
		}

		return seedPortfolio(tx, user, now.UTC())
	})
}

func ensureDemoUser(tx *gorm.DB) (*models.User, error) {
	var user models.User
	err := tx.Where("email = ?", DemoEmail).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}
	user = models.User{
		Email:        DemoEmail,
		PasswordHash: hash,
		FirstName:    "John",
		LastName:     "Landlord",
		Phone:        "555-123-4567",
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, err
	}
	logger.Info("created demo user %s", user.Email)
	return &user, nil
}

func seedPortfolio(tx *gorm.DB, user *models.User, now time.Time) error {
	intp := func(v int) *int { return &v }
	floatp := func(v float64) *float64 { return &v }
	money := decimal.NewFromInt
	monthStart := func(offset int) time.Time {
		return time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	}

	sunset := models.Property{
		OwnerID: user.ID, Name: "Sunset Apartments Unit 101", Type: models.PropertyTypeApartment,
		Status: models.PropertyStatusOccupied,
		Address: models.Address{Street: "123 Sunset Blvd", Unit: "101", City: "Los Angeles", State: "CA",
			ZipCode: "90028", Country: models.DefaultCountry},
		Units: 1, Bedrooms: intp(2), Bathrooms: floatp(1), SquareFeet: intp(850), YearBuilt: intp(1985),
		Description: "Cozy 2-bedroom apartment with updated kitchen",
		Amenities:   models.AmenitiesJSON([]string{"Parking", "Laundry", "Pool"}),
		MonthlyRent: money(2200), SecurityDeposit: money(2200),
	}
	oak := models.Property{
		OwnerID: user.ID, Name: "Oak Street House", Type: models.PropertyTypeSingleFamily,
		Status: models.PropertyStatusAvailable,
		Address: models.Address{Street: "456 Oak Street", City: "Pasadena", State: "CA",
			ZipCode: "91101", Country: models.DefaultCountry},
		Units: 1, Bedrooms: intp(3), Bathrooms: floatp(2), SquareFeet: intp(1500), YearBuilt: intp(1972),
		Description: "Charming single-family home with backyard",
		Amenities:   models.AmenitiesJSON([]string{"Garage", "Backyard", "Central AC"}),
		MonthlyRent: money(3500), SecurityDeposit: money(3500),
	}
	condo := models.Property{
		OwnerID: user.ID, Name: "Downtown Condo 5B", Type: models.PropertyTypeCondo,
		Status: models.PropertyStatusOccupied,
		Address: models.Address{Street: "789 Main Street", Unit: "5B", City: "Los Angeles", State: "CA",
			ZipCode: "90015", Country: models.DefaultCountry},
		Units: 1, Bedrooms: intp(1), Bathrooms: floatp(1), SquareFeet: intp(650), YearBuilt: intp(2015),
		Description: "Modern downtown condo with city views",
		Amenities:   models.AmenitiesJSON([]string{"Gym", "Rooftop", "Concierge", "Parking"}),
		MonthlyRent: money(2800), SecurityDeposit: money(2800),
	}
	for _, p := range []*models.Property{&sunset, &oak, &condo} {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
	}

	income := func(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(money(v)) }
	sarah := models.Tenant{
		OwnerID: user.ID, FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@email.com",
		Phone: "555-234-5678", Status: models.TenantStatusActive,
		EmploymentInfo:   models.EmploymentInfo{Employer: "Tech Corp", Position: "Software Engineer", MonthlyIncome: income(8500)},
		EmergencyContact: models.EmergencyContact{Name: "Michael Johnson", Phone: "555-345-6789", Relationship: "Brother"},
	}
	david := models.Tenant{
		OwnerID: user.ID, FirstName: "David", LastName: "Chen", Email: "david.chen@email.com",
		Phone: "555-456-7890", Status: models.TenantStatusActive,
		EmploymentInfo:   models.EmploymentInfo{Employer: "Marketing Agency", Position: "Marketing Manager", MonthlyIncome: income(7200)},
		EmergencyContact: models.EmergencyContact{Name: "Lisa Chen", Phone: "555-567-8901", Relationship: "Spouse"},
	}
	emily := models.Tenant{
		OwnerID: user.ID, FirstName: "Emily", LastName: "Rodriguez", Email: "emily.rodriguez@email.com",
		Phone: "555-678-9012", Status: models.TenantStatusPending,
		EmploymentInfo: models.EmploymentInfo{Employer: "Healthcare Inc", Position: "Nurse", MonthlyIncome: income(6500)},
	}
	for _, t := range []*models.Tenant{&sarah, &david, &emily} {
		if err := tx.Create(t).Error; err != nil {
			return err
		}
	}

	lease1 := models.Lease{
		PropertyID: sunset.ID, TenantID: sarah.ID, OwnerID: user.ID,
		Type: models.LeaseTypeFixed, Status: models.LeaseStatusActive,
		StartDate: monthStart(-12), EndDate: monthStart(12),
		MonthlyRent: money(2200), SecurityDeposit: money(2200), SecurityDepositPaid: true,
		LateFeeAmount: decimal.NewNullDecimal(money(100)), LateFeeGracePeriodDays: intp(5), PaymentDueDay: 1,
	}
	lease2 := models.Lease{
		PropertyID: condo.ID, TenantID: david.ID, OwnerID: user.ID,
		Type: models.LeaseTypeFixed, Status: models.LeaseStatusActive,
		StartDate: monthStart(-6), EndDate: monthStart(6),
		MonthlyRent: money(2800), SecurityDeposit: money(2800), SecurityDepositPaid: true,
		LateFeeAmount: decimal.NewNullDecimal(money(150)), LateFeeGracePeriodDays: intp(5), PaymentDueDay: 1,
	}
	for _, l := range []*models.Lease{&lease1, &lease2} {
		if err := tx.Create(l).Error; err != nil {
			return err
		}
	}

	var payments []models.Payment
	bank, zelle := models.PaymentMethodBankTransfer, models.PaymentMethodZelle
	for i := 2; i >= 0; i-- {
		start := monthStart(-i)
		end := monthStart(-i + 1).AddDate(0, 0, -1)
		paid := start.AddDate(0, 0, 2)
		payments = append(payments, models.Payment{
			LeaseID: lease1.ID, TenantID: sarah.ID, PropertyID: sunset.ID, OwnerID: user.ID,
			Type: models.PaymentTypeRent, Status: models.PaymentStatusCompleted,
			Amount: money(2200), TotalAmount: money(2200), Method: &bank,
			DueDate: start, PaidDate: &paid, PeriodStart: timePtr(start), PeriodEnd: timePtr(end),
		})
	}
	for i := 2; i >= 0; i-- {
		start := monthStart(-i)
		end := monthStart(-i + 1).AddDate(0, 0, -1)
		p := models.Payment{
			LeaseID: lease2.ID, TenantID: david.ID, PropertyID: condo.ID, OwnerID: user.ID,
			Type: models.PaymentTypeRent, Status: models.PaymentStatusCompleted,
			Amount: money(2800), TotalAmount: money(2800),
			DueDate: start, PeriodStart: timePtr(start), PeriodEnd: timePtr(end),
		}
		if i == 0 {
			p.Status = models.PaymentStatusPending
		} else {
			p.Method = &zelle
			p.PaidDate = timePtr(start)
		}
		payments = append(payments, p)
	}
	if err := tx.Create(&payments).Error; err != nil {
		return err
	}

	reminders := []models.Reminder{
		{
			OwnerID: user.ID, Type: models.ReminderTypeLeaseExpiration,
			Title:       "Lease expiring soon - Sunset Apartments 101",
			Description: "Sarah Johnson's lease expires in 30 days. Consider sending renewal offer.",
			DueDate:     monthStart(1), RelatedEntityID: lease1.ID, RelatedEntityType: "lease",
		},
		{
			OwnerID: user.ID, Type: models.ReminderTypeRentDue,
			Title:       "Rent due - Downtown Condo 5B",
			Description: "David Chen's rent payment is due.",
			DueDate:     monthStart(0), RelatedEntityID: lease2.ID, RelatedEntityType: "payment",
		},
		{
			OwnerID: user.ID, Type: models.ReminderTypeInspection,
			Title:       "Annual inspection - Oak Street House",
			Description: "Schedule annual property inspection.",
			DueDate:     monthStart(2).AddDate(0, 0, 14), RelatedEntityID: oak.ID, RelatedEntityType: "property",
		},
	}
	if err := tx.Create(&reminders).Error; err != nil {
		return err
	}

	logger.Info("seeded 3 properties, 3 tenants, 2 leases, %d payments and %d reminders", len(payments), len(reminders))
	return nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
