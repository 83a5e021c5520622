package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
)

func TestCreateTenantStartsPending(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)

	tenant, err := env.tenant.Create(env.ctx, owner, CreateTenantRequest{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah.johnson@email.com",
		DateOfBirth: strPtr("1990-05-14"),
		EmergencyContact: &EmergencyContactRequest{
			Name: "Jane Doe", Relationship: "Sister", Phone: "555-987-6543",
		},
		EmploymentInfo: &EmploymentInfoRequest{Employer: "Acme", MonthlyIncome: f64(6500)},
	})
	require.NoError(t, err)

	assert.Equal(t, models.TenantStatusPending, tenant.Status)
	require.NotNil(t, tenant.DateOfBirth)
	assert.True(t, tenant.DateOfBirth.Equal(time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC)))

	found, err := env.tenant.FindOne(env.ctx, owner, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sister", found.EmergencyContact.Relationship)
	assert.Equal(t, "Acme", found.EmploymentInfo.Employer)
	assert.True(t, found.EmploymentInfo.MonthlyIncome.Valid)
	assert.Equal(t, "6500", found.EmploymentInfo.MonthlyIncome.Decimal.String())
}

func TestCreateTenantRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)

	_, err := env.tenant.Create(env.ctx, owner, CreateTenantRequest{
		FirstName: "A", LastName: "B", Email: "a@b.com", DateOfBirth: strPtr("14/05/1990"),
	})
	assert.True(t, code.Is(err, code.ErrValidation))
}

func TestFindAllTenantsSearch(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	env.newTenant(t, owner, "Mike", "Chen", "mike@example.com")
	env.newTenant(t, owner, "Emily", "Davis", "edavis@johnson-law.com")

	cases := []struct {
		search string
		want   int64
	}{
		{"sarah", 1},
		{"JOHNSON", 2},
		{"chen", 1},
		{"example.com", 2},
		{"nobody", 0},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			page, err := env.tenant.FindAll(env.ctx, owner, TenantQuery{Search: tc.search})
			require.NoError(t, err)
			assert.Equal(t, tc.want, page.Meta.Total)
			assert.Len(t, page.Data, int(tc.want))
		})
	}
}

func TestFindAllTenantsSearchStaysOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	other := env.owner(t)
	env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	env.newTenant(t, other, "Sarah", "Smith", "smith@example.com")

	page, err := env.tenant.FindAll(env.ctx, owner, TenantQuery{Search: "sarah"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Johnson", page.Data[0].LastName)
}

func TestFindAllTenantsActiveLeaseFilter(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Home", "Austin", 1500)
	leased := env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	env.newTenant(t, owner, "Mike", "Chen", "mike@example.com")
	env.newLease(t, owner, p.ID, leased.ID)

	yes := true
	page, err := env.tenant.FindAll(env.ctx, owner, TenantQuery{HasActiveLease: &yes})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, leased.ID, page.Data[0].ID)
	require.Len(t, page.Data[0].Leases, 1)
	assert.Equal(t, "Home", page.Data[0].Leases[0].Property.Name)

	no := false
	page, err = env.tenant.FindAll(env.ctx, owner, TenantQuery{HasActiveLease: &no})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Mike", page.Data[0].FirstName)

	page, err = env.tenant.FindAll(env.ctx, owner, TenantQuery{Status: models.TenantStatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Meta.Total)
}

func TestFindOneTenantWithLeasesAndPayments(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Home", "Austin", 1500)
	tenant := env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	lease := env.newLease(t, owner, p.ID, tenant.ID)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		env.newPayment(t, lease, models.PaymentStatusCompleted, 1500, base.AddDate(0, i, 0), nil)
	}

	found, err := env.tenant.FindOne(env.ctx, owner, tenant.ID)
	require.NoError(t, err)
	require.Len(t, found.Leases, 1)
	assert.Equal(t, p.ID, found.Leases[0].Property.ID)
	require.Len(t, found.Payments, latestPaymentsPerTenant)
	assert.True(t, found.Payments[0].DueDate.Equal(base.AddDate(0, 11, 0)))

	_, err = env.tenant.FindOne(env.ctx, env.owner(t), tenant.ID)
	assert.True(t, code.Is(err, code.ErrTenantNotFound))
}

func TestUpdateTenantEmbeddedFields(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	tenant := env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")

	evicted := models.TenantStatusEvicted
	updated, err := env.tenant.Update(env.ctx, owner, tenant.ID, UpdateTenantRequest{
		Phone:  strPtr("555-111-2222"),
		Status: &evicted,
		EmergencyContact: &EmergencyContactRequest{
			Name: "Tom", Relationship: "Brother", Phone: "555-000-0000",
		},
		EmploymentInfo: &EmploymentInfoRequest{Employer: "Globex", Position: "Analyst", MonthlyIncome: f64(4200)},
	})
	require.NoError(t, err)

	assert.Equal(t, "555-111-2222", updated.Phone)
	assert.Equal(t, models.TenantStatusEvicted, updated.Status)
	assert.Equal(t, "Tom", updated.EmergencyContact.Name)
	assert.Equal(t, "Globex", updated.EmploymentInfo.Employer)
	assert.Equal(t, "4200", updated.EmploymentInfo.MonthlyIncome.Decimal.String())
	assert.Equal(t, "Sarah", updated.FirstName)
}

func TestRemoveTenantReleasesProperty(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Home", "Austin", 1500)
	tenant := env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	lease := env.newLease(t, owner, p.ID, tenant.ID)
	env.newPayment(t, lease, models.PaymentStatusPending, 1500, time.Now(), nil)
	require.Equal(t, models.PropertyStatusOccupied, env.propertyStatus(t, p.ID))

	require.NoError(t, env.tenant.Remove(env.ctx, owner, tenant.ID))

	assert.Equal(t, models.PropertyStatusAvailable, env.propertyStatus(t, p.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Lease{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Model(&models.Payment{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error)
	assert.Zero(t, count)

	err := env.tenant.Remove(env.ctx, owner, tenant.ID)
	assert.True(t, code.Is(err, code.ErrTenantNotFound))
}
