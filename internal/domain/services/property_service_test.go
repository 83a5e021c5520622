package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/error/code"
)

func TestCreatePropertyDefaults(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)

	p := env.newProperty(t, owner, "Sunset Apartments", "Austin", 1500)

	assert.Equal(t, 1, p.Units)
	assert.Equal(t, models.DefaultCountry, p.Address.Country)
	assert.Equal(t, models.PropertyStatusAvailable, p.Status)
	assert.JSONEq(t, `[]`, string(p.Amenities))
	assert.Equal(t, "1500", p.MonthlyRent.String())
	assert.Equal(t, 1, env.cache.invalidations)
}

func TestCreatePropertyKeepsGivenValues(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)

	p, err := env.property.Create(env.ctx, owner, CreatePropertyRequest{
		Name: "Duplex",
		Type: models.PropertyTypeMultiFamily,
		Address: AddressRequest{
			Street: "9 Elm", City: "Toronto", State: "ON", ZipCode: "M5V", Country: "Canada",
		},
		Units:           intPtr(2),
		Bedrooms:        intPtr(3),
		Amenities:       []string{"parking", "laundry"},
		MonthlyRent:     f64(2400.5),
		SecurityDeposit: f64(1000),
	})
	require.NoError(t, err)

	found, err := env.property.FindOne(env.ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Units)
	assert.Equal(t, "Canada", found.Address.Country)
	assert.Equal(t, 3, *found.Bedrooms)
	assert.Equal(t, "2400.5", found.MonthlyRent.String())

	var amenities []string
	require.NoError(t, json.Unmarshal(found.Amenities, &amenities))
	assert.Equal(t, []string{"parking", "laundry"}, amenities)
}

func TestFindAllPropertiesPaginationAndFilters(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	other := env.owner(t)

	for i := 0; i < 12; i++ {
		city := "Austin"
		if i%3 == 0 {
			city = "Dallas"
		}
		env.newProperty(t, owner, fmt.Sprintf("P%02d", i), city, float64(1000+i*100))
	}
	env.newProperty(t, other, "Not mine", "Austin", 1200)

	page, err := env.property.FindAll(env.ctx, owner, PropertyQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, models.PaginationMeta{Total: 12, Page: 1, Limit: 10, TotalPages: 2, HasNextPage: true}, page.Meta)

	page, err = env.property.FindAll(env.ctx, owner, PropertyQuery{PaginationQuery: models.PaginationQuery{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.Meta.HasNextPage)
	assert.True(t, page.Meta.HasPrevPage)

	page, err = env.property.FindAll(env.ctx, owner, PropertyQuery{City: "dAL"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Meta.Total)
	for _, p := range page.Data {
		assert.Equal(t, "Dallas", p.Address.City)
	}

	page, err = env.property.FindAll(env.ctx, owner, PropertyQuery{MinRent: f64(1500), MaxRent: f64(1700)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Meta.Total, "range is inclusive on both ends")

	page, err = env.property.FindAll(env.ctx, owner, PropertyQuery{Status: models.PropertyStatusOccupied})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Meta.Total)
	assert.NotNil(t, page.Data)
}

func TestFindAllPropertiesNewestFirstWithActiveLeases(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)

	first := env.newProperty(t, owner, "First", "Austin", 1000)
	time.Sleep(2 * time.Millisecond)
	second := env.newProperty(t, owner, "Second", "Austin", 1000)
	tenant := env.newTenant(t, owner, "Sarah", "Johnson", "sarah@example.com")
	env.newLease(t, owner, first.ID, tenant.ID)

	page, err := env.property.FindAll(env.ctx, owner, PropertyQuery{})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, second.ID, page.Data[0].ID)
	assert.Equal(t, first.ID, page.Data[1].ID)

	require.Len(t, page.Data[1].Leases, 1)
	require.NotNil(t, page.Data[1].Leases[0].Tenant)
	assert.Equal(t, "Sarah", page.Data[1].Leases[0].Tenant.FirstName)
	assert.Empty(t, page.Data[0].Leases)
}

func TestFindOnePropertyLimitsPaymentsPerLease(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Home", "Austin", 1500)
	tenant := env.newTenant(t, owner, "Mike", "Chen", "mike@example.com")
	lease := env.newLease(t, owner, p.ID, tenant.ID)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		env.newPayment(t, lease, models.PaymentStatusCompleted, 1500, base.AddDate(0, i, 0), nil)
	}

	found, err := env.property.FindOne(env.ctx, owner, p.ID)
	require.NoError(t, err)
	require.Len(t, found.Leases, 1)
	payments := found.Leases[0].Payments
	require.Len(t, payments, latestPaymentsPerLease)
	assert.True(t, payments[0].DueDate.Equal(base.AddDate(0, 6, 0)), "latest due first")
	assert.Equal(t, "Mike", found.Leases[0].Tenant.FirstName)
}

func TestPropertyCrossOwnerIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	intruder := env.owner(t)
	p := env.newProperty(t, owner, "Mine", "Austin", 1000)

	_, err := env.property.FindOne(env.ctx, intruder, p.ID)
	assert.True(t, code.Is(err, code.ErrPropertyNotFound))

	_, err = env.property.Update(env.ctx, intruder, p.ID, UpdatePropertyRequest{Name: strPtr("Stolen")})
	assert.True(t, code.Is(err, code.ErrPropertyNotFound))

	err = env.property.Remove(env.ctx, intruder, p.ID)
	assert.True(t, code.Is(err, code.ErrPropertyNotFound))

	e, _ := code.As(err)
	assert.Equal(t, 404, e.Status())

	still, err := env.property.FindOne(env.ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", still.Name)
}

func TestUpdatePropertyPartial(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Old", "Austin", 1000)

	status := models.PropertyStatusMaintenance
	updated, err := env.property.Update(env.ctx, owner, p.ID, UpdatePropertyRequest{
		Name:        strPtr("New"),
		Status:      &status,
		Address:     &UpdateAddressRequest{City: strPtr("Houston")},
		MonthlyRent: f64(1250),
		Amenities:   []string{"pool"},
	})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, models.PropertyStatusMaintenance, updated.Status)
	assert.Equal(t, "Houston", updated.Address.City)
	assert.Equal(t, "1 Test St", updated.Address.Street)
	assert.Equal(t, "1250", updated.MonthlyRent.String())
	assert.JSONEq(t, `["pool"]`, string(updated.Amenities))
}

func TestRemovePropertyCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.owner(t)
	p := env.newProperty(t, owner, "Gone", "Austin", 1000)
	tenant := env.newTenant(t, owner, "A", "B", "ab@example.com")
	lease := env.newLease(t, owner, p.ID, tenant.ID)
	env.newPayment(t, lease, models.PaymentStatusPending, 1000, time.Now(), nil)

	require.NoError(t, env.property.Remove(env.ctx, owner, p.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Lease{}).Where("property_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, env.db.Model(&models.Payment{}).Where("property_id = ?", p.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err := env.property.FindOne(env.ctx, owner, p.ID)
	assert.True(t, code.Is(err, code.ErrPropertyNotFound))
}
