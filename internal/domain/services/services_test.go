package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arasfeld/rent-app/internal/domain/models"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/internal/test/testdb"
)

type recordedEvent struct {
	OwnerID string
	Event   string
}

type recordingEvents struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingEvents) Connect() error { return nil }
func (r *recordingEvents) Disconnect() {}
func (r *recordingEvents) Publish(ownerID, event string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{OwnerID: ownerID, Event: event})
}

func (r *recordingEvents) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Event)
	}
	return out
}

type mockMail struct {
	mock.Mock
}

func (m *mockMail) SendPaymentReceipt(receipt PaymentReceipt) {
	m.Called(receipt)
}

// memoryCache is an in-process InterfaceCacheService that counts invalidations
type memoryCache struct {
	mu            sync.Mutex
	data          map[string]map[string][]byte
	invalidations int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, ownerID, field string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[ownerID][field]
	if !ok {
		return ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, ownerID, field string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data[ownerID] == nil {
		c.data[ownerID] = make(map[string][]byte)
	}
	c.data[ownerID][field] = raw
	return nil
}

func (c *memoryCache) InvalidateOwner(_ context.Context, ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, ownerID)
	c.invalidations++
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }
func (c *memoryCache) Close() error { return nil }

type testEnv struct {
	ctx    context.Context
	db     *gorm.DB
	cfg    *config.Config
	cache  *memoryCache
	events *recordingEvents
	mail   *mockMail

	auth      InterfaceAuthService
	property  InterfacePropertyService
	tenant    InterfaceTenantService
	lease     InterfaceLeaseService
	payment   InterfacePaymentService
	dashboard InterfaceDashboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecretKey:  "test-secret",
		JWTAccessTTL:  time.Hour,
		JWTRefreshTTL: 30 * 24 * time.Hour,
		CacheTTL:      time.Minute,
	}
	db := testdb.New(t)
	cache := newMemoryCache()
	events := &recordingEvents{}
	mail := &mockMail{}
	mail.On("SendPaymentReceipt", mock.Anything).Return().Maybe()

	return &testEnv{
		ctx:       context.Background(),
		db:        db,
		cfg:       cfg,
		cache:     cache,
		events:    events,
		mail:      mail,
		auth:      NewAuthService(db, cfg, NewJWTService(cfg)),
		property:  NewPropertyService(db, cfg, cache),
		tenant:    NewTenantService(db, cfg, cache),
		lease:     NewLeaseService(db, cfg, cache, events),
		payment:   NewPaymentService(db, cfg, cache, events, mail),
		dashboard: NewDashboardService(db, cfg, cache),
	}
}

// freezeTime pins timeNow for the rest of the test
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}

var ownerSeq int

func (e *testEnv) owner(t *testing.T) string {
	t.Helper()
	ownerSeq++
	user := &models.User{
		Email:        fmt.Sprintf("owner%d@example.com", ownerSeq),
		PasswordHash: "x",
		FirstName:    "Owner",
		LastName:     fmt.Sprint(ownerSeq),
	}
	require.NoError(t, e.db.Create(user).Error)
	return user.ID
}

func f64(v float64) *float64 { return &v }
func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func boolPtr(b bool) *bool { return &b }
func ptrTime(t time.Time) *time.Time { return &t }

func (e *testEnv) newProperty(t *testing.T, ownerID, name, city string, rent float64) *models.Property {
	t.Helper()
	p, err := e.property.Create(e.ctx, ownerID, CreatePropertyRequest{
		Name: name,
		Type: models.PropertyTypeApartment,
		Address: AddressRequest{
			Street:  "1 Test St",
			City:    city,
			State:   "TX",
			ZipCode: "78701",
		},
		MonthlyRent: f64(rent),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) newTenant(t *testing.T, ownerID, first, last, email string) *models.Tenant {
	t.Helper()
	tenant, err := e.tenant.Create(e.ctx, ownerID, CreateTenantRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
	})
	require.NoError(t, err)
	return tenant
}

func (e *testEnv) newLease(t *testing.T, ownerID, propertyID, tenantID string) *models.Lease {
	t.Helper()
	lease, err := e.lease.Create(e.ctx, ownerID, CreateLeaseRequest{
		PropertyID:      propertyID,
		TenantID:        tenantID,
		Type:            models.LeaseTypeFixed,
		StartDate:       "2024-01-01",
		EndDate:         "2024-12-31",
		MonthlyRent:     f64(1500),
		SecurityDeposit: f64(1500),
	})
	require.NoError(t, err)
	return lease
}

// newPayment inserts a payment directly so tests control status and dates
func (e *testEnv) newPayment(t *testing.T, lease *models.Lease, status models.PaymentStatus, amount float64, due time.Time, paid *time.Time) *models.Payment {
	t.Helper()
	p := &models.Payment{
		LeaseID:     lease.ID,
		TenantID:    lease.TenantID,
		PropertyID:  lease.PropertyID,
		OwnerID:     lease.OwnerID,
		Type:        models.PaymentTypeRent,
		Status:      status,
		Amount:      decimal.NewFromFloat(amount),
		TotalAmount: decimal.NewFromFloat(amount),
		DueDate:     due.UTC(),
		PaidDate:    paid,
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) propertyStatus(t *testing.T, id string) models.PropertyStatus {
	t.Helper()
	var p models.Property
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p.Status
}

func (e *testEnv) tenantStatus(t *testing.T, id string) models.TenantStatus {
	t.Helper()
	var tenant models.Tenant
	require.NoError(t, e.db.First(&tenant, "id = ?", id).Error)
	return tenant.Status
}
