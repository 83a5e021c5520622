package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		name        string
		total       int64
		page, limit int
		want        PaginationMeta
	}{
		{"empty", 0, 1, 10, PaginationMeta{Total: 0, Page: 1, Limit: 10, TotalPages: 0}},
		{"exact pages", 20, 1, 10, PaginationMeta{Total: 20, Page: 1, Limit: 10, TotalPages: 2, HasNextPage: true}},
		{"last partial page", 21, 3, 10, PaginationMeta{Total: 21, Page: 3, Limit: 10, TotalPages: 3, HasPrevPage: true}},
		{"middle page", 35, 2, 10, PaginationMeta{Total: 35, Page: 2, Limit: 10, TotalPages: 4, HasNextPage: true, HasPrevPage: true}},
		{"past the end", 5, 4, 10, PaginationMeta{Total: 5, Page: 4, Limit: 10, TotalPages: 1, HasPrevPage: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPaginationMeta(tt.total, tt.page, tt.limit))
		})
	}
}

func TestPaginationQueryNormalize(t *testing.T) {
	q := PaginationQuery{}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q = PaginationQuery{Page: 3, Limit: 500}
	q.Normalize()
	assert.Equal(t, 100, q.Limit)
	assert.Equal(t, 200, q.Offset())
}

func TestPaginatedResultEncodesEmptyData(t *testing.T) {
	res := NewPaginatedResult[Property](nil, 0, PaginationQuery{Page: 1, Limit: 10})
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"data":[]`)
	assert.Contains(t, string(raw), `"hasNextPage":false`)
}

func TestTotalOf(t *testing.T) {
	amount := decimal.NewFromInt(2200)

	assert.True(t, TotalOf(amount, decimal.NullDecimal{}).Equal(amount))
	fee := decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true}
	assert.True(t, TotalOf(amount, fee).Equal(decimal.NewFromInt(2300)))
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	p := Payment{Amount: decimal.RequireFromString("2200.50")}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"amount":2200.5`)
	assert.Contains(t, string(raw), `"lateFee":null`)
}

func TestUserHidesPasswordHash(t *testing.T) {
	raw, err := json.Marshal(User{Email: "demo@rentapp.com", PasswordHash: "secret"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
}

func TestLeaseStatusReleasesProperty(t *testing.T) {
	assert.True(t, LeaseStatusTerminated.ReleasesProperty())
	assert.True(t, LeaseStatusExpired.ReleasesProperty())
	assert.False(t, LeaseStatusActive.ReleasesProperty())
	assert.False(t, LeaseStatusRenewed.ReleasesProperty())
}

func TestAmenitiesJSON(t *testing.T) {
	assert.Equal(t, "[]", string(AmenitiesJSON(nil)))
	assert.Equal(t, `["pool","gym"]`, string(AmenitiesJSON([]string{"pool", "gym"})))
}
