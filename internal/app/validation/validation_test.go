package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" binding:"required"`
	Start   string   `json:"startDate" binding:"required,datestring"`
	End     *string  `json:"endDate" binding:"omitempty,datestring"`
	Kind    string   `json:"kind" binding:"omitempty,oneof=fixed month_to_month"`
	Rent    *float64 `json:"monthlyRent" binding:"required,gte=0"`
	Address struct {
		City string `json:"city" binding:"required"`
	} `json:"address"`
}

func validSample() sample {
	rent := 1500.0
	s := sample{Name: "x", Start: "2024-01-01", Rent: &rent}
	s.Address.City = "Austin"
	return s
}

func TestDateString(t *testing.T) {
	Register()

	for _, value := range []string{"2024-01-01", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00.123+02:00"} {
		s := validSample()
		s.Start = value
		assert.NoError(t, binding.Validator.ValidateStruct(s), value)
	}

	for _, value := range []string{"01/01/2024", "2024-13-01", "tomorrow"} {
		s := validSample()
		s.Start = value
		assert.Error(t, binding.Validator.ValidateStruct(s), value)
	}

	s := validSample()
	bad := "soon"
	s.End = &bad
	assert.Error(t, binding.Validator.ValidateStruct(s))
}

func TestMessageUsesJSONNames(t *testing.T) {
	Register()

	s := validSample()
	s.Name = ""
	s.Kind = "weekly"
	s.Rent = nil
	s.Address.City = ""

	err := binding.Validator.ValidateStruct(s)
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "name: is required")
	assert.Contains(t, msg, "kind: must be one of fixed, month_to_month")
	assert.Contains(t, msg, "monthlyRent: is required")
	assert.Contains(t, msg, "address.city: is required")
}

func TestMessagePassesOtherErrorsThrough(t *testing.T) {
	assert.Equal(t, "unexpected EOF", Message(errors.New("unexpected EOF")))
}

type PageParams struct {
	Limit int `form:"limit" binding:"omitempty,max=100"`
}

type pagedQuery struct {
	PageParams
	Search string `form:"search"`
}

func TestMessageDropsEmbeddedStructNames(t *testing.T) {
	Register()

	err := binding.Validator.ValidateStruct(pagedQuery{PageParams: PageParams{Limit: 500}})
	require.Error(t, err)
	assert.Equal(t, "limit: must be at most 100", Message(err))
}
