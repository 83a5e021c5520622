package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

func TestBuildPaymentReceipt(t *testing.T) {
	subject, body := BuildPaymentReceipt(PaymentReceipt{
		To:           "sarah@example.com",
		TenantName:   "Sarah Johnson",
		PropertyName: "Sunset Apartments",
		Amount:       decimal.RequireFromString("1500.5"),
		PaidDate:     time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC),
		Method:       "bank_transfer",
		PaymentID:    "pay-123",
	})

	assert.Equal(t, "Payment received for Sunset Apartments", subject)
	assert.Contains(t, body, "Hi Sarah Johnson,")
	assert.Contains(t, body, "$1500.50")
	assert.Contains(t, body, "March 10, 2024")
	assert.Contains(t, body, "Method: bank transfer")
	assert.Contains(t, body, "Reference: pay-123")
}

func TestBuildPaymentReceiptWithoutMethod(t *testing.T) {
	_, body := BuildPaymentReceipt(PaymentReceipt{PropertyName: "Home", Amount: decimal.NewFromInt(10)})
	assert.NotContains(t, body, "Method:")
	assert.Contains(t, body, "$10.00")
}

func TestNewMailServiceRequiresSMTP(t *testing.T) {
	assert.IsType(t, NoopMailService{}, NewMailService(&config.Config{}))

	svc := NewMailService(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPFrom: "noreply@example.com"})
	assert.IsType(t, &MailService{}, svc)
}
