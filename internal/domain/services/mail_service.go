package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/pkg/logger"
)

// InterfaceMailService sends tenant-facing notifications
type InterfaceMailService interface {
	SendPaymentReceipt(receipt PaymentReceipt)
}

// PaymentReceipt is what a tenant sees after a payment is recorded
type PaymentReceipt struct {
	To           string
	TenantName   string
	PropertyName string
	Amount       decimal.Decimal
	PaidDate     time.Time
	Method       string
	PaymentID    string
}

// MailService delivers mail over SMTP
type MailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailService returns an SMTP sender, or a no-op one when SMTP is not configured
func NewMailService(cfg *config.Config) InterfaceMailService {
	if !cfg.SMTPEnabled() {
		return NoopMailService{}
	}
	return &MailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
	}
}

// SendPaymentReceipt sends in the background; delivery failures are only logged
func (s *MailService) SendPaymentReceipt(receipt PaymentReceipt) {
	if receipt.To == "" {
		return
	}
	subject, body := BuildPaymentReceipt(receipt)
	s.sendAsync(receipt.To, subject, body)
}

func (s *MailService) sendAsync(to, subject, body string) {
	go func() {
		if err := s.send(to, subject, body); err != nil {
			logger.L().Error("send mail failed", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *MailService) send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.StartTLSPolicy = mail.OpportunisticStartTLS

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}

	logger.L().Info("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// BuildPaymentReceipt renders the subject and HTML body of a receipt
func BuildPaymentReceipt(r PaymentReceipt) (string, string) {
	subject := fmt.Sprintf("Payment received for %s", r.PropertyName)

	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", r.TenantName)
	fmt.Fprintf(&b, "<p>We received your payment of <strong>$%s</strong> on %s.</p>",
		r.Amount.StringFixed(2), r.PaidDate.UTC().Format("January 2, 2006"))
	b.WriteString("<ul>")
	fmt.Fprintf(&b, "<li>Property: %s</li>", r.PropertyName)
	if r.Method != "" {
		fmt.Fprintf(&b, "<li>Method: %s</li>", strings.ReplaceAll(r.Method, "_", " "))
	}
	fmt.Fprintf(&b, "<li>Reference: %s</li>", r.PaymentID)
	b.WriteString("</ul><p>Thank you.</p>")

	return subject, b.String()
}

// NoopMailService discards mail
type NoopMailService struct{}

func (NoopMailService) SendPaymentReceipt(PaymentReceipt) {}
