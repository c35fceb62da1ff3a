// services/reminder_service.go
package services

import (
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

// ReminderService chases outstanding invoices: once a Sent invoice passes
// the overdue window it emails the customer a payment reminder, and sends an
// SMS too when Twilio is configured and the customer has a phone number. It
// never rewrites invoice status; Overdue stays a derived value.
type ReminderService struct {
	db        *gorm.DB
	mailer    *Mailer
	smsClient *twilio.RestClient
	smsFrom   string
}

func NewReminderService(db *gorm.DB) *ReminderService {
	s := &ReminderService{
		db:     db,
		mailer: NewMailer(),
	}

	if accountSid := os.Getenv("TWILIO_ACCOUNT_SID"); accountSid != "" {
		s.smsClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: os.Getenv("TWILIO_AUTH_TOKEN"),
		})
		s.smsFrom = os.Getenv("TWILIO_PHONE_NUMBER")
	}

	return s
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SendPaymentReminders)

	c.Start()
	config.GetLogger().Info("Payment reminder scheduler started")
}

type overdueInvoice struct {
	models.Invoice `gorm:"embedded"`
	CustomerName   string `gorm:"column:customerName"`
	CustomerEmail  string `gorm:"column:customerEmail"`
	CustomerPhone  string `gorm:"column:customerPhone"`
}

func (s *ReminderService) overdueInvoices() ([]overdueInvoice, error) {
	cutoff := time.Now().AddDate(0, 0, -utils.OverdueAfterDays())

	invoices := []overdueInvoice{}
	err := s.db.Raw(`
		SELECT i.*, c."name" AS "customerName", c."email" AS "customerEmail", c."phone" AS "customerPhone"
		FROM "Invoice" i
		JOIN "Customer" c ON i."customerId" = c."id"
		WHERE i."status" = ? AND i."sentAt" IS NOT NULL AND i."sentAt" <= ?
		ORDER BY i."sentAt" ASC`, models.StatusSent, cutoff).Scan(&invoices).Error
	return invoices, err
}

func (s *ReminderService) SendPaymentReminders() {
	logger := config.GetLogger()

	if !s.mailer.Enabled() {
		logger.Warn("Email delivery not configured; skipping payment reminders")
		return
	}

	invoices, err := s.overdueInvoices()
	if err != nil {
		config.LogError("services", "SendPaymentReminders", "load overdue invoices", err)
		return
	}

	for _, inv := range invoices {
		var items []models.InvoiceItem
		if err := s.db.Where(`"invoiceId" = ?`, inv.ID).Find(&items).Error; err != nil {
			config.LogError("services", "SendPaymentReminders", "load items", err)
			continue
		}

		_, err := s.mailer.SendPaymentReminder(InvoiceEmail{
			CustomerName:  inv.CustomerName,
			CustomerEmail: inv.CustomerEmail,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date,
			Items:         items,
			Total:         inv.Total,
		})
		if err != nil {
			config.LogError("services", "SendPaymentReminders", "send email", err)
			continue
		}

		if s.smsClient != nil && inv.CustomerPhone != "" {
			s.sendSMS(inv.CustomerPhone, fmt.Sprintf(
				"Hi %s, invoice #%s (%s) is still awaiting payment. Please check your email for details.",
				inv.CustomerName, inv.InvoiceNumber, money(inv.Total)))
		}

		logger.WithField("invoice", inv.InvoiceNumber).Info("Payment reminder sent")
	}
}

func (s *ReminderService) sendSMS(to, body string) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.smsFrom)
	params.SetBody(body)

	if _, err := s.smsClient.Api.CreateMessage(params); err != nil {
		config.LogError("services", "sendSMS", "twilio create message", err)
	}
}
