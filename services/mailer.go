package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"

	"opsdesk-backend/models"
)

// Mailer delivers invoice emails through Resend.
type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer() *Mailer {
	apiKey := os.Getenv("RESEND_API_KEY")
	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = "Invoice App <onboarding@resend.dev>"
	}

	m := &Mailer{from: from}
	if apiKey != "" {
		m.client = resend.NewClient(apiKey)
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.client != nil
}

// InvoiceEmail is the shape handed to the delivery provider: recipient,
// structured line items and the total.
type InvoiceEmail struct {
	CustomerName  string
	CustomerEmail string
	InvoiceNumber string
	Date          string
	Items         []models.InvoiceItem
	Total         float64
}

func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func (p InvoiceEmail) html(intro string) string {
	var b strings.Builder
	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, "<h1>Invoice #%s</h1>", p.InvoiceNumber)
	fmt.Fprintf(&b, "<p>Hi %s,</p>", p.CustomerName)
	fmt.Fprintf(&b, "<p>%s</p>", intro)
	b.WriteString(`<div style="margin: 20px 0; border: 1px solid #eaeaea; border-radius: 5px; padding: 20px;">`)
	fmt.Fprintf(&b, "<p><strong>Date:</strong> %s</p>", p.Date)
	b.WriteString(`<table style="width: 100%; border-collapse: collapse; margin-top: 20px;">`)
	b.WriteString(`<thead><tr style="border-bottom: 1px solid #eaeaea; text-align: left;">` +
		`<th style="padding: 10px 0;">Item</th>` +
		`<th style="padding: 10px 0; text-align: right;">Qty</th>` +
		`<th style="padding: 10px 0; text-align: right;">Price</th>` +
		`<th style="padding: 10px 0; text-align: right;">Total</th>` +
		`</tr></thead><tbody>`)
	for _, item := range p.Items {
		lineTotal := float64(item.Qty) * item.Price
		fmt.Fprintf(&b, `<tr style="border-bottom: 1px solid #eaeaea;">`+
			`<td style="padding: 10px 0;">%s</td>`+
			`<td style="padding: 10px 0; text-align: right;">%d</td>`+
			`<td style="padding: 10px 0; text-align: right;">%s</td>`+
			`<td style="padding: 10px 0; text-align: right;">%s</td>`+
			`</tr>`, item.Name, item.Qty, money(item.Price), money(lineTotal))
	}
	b.WriteString(`</tbody><tfoot><tr>` +
		`<td colspan="3" style="padding: 10px 0; text-align: right; font-weight: bold;">Total:</td>`)
	fmt.Fprintf(&b, `<td style="padding: 10px 0; text-align: right; font-weight: bold;">%s</td>`, money(p.Total))
	b.WriteString(`</tr></tfoot></table></div>`)
	b.WriteString(`<p>Thank you for your business!</p></div>`)
	return b.String()
}

func (m *Mailer) send(to, subject, html string) (string, error) {
	sent, err := m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// SendInvoice delivers the invoice email and returns the provider message id.
func (m *Mailer) SendInvoice(p InvoiceEmail) (string, error) {
	subject := fmt.Sprintf("Invoice #%s from Invoice App", p.InvoiceNumber)
	return m.send(p.CustomerEmail, subject, p.html("Here is your invoice for the recent services."))
}

// SendPaymentReminder delivers a payment reminder for an outstanding invoice.
func (m *Mailer) SendPaymentReminder(p InvoiceEmail) (string, error) {
	subject := fmt.Sprintf("Payment reminder for invoice #%s", p.InvoiceNumber)
	return m.send(p.CustomerEmail, subject, p.html("This is a friendly reminder that the invoice below is still awaiting payment."))
}
