package models

import (
	"time"
)

// Invoice lifecycle statuses. Overdue is never stored: it is derived at read
// time from sentAt and the reminder window.
const (
	StatusDraft   = "Draft"
	StatusSent    = "Sent"
	StatusPaid    = "Paid"
	StatusOverdue = "Overdue"
)

type Invoice struct {
	ID            string     `gorm:"column:id;primaryKey" json:"id"`
	InvoiceNumber string     `gorm:"column:invoiceId;not null" json:"invoiceId"`
	Title         string     `gorm:"column:title;not null" json:"title"`
	Subtotal      float64    `gorm:"column:subtotal;not null" json:"subtotal"`
	Total         float64    `gorm:"column:total;not null" json:"total"`
	Status        string     `gorm:"column:status;not null" json:"status"`
	Date          string     `gorm:"column:date;not null" json:"date"`
	CreatedAt     time.Time  `gorm:"column:createdAt" json:"createdAt"`
	SentAt        *time.Time `gorm:"column:sentAt" json:"sentAt"`
	CustomerID    string     `gorm:"column:customerId;not null;index" json:"customerId"`
	ProjectID     *string    `gorm:"column:projectId;index" json:"projectId"`

	// Loaded explicitly by the invoice controller.
	Items []InvoiceItem `gorm:"-" json:"items"`
}

func (Invoice) TableName() string { return "Invoice" }

type InvoiceItem struct {
	ID        string  `gorm:"column:id;primaryKey" json:"id"`
	Name      string  `gorm:"column:name;not null" json:"name"`
	Qty       int     `gorm:"column:qty;not null" json:"qty"`
	Price     float64 `gorm:"column:price;not null" json:"price"`
	InvoiceID string  `gorm:"column:invoiceId;not null;index" json:"invoiceId"`

	// qty × price, computed at read time, never stored.
	Total float64 `gorm:"-" json:"total"`
}

func (InvoiceItem) TableName() string { return "InvoiceItem" }
