package models

import (
	"time"
)

// Customer maps the "Customer" table. Column names stay camelCase and
// case-sensitive so the service interoperates with data written by earlier
// deployments of the app.
type Customer struct {
	ID            string    `gorm:"column:id;primaryKey" json:"id"`
	Name          string    `gorm:"column:name;not null" json:"name"`
	Email         string    `gorm:"column:email;not null" json:"email"`
	Address       string    `gorm:"column:address" json:"address"`
	Phone         string    `gorm:"column:phone" json:"phone"`
	Location      string    `gorm:"column:location" json:"location"`
	LastVisited   string    `gorm:"column:lastVisited;default:Never" json:"lastVisited"`
	CreatedAt     time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updatedAt" json:"updatedAt"`
	Notes         string    `gorm:"column:notes" json:"notes"`
	AttachmentURL string    `gorm:"column:attachmentUrl" json:"attachmentUrl"`
	SignatureURL  string    `gorm:"column:signatureUrl" json:"signatureUrl"`
}

func (Customer) TableName() string { return "Customer" }
