package models

import (
	"time"
)

const (
	RoleAdmin = "Admin"
	RoleOps   = "Ops"
)

// Profile maps an authenticated identity to a role. Rows are provisioned on
// first login with role Ops; promotion to Admin happens out of band via
// cmd/promote-user.
type Profile struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Email     string    `gorm:"column:email;uniqueIndex:Profile_email_key;not null" json:"email"`
	Role      string    `gorm:"column:role;not null;default:Ops" json:"role"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Profile) TableName() string { return "Profile" }

func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
