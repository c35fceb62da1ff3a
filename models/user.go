package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"opsdesk-backend/utils"
)

// User is the local identity record. A Profile row keyed by User.ID holds the
// role; the two are separate so an external identity provider could replace
// this table without touching the role store.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;column:id;primaryKey" json:"id"`
	Email     string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"column:password;not null" json:"-"`
	Name      string     `gorm:"column:name" json:"name"`
	LastLogin *time.Time `gorm:"column:lastLogin" json:"lastLogin"`
	CreatedAt time.Time  `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"column:updatedAt" json:"updatedAt"`
}

func (User) TableName() string { return "User" }

// Hash the password before the row is written.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
