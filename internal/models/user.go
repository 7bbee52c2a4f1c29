package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered account. The ID and the unique email/username are
// immutable; profile fields are not.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username  string         `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string         `gorm:"size:150;not null" json:"first_name"`
	LastName  string         `gorm:"size:150;not null" json:"last_name"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
