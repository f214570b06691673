package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. The set is closed; db.Seed keeps the lookup table in
// sync with these constants.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered reader of the bookly catalog. PasswordHash
// never leaves the persistence boundary: it is excluded from JSON output and
// only the auth hasher reads it.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"uid"`
	Username     string    `gorm:"type:text;not null" json:"username"`
	FirstName    string    `gorm:"type:text;not null" json:"first_name"`
	LastName     string    `gorm:"type:text;not null" json:"last_name"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	Role         string    `gorm:"type:text;not null;default:'user'" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Books   []Book   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"books,omitempty"`
	Reviews []Review `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}
