package models

import (
	"time"

	"github.com/google/uuid"
)

// Book is a catalog entry, optionally owned by the user who added it.
type Book struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"uid"`
	Title       string     `gorm:"type:varchar(256);not null" json:"title"`
	Author      string     `gorm:"type:text;not null" json:"author"`
	Publisher   string     `gorm:"type:text;not null" json:"publisher"`
	PublishDate string     `gorm:"type:text;not null" json:"publish_date"`
	PageCount   int        `gorm:"not null" json:"page_count"`
	Language    string     `gorm:"type:text;not null" json:"language"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Reviews []Review `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}
