package models

import "time"

// Role is the lookup table documenting the closed set of role labels users
// may carry. Users reference roles by name, not by foreign key.
type Role struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:text;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
