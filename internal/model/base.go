package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel handles the surrogate ID, the optimistic version counter and audit timestamps
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Hook Before Create so every row starts at version 1
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	if base.Version == 0 {
		base.Version = 1
	}
	return
}
