// FILE: internal/model/addon_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type AddOn struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(100);not null"`
	Status    string    `gorm:"type:varchar(50);not null;default:'active'"`
	StartDate time.Time `gorm:"not null"`
	Price     float64   `gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (AddOn) TableName() string {
	return "add_ons"
}
