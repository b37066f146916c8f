package model

import (
	"time"
)

// Admin represents the administrator account created by the bootstrap
// operation. There is no update or delete lifecycle for admins.
type Admin struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Username     string    `json:"username" gorm:"type:varchar(50);unique;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
