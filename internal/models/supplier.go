package models

import "time"

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Contact   string `gorm:"size:100;not null"`
	Phone     string `gorm:"size:50;not null"`
	Email     string `gorm:"size:200;not null"`
	Address   string `gorm:"size:255;not null"`
	CreatedAt time.Time
	// Set on the first edit, never on create.
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}
