package models

import "time"

type Client struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Phone     string `gorm:"size:50;not null"`
	Email     string `gorm:"size:200;not null"`
	Address   string `gorm:"size:255;not null"`
	CreatedAt time.Time
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}
