package models

import "time"

type Product struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"size:200;not null"`
	Description string  `gorm:"size:500"`
	Price       float64 `gorm:"not null"`
	// Units on hand, never negative.
	StockQuantity int `gorm:"not null;default:0"`
	// No DB-level constraint: deleting a supplier may leave this dangling,
	// resolved at display time with an "unknown" fallback.
	SupplierID uint `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  *time.Time `gorm:"autoUpdateTime:false"`
}
