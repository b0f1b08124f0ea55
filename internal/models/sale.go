package models

import "time"

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentCard    PaymentMethod = "Card"
	PaymentPIX     PaymentMethod = "PIX"
	PaymentInvoice PaymentMethod = "Invoice"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPIX, PaymentInvoice:
		return true
	}
	return false
}

type Sale struct {
	ID uint `gorm:"primaryKey"`
	// Client may have been deleted since; displayed with a "not found" fallback.
	ClientID      uint      `gorm:"index"`
	SaleDate      time.Time `gorm:"not null"`
	Total         float64   `gorm:"not null"`
	PaymentMethod PaymentMethod `gorm:"size:20;not null;default:'Cash'"`
	Items         []SaleItem    `gorm:"foreignKey:SaleID"`
	CreatedAt     time.Time
	UpdatedAt     *time.Time `gorm:"autoUpdateTime:false"`
}

type SaleItem struct {
	ID        uint `gorm:"primaryKey"`
	SaleID    uint `gorm:"index;not null"`
	ProductID uint `gorm:"index"`
	Quantity  int  `gorm:"not null"`
	// Price copied from the product when the item was added, not live-linked.
	UnitPrice float64 `gorm:"not null"`
	Subtotal  float64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`
}
