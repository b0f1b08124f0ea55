package models

import "time"

type ActivityAction string

const (
	ActivityActionCreate ActivityAction = "create"
	ActivityActionUpdate ActivityAction = "update"
	ActivityActionDelete ActivityAction = "delete"
)

// ActivityLog records every mutation on the managed collections
// (supplier, product, client, sale).
type ActivityLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	EntityType string         `gorm:"size:50;index"`
	EntityID   uint           `gorm:"index"`
	Action     ActivityAction `gorm:"size:20"`

	// Short human-readable summary.
	Description string `gorm:"size:255"`

	// Previous and new state as JSON ("null" when not applicable).
	BeforeData string `gorm:"size:4000"`
	AfterData  string `gorm:"size:4000"`
}
