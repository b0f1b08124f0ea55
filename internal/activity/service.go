package activity

import (
	"encoding/json"
	"fmt"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"
)

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.ActivityAction
	Description string
	Before      any
	After       any
}

func Record(opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.ActivityLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("activity log write failed: %w", err)
	}

	return nil
}
