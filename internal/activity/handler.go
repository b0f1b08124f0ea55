package activity

import (
	"fmt"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ActivityLogResponse struct {
	ID          uint                  `json:"id"`
	CreatedAt   string                `json:"created_at"`
	EntityType  string                `json:"entity_type"`
	EntityID    uint                  `json:"entity_id"`
	Action      models.ActivityAction `json:"action"`
	Description string                `json:"description"`
	BeforeData  string                `json:"before_data"`
	AfterData   string                `json:"after_data"`
}

// GET /api/activity-logs?entity_type=product&entity_id=1&limit=50
func ListActivityLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityType := c.Query("entity_type")
		entityIDStr := c.Query("entity_id")

		limit := 100
		if v := c.Query("limit"); v != "" {
			if _, err := fmt.Sscan(v, &limit); err != nil || limit <= 0 || limit > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit is invalid")
			}
		}

		dbq := database.DB.Model(&models.ActivityLog{})
		if entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var logs []models.ActivityLog
		if err := dbq.Order("id desc").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list activity logs")
		}

		resp := make([]ActivityLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ActivityLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}

		return c.JSON(resp)
	}
}
