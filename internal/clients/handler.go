package clients

import (
	"log"
	"strings"
	"time"

	"mercado-backend/internal/activity"
	"mercado-backend/internal/database"
	"mercado-backend/internal/models"
	"mercado-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type ClientResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Address   string  `json:"address"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func toResponse(cl models.Client) ClientResponse {
	resp := ClientResponse{
		ID:        cl.ID,
		Name:      cl.Name,
		Phone:     cl.Phone,
		Email:     cl.Email,
		Address:   cl.Address,
		CreatedAt: cl.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if cl.UpdatedAt != nil {
		s := cl.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.UpdatedAt = &s
	}
	return resp
}

func collection() *store.Collection[models.Client] {
	return store.NewCollection(database.DB, func(cl models.Client) []string {
		return []string{cl.Name, cl.Email, cl.Phone}
	})
}

// -------------------------
// Client CRUD
// -------------------------

// GET /api/clients?q=ana
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := collection().List(c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list clients")
		}

		resp := make([]ClientResponse, 0, len(records))
		for _, cl := range records {
			resp = append(resp, toResponse(cl))
		}
		return c.JSON(resp)
	}
}

// GET /api/clients/:id
func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		cl, ok := collection().Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}
		return c.JSON(toResponse(*cl))
	}
}

// POST /api/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		// Required-field checking only, mirroring the form's behavior.
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if strings.TrimSpace(body.Phone) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "phone is required")
		}
		if strings.TrimSpace(body.Email) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email is required")
		}
		if strings.TrimSpace(body.Address) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "address is required")
		}

		cl := models.Client{
			Name:    strings.TrimSpace(body.Name),
			Phone:   strings.TrimSpace(body.Phone),
			Email:   strings.TrimSpace(body.Email),
			Address: strings.TrimSpace(body.Address),
		}
		if err := collection().Create(&cl); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save client")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "client",
			EntityID:    cl.ID,
			Action:      models.ActivityActionCreate,
			Description: "Client created: " + cl.Name,
			After:       toResponse(cl),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(cl))
	}
}

// PUT /api/clients/:id
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		col := collection()
		cl, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		before := toResponse(*cl)
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			cl.Name = name
			updated = true
		}
		if body.Phone != nil {
			cl.Phone = strings.TrimSpace(*body.Phone)
			updated = true
		}
		if body.Email != nil {
			cl.Email = strings.TrimSpace(*body.Email)
			updated = true
		}
		if body.Address != nil {
			cl.Address = strings.TrimSpace(*body.Address)
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(*cl))
		}

		now := time.Now()
		cl.UpdatedAt = &now
		if err := col.Save(cl); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update client")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "client",
			EntityID:    cl.ID,
			Action:      models.ActivityActionUpdate,
			Description: "Client updated: " + cl.Name,
			Before:      before,
			After:       toResponse(*cl),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.JSON(toResponse(*cl))
	}
}

// DELETE /api/clients/:id?confirm=true
func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		// Deletion is gated by an explicit confirmation; without it the
		// collection is left unchanged.
		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "Deletion requires confirm=true")
		}

		col := collection()
		cl, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Client not found")
		}

		// No cascade: sales referencing this client keep their client_id and
		// are displayed with the "not found" fallback.
		if err := col.Delete(cl.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete client")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "client",
			EntityID:    cl.ID,
			Action:      models.ActivityActionDelete,
			Description: "Client deleted: " + cl.Name,
			Before:      toResponse(*cl),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
