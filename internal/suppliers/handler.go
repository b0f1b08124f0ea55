package suppliers

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

type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type SupplierResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Contact   string  `json:"contact"`
	Phone     string  `json:"phone"`
	Email     string  `json:"email"`
	Address   string  `json:"address"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func toResponse(s models.Supplier) SupplierResponse {
	resp := SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.UpdatedAt != nil {
		u := s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.UpdatedAt = &u
	}
	return resp
}

func collection() *store.Collection[models.Supplier] {
	return store.NewCollection(database.DB, func(s models.Supplier) []string {
		return []string{s.Name, s.Contact, s.Email}
	})
}

// -------------------------
// Supplier CRUD
// -------------------------

// GET /api/suppliers?q=abc
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := collection().List(c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list suppliers")
		}

		resp := make([]SupplierResponse, 0, len(records))
		for _, s := range records {
			resp = append(resp, toResponse(s))
		}
		return c.JSON(resp)
	}
}

// GET /api/suppliers/:id
func GetSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		s, ok := collection().Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}
		return c.JSON(toResponse(*s))
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if strings.TrimSpace(body.Contact) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "contact is required")
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

		s := models.Supplier{
			Name:    strings.TrimSpace(body.Name),
			Contact: strings.TrimSpace(body.Contact),
			Phone:   strings.TrimSpace(body.Phone),
			Email:   strings.TrimSpace(body.Email),
			Address: strings.TrimSpace(body.Address),
		}
		if err := collection().Create(&s); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save supplier")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.ActivityActionCreate,
			Description: "Supplier created: " + s.Name,
			After:       toResponse(s),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(s))
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		col := collection()
		s, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		var body UpdateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		before := toResponse(*s)
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			s.Name = name
			updated = true
		}
		if body.Contact != nil {
			s.Contact = strings.TrimSpace(*body.Contact)
			updated = true
		}
		if body.Phone != nil {
			s.Phone = strings.TrimSpace(*body.Phone)
			updated = true
		}
		if body.Email != nil {
			s.Email = strings.TrimSpace(*body.Email)
			updated = true
		}
		if body.Address != nil {
			s.Address = strings.TrimSpace(*body.Address)
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(*s))
		}

		now := time.Now()
		s.UpdatedAt = &now
		if err := col.Save(s); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update supplier")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.ActivityActionUpdate,
			Description: "Supplier updated: " + s.Name,
			Before:      before,
			After:       toResponse(*s),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.JSON(toResponse(*s))
	}
}

// DELETE /api/suppliers/:id?confirm=true
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "Deletion requires confirm=true")
		}

		col := collection()
		s, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Supplier not found")
		}

		// No cascade: products referencing this supplier keep their
		// supplier_id and resolve to "unknown" at display time.
		if err := col.Delete(s.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete supplier")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "supplier",
			EntityID:    s.ID,
			Action:      models.ActivityActionDelete,
			Description: "Supplier deleted: " + s.Name,
			Before:      toResponse(*s),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
