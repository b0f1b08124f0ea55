package inventory

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

// Label shown when a product references a supplier that no longer exists.
const UnknownSupplierLabel = "unknown"

// -------------------------
// Request/Response Types
// -------------------------

type CreateProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	SupplierID    uint    `json:"supplier_id"`
}

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	SupplierID    *uint    `json:"supplier_id"`
}

type ProductResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	SupplierID    uint    `json:"supplier_id"`
	SupplierName  string  `json:"supplier_name"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     *string `json:"updated_at"`
}

func toResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		SupplierID:    p.SupplierID,
		SupplierName:  UnknownSupplierLabel,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s, ok := store.Find[models.Supplier](database.DB, p.SupplierID); ok {
		resp.SupplierName = s.Name
	}
	if p.UpdatedAt != nil {
		u := p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.UpdatedAt = &u
	}
	return resp
}

func collection() *store.Collection[models.Product] {
	return store.NewCollection(database.DB, func(p models.Product) []string {
		return []string{p.Name, p.Description}
	})
}

// -------------------------
// Product CRUD
// -------------------------

// GET /api/products?q=arroz
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := collection().List(c.Query("q"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list products")
		}

		resp := make([]ProductResponse, 0, len(records))
		for _, p := range records {
			resp = append(resp, toResponse(p))
		}
		return c.JSON(resp)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		p, ok := collection().Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return c.JSON(toResponse(*p))
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
		}
		if body.StockQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "stock_quantity must not be negative")
		}
		if body.SupplierID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id is required")
		}

		p := models.Product{
			Name:          strings.TrimSpace(body.Name),
			Description:   strings.TrimSpace(body.Description),
			Price:         body.Price,
			StockQuantity: body.StockQuantity,
			SupplierID:    body.SupplierID,
		}
		if err := collection().Create(&p); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not save product")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.ActivityActionCreate,
			Description: "Product created: " + p.Name,
			After:       toResponse(p),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		col := collection()
		p, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		before := toResponse(*p)
		updated := false

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name is required")
			}
			p.Name = name
			updated = true
		}
		if body.Description != nil {
			p.Description = strings.TrimSpace(*body.Description)
			updated = true
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "price must not be negative")
			}
			p.Price = *body.Price
			updated = true
		}
		if body.StockQuantity != nil {
			if *body.StockQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "stock_quantity must not be negative")
			}
			p.StockQuantity = *body.StockQuantity
			updated = true
		}
		if body.SupplierID != nil {
			p.SupplierID = *body.SupplierID
			updated = true
		}

		if !updated {
			return c.JSON(toResponse(*p))
		}

		now := time.Now()
		p.UpdatedAt = &now
		if err := col.Save(p); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update product")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.ActivityActionUpdate,
			Description: "Product updated: " + p.Name,
			Before:      before,
			After:       toResponse(*p),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.JSON(toResponse(*p))
	}
}

// DELETE /api/products/:id?confirm=true
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "Deletion requires confirm=true")
		}

		col := collection()
		p, ok := col.Find(uint(id))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}

		// No cascade: sale items keep their product_id and resolve to
		// "unknown" at display time.
		if err := col.Delete(p.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete product")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.ActivityActionDelete,
			Description: "Product deleted: " + p.Name,
			Before:      toResponse(*p),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
