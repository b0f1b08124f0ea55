package sales

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"mercado-backend/internal/activity"
	"mercado-backend/internal/database"
	"mercado-backend/internal/models"
	"mercado-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Monetary values are displayed with exactly two fraction digits.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Display fallbacks for references whose target no longer exists.
const (
	UnknownClientLabel  = "unknown"
	UnknownProductLabel = "unknown"
	ClientNotFoundLabel = "not found"
)

// One process-wide manager; drafts are keyed by opaque uuid handles.
var drafts = NewDraftManager()

// -------------------------
// Request/Response Types
// -------------------------

type UpdateDraftRequest struct {
	ClientID      *uint   `json:"client_id"`
	PaymentMethod *string `json:"payment_method"`
}

type AddDraftItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type DraftItemResponse struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type DraftResponse struct {
	ID            string               `json:"id"`
	ClientID      uint                 `json:"client_id"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Items         []DraftItemResponse  `json:"items"`
	Total         string               `json:"total"`
}

type SaleResponse struct {
	ID            uint                 `json:"id"`
	ClientID      uint                 `json:"client_id"`
	ClientName    string               `json:"client_name"`
	SaleDate      string               `json:"sale_date"`
	Total         string               `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CreatedAt     string               `json:"created_at"`
	UpdatedAt     *string              `json:"updated_at"`
}

type SaleClientDetail struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type SaleItemResponse struct {
	ID          uint   `json:"id"`
	SaleID      uint   `json:"sale_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

type SaleDetailResponse struct {
	SaleResponse
	Client *SaleClientDetail  `json:"client"`
	Items  []SaleItemResponse `json:"items"`
}

func toDraftResponse(d Draft) DraftResponse {
	resp := DraftResponse{
		ID:            d.ID,
		ClientID:      d.ClientID,
		PaymentMethod: d.PaymentMethod,
		Items:         make([]DraftItemResponse, 0, len(d.Items)),
		Total:         d.Total.StringFixed(2),
	}
	for _, it := range d.Items {
		resp.Items = append(resp.Items, DraftItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			Subtotal:    it.Subtotal.StringFixed(2),
		})
	}
	return resp
}

func toSaleResponse(s models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		ClientID:      s.ClientID,
		ClientName:    UnknownClientLabel,
		SaleDate:      s.SaleDate.Format("2006-01-02T15:04:05Z07:00"),
		Total:         money(s.Total),
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if cl, ok := store.Find[models.Client](database.DB, s.ClientID); ok {
		resp.ClientName = cl.Name
	}
	if s.UpdatedAt != nil {
		u := s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.UpdatedAt = &u
	}
	return resp
}

func toSaleDetail(s models.Sale) SaleDetailResponse {
	resp := SaleDetailResponse{
		SaleResponse: toSaleResponse(s),
		Items:        make([]SaleItemResponse, 0, len(s.Items)),
	}
	if cl, ok := store.Find[models.Client](database.DB, s.ClientID); ok {
		resp.Client = &SaleClientDetail{ID: cl.ID, Name: cl.Name, Phone: cl.Phone, Email: cl.Email, Address: cl.Address}
	} else {
		resp.ClientName = ClientNotFoundLabel
	}
	for _, it := range s.Items {
		item := SaleItemResponse{
			ID:          it.ID,
			SaleID:      it.SaleID,
			ProductID:   it.ProductID,
			ProductName: UnknownProductLabel,
			Quantity:    it.Quantity,
			UnitPrice:   money(it.UnitPrice),
			Subtotal:    money(it.Subtotal),
		}
		if p, ok := store.Find[models.Product](database.DB, it.ProductID); ok {
			item.ProductName = p.Name
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// -------------------------
// Draft Composition
// -------------------------

// POST /api/sales/drafts
func CreateDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := drafts.Open()
		return c.Status(fiber.StatusCreated).JSON(toDraftResponse(d))
	}
}

// GET /api/sales/drafts/:id
func GetDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := drafts.Get(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		}
		return c.JSON(toDraftResponse(d))
	}
}

// PUT /api/sales/drafts/:id
func UpdateDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateDraftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		d, err := drafts.Get(id)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		}

		if body.ClientID != nil {
			if d, err = drafts.SetClient(id, *body.ClientID); err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Draft not found")
			}
		}
		if body.PaymentMethod != nil {
			d, err = drafts.SetPaymentMethod(id, models.PaymentMethod(*body.PaymentMethod))
			if errors.Is(err, ErrInvalidPayment) {
				return fiber.NewError(fiber.StatusBadRequest, "payment_method is invalid")
			}
			if err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Draft not found")
			}
		}

		return c.JSON(toDraftResponse(d))
	}
}

// POST /api/sales/drafts/:id/items
func AddDraftItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AddDraftItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payload")
		}

		d, err := drafts.AddItem(database.DB, c.Params("id"), body.ProductID, body.Quantity)
		switch {
		case errors.Is(err, ErrInvalidItem):
			return fiber.NewError(fiber.StatusBadRequest, "a product and a positive quantity are required")
		case errors.Is(err, ErrProductNotFound):
			return fiber.NewError(fiber.StatusBadRequest, "Product not found")
		case errors.Is(err, ErrDraftNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Could not add item")
		}

		return c.Status(fiber.StatusCreated).JSON(toDraftResponse(d))
	}
}

// DELETE /api/sales/drafts/:id/items/:itemID
func RemoveDraftItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemID, err := c.ParamsInt("itemID")
		if err != nil || itemID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "item id is invalid")
		}

		d, err := drafts.RemoveItem(c.Params("id"), uint(itemID))
		switch {
		case errors.Is(err, ErrDraftNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		case errors.Is(err, ErrItemNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Line item not found")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Could not remove item")
		}

		return c.JSON(toDraftResponse(d))
	}
}

// POST /api/sales/drafts/:id/finalize
func FinalizeDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sale, err := drafts.Finalize(database.DB, c.Params("id"))
		switch {
		case errors.Is(err, ErrDraftNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		case errors.Is(err, ErrIncompleteDraft):
			return fiber.NewError(fiber.StatusUnprocessableEntity, "Please select a client and add at least one item.")
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "Could not finalize sale")
		}

		salesFinalized.Inc()

		if err := activity.Record(activity.LogOptions{
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.ActivityActionCreate,
			Description: "Sale finalized",
			After:       toSaleDetail(sale),
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleDetail(sale))
	}
}

// DELETE /api/sales/drafts/:id
func CancelDraftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := drafts.Cancel(c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Draft not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Finalized Sales
// -------------------------

// GET /api/sales?q=ana
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := strings.ToLower(strings.TrimSpace(c.Query("q")))

		var records []models.Sale
		if err := database.DB.Model(&models.Sale{}).Order("id asc").Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list sales")
		}

		// Matched in Go like the entity collections: SQLite's lower() folds
		// ASCII only, so accented client names would slip past a SQL LIKE.
		if q != "" {
			matched := make([]models.Sale, 0, len(records))
			for _, s := range records {
				name := ""
				if cl, ok := store.Find[models.Client](database.DB, s.ClientID); ok {
					name = cl.Name
				}
				if strings.Contains(strconv.FormatUint(uint64(s.ID), 10), q) ||
					strings.Contains(strings.ToLower(name), q) ||
					strings.Contains(strings.ToLower(string(s.PaymentMethod)), q) {
					matched = append(matched, s)
				}
			}
			records = matched
		}

		resp := make([]SaleResponse, 0, len(records))
		for _, s := range records {
			resp = append(resp, toSaleResponse(s))
		}
		return c.JSON(resp)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		var sale models.Sale
		if err := database.DB.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		return c.JSON(toSaleDetail(sale))
	}
}

// DELETE /api/sales/:id?confirm=true
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id is invalid")
		}

		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "Deletion requires confirm=true")
		}

		var sale models.Sale
		if err := database.DB.Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sale not found")
		}

		before := toSaleDetail(sale)

		// Line items belong to the sale, so they go with it.
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&sale).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete sale")
		}

		if err := activity.Record(activity.LogOptions{
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.ActivityActionDelete,
			Description: "Sale deleted",
			Before:      before,
		}); err != nil {
			log.Printf("activity log failed: %v", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
