package reports

import (
	"fmt"
	"sort"
	"time"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"
	"mercado-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Fallback for sold products that were deleted afterwards.
const unknownProductLabel = "unknown"

type MonthlySalesPoint struct {
	Month string  `json:"month"` // YYYY-MM
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type TopProductEntry struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Units       int64  `json:"units"`
}

type PaymentMethodEntry struct {
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Count         int64                `json:"count"`
	Percent       float64              `json:"percent"`
}

type FinancialSummaryResponse struct {
	From          string   `json:"from,omitempty"`
	To            string   `json:"to,omitempty"`
	Revenue       float64  `json:"revenue"`
	SaleCount     int64    `json:"sale_count"`
	AverageTicket float64  `json:"average_ticket"`
	// Percent change against the preceding period of equal length; only
	// present when an explicit from/to range was given.
	GrowthPercent *float64 `json:"growth_percent"`
}

type dateRange struct {
	from, to time.Time
	bounded  bool
}

// end returns the exclusive upper bound (the day after "to").
func (r dateRange) end() time.Time {
	return r.to.AddDate(0, 0, 1)
}

func parseRange(c *fiber.Ctx) (dateRange, error) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return dateRange{}, nil
	}
	if fromStr == "" || toStr == "" {
		return dateRange{}, fiber.NewError(fiber.StatusBadRequest, "from and to must be given together")
	}

	from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
	if err != nil {
		return dateRange{}, fiber.NewError(fiber.StatusBadRequest, "from is invalid, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
	if err != nil {
		return dateRange{}, fiber.NewError(fiber.StatusBadRequest, "to is invalid, expected YYYY-MM-DD")
	}
	if to.Before(from) {
		return dateRange{}, fiber.NewError(fiber.StatusBadRequest, "to must not precede from")
	}
	return dateRange{from: from, to: to, bounded: true}, nil
}

func scopeSales(db *gorm.DB, r dateRange) *gorm.DB {
	dbq := db.Model(&models.Sale{})
	if r.bounded {
		dbq = dbq.Where("sale_date >= ? AND sale_date < ?", r.from, r.end())
	}
	return dbq
}

// -------------------------
// Report Endpoints
// -------------------------

// GET /api/reports/sales?from=2023-01-01&to=2023-07-31
func MonthlySalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}

		type row struct {
			Bucket string  `gorm:"column:bucket"`
			Total  float64 `gorm:"column:total"`
			Count  int64   `gorm:"column:count"`
		}
		var rows []row

		if err := scopeSales(database.DB, r).
			Select("strftime('%Y-%m', sale_date) AS bucket, SUM(total) AS total, COUNT(*) AS count").
			Group("bucket").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}

		sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket < rows[j].Bucket })

		points := make([]MonthlySalesPoint, 0, len(rows))
		for _, rr := range rows {
			points = append(points, MonthlySalesPoint{Month: rr.Bucket, Total: rr.Total, Count: rr.Count})
		}
		return c.JSON(points)
	}
}

// GET /api/reports/top-products?from=...&to=...&limit=5
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}

		limit := 5
		if v := c.Query("limit"); v != "" {
			if _, err := fmt.Sscan(v, &limit); err != nil || limit <= 0 || limit > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "limit is invalid")
			}
		}

		type row struct {
			ProductID uint  `gorm:"column:product_id"`
			Units     int64 `gorm:"column:units"`
		}
		var rows []row

		dbq := database.DB.Model(&models.SaleItem{}).
			Select("sale_items.product_id AS product_id, SUM(sale_items.quantity) AS units").
			Joins("JOIN sales ON sales.id = sale_items.sale_id")
		if r.bounded {
			dbq = dbq.Where("sales.sale_date >= ? AND sales.sale_date < ?", r.from, r.end())
		}
		if err := dbq.
			Group("sale_items.product_id").
			Order("units desc").
			Limit(limit).
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sale items")
		}

		entries := make([]TopProductEntry, 0, len(rows))
		for _, rr := range rows {
			entry := TopProductEntry{ProductID: rr.ProductID, ProductName: unknownProductLabel, Units: rr.Units}
			if p, ok := store.Find[models.Product](database.DB, rr.ProductID); ok {
				entry.ProductName = p.Name
			}
			entries = append(entries, entry)
		}
		return c.JSON(entries)
	}
}

// GET /api/reports/payment-methods?from=...&to=...
func PaymentMethodsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}

		type row struct {
			Method models.PaymentMethod `gorm:"column:method"`
			Count  int64                `gorm:"column:count"`
		}
		var rows []row

		if err := scopeSales(database.DB, r).
			Select("payment_method AS method, COUNT(*) AS count").
			Group("payment_method").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}

		var total int64
		for _, rr := range rows {
			total += rr.Count
		}

		sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })

		entries := make([]PaymentMethodEntry, 0, len(rows))
		for _, rr := range rows {
			e := PaymentMethodEntry{PaymentMethod: rr.Method, Count: rr.Count}
			if total > 0 {
				e.Percent = float64(rr.Count) * 100 / float64(total)
			}
			entries = append(entries, e)
		}
		return c.JSON(entries)
	}
}

// GET /api/reports/summary?from=...&to=...
func FinancialSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := parseRange(c)
		if err != nil {
			return err
		}

		revenue, count, err := revenueBetween(r)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}

		resp := FinancialSummaryResponse{
			Revenue:   revenue,
			SaleCount: count,
		}
		if count > 0 {
			resp.AverageTicket = revenue / float64(count)
		}

		if r.bounded {
			resp.From = r.from.Format("2006-01-02")
			resp.To = r.to.Format("2006-01-02")

			// Compare against the window of equal length directly before.
			span := r.end().Sub(r.from)
			prev := dateRange{from: r.from.Add(-span), to: r.from.AddDate(0, 0, -1), bounded: true}
			prevRevenue, _, err := revenueBetween(prev)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
			}
			if prevRevenue > 0 {
				growth := (revenue - prevRevenue) * 100 / prevRevenue
				resp.GrowthPercent = &growth
			}
		}

		return c.JSON(resp)
	}
}

func revenueBetween(r dateRange) (float64, int64, error) {
	row := struct {
		Total float64
		Count int64
	}{}
	err := scopeSales(database.DB, r).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Scan(&row).Error
	return row.Total, row.Count, err
}
