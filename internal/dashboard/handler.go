package dashboard

import (
	"fmt"
	"sort"
	"time"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type LowStockProduct struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	Minimum       int    `json:"minimum"`
}

type SummaryResponse struct {
	SalesToday     float64           `json:"sales_today"`
	SaleCountToday int64             `json:"sale_count_today"`
	ClientCount    int64             `json:"client_count"`
	ProductCount   int64             `json:"product_count"`
	SupplierCount  int64             `json:"supplier_count"`
	SaleCount      int64             `json:"sale_count"`
	LowStock       []LowStockProduct `json:"low_stock_products"`
}

type SalesChartPoint struct {
	Label string  `json:"label"` // day or month start
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type SalesChartResponse struct {
	Period     string            `json:"period"` // daily | monthly
	From       string            `json:"from"`
	To         string            `json:"to"`
	Points     []SalesChartPoint `json:"points"`
	GrandTotal float64           `json:"grand_total"`
}

// GET /api/dashboard/summary?low_stock_threshold=10
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		threshold := 10
		if v := c.Query("low_stock_threshold"); v != "" {
			if _, err := fmt.Sscan(v, &threshold); err != nil || threshold < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "low_stock_threshold is invalid")
			}
		}

		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		var resp SummaryResponse

		row := struct {
			Total float64
			Count int64
		}{}
		if err := database.DB.Model(&models.Sale{}).
			Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
			Where("sale_date >= ?", dayStart).
			Scan(&row).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}
		resp.SalesToday = row.Total
		resp.SaleCountToday = row.Count

		database.DB.Model(&models.Client{}).Count(&resp.ClientCount)
		database.DB.Model(&models.Product{}).Count(&resp.ProductCount)
		database.DB.Model(&models.Supplier{}).Count(&resp.SupplierCount)
		database.DB.Model(&models.Sale{}).Count(&resp.SaleCount)

		var low []models.Product
		if err := database.DB.
			Where("stock_quantity < ?", threshold).
			Order("stock_quantity asc").
			Limit(10).
			Find(&low).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list low-stock products")
		}
		resp.LowStock = make([]LowStockProduct, 0, len(low))
		for _, p := range low {
			resp.LowStock = append(resp.LowStock, LowStockProduct{
				ID:            p.ID,
				Name:          p.Name,
				StockQuantity: p.StockQuantity,
				Minimum:       threshold,
			})
		}

		return c.JSON(resp)
	}
}

// GET /api/dashboard/sales-chart?period=daily&count=7
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily") // daily | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count is invalid")
			}
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time
		var bucketExpr string

		switch period {
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
			bucketExpr = "strftime('%Y-%m', sale_date)"
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
			bucketExpr = "date(sale_date)"
		}

		type row struct {
			Bucket string  `gorm:"column:bucket"`
			Total  float64 `gorm:"column:total"`
			Count  int64   `gorm:"column:count"`
		}
		var rows []row

		if err := database.DB.Model(&models.Sale{}).
			Select(bucketExpr+" AS bucket, SUM(total) AS total, COUNT(*) AS count").
			Where("sale_date >= ?", start).
			Group("bucket").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not aggregate sales")
		}

		// ISO bucket labels sort lexicographically.
		sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket < rows[j].Bucket })

		points := make([]SalesChartPoint, 0, len(rows))
		var grand float64
		for _, r := range rows {
			points = append(points, SalesChartPoint{Label: r.Bucket, Total: r.Total, Count: r.Count})
			grand += r.Total
		}

		resp := SalesChartResponse{
			Period:     period,
			From:       start.Format("2006-01-02"),
			To:         now.Format("2006-01-02"),
			Points:     points,
			GrandTotal: grand,
		}
		return c.JSON(resp)
	}
}
