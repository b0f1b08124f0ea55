package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportsApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:reports_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/reports/sales", MonthlySalesHandler())
	api.Get("/reports/top-products", TopProductsHandler())
	api.Get("/reports/payment-methods", PaymentMethodsHandler())
	api.Get("/reports/summary", FinancialSummaryHandler())
	return app
}

func saleOn(t *testing.T, year int, month time.Month, day int, total float64, method models.PaymentMethod, items ...models.SaleItem) {
	t.Helper()
	s := models.Sale{
		ClientID:      1,
		SaleDate:      time.Date(year, month, day, 12, 0, 0, 0, time.Local),
		Total:         total,
		PaymentMethod: method,
		Items:         items,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		t.Fatalf("sale: %v", err)
	}
}

func get[T any](t *testing.T, app *fiber.App, path string) T {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: expected 200 got %d", path, resp.StatusCode)
	}
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestMonthlySalesBuckets(t *testing.T) {
	app := setupReportsApp(t)
	saleOn(t, 2023, time.May, 10, 100, models.PaymentCash)
	saleOn(t, 2023, time.May, 20, 50, models.PaymentCard)
	saleOn(t, 2023, time.June, 5, 30, models.PaymentCash)

	got := get[[]MonthlySalesPoint](t, app, "/api/reports/sales?from=2023-05-01&to=2023-06-30")
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets got %d: %+v", len(got), got)
	}
	if got[0].Month != "2023-05" || got[0].Total != 150 || got[0].Count != 2 {
		t.Fatalf("may bucket wrong: %+v", got[0])
	}
	if got[1].Month != "2023-06" || got[1].Total != 30 || got[1].Count != 1 {
		t.Fatalf("june bucket wrong: %+v", got[1])
	}
}

func TestMonthlySalesRangeIsInclusive(t *testing.T) {
	app := setupReportsApp(t)
	saleOn(t, 2023, time.May, 31, 10, models.PaymentCash)
	saleOn(t, 2023, time.June, 1, 20, models.PaymentCash)

	got := get[[]MonthlySalesPoint](t, app, "/api/reports/sales?from=2023-05-31&to=2023-05-31")
	if len(got) != 1 || got[0].Total != 10 {
		t.Fatalf("single-day range should keep only May 31: %+v", got)
	}
}

func TestRangeValidation(t *testing.T) {
	app := setupReportsApp(t)

	for _, path := range []string{
		"/api/reports/sales?from=2023-05-01",            // missing to
		"/api/reports/sales?from=nope&to=2023-05-02",    // bad date
		"/api/reports/sales?from=2023-05-02&to=2023-05-01", // inverted
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("GET %s: expected 400 got %d", path, resp.StatusCode)
		}
	}
}

func TestTopProductsRanking(t *testing.T) {
	app := setupReportsApp(t)
	arroz := models.Product{Name: "Arroz Integral", Price: 7.99, StockQuantity: 50, SupplierID: 1}
	if err := database.DB.Create(&arroz).Error; err != nil {
		t.Fatalf("product: %v", err)
	}

	saleOn(t, 2023, time.May, 10, 100, models.PaymentCash,
		models.SaleItem{ProductID: arroz.ID, Quantity: 3, UnitPrice: 7.99, Subtotal: 23.97},
		models.SaleItem{ProductID: 42, Quantity: 1, UnitPrice: 5, Subtotal: 5})
	saleOn(t, 2023, time.May, 11, 50, models.PaymentCash,
		models.SaleItem{ProductID: arroz.ID, Quantity: 2, UnitPrice: 7.99, Subtotal: 15.98})

	got := get[[]TopProductEntry](t, app, "/api/reports/top-products?limit=2")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries got %d", len(got))
	}
	if got[0].ProductID != arroz.ID || got[0].Units != 5 || got[0].ProductName != "Arroz Integral" {
		t.Fatalf("top entry wrong: %+v", got[0])
	}
	// Product 42 was never created; the name falls back.
	if got[1].ProductID != 42 || got[1].ProductName != unknownProductLabel {
		t.Fatalf("fallback entry wrong: %+v", got[1])
	}
}

func TestPaymentMethodPercentages(t *testing.T) {
	app := setupReportsApp(t)
	saleOn(t, 2023, time.May, 1, 10, models.PaymentCash)
	saleOn(t, 2023, time.May, 2, 10, models.PaymentCash)
	saleOn(t, 2023, time.May, 3, 10, models.PaymentCash)
	saleOn(t, 2023, time.May, 4, 10, models.PaymentCard)

	got := get[[]PaymentMethodEntry](t, app, "/api/reports/payment-methods")
	if len(got) != 2 {
		t.Fatalf("expected 2 methods got %d", len(got))
	}
	if got[0].PaymentMethod != models.PaymentCash || got[0].Count != 3 || got[0].Percent != 75 {
		t.Fatalf("cash entry wrong: %+v", got[0])
	}
	if got[1].PaymentMethod != models.PaymentCard || got[1].Count != 1 || got[1].Percent != 25 {
		t.Fatalf("card entry wrong: %+v", got[1])
	}
}

func TestFinancialSummaryGrowth(t *testing.T) {
	app := setupReportsApp(t)
	// Previous window (April): 100. Current window (May): 150.
	saleOn(t, 2023, time.April, 10, 100, models.PaymentCash)
	saleOn(t, 2023, time.May, 10, 90, models.PaymentCash)
	saleOn(t, 2023, time.May, 20, 60, models.PaymentCard)

	got := get[FinancialSummaryResponse](t, app, "/api/reports/summary?from=2023-05-01&to=2023-05-30")
	if got.Revenue != 150 || got.SaleCount != 2 {
		t.Fatalf("summary wrong: %+v", got)
	}
	if got.AverageTicket != 75 {
		t.Fatalf("expected average ticket 75 got %v", got.AverageTicket)
	}
	if got.GrowthPercent == nil || *got.GrowthPercent != 50 {
		t.Fatalf("expected 50%% growth got %+v", got.GrowthPercent)
	}
}

func TestFinancialSummaryWithoutRange(t *testing.T) {
	app := setupReportsApp(t)
	saleOn(t, 2023, time.May, 10, 40, models.PaymentCash)

	got := get[FinancialSummaryResponse](t, app, "/api/reports/summary")
	if got.Revenue != 40 || got.SaleCount != 1 || got.AverageTicket != 40 {
		t.Fatalf("summary wrong: %+v", got)
	}
	// No range means no comparison window.
	if got.GrowthPercent != nil {
		t.Fatalf("expected no growth figure got %v", *got.GrowthPercent)
	}
}
