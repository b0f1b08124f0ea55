package suppliers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"mercado-backend/internal/database"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSupplierApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:suppliers_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/suppliers", CreateSupplierHandler())
	api.Get("/suppliers", ListSuppliersHandler())
	api.Get("/suppliers/:id", GetSupplierHandler())
	api.Put("/suppliers/:id", UpdateSupplierHandler())
	api.Delete("/suppliers/:id", DeleteSupplierHandler())
	return app
}

func postSupplier(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/suppliers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("post supplier: %v", err)
	}
	return resp
}

func listSuppliers(t *testing.T, app *fiber.App, q string) []SupplierResponse {
	t.Helper()
	path := "/api/suppliers"
	if q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []SupplierResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func seedThree(t *testing.T, app *fiber.App) {
	t.Helper()
	for _, body := range []string{
		`{"name":"Distribuidora Alimentos ABC","contact":"João Silva","phone":"(11) 98765-4321","email":"joao.silva@alimentosabc.com","address":"Av. Paulista, 1000"}`,
		`{"name":"Fornecedora Nacional de Grãos","contact":"Maria Oliveira","phone":"(11) 91234-5678","email":"maria@fng.com.br","address":"Rua Augusta, 500"}`,
		`{"name":"Indústria de Alimentos XYZ","contact":"Carlos Santos","phone":"(21) 99876-5432","email":"carlos@alimentosxyz.com.br","address":"Av. Brasil, 2000"}`,
	} {
		resp := postSupplier(t, app, body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed: expected 201 got %d", resp.StatusCode)
		}
	}
}

func TestSupplierSearchProjection(t *testing.T) {
	app := setupSupplierApp(t)
	seedThree(t, app)

	// Name, including accented characters.
	got := listSuppliers(t, app, "indústria")
	if len(got) != 1 || got[0].Name != "Indústria de Alimentos XYZ" {
		t.Fatalf("name search: got %+v", got)
	}

	// Contact person.
	got = listSuppliers(t, app, "maria")
	if len(got) != 1 || got[0].Contact != "Maria Oliveira" {
		t.Fatalf("contact search: got %+v", got)
	}

	// Email.
	got = listSuppliers(t, app, "@fng.com")
	if len(got) != 1 || got[0].Name != "Fornecedora Nacional de Grãos" {
		t.Fatalf("email search: got %+v", got)
	}

	// Phone is not projected for suppliers.
	got = listSuppliers(t, app, "98765")
	if len(got) != 0 {
		t.Fatalf("phone should not match: got %+v", got)
	}

	// Empty query returns everything in insertion order.
	got = listSuppliers(t, app, "")
	if len(got) != 3 || got[0].ID != 1 || got[2].ID != 3 {
		t.Fatalf("full list wrong: %+v", got)
	}
}

func TestCreateSupplierValidatesAllFields(t *testing.T) {
	app := setupSupplierApp(t)

	resp := postSupplier(t, app, `{"name":"X","contact":"Y","phone":"1","email":"x@y.z"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing address: expected 400 got %d", resp.StatusCode)
	}

	resp = postSupplier(t, app, `{"name":"X","contact":"Y","phone":"1","email":"x@y.z","address":"Rua A"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.StatusCode)
	}
	var got SupplierResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("expected null updated_at on create")
	}
}

func TestDeleteSupplierRequiresConfirm(t *testing.T) {
	app := setupSupplierApp(t)
	seedThree(t, app)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/suppliers/2", nil), -1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/suppliers/2?confirm=true", nil), -1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.StatusCode)
	}

	got := listSuppliers(t, app, "")
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("expected suppliers [1 3] got %+v", got)
	}
}
