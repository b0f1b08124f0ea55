package clients

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercado-backend/internal/database"
	"mercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:clients_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	database.DB = db

	app := fiber.New()
	api := app.Group("/api")
	api.Post("/clients", CreateClientHandler())
	api.Get("/clients", ListClientsHandler())
	api.Get("/clients/:id", GetClientHandler())
	api.Put("/clients/:id", UpdateClientHandler())
	api.Delete("/clients/:id", DeleteClientHandler())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response) ClientResponse {
	t.Helper()
	var out ClientResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestCreateClientValidatesRequiredFields(t *testing.T) {
	app := setupTestApp(t)

	for _, body := range []string{
		`{"phone":"1","email":"a@b.c","address":"x"}`,
		`{"name":"Ana","email":"a@b.c","address":"x"}`,
		`{"name":"Ana","phone":"1","address":"x"}`,
		`{"name":"Ana","phone":"1","email":"a@b.c"}`,
		`{"name":"  ","phone":"1","email":"a@b.c","address":"x"}`,
	} {
		resp := doJSON(t, app, http.MethodPost, "/api/clients", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.StatusCode)
		}
	}

	var count int64
	database.DB.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected creates persisted %d records", count)
	}
}

func TestCreateClientStartsWithNullUpdatedAt(t *testing.T) {
	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/clients",
		`{"name":"Ana Silva","phone":"11 98888-1111","email":"ana@example.com","address":"Rua A, 1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	if got.ID != 1 || got.Name != "Ana Silva" {
		t.Fatalf("unexpected client: %+v", got)
	}
	if got.UpdatedAt != nil {
		t.Fatalf("expected null updated_at on create got %v", *got.UpdatedAt)
	}
	if got.CreatedAt == "" {
		t.Fatalf("expected created_at to be set")
	}
}

func TestUpdateClientStampsUpdatedAt(t *testing.T) {
	app := setupTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/clients",
		`{"name":"Ana Silva","phone":"11 98888-1111","email":"ana@example.com","address":"Rua A, 1"}`)

	resp := doJSON(t, app, http.MethodPut, "/api/clients/1", `{"phone":"11 97777-0000"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	got := decode(t, resp)
	if got.Phone != "11 97777-0000" {
		t.Fatalf("phone not updated: %+v", got)
	}
	// Unmentioned fields are untouched.
	if got.Name != "Ana Silva" || got.Email != "ana@example.com" {
		t.Fatalf("partial update clobbered other fields: %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Fatalf("expected updated_at stamped on edit")
	}
}

func TestUpdateMissingClientReturns404(t *testing.T) {
	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/clients/42", `{"name":"X"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.StatusCode)
	}
}

func TestDeleteClientRequiresConfirm(t *testing.T) {
	app := setupTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/clients",
		`{"name":"Ana Silva","phone":"1","email":"ana@example.com","address":"x"}`)

	resp := doJSON(t, app, http.MethodDelete, "/api/clients/1", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirm got %d", resp.StatusCode)
	}
	var count int64
	database.DB.Model(&models.Client{}).Count(&count)
	if count != 1 {
		t.Fatalf("unconfirmed delete removed the client")
	}

	resp = doJSON(t, app, http.MethodDelete, "/api/clients/1?confirm=true", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.StatusCode)
	}
	database.DB.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Fatalf("confirmed delete kept the client")
	}
}

func TestClientMutationsAreLogged(t *testing.T) {
	app := setupTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/clients",
		`{"name":"Ana Silva","phone":"1","email":"ana@example.com","address":"x"}`)
	doJSON(t, app, http.MethodPut, "/api/clients/1", `{"phone":"2"}`)
	doJSON(t, app, http.MethodDelete, "/api/clients/1?confirm=true", "")

	var logs []models.ActivityLog
	if err := database.DB.Order("id asc").Find(&logs).Error; err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 log entries got %d", len(logs))
	}
	wantActions := []models.ActivityAction{models.ActivityActionCreate, models.ActivityActionUpdate, models.ActivityActionDelete}
	for i, l := range logs {
		if l.EntityType != "client" || l.EntityID != 1 || l.Action != wantActions[i] {
			t.Fatalf("entry %d unexpected: %+v", i, l)
		}
	}
	if logs[0].BeforeData != "null" {
		t.Fatalf("create entry should have null before data, got %s", logs[0].BeforeData)
	}
	if logs[2].AfterData != "null" {
		t.Fatalf("delete entry should have null after data, got %s", logs[2].AfterData)
	}
}
