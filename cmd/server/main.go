package main

import (
	"log"
	"strings"

	"mercado-backend/internal/activity"
	"mercado-backend/internal/clients"
	"mercado-backend/internal/config"
	"mercado-backend/internal/dashboard"
	"mercado-backend/internal/database"
	"mercado-backend/internal/inventory"
	"mercado-backend/internal/reports"
	"mercado-backend/internal/sales"
	"mercado-backend/internal/suppliers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] No .env file found, relying on the environment.")
	}

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.New())

	base := strings.TrimSuffix(cfg.BasePath, "/")

	app.Get(base+"/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "mercado-backend"})
	})
	app.Get(base+"/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group(base + "/api")

	// Suppliers
	api.Post("/suppliers", suppliers.CreateSupplierHandler())
	api.Get("/suppliers", suppliers.ListSuppliersHandler())
	api.Get("/suppliers/:id", suppliers.GetSupplierHandler())
	api.Put("/suppliers/:id", suppliers.UpdateSupplierHandler())
	api.Delete("/suppliers/:id", suppliers.DeleteSupplierHandler())

	// Products
	api.Post("/products", inventory.CreateProductHandler())
	api.Get("/products", inventory.ListProductsHandler())
	api.Get("/products/:id", inventory.GetProductHandler())
	api.Put("/products/:id", inventory.UpdateProductHandler())
	api.Delete("/products/:id", inventory.DeleteProductHandler())

	// Clients
	api.Post("/clients", clients.CreateClientHandler())
	api.Get("/clients", clients.ListClientsHandler())
	api.Get("/clients/:id", clients.GetClientHandler())
	api.Put("/clients/:id", clients.UpdateClientHandler())
	api.Delete("/clients/:id", clients.DeleteClientHandler())

	// Sale drafts. Registered before /sales/:id so "drafts" is never
	// parsed as a sale id.
	api.Post("/sales/drafts", sales.CreateDraftHandler())
	api.Get("/sales/drafts/:id", sales.GetDraftHandler())
	api.Put("/sales/drafts/:id", sales.UpdateDraftHandler())
	api.Post("/sales/drafts/:id/items", sales.AddDraftItemHandler())
	api.Delete("/sales/drafts/:id/items/:itemID", sales.RemoveDraftItemHandler())
	api.Post("/sales/drafts/:id/finalize", sales.FinalizeDraftHandler())
	api.Delete("/sales/drafts/:id", sales.CancelDraftHandler())

	// Finalized sales
	api.Get("/sales", sales.ListSalesHandler())
	api.Get("/sales/:id", sales.GetSaleHandler())
	api.Delete("/sales/:id", sales.DeleteSaleHandler())

	// Dashboard
	api.Get("/dashboard/summary", dashboard.SummaryHandler())
	api.Get("/dashboard/sales-chart", dashboard.SalesChartHandler())

	// Reports
	api.Get("/reports/sales", reports.MonthlySalesHandler())
	api.Get("/reports/top-products", reports.TopProductsHandler())
	api.Get("/reports/payment-methods", reports.PaymentMethodsHandler())
	api.Get("/reports/summary", reports.FinancialSummaryHandler())

	// Activity logs
	api.Get("/activity-logs", activity.ListActivityLogsHandler())

	// Any other path lands on the service root, mirroring the SPA's
	// catch-all route.
	app.Use(func(c *fiber.Ctx) error {
		return c.Redirect(base + "/")
	})

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
