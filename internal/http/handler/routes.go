package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"subcity/docs"
	"subcity/internal/repository"
	"subcity/internal/service"
)

// Deps carries what the route table needs.
type Deps struct {
	Store     repository.Store
	Documents service.DocumentService
	Stats     service.StatsService
	Logger    *zap.Logger
	// MaxUploadBytes caps one uploaded file; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Get("/health", HealthCheck(d.Store))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", swaggerUI)

	api := app.Group("/api")

	api.Get("/employees", ListEmployees(d.Store, logger))
	api.Post("/employees", CreateEmployee(d.Store, logger))
	api.Get("/employees/:id", GetEmployee(d.Store, logger))
	api.Put("/employees/:id", UpdateEmployee(d.Store, logger))
	api.Delete("/employees/:id", DeleteEmployee(d.Store, logger))
	api.Get("/departments", ListDepartments(d.Store, logger))

	api.Get("/documents", ListDocuments(d.Documents, logger))
	api.Post("/documents", UploadDocument(d.Documents, d.MaxUploadBytes, logger))
	api.Get("/documents/:id", GetDocument(d.Documents, logger))
	api.Get("/documents/:id/download", DownloadDocument(d.Documents, logger))
	api.Get("/documents/:id/link", DocumentLink(d.Documents, logger))
	api.Delete("/documents/:id", DeleteDocument(d.Documents, logger))

	api.Get("/population", ListPopulation(d.Store, logger))
	api.Post("/population", CreatePopulation(d.Store, logger))
	api.Get("/kebeles", ListKebeles(d.Store, logger))

	api.Get("/investments", ListInvestments(d.Store, logger))
	api.Post("/investments", CreateInvestment(d.Store, logger))
	api.Get("/investments/:id", GetInvestment(d.Store, logger))
	api.Put("/investments/:id", UpdateInvestment(d.Store, logger))
	api.Delete("/investments/:id", DeleteInvestment(d.Store, logger))
	api.Get("/sectors", ListSectors(d.Store, logger))

	api.Get("/admin/stats", AdminStats(d.Stats, logger))
	api.Get("/admin/recent-activities", RecentActivities(d.Stats, logger))
}

// swaggerUI serves the Swagger UI with the host and scheme the client used.
func swaggerUI(c *fiber.Ctx) error {
	scheme := c.Protocol()
	if proto := c.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	docs.SwaggerInfo.Host = c.Get(fiber.HeaderHost)
	docs.SwaggerInfo.Schemes = []string{scheme}
	return swagger.HandlerDefault(c)
}
