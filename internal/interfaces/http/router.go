package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/notify"
	"github.com/jhoicas/inventario-silo/internal/application/session"
	"github.com/jhoicas/inventario-silo/internal/application/store"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	Session       *session.Manager
	Store         *store.Store
	Orchestrator  *inventory.Orchestrator
	Dashboard     *appanalytics.DashboardUseCase
	Notifications *notify.Center
	Gatherer      prometheus.Gatherer // nil = sin /metrics
}

// Router registra las rutas del puente local.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok", "service": deps.AppName, "authenticated": deps.Session.Authenticated()}
		if t, ok := deps.Store.LastSync(); ok {
			body["lastSync"] = t.Format(time.RFC3339)
		}
		return c.JSON(body)
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Sesión (público)
	sessionHandler := NewSessionHandler(deps.Session)
	api.Post("/sesion/login", sessionHandler.Login)
	api.Post("/sesion/logout", sessionHandler.Logout)
	api.Get("/sesion", sessionHandler.Status)

	// Notificaciones (público: también informan fallos de login)
	notificationHandler := NewNotificationHandler(deps.Notifications)
	api.Get("/notificaciones", notificationHandler.List)
	api.Delete("/notificaciones/dialogo", notificationHandler.CloseDialog)
	api.Delete("/notificaciones/:id", notificationHandler.Dismiss)

	// Rutas protegidas (requieren sesión iniciada)
	protected := api.Group("/", RequireSession(deps.Session))

	inventoryHandler := NewInventoryHandler(deps.Store, deps.Orchestrator)
	protected.Get("/items", inventoryHandler.ListItems)
	protected.Get("/categorias", inventoryHandler.ListCategories)
	protected.Get("/ubicaciones", inventoryHandler.ListLocations)
	protected.Get("/recepciones", inventoryHandler.ListReceipts)
	protected.Get("/entregas", inventoryHandler.ListDeliveries)

	protected.Post("/items", inventoryHandler.SubmitItem)
	protected.Get("/items/pendientes", inventoryHandler.PendingItems)
	protected.Post("/items/pendientes/:id/duplicado", inventoryHandler.ResolveDuplicate)
	protected.Post("/items/pendientes/:id/ajuste", inventoryHandler.ResolveAdjustment)
	protected.Post("/recepciones", inventoryHandler.SubmitReceipt)
	protected.Post("/entregas", inventoryHandler.SubmitDelivery)
	protected.Post("/categorias", inventoryHandler.SubmitCategory)
	protected.Post("/ubicaciones", inventoryHandler.SubmitLocation)

	for path, resource := range resourcePaths {
		protected.Get("/"+path+"/:id/confirmacion", inventoryHandler.DeleteConfirmation(resource))
		protected.Delete("/"+path+"/:id", inventoryHandler.Delete(resource))
	}

	reportHandler := NewReportHandler(deps.Store, deps.Dashboard)
	protected.Get("/reporte", reportHandler.GetReport)
	protected.Get("/kardex", reportHandler.GetKardex)

	exportHandler := NewExportHandler(deps.Store, reportHandler, deps.Notifications, deps.AppName)
	protected.Get("/exportar/:dataset", exportHandler.Export)
}
