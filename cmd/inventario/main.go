package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	appanalytics "github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/notify"
	"github.com/jhoicas/inventario-silo/internal/application/session"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/graphql"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/localstore"
	httpRouter "github.com/jhoicas/inventario-silo/internal/interfaces/http"
	"github.com/jhoicas/inventario-silo/pkg/config"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	loc := cfg.App.Location()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.URL).
		Str("zona", loc.String()).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens, err := localstore.Open(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("abrir almacenamiento local")
	}
	defer tokens.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	hc := &http.Client{}
	gateway := graphql.NewClient(graphql.Config{
		Endpoint:   cfg.API.URL,
		HTTPClient: hc,
		Logger:     log,
		Metrics:    graphql.NewMetrics(reg),
	})

	// Ping de arranque: el backend puede estar dormido.
	go graphql.Wake(ctx, hc, cfg.API.HealthURL, log)

	center := notify.NewCenter(cfg.Sync.ToastTTL, log)
	sessions := session.NewManager(gateway, tokens, center, log)
	st := store.New(sessions, center, log, loc)
	poller := store.NewPoller(st, cfg.Sync.Interval, log)
	orchestrator := inventory.NewOrchestrator(sessions, st, center, log)
	dashboardUC := appanalytics.NewDashboardUseCase(st, orchestrator, loc)

	// El sondeo vive mientras haya sesión; al cerrarla se descarta todo el estado de la sesión.
	sessions.OnChange(func(authenticated bool) {
		if authenticated {
			poller.Start(ctx)
			return
		}
		poller.Stop()
		st.Clear()
		orchestrator.Reset()
	})
	if err := sessions.Start(ctx); err != nil {
		log.Error().Err(err).Msg("restaurar sesión")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		Session:       sessions,
		Store:         st,
		Orchestrator:  orchestrator,
		Dashboard:     dashboardUC,
		Notifications: center,
		Gatherer:      reg,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	poller.Stop()
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
