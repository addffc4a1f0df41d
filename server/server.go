package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/tebben/cadastreur/api/handlers"
	"github.com/tebben/cadastreur/api/middleware"
	"github.com/tebben/cadastreur/database"
	"github.com/tebben/cadastreur/settings"
)

// Start starts the cadastreur server with the given configuration.
// It sets up the main handler and listens for incoming HTTP requests
// on the configured port until a stop signal arrives.
func Start(config settings.Config) {
	router := createRouter(config)
	server := &http.Server{Addr: fmt.Sprintf(":%v", config.Server.Port), Handler: router}
	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		log.Info("Stop signal received, shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 5*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}

		log.Info("Server stopped successfully")
		serverStopCtx()
	}()

	log.Info(fmt.Sprintf("Cadastreur started, running on port %v", config.Server.Port))
	defer database.CloseDBPools()

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	// Wait for server context to be stopped
	<-serverCtx.Done()
}

// createRouter creates and configures the router for the server.
// It sets up the necessary middleware and routes for handling API requests.
// The router is configured with the provided `config` settings.
func createRouter(config settings.Config) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.Logger("router", log.StandardLogger(), logrus.DebugLevel))
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Throttle(config.Server.MaxConcurrentRequests))
	router.Use(chimiddleware.Timeout(time.Duration(config.Server.Timeout) * time.Second))
	router.Use(chimiddleware.Compress(5, "application/json"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.Server.CORS.AllowOrigins,
		AllowedMethods:   config.Server.CORS.AllowMethods,
		AllowedHeaders:   config.Server.CORS.AllowHeaders,
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           600,
	}))
	router.NotFound(handlers.NotFoundHandler)

	humaConfig := createHumaConfig()
	api := humachi.New(router, humaConfig)
	registerRoutes(api, config)

	return router
}

func createHumaConfig() huma.Config {
	humaConfig := huma.DefaultConfig("Cadastreur", "1.0.0")
	humaConfig.CreateHooks = nil
	humaConfig.Info.Contact = &huma.Contact{
		URL: "https://github.com/tebben/cadastreur",
	}
	humaConfig.Info.Description = "Cadastreur is a RESTful API on top of a PostGIS parcel store loaded from French cadastral shapefiles. It exposes per-commune parcel counts, spatial statistics computed by the database (area, perimeter) and the parcels themselves with their geometry as WKT in Lambert-93."
	humaConfig.Info.License = &huma.License{
		Name: "MIT",
	}

	return humaConfig
}

func registerRoutes(api huma.API, config settings.Config) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Status",
		Description: "Get the status of cadastreur.",
	}, handlers.StatusHandler(time.Now()))

	huma.Register(api, huma.Operation{
		OperationID: "communes",
		Method:      http.MethodGet,
		Path:        "/communes",
		Summary:     "Communes",
		Description: "List the communes present in the parcel table with their parcel counts.",
	}, handlers.CommunesHandler(config))

	huma.Register(api, huma.Operation{
		OperationID: "commune-stats",
		Method:      http.MethodGet,
		Path:        "/communes/{nom}/stats",
		Summary:     "Commune statistics",
		Description: "Spatial aggregates of one commune: parcel count, area and perimeter statistics computed by PostGIS.",
	}, handlers.StatsHandler(config))

	huma.Register(api, huma.Operation{
		OperationID: "parcelles",
		Method:      http.MethodGet,
		Path:        "/parcelles",
		Summary:     "Parcels",
		Description: "List the parcels of a commune, geometry rendered as WKT.",
	}, handlers.ParcelsHandler(config))
}
