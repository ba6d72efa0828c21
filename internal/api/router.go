package api

import (
	"net/http"

	"github.com/Conceptual-Machines/moviepicks/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/moviepicks/internal/api/middleware"
	"github.com/Conceptual-Machines/moviepicks/internal/catalog"
	"github.com/Conceptual-Machines/moviepicks/internal/config"
	"github.com/Conceptual-Machines/moviepicks/internal/metrics"
	"github.com/Conceptual-Machines/moviepicks/internal/services"
	webhandlers "github.com/Conceptual-Machines/moviepicks/internal/web/handlers"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// NewSessionStore builds the cookie store naming each browser's form instance
func NewSessionStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.SessionKey())
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func SetupRouter(cfg *config.Config, cat *catalog.Catalog, cw *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(cw))

	// Serve static files (styles, etc.)
	router.Static("/static", cfg.StaticDir)

	// Health check
	healthHandler := handlers.NewHealthHandler(cat)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version, cat)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Preference form
	submissions := services.NewSubmissionService(cw)
	webHandler := webhandlers.NewWebHandler(NewSessionStore(cfg), services.NewFormStore(), cat, submissions, cw)
	router.GET("/", webHandler.Home) // Mounts a fresh form instance

	form := router.Group("/form")
	{
		form.POST("/genres/toggle", webHandler.ToggleGenre)
		form.POST("/mood", webHandler.SetMood)
		form.POST("/keywords", webHandler.SetKeywords)
		form.POST("/submit", webHandler.Submit)
	}

	v1 := router.Group("/api/v1")
	{
		genresHandler := handlers.NewGenresHandler(cat)
		v1.GET("/genres", genresHandler.ListGenres)
		v1.GET("/form", webHandler.FormState)
	}

	return router
}
