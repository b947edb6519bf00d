package handlers

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/middleware"
	"TravelJournal/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	sessionService *service.SessionService,
	journalService *service.JournalService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.WithLogging(logger))
	r.Use(chimw.Recoverer)
	if config.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.RequestTimeout))
	}
	if len(config.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithSession(sessionService, config.EnableHTTPS, logger))

	// Handlers
	pages := NewPageHandler(logger)
	userHandler := NewUserHandler(userService, sessionService, logger, config)
	journalHandler := NewJournalHandler(journalService, pages, logger, config)

	r.Get("/", pages.Index)
	r.Get("/health", Health)

	// User routes
	r.Get("/register", pages.Register)
	r.Post("/register", userHandler.Register)
	r.Get("/login", pages.Login)
	r.Post("/login", userHandler.Login)
	r.Post("/google-login", userHandler.GoogleLogin)
	r.Get("/logout", userHandler.Logout)

	// Journal pages
	r.Get("/dashboard", journalHandler.Dashboard)
	r.Get("/add_journal", journalHandler.AddJournalPage)
	r.Post("/add_journal", journalHandler.Create)

	// Journal API
	r.Route("/api", func(r chi.Router) {
		r.Post("/journals", journalHandler.Create)
		r.Get("/journals", journalHandler.List)
		r.Get("/journals/country/{country}", journalHandler.ListByCountry)
		r.Get("/journals/{id}", journalHandler.Get)
		r.Put("/journals/{id}", journalHandler.Update)
		r.Delete("/journals/{id}", journalHandler.Delete)
		r.Get("/countries", journalHandler.Countries)
	})

	r.NotFound(pages.NotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if wantsJSON(r) {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"success": false, "message": "method not allowed"})
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return &Handler{Router: r}
}

// Health: проверка живости.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
