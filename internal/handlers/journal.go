package handlers

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/input"
	"TravelJournal/internal/middleware"
	"TravelJournal/internal/model"
	"TravelJournal/internal/service"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// JournalHandler обрабатывает записи дневника (страницы и JSON API).
type JournalHandler struct {
	JournalService *service.JournalService
	Pages          *PageHandler
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

// NewJournalHandler создаёт хендлер записей
func NewJournalHandler(journalService *service.JournalService, pages *PageHandler, logger *zap.SugaredLogger, cfg *config.Config) *JournalHandler {
	return &JournalHandler{JournalService: journalService, Pages: pages, Logger: logger, Config: cfg}
}

// account достаёт учётку из контекста; без неё отвечает 401 (или redirect на /login),
// а при сбое проверки сессии 500.
func (h *JournalHandler) account(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := middleware.GetAccountFromContext(r.Context())
	if ok {
		return user, true
	}
	if err := middleware.SessionErrorFromContext(r.Context()); err != nil {
		renderInternalError(w, r, h.Logger, err)
		return nil, false
	}
	renderError(w, r, h.Logger, model.ErrUnauthenticated, "/login")
	return nil, false
}

// readBody ограничивает тело (фото + 1 МБ на остальные поля) и разбирает его.
func (h *JournalHandler) readBody(w http.ResponseWriter, r *http.Request) (input.Raw, error) {
	maxBody := h.Config.PhotoMaxBytes() + 1*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	return input.FromRequest(r, h.Config.PhotoMaxBytes())
}

func (h *JournalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	d, err := h.JournalService.Dashboard(r.Context(), user.ID)
	if err != nil {
		renderError(w, r, h.Logger, err, "/")
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			"user":            userView(user),
			"journals":        d.Journals,
			"countries":       d.Countries,
			"total_journals":  d.TotalJournals,
			"total_countries": d.TotalCountries,
		})
		return
	}
	h.Pages.render(w, r, http.StatusOK, "dashboard.html", pageData{Title: "Dashboard", User: user, Dashboard: d})
}

func (h *JournalHandler) AddJournalPage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	h.Pages.render(w, r, http.StatusOK, "add_journal.html", pageData{Title: "New entry", User: user})
}

// Create: POST /add_journal и POST /api/journals.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	raw, err := h.readBody(w, r)
	if err != nil {
		renderError(w, r, h.Logger, err, "/add_journal")
		return
	}
	j, err := h.JournalService.Create(r.Context(), user.ID, raw)
	if err != nil {
		h.Logger.Infow("Create: rejected", "user_id", user.ID, "error", err)
		renderError(w, r, h.Logger, err, "/add_journal")
		return
	}
	renderSuccess(w, r, http.StatusCreated, map[string]any{
		"message": "journal entry added",
		"id":      j.ID,
		"journal": j,
	}, "/dashboard", "Journal entry added")
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	list, err := h.JournalService.List(r.Context(), user.ID)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "journals": list})
}

func (h *JournalHandler) ListByCountry(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	// chi матчит по RawPath, если он есть (например, %2F в названии), и тогда
	// параметр ещё закодирован; иначе он уже декодирован и второй раз не трогаем
	country := chi.URLParam(r, "country")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(country); err == nil {
			country = unescaped
		}
	}
	list, err := h.JournalService.ListByCountry(r.Context(), user.ID, country)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "country": country, "journals": list})
}

func (h *JournalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	id, ok := h.journalID(w, r)
	if !ok {
		return
	}
	j, err := h.JournalService.Get(r.Context(), user.ID, id)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "journal": j})
}

func (h *JournalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	id, ok := h.journalID(w, r)
	if !ok {
		return
	}
	raw, err := h.readBody(w, r)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	j, err := h.JournalService.Update(r.Context(), user.ID, id, raw)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	renderSuccess(w, r, http.StatusOK, map[string]any{
		"message": "journal entry updated",
		"journal": j,
	}, "/dashboard", "Journal entry updated")
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	id, ok := h.journalID(w, r)
	if !ok {
		return
	}
	if err := h.JournalService.Delete(r.Context(), user.ID, id); err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	renderSuccess(w, r, http.StatusOK, map[string]any{"message": "journal entry deleted"}, "/dashboard", "Journal entry deleted")
}

func (h *JournalHandler) Countries(w http.ResponseWriter, r *http.Request) {
	user, ok := h.account(w, r)
	if !ok {
		return
	}
	countries, err := h.JournalService.Countries(r.Context(), user.ID)
	if err != nil {
		renderError(w, r, h.Logger, err, "/dashboard")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "countries": countries})
}

// journalID: нечисловой id - такой записи нет.
func (h *JournalHandler) journalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(w, r, h.Logger, model.ErrNotFound, "/dashboard")
		return 0, false
	}
	return id, true
}
