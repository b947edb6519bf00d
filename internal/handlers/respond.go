package handlers

import (
	"TravelJournal/internal/input"
	"TravelJournal/internal/model"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const flashCookieName = "flash"

// wantsJSON выбирает формат ответа: JSON или redirect + flash.
// JSON: если тело JSON, если Accept просит JSON, либо для /api/ без формы.
func wantsJSON(r *http.Request) bool {
	if input.IsJSON(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
		return true
	}
	return strings.HasPrefix(r.URL.Path, "/api/") && !isForm(r)
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusOf сопоставляет ошибку ядра HTTP-статусу и безопасному сообщению.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, "login required"
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, model.ErrInvalidCredentials.Error()
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "access to this journal entry is forbidden"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "journal entry not found"
	case errors.Is(err, model.ErrDuplicateEmail):
		return http.StatusConflict, model.ErrDuplicateEmail.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// renderError отдаёт ошибку в формате запроса: JSON со статусом либо redirect с flash.
func renderError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error, redirectTo string) {
	status, msg := statusOf(err)
	if status == http.StatusInternalServerError && !errors.Is(err, model.ErrStorage) {
		logger.Errorw("unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if wantsJSON(r) {
		writeJSON(w, status, map[string]any{"success": false, "message": msg})
		return
	}
	setFlash(w, msg)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

// renderInternalError отвечает 500 с общим сообщением в обоих форматах.
func renderInternalError(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	if !errors.Is(err, model.ErrStorage) {
		logger.Errorw("unexpected error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "internal error"})
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// renderSuccess: JSON с success=true либо redirect с flash.
func renderSuccess(w http.ResponseWriter, r *http.Request, status int, payload map[string]any, redirectTo, flash string) {
	if wantsJSON(r) {
		if payload == nil {
			payload = map[string]any{}
		}
		payload["success"] = true
		writeJSON(w, status, payload)
		return
	}
	if flash != "" {
		setFlash(w, flash)
	}
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

func setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает flash и сразу удаляет его.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}

// userView: учётка без секретов для ответов.
func userView(u *model.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"is_guest": u.IsGuest,
	}
}
