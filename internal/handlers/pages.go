package handlers

import (
	"TravelJournal/internal/middleware"
	"TravelJournal/internal/model"
	"TravelJournal/internal/service"
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("pages").Funcs(template.FuncMap{
	"photoURL": photoURL,
}).ParseFS(templatesFS, "templates/*.html"))

// photoURL пропускает в <img src> только data:image/*, остальное отбрасывается.
func photoURL(photo *string) template.URL {
	if photo == nil || !strings.HasPrefix(*photo, "data:image/") {
		return ""
	}
	return template.URL(*photo)
}

// PageHandler рендерит HTML-страницы.
type PageHandler struct {
	Logger *zap.SugaredLogger
}

func NewPageHandler(logger *zap.SugaredLogger) *PageHandler {
	return &PageHandler{Logger: logger}
}

type pageData struct {
	Title     string
	Flash     string
	User      *model.User
	Dashboard *service.Dashboard
}

// render пишет страницу целиком или 500, если шаблон упал.
func (p *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	data.Flash = popFlash(w, r)
	if data.User == nil {
		data.User, _ = middleware.GetAccountFromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		p.Logger.Errorw("render: template failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Index: приветственная страница; залогиненных отправляем на dashboard.
func (p *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetAccountFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, r, http.StatusOK, "welcome.html", pageData{Title: "Travel Journal"})
}

func (p *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetAccountFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, r, http.StatusOK, "login.html", pageData{Title: "Login"})
}

func (p *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetAccountFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	p.render(w, r, http.StatusOK, "register.html", pageData{Title: "Register"})
}

func (p *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
		return
	}
	p.render(w, r, http.StatusNotFound, "404.html", pageData{Title: "Not found"})
}
