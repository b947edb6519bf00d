package handlers

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/input"
	"TravelJournal/internal/middleware"
	"TravelJournal/internal/model"
	"TravelJournal/internal/service"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// лимит тела для форм входа и регистрации
const credentialsBodyLimit = 64 << 10

// UserHandler: регистрация, вход, гостевой вход и выход.
type UserHandler struct {
	UserService    *service.UserService
	SessionService *service.SessionService
	Logger         *zap.SugaredLogger
	Config         *config.Config
}

func NewUserHandler(
	userService *service.UserService,
	sessionService *service.SessionService,
	logger *zap.SugaredLogger,
	cfg *config.Config,
) *UserHandler {
	return &UserHandler{
		UserService:    userService,
		SessionService: sessionService,
		Logger:         logger,
		Config:         cfg,
	}
}

// Register создаёт учётку и сразу открывает сессию.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, credentialsBodyLimit)
	raw, err := input.FromRequest(r, 0)
	if err != nil {
		renderError(w, r, h.Logger, err, "/register")
		return
	}
	name, email, password := input.ParseCredentials(raw)

	user, err := h.UserService.Register(r.Context(), name, email, password)
	if err != nil {
		h.Logger.Infow("Register: rejected", "email", email, "error", err)
		renderError(w, r, h.Logger, err, "/register")
		return
	}
	if !h.startSession(w, r, user, "/register") {
		return
	}
	renderSuccess(w, r, http.StatusCreated, map[string]any{
		"message": "registration successful",
		"user":    userView(user),
	}, "/dashboard", "Registration successful")
}

// Login проверяет email и пароль.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, credentialsBodyLimit)
	raw, err := input.FromRequest(r, 0)
	if err != nil {
		renderError(w, r, h.Logger, err, "/login")
		return
	}
	_, email, password := input.ParseCredentials(raw)
	if email == "" || password == "" {
		renderError(w, r, h.Logger, fmt.Errorf("%w: email and password are required", model.ErrValidation), "/login")
		return
	}

	user, err := h.UserService.Authenticate(r.Context(), email, password)
	if err != nil {
		renderError(w, r, h.Logger, err, "/login")
		return
	}
	if !h.startSession(w, r, user, "/login") {
		return
	}
	renderSuccess(w, r, http.StatusOK, map[string]any{
		"message": "login successful",
		"user":    userView(user),
	}, "/dashboard", "Login successful")
}

// GoogleLogin (заглушка внешнего входа) создаёт гостевую учётку.
func (h *UserHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.CreateGuestAccount(r.Context())
	if err != nil {
		renderError(w, r, h.Logger, err, "/login")
		return
	}
	if !h.startSession(w, r, user, "/login") {
		return
	}
	renderSuccess(w, r, http.StatusOK, map[string]any{
		"message": "guest login successful",
		"user":    userView(user),
	}, "/dashboard", "Logged in as "+user.Name)
}

// Logout удаляет сессию; без сессии тоже успешен.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.SessionService.Destroy(r.Context(), c.Value)
	}
	middleware.ClearSessionCookie(w, h.Config.EnableHTTPS)
	renderSuccess(w, r, http.StatusOK, map[string]any{"message": "logged out"}, "/", "Logged out")
}

func (h *UserHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User, failTo string) bool {
	token, err := h.SessionService.Establish(r.Context(), user)
	if err != nil {
		renderError(w, r, h.Logger, err, failTo)
		return false
	}
	middleware.SetSessionCookie(w, token, h.SessionService.TTL(), h.Config.EnableHTTPS)
	return true
}
