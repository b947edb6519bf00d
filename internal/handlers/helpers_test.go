package handlers_test

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/handlers"
	"TravelJournal/internal/model"
	"TravelJournal/internal/repo"
	"TravelJournal/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:      "test-secret",
		SessionTTL:     time.Hour,
		RequestTimeout: 5 * time.Second,
		PhotoMaxSizeMB: 1,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(repo.SQLiteDialector(dsn), repo.NewGormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// newTestRouter собирает полный роутер поверх in-memory SQLite.
func newTestRouter(t *testing.T) (http.Handler, *service.UserService) {
	t.Helper()
	return newRouterWithJournalRepo(t, nil)
}

// newRouterWithJournalRepo: то же, но с подменой репозитория записей.
func newRouterWithJournalRepo(t *testing.T, jr repo.JournalRepository) (http.Handler, *service.UserService) {
	t.Helper()
	return newRouterWithRepos(t, jr, nil)
}

// newRouterWithRepos: nil-репозиторий записей заменяется настоящим поверх SQLite;
// wrapSessions (если задан) оборачивает репозиторий сессий.
func newRouterWithRepos(t *testing.T, jr repo.JournalRepository, wrapSessions func(repo.SessionRepository) repo.SessionRepository) (http.Handler, *service.UserService) {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig()
	log := zap.NewNop().Sugar()

	if jr == nil {
		jr = repo.NewJournalRepository(db)
	}
	userRepo := repo.NewUserRepository(db)
	userSvc := service.NewUserService(userRepo, log)
	var sessions repo.SessionRepository = repo.NewSessionRepository(db)
	if wrapSessions != nil {
		sessions = wrapSessions(sessions)
	}
	sessionSvc := service.NewSessionService(sessions, userRepo, cfg.SecretKey, cfg.SessionTTL, log)
	journalSvc := service.NewJournalService(jr, log)

	h := handlers.NewHandler(userSvc, sessionSvc, journalSvc, log, cfg)
	return h.Router, userSvc
}

// client: http-клиент с cookie jar, без перехода по редиректам.
type client struct {
	t   *testing.T
	srv *httptest.Server
	c   *http.Client
}

func newClient(t *testing.T, router http.Handler) *client {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, srv: srv, c: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *client) do(method, path, contentType string, body io.Reader) *http.Response {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.c.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *client) json(method, path string, payload any) (*http.Response, map[string]any) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(b)
	}
	resp := c.do(method, path, "application/json", body)
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (c *client) form(path string, values url.Values) *http.Response {
	c.t.Helper()
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
}

func (c *client) cookie(name string) *http.Cookie {
	u, _ := url.Parse(c.srv.URL)
	for _, ck := range c.c.Jar.Cookies(u) {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// registerJSON регистрирует учётку и оставляет сессию в jar.
func (c *client) registerJSON(name, email, password string) map[string]any {
	c.t.Helper()
	resp, body := c.json(http.MethodPost, "/register", map[string]string{"name": name, "email": email, "password": password})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, body)
	return body
}

// мок для repo.JournalRepository
type mockJournalRepo struct{ mock.Mock }

func (m *mockJournalRepo) Create(ctx context.Context, j *model.Journal) error {
	return m.Called(ctx, j).Error(0)
}
func (m *mockJournalRepo) GetByID(ctx context.Context, userID, id int64) (*model.Journal, error) {
	args := m.Called(ctx, userID, id)
	if v, ok := args.Get(0).(*model.Journal); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepo) ListByUser(ctx context.Context, userID int64) ([]model.Journal, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Journal); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepo) ListByCountry(ctx context.Context, userID int64, country string) ([]model.Journal, error) {
	args := m.Called(ctx, userID, country)
	if v, ok := args.Get(0).([]model.Journal); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepo) Update(ctx context.Context, userID, id int64, changes map[string]any) (*model.Journal, error) {
	args := m.Called(ctx, userID, id, changes)
	if v, ok := args.Get(0).(*model.Journal); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockJournalRepo) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}
func (m *mockJournalRepo) Countries(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]string); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.JournalRepository = (*mockJournalRepo)(nil)

// failingSessionRepo пробрасывает вызовы, пока не включён failGet.
type failingSessionRepo struct {
	repo.SessionRepository
	failGet atomic.Bool
}

func (f *failingSessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	if f.failGet.Load() {
		return nil, errors.New("connection reset by peer")
	}
	return f.SessionRepository.Get(ctx, id)
}
