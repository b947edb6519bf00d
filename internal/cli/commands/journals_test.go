package commands

import (
	"TravelJournal/internal/config"
	"TravelJournal/internal/handlers"
	"TravelJournal/internal/repo"
	"TravelJournal/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"TravelJournal/internal/cli/api"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newJournalServer: настоящий сервер поверх in-memory SQLite.
func newJournalServer(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := gorm.Open(repo.SQLiteDialector(dsn), repo.NewGormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{SecretKey: "test-secret", SessionTTL: time.Hour, PhotoMaxSizeMB: 1}
	log := zap.NewNop().Sugar()
	users := repo.NewUserRepository(db)
	h := handlers.NewHandler(
		service.NewUserService(users, log),
		service.NewSessionService(repo.NewSessionRepository(db), users, cfg.SecretKey, cfg.SessionTTL, log),
		service.NewJournalService(repo.NewJournalRepository(db), log),
		log, cfg,
	)
	ts := httptest.NewServer(h.Router)
	t.Cleanup(func() {
		ts.Close()
		_ = sqlDB.Close()
	})
	return ts
}

func run(t *testing.T, cfg *config.Config, c Command, args ...string) string {
	t.Helper()
	var err error
	out := withStdoutCapture(t, func() { err = c.Run(context.Background(), cfg, args) })
	if err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return out
}

func TestJournalCommands_EndToEnd(t *testing.T) {
	ts := newJournalServer(t)
	cfg := testConfig(t, ts.URL)

	run(t, cfg, registerCmd{}, "Alice", "alice@example.com", "pw1")

	out := run(t, cfg, addCmd{}, "-date", "2024-05-01", "-location", "Kyoto", "-country", "Japan", "-content", "temples", "-lat", "35.0", "-lng", "135.7")
	if !strings.Contains(out, "Created:") || !strings.Contains(out, "Kyoto") {
		t.Fatalf("add output: %q", out)
	}
	run(t, cfg, addCmd{}, "-date", "2024-06-01", "-location", "Paris", "-country", "France", "-content", "museums")

	out = run(t, cfg, journalsCmd{})
	if strings.Index(out, "Paris") > strings.Index(out, "Kyoto") {
		t.Fatalf("newest entry must be first: %q", out)
	}

	out = run(t, cfg, showCmd{}, "1")
	if !strings.Contains(out, "temples") || !strings.Contains(out, "35, 135.7") {
		t.Fatalf("show output: %q", out)
	}

	// edit меняет только переданное поле
	out = run(t, cfg, editCmd{}, "1", "-content", "gardens")
	if !strings.Contains(out, "gardens") || !strings.Contains(out, "Kyoto") {
		t.Fatalf("edit output: %q", out)
	}

	out = run(t, cfg, countryCmd{}, "Japan")
	if !strings.Contains(out, "Kyoto") || strings.Contains(out, "Paris") {
		t.Fatalf("country output: %q", out)
	}

	out = run(t, cfg, countriesCmd{})
	if !strings.Contains(out, "Japan") || !strings.Contains(out, "France") {
		t.Fatalf("countries output: %q", out)
	}

	out = run(t, cfg, statusCmd{})
	if !strings.Contains(out, "alice@example.com") || !strings.Contains(out, "Journals:  2") || !strings.Contains(out, "Countries: 2") {
		t.Fatalf("status output: %q", out)
	}

	run(t, cfg, deleteCmd{}, "1")
	err := showCmd{}.Run(context.Background(), cfg, []string{"1"})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("deleted entry must be 404, got %v", err)
	}

	// чужая запись - 403
	other := testConfig(t, ts.URL)
	run(t, other, guestCmd{})
	err = showCmd{}.Run(context.Background(), other, []string{"2"})
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("foreign entry must be 403, got %v", err)
	}

	run(t, cfg, logoutCmd{})
	if err := (journalsCmd{}).Run(context.Background(), cfg, nil); !errors.Is(err, api.ErrNotLoggedIn) {
		t.Fatalf("after logout expected ErrNotLoggedIn, got %v", err)
	}
}

func TestAdd_MissingRequiredIsUsage(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	if err := (addCmd{}).Run(context.Background(), cfg, []string{"-location", "Kyoto"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if err := (addCmd{}).Run(context.Background(), cfg, []string{"-bogus"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage for unknown flag, got %v", err)
	}
}

func TestEdit_SendsOnlySetFields(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/journals/5" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"journal":{"id":5}}`))
	}))
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	if err := os.WriteFile(cfg.TokenFile, []byte("tok"), 0o600); err != nil {
		t.Fatal(err)
	}
	run(t, cfg, editCmd{}, "5", "-lat", "0", "-clear-photo")

	if len(got) != 2 {
		t.Fatalf("expected lat and photo only, got %#v", got)
	}
	if v, ok := got["lat"]; !ok || v != float64(0) {
		t.Fatalf("lat: %#v", got["lat"])
	}
	if v, ok := got["photo"]; !ok || v != nil {
		t.Fatalf("photo must be null: %#v", got["photo"])
	}

	// без флагов - нечего менять
	if err := (editCmd{}).Run(context.Background(), cfg, []string{"5"}); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	if err := (editCmd{}).Run(context.Background(), cfg, []string{"abc", "-content", "x"}); err == nil {
		t.Fatalf("expected invalid id error")
	}
}

func TestPhotoDataURL(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(png, []byte("\x89PNG\r\n\x1a\nrest"), 0o600); err != nil {
		t.Fatal(err)
	}
	u, err := photoDataURL(png)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(u, "data:image/png;base64,") {
		t.Fatalf("unexpected data url: %q", u)
	}

	noExt := filepath.Join(dir, "pic")
	if err := os.WriteFile(noExt, []byte("\x89PNG\r\n\x1a\nrest"), 0o600); err != nil {
		t.Fatal(err)
	}
	if u, err := photoDataURL(noExt); err != nil || !strings.HasPrefix(u, "data:image/png;base64,") {
		t.Fatalf("content sniffing: %q %v", u, err)
	}

	empty := filepath.Join(dir, "empty.png")
	_ = os.WriteFile(empty, nil, 0o600)
	if _, err := photoDataURL(empty); err == nil {
		t.Fatalf("empty file must fail")
	}
	if _, err := photoDataURL(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("missing file must fail")
	}
}
