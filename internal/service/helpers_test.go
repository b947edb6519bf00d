package service

import (
	"TravelJournal/internal/model"
	"TravelJournal/internal/repo"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

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

// мок для repo.SessionRepository
type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, s *model.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Session); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.SessionRepository = (*mockSessionRepo)(nil)

// store: сервисы поверх настоящего in-memory SQLite.
type store struct {
	db       *gorm.DB
	users    *UserService
	sessions *SessionService
	journals *JournalService
}

func newStore(t *testing.T) *store {
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

	log := zap.NewNop().Sugar()
	userRepo := repo.NewUserRepository(db)
	return &store{
		db:       db,
		users:    NewUserService(userRepo, log),
		sessions: NewSessionService(repo.NewSessionRepository(db), userRepo, "test-secret", time.Hour, log),
		journals: NewJournalService(repo.NewJournalRepository(db), log),
	}
}
