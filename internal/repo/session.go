package repo

import (
	"TravelJournal/internal/model"
	"context"

	"gorm.io/gorm"
)

// SessionRepository: серверное хранилище сессий.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	// Get возвращает model.ErrNotFound, если сессии нет.
	Get(ctx context.Context, id string) (*model.Session, error)
	// Delete идемпотентен: отсутствующая сессия - не ошибка.
	Delete(ctx context.Context, id string) error
}

type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepository: сессии в таблице sessions.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, s *model.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}
