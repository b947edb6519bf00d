package repo

import (
	"TravelJournal/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JournalRepository: CRUD записей дневника в пределах владельца.
// Чужая запись - model.ErrForbidden, несуществующая - model.ErrNotFound
// (существование проверяется первым).
type JournalRepository interface {
	Create(ctx context.Context, j *model.Journal) error
	GetByID(ctx context.Context, userID, id int64) (*model.Journal, error)
	// ListByUser: по дате, затем по времени создания, новые первыми.
	ListByUser(ctx context.Context, userID int64) ([]model.Journal, error)
	ListByCountry(ctx context.Context, userID int64, country string) ([]model.Journal, error)
	// Update применяет только переданные колонки и всегда обновляет updated_at.
	Update(ctx context.Context, userID, id int64, changes map[string]any) (*model.Journal, error)
	Delete(ctx context.Context, userID, id int64) error
	Countries(ctx context.Context, userID int64) ([]string, error)
}

// колонки, которые Update не трогает никогда
var immutableColumns = []string{"id", "user_id", "created_at"}

type journalRepo struct {
	db *gorm.DB
}

// NewJournalRepository создаёт реализацию репозитория для Journal.
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepo{db: db}
}

func (r *journalRepo) Create(ctx context.Context, j *model.Journal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := tx.NowFunc()
		j.ID = 0
		j.CreatedAt = now
		j.UpdatedAt = now
		return tx.Create(j).Error
	})
}

func (r *journalRepo) GetByID(ctx context.Context, userID, id int64) (*model.Journal, error) {
	return findOwned(r.db.WithContext(ctx), userID, id, false)
}

func (r *journalRepo) ListByUser(ctx context.Context, userID int64) ([]model.Journal, error) {
	list := make([]model.Journal, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, err
}

func (r *journalRepo) ListByCountry(ctx context.Context, userID int64, country string) ([]model.Journal, error) {
	list := make([]model.Journal, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND country = ?", userID, country).
		Order("id").
		Find(&list).Error
	return list, err
}

func (r *journalRepo) Update(ctx context.Context, userID, id int64, changes map[string]any) (*model.Journal, error) {
	var out *model.Journal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		j, err := findOwned(tx, userID, id, true)
		if err != nil {
			return err
		}
		updates := make(map[string]any, len(changes)+1)
		for k, v := range changes {
			updates[k] = v
		}
		for _, col := range immutableColumns {
			delete(updates, col)
		}
		updates["updated_at"] = tx.NowFunc()
		if err := tx.Model(&model.Journal{}).Where("id = ?", j.ID).Updates(updates).Error; err != nil {
			return err
		}
		var fresh model.Journal
		if err := tx.Where("id = ?", j.ID).Take(&fresh).Error; err != nil {
			return err
		}
		out = &fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *journalRepo) Delete(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		j, err := findOwned(tx, userID, id, true)
		if err != nil {
			return err
		}
		res := tx.Where("id = ?", j.ID).Delete(&model.Journal{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return model.ErrNotFound
		}
		return nil
	})
}

func (r *journalRepo) Countries(ctx context.Context, userID int64) ([]string, error) {
	countries := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&model.Journal{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("country", &countries).Error
	return countries, err
}

// findOwned ищет запись по id без фильтра по владельцу, затем сверяет владельца.
// lock: SELECT ... FOR UPDATE (SQLite-драйвер эту часть опускает).
func findOwned(db *gorm.DB, userID, id int64, lock bool) (*model.Journal, error) {
	q := db
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var j model.Journal
	if err := q.Where("id = ?", id).Take(&j).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if j.UserID != userID {
		return nil, model.ErrForbidden
	}
	return &j, nil
}
