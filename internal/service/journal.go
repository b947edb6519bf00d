package service

import (
	"TravelJournal/internal/input"
	"TravelJournal/internal/model"
	"TravelJournal/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
)

// JournalService: операции над записями дневника в пределах владельца.
type JournalService struct {
	repo   repo.JournalRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewJournalService(r repo.JournalRepository, logger *zap.SugaredLogger) *JournalService {
	return &JournalService{repo: r, logger: logger, now: time.Now}
}

// Dashboard содержит данные главной страницы, записи и сводку.
type Dashboard struct {
	Journals       []model.Journal `json:"journals"`
	Countries      []string        `json:"countries"`
	TotalJournals  int             `json:"total_journals"`
	TotalCountries int             `json:"total_countries"`
}

// Create нормализует поля и сохраняет новую запись.
func (s *JournalService) Create(ctx context.Context, userID int64, raw input.Raw) (*model.Journal, error) {
	fields, err := input.ParseJournalWrite(raw, input.Create, s.now())
	if err != nil {
		return nil, err
	}
	j := fields.Journal(userID)
	if err := s.repo.Create(ctx, j); err != nil {
		return nil, storageFailure(s.logger, "CreateJournal", err, "user_id", userID)
	}
	return j, nil
}

// List: все записи владельца, новые первыми.
func (s *JournalService) List(ctx context.Context, userID int64) ([]model.Journal, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageFailure(s.logger, "ListJournals", err, "user_id", userID)
	}
	return list, nil
}

func (s *JournalService) ListByCountry(ctx context.Context, userID int64, country string) ([]model.Journal, error) {
	list, err := s.repo.ListByCountry(ctx, userID, country)
	if err != nil {
		return nil, storageFailure(s.logger, "ListJournalsByCountry", err, "user_id", userID, "country", country)
	}
	return list, nil
}

func (s *JournalService) Get(ctx context.Context, userID, id int64) (*model.Journal, error) {
	j, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storageFailure(s.logger, "GetJournal", err, "user_id", userID, "journal_id", id)
	}
	return j, nil
}

// Update применяет только переданные поля. Нечисловые lat/lng здесь становятся 0.0,
// в отличие от Create.
func (s *JournalService) Update(ctx context.Context, userID, id int64, raw input.Raw) (*model.Journal, error) {
	fields, err := input.ParseJournalWrite(raw, input.Update, s.now())
	if err != nil {
		return nil, err
	}
	j, err := s.repo.Update(ctx, userID, id, fields.Changes())
	if err != nil {
		return nil, storageFailure(s.logger, "UpdateJournal", err, "user_id", userID, "journal_id", id)
	}
	return j, nil
}

func (s *JournalService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return storageFailure(s.logger, "DeleteJournal", err, "user_id", userID, "journal_id", id)
	}
	return nil
}

// Countries: различные страны владельца, без порядка.
func (s *JournalService) Countries(ctx context.Context, userID int64) ([]string, error) {
	countries, err := s.repo.Countries(ctx, userID)
	if err != nil {
		return nil, storageFailure(s.logger, "Countries", err, "user_id", userID)
	}
	return countries, nil
}

func (s *JournalService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	countries, err := s.Countries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Journals:       list,
		Countries:      countries,
		TotalJournals:  len(list),
		TotalCountries: len(countries),
	}, nil
}
