package service

import (
	"TravelJournal/internal/model"
	"errors"

	"go.uber.org/zap"
)

// доменные ошибки проходят наверх без изменений
var passthrough = []error{
	model.ErrUnauthenticated,
	model.ErrForbidden,
	model.ErrNotFound,
	model.ErrValidation,
	model.ErrDuplicateEmail,
	model.ErrInvalidCredentials,
	model.ErrStorage,
}

func isDomainError(err error) bool {
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// storageFailure логирует ошибку хранилища и заменяет её на model.ErrStorage.
// Детали наружу не уходят.
func storageFailure(logger *zap.SugaredLogger, op string, err error, keysAndValues ...any) error {
	if err == nil || isDomainError(err) {
		return err
	}
	logger.Errorw(op+": storage error", append(keysAndValues, "error", err)...)
	return model.ErrStorage
}
