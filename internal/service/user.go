package service

import (
	"TravelJournal/internal/model"
	"TravelJournal/internal/repo"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// GuestEmailDomain: зарезервированный домен гостевых учёток, при регистрации запрещён.
const GuestEmailDomain = "guest.travel-journal.invalid"

// bcrypt обрабатывает не больше 72 байт пароля
const maxPasswordBytes = 72

// UserService: регистрация, вход и гостевые учётки.
type UserService struct {
	repo   repo.UserRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewUserService(r repo.UserRepository, logger *zap.SugaredLogger) *UserService {
	return &UserService{repo: r, logger: logger, now: time.Now}
}

// Register создаёт учётную запись с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", model.ErrValidation)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password is longer than %d bytes", model.ErrValidation, maxPasswordBytes)
	}
	if strings.HasSuffix(strings.ToLower(email), "@"+GuestEmailDomain) {
		return nil, fmt.Errorf("%w: email domain is reserved", model.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageFailure(s.logger, "Register", err, "email", email)
	}

	user, err := s.repo.CreateUser(ctx, &model.User{Name: name, Email: email, Password: string(hash)})
	if err != nil {
		return nil, storageFailure(s.logger, "Register", err, "email", email)
	}
	return user, nil
}

// timingDummyHash: bcrypt-хеш (DefaultCost) строки "travel-journal-timing-parity".
// Сравнивается, когда email не найден: обе ветки стоят одинаково.
var timingDummyHash = []byte("$2a$10$zIB/l5NdAGtjp9iEfvieFeYGrihvvUwZQSBu3QGANAtZEWY0CZztq")

// Authenticate проверяет email и пароль. Неизвестный email и неверный пароль
// неразличимы: оба дают model.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, storageFailure(s.logger, "Authenticate", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(timingDummyHash, []byte(password))
		return nil, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// CreateGuestAccount создаёт учётку для заглушки "Google login".
// Email уникален по построению: время в наносекундах + uuid в зарезервированном домене.
func (s *UserService) CreateGuestAccount(ctx context.Context) (*model.User, error) {
	now := s.now().UTC()

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, storageFailure(s.logger, "CreateGuestAccount", err)
	}
	// пароль никому не известен
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageFailure(s.logger, "CreateGuestAccount", err)
	}

	user := &model.User{
		Name:     "Guest_" + now.Format("20060102150405"),
		Email:    fmt.Sprintf("guest_%d_%s@%s", now.UnixNano(), uuid.NewString(), GuestEmailDomain),
		Password: string(hash),
		IsGuest:  true,
	}
	created, err := s.repo.CreateUser(ctx, user)
	if errors.Is(err, model.ErrDuplicateEmail) {
		s.logger.Errorw("CreateGuestAccount: guest email collision", "email", user.Email)
		return nil, model.ErrStorage
	}
	if err != nil {
		return nil, storageFailure(s.logger, "CreateGuestAccount", err)
	}
	return created, nil
}

// GetAccount возвращает учётку по id (model.ErrNotFound, если удалена).
func (s *UserService) GetAccount(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storageFailure(s.logger, "GetAccount", err, "user_id", id)
	}
	return user, nil
}

// DeleteAccount удаляет учётку вместе со всеми записями и сессиями.
func (s *UserService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return storageFailure(s.logger, "DeleteAccount", err, "user_id", id)
	}
	return nil
}
