package service

import (
	"TravelJournal/internal/model"
	"TravelJournal/internal/repo"
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionClaims: токен сессии несёт только ID серверной сессии.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionService связывает запрос с учётной записью через серверную сессию.
type SessionService struct {
	sessions repo.SessionRepository
	users    repo.UserRepository
	secret   []byte
	ttl      time.Duration
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewSessionService(
	sessions repo.SessionRepository,
	users repo.UserRepository,
	secret string,
	ttl time.Duration,
	logger *zap.SugaredLogger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		users:    users,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// TTL: время жизни новой сессии.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Establish создаёт серверную сессию для учётки и возвращает подписанный токен.
func (s *SessionService) Establish(ctx context.Context, user *model.User) (string, error) {
	now := s.now().UTC()
	sess := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", storageFailure(s.logger, "Establish", err, "user_id", user.ID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		// сессия без токена бесполезна
		_ = s.sessions.Delete(ctx, sess.ID)
		return "", storageFailure(s.logger, "Establish", err, "user_id", user.ID)
	}
	return signed, nil
}

// CurrentAccount возвращает учётку, привязанную к токену.
// Истёкшая сессия и сессия удалённой учётки удаляются, результат - model.ErrUnauthenticated.
func (s *SessionService) CurrentAccount(ctx context.Context, token string) (*model.User, error) {
	sid, ok := s.sessionID(token, true)
	if !ok {
		return nil, model.ErrUnauthenticated
	}

	sess, err := s.sessions.Get(ctx, sid)
	if errors.Is(err, model.ErrNotFound) {
		return nil, model.ErrUnauthenticated
	}
	if err != nil {
		return nil, storageFailure(s.logger, "CurrentAccount", err, "session_id", sid)
	}

	if sess.Expired(s.now()) {
		s.drop(ctx, sid)
		return nil, model.ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, model.ErrNotFound) {
		// учётка удалена - сессию не обслуживаем
		s.drop(ctx, sid)
		return nil, model.ErrUnauthenticated
	}
	if err != nil {
		return nil, storageFailure(s.logger, "CurrentAccount", err, "session_id", sid)
	}
	return user, nil
}

// Destroy удаляет сессию. Пустой, чужой или истёкший токен - не ошибка.
func (s *SessionService) Destroy(ctx context.Context, token string) {
	// срок не проверяем: истёкшую сессию тоже надо убрать
	if sid, ok := s.sessionID(token, false); ok {
		s.drop(ctx, sid)
	}
}

func (s *SessionService) drop(ctx context.Context, sid string) {
	if err := s.sessions.Delete(ctx, sid); err != nil {
		s.logger.Warnw("failed to delete session", "session_id", sid, "error", err)
	}
}

// sessionID проверяет подпись (и срок, если checkExpiry) токена.
func (s *SessionService) sessionID(token string, checkExpiry bool) (string, bool) {
	if token == "" {
		return "", false
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", false
	}
	return claims.SessionID, true
}
