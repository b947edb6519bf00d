package model

import "time"

// Session: серверное состояние сессии. Клиент видит только подписанный токен с её ID.
type Session struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   int64  `gorm:"not null;index" json:"user_id"`
	UserName string `gorm:"size:100" json:"user_name"`

	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
