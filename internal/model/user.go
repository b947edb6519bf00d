package model

import "time"

// User: учётная запись владельца журнала.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:200;not null" json:"-"` // bcrypt-хеш
	IsGuest  bool   `gorm:"not null;default:false" json:"is_guest"`

	// Связи: удаление пользователя удаляет его записи и сессии.
	Journals []Journal `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Sessions []Session `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
