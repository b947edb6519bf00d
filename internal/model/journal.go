package model

import "time"

// DateLayout: формат поля Journal.Date.
const DateLayout = "2006-01-02"

// Journal: запись дневника путешествий. Владелец неизменен после создания.
type Journal struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"-"` // ссылка на users.id

	Date     string  `gorm:"size:20;not null" json:"date"`
	Location string  `gorm:"size:200;not null" json:"location"`
	Country  string  `gorm:"size:100;not null;index" json:"country"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Lat      float64 `gorm:"not null;default:0" json:"lat"`
	Lng      float64 `gorm:"not null;default:0" json:"lng"`
	Photo    *string `gorm:"type:text" json:"photo"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
