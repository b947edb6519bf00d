package input

import (
	"TravelJournal/internal/model"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Mode выбирает путь записи: создание или частичное обновление.
type Mode int

const (
	Create Mode = iota
	Update
)

// Fields: нормализованные поля записи. nil означает "не передано".
type Fields struct {
	Date     *string
	Location *string
	Country  *string
	Content  *string
	Lat      *float64
	Lng      *float64
	Photo    *string
	// PhotoSet: ключ photo присутствовал (null/"" очищает фото при обновлении).
	PhotoSet bool
}

// ParseJournalWrite проверяет и приводит поля записи дневника.
//
// Создание: location, country, content обязательны (model.ErrMissingRequired),
// отсутствующая дата заменяется текущей датой UTC, нечисловые lat/lng дают
// model.ErrInvalidNumeric.
// Обновление: возвращаются только переданные поля, нечисловые lat/lng
// молча превращаются в 0.0.
func ParseJournalWrite(raw Raw, mode Mode, now time.Time) (Fields, error) {
	var f Fields
	var err error

	texts := []struct {
		key string
		dst **string
	}{
		{"date", &f.Date},
		{"location", &f.Location},
		{"country", &f.Country},
		{"content", &f.Content},
	}
	for _, t := range texts {
		if *t.dst, err = text(raw, t.key); err != nil {
			return Fields{}, err
		}
	}

	if mode == Create {
		if f.Location == nil || f.Country == nil || f.Content == nil {
			return Fields{}, model.ErrMissingRequired
		}
		if f.Date == nil {
			d := now.UTC().Format(model.DateLayout)
			f.Date = &d
		}
	}

	if f.Lat, err = number(raw, "lat", mode); err != nil {
		return Fields{}, err
	}
	if f.Lng, err = number(raw, "lng", mode); err != nil {
		return Fields{}, err
	}

	if f.Photo, f.PhotoSet, err = photo(raw); err != nil {
		return Fields{}, err
	}
	return f, nil
}

// Journal собирает новую запись для создания.
func (f Fields) Journal(userID int64) *model.Journal {
	j := &model.Journal{UserID: userID, Photo: f.Photo}
	if f.Date != nil {
		j.Date = *f.Date
	}
	if f.Location != nil {
		j.Location = *f.Location
	}
	if f.Country != nil {
		j.Country = *f.Country
	}
	if f.Content != nil {
		j.Content = *f.Content
	}
	if f.Lat != nil {
		j.Lat = *f.Lat
	}
	if f.Lng != nil {
		j.Lng = *f.Lng
	}
	return j
}

// Changes: колонки для частичного обновления.
func (f Fields) Changes() map[string]any {
	changes := make(map[string]any)
	if f.Date != nil {
		changes["date"] = *f.Date
	}
	if f.Location != nil {
		changes["location"] = *f.Location
	}
	if f.Country != nil {
		changes["country"] = *f.Country
	}
	if f.Content != nil {
		changes["content"] = *f.Content
	}
	if f.Lat != nil {
		changes["lat"] = *f.Lat
	}
	if f.Lng != nil {
		changes["lng"] = *f.Lng
	}
	if f.PhotoSet {
		if f.Photo == nil {
			changes["photo"] = nil
		} else {
			changes["photo"] = *f.Photo
		}
	}
	return changes
}

// ParseCredentials достаёт name, email и password. Пароль не обрезается.
func ParseCredentials(raw Raw) (name, email, password string) {
	name = strings.TrimSpace(asString(raw["name"]))
	email = strings.TrimSpace(asString(raw["email"]))
	password = asString(raw["password"])
	return name, email, password
}

// text: пустая после trim строка считается отсутствующей.
func text(raw Raw, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return nil, fmt.Errorf("%w: %s must be a string", model.ErrValidation, key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func number(raw Raw, key string, mode Mode) (*float64, error) {
	v, ok := raw[key]
	if !ok {
		if mode == Create {
			zero := 0.0
			return &zero, nil
		}
		return nil, nil
	}
	f, err := parseFloat(v)
	if err != nil {
		if mode == Create {
			return nil, model.ErrInvalidNumeric
		}
		// при обновлении мусор превращается в 0.0
		f = 0
	}
	return &f, nil
}

// parseFloat: nil и пустая строка - 0.0.
func parseFloat(v any) (float64, error) {
	var f float64
	var err error
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		f = t
	case json.Number:
		f, err = strconv.ParseFloat(t.String(), 64)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", f)
	}
	return f, nil
}

func photo(raw Raw) (*string, bool, error) {
	v, ok := raw["photo"]
	if !ok {
		return nil, false, nil
	}
	switch t := v.(type) {
	case nil:
		return nil, true, nil
	case string:
		if t == "" {
			return nil, true, nil
		}
		return &t, true, nil
	default:
		return nil, false, fmt.Errorf("%w: photo must be an encoded string", model.ErrValidation)
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
