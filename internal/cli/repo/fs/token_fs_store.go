package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// TokenFSStore: файловое хранилище токена сессии для CLI.
// Пустой Path - <UserConfigDir>/TravelJournal/session_token.
type TokenFSStore struct {
	Path string
}

func (s TokenFSStore) tokenPath() (string, error) {
	p := s.Path
	if p == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "TravelJournal", "session_token")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", err
	}
	return p, nil
}

// Save сохраняет токен в файл.
func (s TokenFSStore) Save(token string) error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0o600)
}

// Load читает токен из файла.
func (s TokenFSStore) Load() (string, error) {
	p, err := s.tokenPath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	token := strings.TrimRight(string(b), " \t\r\n")
	if token == "" {
		return "", errors.New("empty token file")
	}
	return token, nil
}

func (s TokenFSStore) Clear() error {
	p, err := s.tokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
