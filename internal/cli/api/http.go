package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TravelJournal/internal/cli/repo"
)

// SessionCookieName: имя cookie сессии на сервере.
const SessionCookieName = "session"

// ErrNotLoggedIn: у клиента нет сохранённой сессии.
var ErrNotLoggedIn = errors.New("not logged in: run login, register or guest first")

// Client ходит в JSON API сервера и подставляет сохранённый токен сессии.
type Client struct {
	BaseURL string
	Tokens  repo.TokenStore
	HTTP    *http.Client
}

func NewClient(baseURL string, tokens repo.TokenStore) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tokens:  tokens,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Error: ответ сервера с success=false.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Do отправляет запрос; payload (если не nil) кодируется в JSON.
// Если auth, к запросу добавляется cookie сессии.
func (c *Client) Do(ctx context.Context, method, path string, payload any, auth bool) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if auth {
		token, err := c.Tokens.Load()
		if err != nil || token == "" {
			return nil, nil, ErrNotLoggedIn
		}
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// Call: Do + проверка статуса + декодирование ответа в out (если не nil).
func (c *Client) Call(ctx context.Context, method, path string, payload any, auth bool, out any) (*http.Response, error) {
	resp, body, err := c.Do(ctx, method, path, payload, auth)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return resp, DecodeError(resp.StatusCode, body)
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return resp, fmt.Errorf("decode: %w", err)
		}
	}
	return resp, nil
}

// DecodeError достаёт message из JSON-ответа; не-JSON тело идёт как есть.
func DecodeError(status int, body []byte) error {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Message == "" {
		return &Error{Status: status, Message: strings.TrimSpace(string(body))}
	}
	return &Error{Status: status, Message: env.Message}
}

// PersistSession извлекает cookie сессии из ответа и сохраняет токен.
func (c *Client) PersistSession(resp *http.Response) error {
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return c.Tokens.Save(ck.Value)
		}
	}
	return fmt.Errorf("no session cookie in response")
}
