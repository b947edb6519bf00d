package commands

import (
	"TravelJournal/internal/config"
	"context"
	"fmt"
	"net/http"
)

type accountView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"is_guest"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    accountView `json:"user"`
}

// authenticate выполняет POST и сохраняет cookie сессии из ответа.
func authenticate(ctx context.Context, cfg *config.Config, path string, payload any) (*authResponse, error) {
	c := newClient(cfg)
	var out authResponse
	resp, err := c.Call(ctx, http.MethodPost, path, payload, false, &out)
	if err != nil {
		return nil, err
	}
	if err := c.PersistSession(resp); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return &out, nil
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account and log in" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return ErrUsage
	}
	out, err := authenticate(ctx, cfg, "/register", map[string]string{
		"name":     args[0],
		"email":    args[1],
		"password": args[2],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Registered and logged in as %s <%s>\n", out.User.Name, out.User.Email)
	return nil
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Log in and store the session token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	out, err := authenticate(ctx, cfg, "/login", map[string]string{
		"email":    args[0],
		"password": args[1],
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as %s\n", out.User.Name)
	return nil
}

type guestCmd struct{}

func (guestCmd) Name() string        { return "guest" }
func (guestCmd) Description() string { return "Log in with a fresh guest account" }
func (guestCmd) Usage() string       { return "guest" }

func (guestCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	out, err := authenticate(ctx, cfg, "/google-login", nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Logged in as guest %s\n", out.User.Name)
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "End the session and forget the token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	c := newClient(cfg)
	// сервер может быть недоступен, локальный токен удаляем в любом случае
	if _, err := c.Call(ctx, http.MethodGet, "/logout", nil, true, nil); err != nil {
		fmt.Fprintf(Out, "warning: server logout failed: %v\n", err)
	}
	if err := c.Tokens.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() {
	RegisterCmd(registerCmd{})
	RegisterCmd(loginCmd{})
	RegisterCmd(guestCmd{})
	RegisterCmd(logoutCmd{})
}
