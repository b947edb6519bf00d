package commands

import (
	"TravelJournal/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"TravelJournal/internal/cli/api"
	fsrepo "TravelJournal/internal/cli/repo/fs"
)

// ErrUsage: неверные аргументы, Dispatch печатает Usage команды.
var ErrUsage = errors.New("usage")

// Command: подкоманда tjcli.
type Command interface {
	Name() string
	Description() string
	// Usage: строка вида "show <id>".
	Usage() string
	// Run получает аргументы без имени команды.
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

var registry = map[string]Command{}

// группы в справке; команда без группы попадает в "Other"
var helpGroups = []struct {
	title string
	names []string
}{
	{"Account", []string{"register", "login", "guest", "logout", "status"}},
	{"Journal", []string{"journals", "country", "countries", "show", "add", "edit", "delete"}},
}

// Out: куда пишут команды. В тестах подменяется буфером.
var Out io.Writer = os.Stdout

// RegisterCmd вызывается из init() файла команды.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

func Get(name string) (Command, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// List: все команды по имени.
func List() []Command {
	return slices.SortedFunc(maps.Values(registry), func(a, b Command) int {
		return strings.Compare(a.Name(), b.Name())
	})
}

// FormatGlobalUsage собирает общую справку, команды сгруппированы.
func FormatGlobalUsage() string {
	var b strings.Builder
	b.WriteString("TravelJournal CLI\n\n")
	b.WriteString("Usage:\n  tjcli [--base-url <host:port>] [--token-file <path>] <command> [args]\n")

	seen := map[string]bool{}
	for _, g := range helpGroups {
		fmt.Fprintf(&b, "\n%s commands:\n", g.title)
		for _, name := range g.names {
			if c, ok := registry[name]; ok {
				writeUsageLine(&b, c)
				seen[name] = true
			}
		}
	}
	var rest []Command
	for _, c := range List() {
		if !seen[c.Name()] {
			rest = append(rest, c)
		}
	}
	if len(rest) > 0 {
		b.WriteString("\nOther commands:\n")
		for _, c := range rest {
			writeUsageLine(&b, c)
		}
	}
	return b.String()
}

func writeUsageLine(b *strings.Builder, c Command) {
	fmt.Fprintf(b, "  %-44s %s\n", c.Usage(), c.Description())
}

// newClient: API-клиент с файловым хранилищем токена из конфига.
func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.ServerURL, fsrepo.TokenFSStore{Path: cfg.TokenFile})
}
