package commands

import (
	"TravelJournal/internal/config"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

type journalView struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Location  string    `json:"location"`
	Country   string    `json:"country"`
	Content   string    `json:"content"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Photo     *string   `json:"photo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func printJournalTable(list []journalView) {
	if len(list) == 0 {
		fmt.Fprintln(Out, "No journal entries")
		return
	}
	tw := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCOUNTRY\tLOCATION")
	for _, j := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", j.ID, j.Date, j.Country, j.Location)
	}
	_ = tw.Flush()
}

func printJournal(j journalView) {
	fmt.Fprintf(Out, "  id:       %d\n", j.ID)
	fmt.Fprintf(Out, "  date:     %s\n", j.Date)
	fmt.Fprintf(Out, "  location: %s\n", j.Location)
	fmt.Fprintf(Out, "  country:  %s\n", j.Country)
	fmt.Fprintf(Out, "  coords:   %g, %g\n", j.Lat, j.Lng)
	if j.Photo != nil {
		fmt.Fprintf(Out, "  photo:    <%d bytes>\n", len(*j.Photo))
	}
	fmt.Fprintf(Out, "  content:\n    %s\n", strings.ReplaceAll(j.Content, "\n", "\n    "))
}

// parseID: положительный числовой id записи.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid journal id %q", s)
	}
	return id, nil
}

type journalsCmd struct{}

func (journalsCmd) Name() string        { return "journals" }
func (journalsCmd) Description() string { return "List your journal entries, newest first" }
func (journalsCmd) Usage() string       { return "journals" }

func (journalsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var out struct {
		Journals []journalView `json:"journals"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodGet, "/api/journals", nil, true, &out); err != nil {
		return err
	}
	printJournalTable(out.Journals)
	return nil
}

type countryCmd struct{}

func (countryCmd) Name() string        { return "country" }
func (countryCmd) Description() string { return "List entries for one country" }
func (countryCmd) Usage() string       { return "country <country>" }

func (countryCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	var out struct {
		Country  string        `json:"country"`
		Journals []journalView `json:"journals"`
	}
	path := "/api/journals/country/" + url.PathEscape(args[0])
	if _, err := newClient(cfg).Call(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return err
	}
	fmt.Fprintf(Out, "%s:\n", out.Country)
	printJournalTable(out.Journals)
	return nil
}

type showCmd struct{}

func (showCmd) Name() string        { return "show" }
func (showCmd) Description() string { return "Show one journal entry" }
func (showCmd) Usage() string       { return "show <id>" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	var out struct {
		Journal journalView `json:"journal"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodGet, fmt.Sprintf("/api/journals/%d", id), nil, true, &out); err != nil {
		return err
	}
	printJournal(out.Journal)
	return nil
}

type countriesCmd struct{}

func (countriesCmd) Name() string        { return "countries" }
func (countriesCmd) Description() string { return "List countries you have visited" }
func (countriesCmd) Usage() string       { return "countries" }

func (countriesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var out struct {
		Countries []string `json:"countries"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodGet, "/api/countries", nil, true, &out); err != nil {
		return err
	}
	if len(out.Countries) == 0 {
		fmt.Fprintln(Out, "No countries yet")
		return nil
	}
	for _, c := range out.Countries {
		fmt.Fprintln(Out, c)
	}
	return nil
}

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Show the logged-in account and dashboard totals" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	var out struct {
		User           accountView `json:"user"`
		TotalJournals  int         `json:"total_journals"`
		TotalCountries int         `json:"total_countries"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodGet, "/dashboard", nil, true, &out); err != nil {
		return err
	}
	kind := "account"
	if out.User.IsGuest {
		kind = "guest account"
	}
	fmt.Fprintf(Out, "Server:    %s\n", cfg.ServerURL)
	fmt.Fprintf(Out, "User:      %s <%s> (%s)\n", out.User.Name, out.User.Email, kind)
	fmt.Fprintf(Out, "Journals:  %d\n", out.TotalJournals)
	fmt.Fprintf(Out, "Countries: %d\n", out.TotalCountries)
	return nil
}

func init() {
	RegisterCmd(journalsCmd{})
	RegisterCmd(countryCmd{})
	RegisterCmd(showCmd{})
	RegisterCmd(countriesCmd{})
	RegisterCmd(statusCmd{})
}
