package commands

import (
	"TravelJournal/internal/config"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// journalFlags: общие флаги add/edit.
type journalFlags struct {
	fs         *flag.FlagSet
	date       string
	location   string
	country    string
	content    string
	lat        float64
	lng        float64
	photo      string
	clearPhoto bool
}

func newJournalFlags(name string, withClear bool) *journalFlags {
	f := &journalFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	f.fs.SetOutput(io.Discard)
	f.fs.StringVar(&f.date, "date", "", "date of the visit, YYYY-MM-DD")
	f.fs.StringVar(&f.location, "location", "", "place name")
	f.fs.StringVar(&f.country, "country", "", "country")
	f.fs.StringVar(&f.content, "content", "", "journal text")
	f.fs.Float64Var(&f.lat, "lat", 0, "latitude")
	f.fs.Float64Var(&f.lng, "lng", 0, "longitude")
	f.fs.StringVar(&f.photo, "photo", "", "path to an image file")
	if withClear {
		f.fs.BoolVar(&f.clearPhoto, "clear-photo", false, "remove the attached photo")
	}
	return f
}

// payload собирает только явно заданные флаги.
func (f *journalFlags) payload() (map[string]any, error) {
	out := map[string]any{}
	var visitErr error
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "date":
			out["date"] = f.date
		case "location":
			out["location"] = f.location
		case "country":
			out["country"] = f.country
		case "content":
			out["content"] = f.content
		case "lat":
			out["lat"] = f.lat
		case "lng":
			out["lng"] = f.lng
		case "photo":
			dataURL, err := photoDataURL(f.photo)
			if err != nil {
				visitErr = err
				return
			}
			out["photo"] = dataURL
		case "clear-photo":
			if f.clearPhoto {
				out["photo"] = nil
			}
		}
	})
	return out, visitErr
}

// photoDataURL читает файл и кодирует его в data:<mime>;base64,...
func photoDataURL(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("photo file is empty")
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(b)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return "data:" + ct + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

type addCmd struct{}

func (addCmd) Name() string        { return "add" }
func (addCmd) Description() string { return "Add a journal entry" }
func (addCmd) Usage() string {
	return "add -location <l> -country <c> -content <t> [-date d] [-lat n] [-lng n] [-photo file]"
}

func (addCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	f := newJournalFlags("add", false)
	if err := f.fs.Parse(args); err != nil || f.fs.NArg() != 0 {
		return ErrUsage
	}
	if f.location == "" || f.country == "" || f.content == "" {
		return ErrUsage
	}
	body, err := f.payload()
	if err != nil {
		return err
	}
	var out struct {
		ID      int64       `json:"id"`
		Journal journalView `json:"journal"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodPost, "/api/journals", body, true, &out); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	printJournal(out.Journal)
	return nil
}

type editCmd struct{}

func (editCmd) Name() string        { return "edit" }
func (editCmd) Description() string { return "Change fields of a journal entry" }
func (editCmd) Usage() string {
	return "edit <id> [-date d] [-location l] [-country c] [-content t] [-lat n] [-lng n] [-photo file|-clear-photo]"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	f := newJournalFlags("edit", true)
	if err := f.fs.Parse(args[1:]); err != nil || f.fs.NArg() != 0 {
		return ErrUsage
	}
	if f.photo != "" && f.clearPhoto {
		return errors.New("-photo and -clear-photo are mutually exclusive")
	}
	body, err := f.payload()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrUsage
	}
	var out struct {
		Journal journalView `json:"journal"`
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodPut, fmt.Sprintf("/api/journals/%d", id), body, true, &out); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Updated:")
	printJournal(out.Journal)
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete a journal entry" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if _, err := newClient(cfg).Call(ctx, http.MethodDelete, fmt.Sprintf("/api/journals/%d", id), nil, true, nil); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted journal entry %d\n", id)
	return nil
}

func init() {
	RegisterCmd(addCmd{})
	RegisterCmd(editCmd{})
	RegisterCmd(deleteCmd{})
}
