package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/starford/savscan/internal/apperr"
	"github.com/starford/savscan/internal/report"
	"github.com/starford/savscan/internal/savefile"
	"github.com/starford/savscan/internal/search"
	"github.com/starford/savscan/internal/watch"
)

// Request is one command-line scan of a save file.
type Request struct {
	Path          string
	Value         string
	Key           string
	CaseSensitive bool
	Format        string
	NoColor       bool
	Watch         bool
}

// Run loads the requested save, reports its summary and any searches, and
// in watch mode repeats the report whenever the file changes until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, req Request, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if req.Path == "" {
		return apperr.ErrUsage
	}
	cfg := app.config

	logger := newLogger(app.stderr, cfg.App.LogLevel)

	format := req.Format
	if format == "" {
		format = cfg.App.Format
	}
	rep, err := report.New(format, app.stdout, useColor(cfg.App.Color, req.NoColor, app.stdout))
	if err != nil {
		return err
	}

	loader := savefile.NewLoader(
		savefile.WithHeaderSize(cfg.Save.HeaderSize),
		savefile.WithLogger(logger),
	)
	sopts := cfg.Search.Options()
	if req.CaseSensitive {
		sopts.CaseSensitive = true
	}
	scan := func(s *savefile.Save) *report.Result {
		res := report.NewResult(s, cfg.Search.SummaryLimit)
		if req.Value != "" {
			v := search.ValueSearch(s.Root, req.Value, sopts)
			res.Value = &v
		}
		if req.Key != "" {
			k := search.KeySearch(s.Root, req.Key, sopts)
			res.Key = &k
		}
		return res
	}

	if err := rep.Loading(req.Path); err != nil {
		return err
	}
	save, err := loader.Load(req.Path)
	if err != nil {
		return err
	}
	if err := rep.Report(scan(save)); err != nil {
		return err
	}
	if !req.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watch.Watch(ctx, req.Path, func(_ context.Context, data []byte) error {
		s, err := loader.Decode(data)
		if err != nil {
			return err
		}
		s.Path = req.Path
		if err := rep.Reloaded(req.Path, time.Now()); err != nil {
			return err
		}
		return rep.Report(scan(s))
	},
		watch.WithLogger(logger),
		watch.WithChecksum(save.Checksum),
	)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// useColor decides whether text output is coloured. --no-color and NO_COLOR
// always win; otherwise mode "auto" colours only when w is a terminal.
func useColor(mode string, noColor bool, w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
