package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/starford/savscan/internal/checksum"
	"github.com/starford/savscan/internal/models"
)

// Text is the human-readable Reporter.
type Text struct {
	w       io.Writer
	heading func(a ...interface{}) string
	path    func(a ...interface{}) string
	kind    func(a ...interface{}) string
	dim     func(a ...interface{}) string
}

// NewText creates a text reporter. With colored false the output carries no
// escape sequences regardless of the terminal.
func NewText(w io.Writer, colored bool) *Text {
	mk := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &Text{
		w:       w,
		heading: mk(color.Bold),
		path:    mk(color.FgCyan),
		kind:    mk(color.FgYellow),
		dim:     mk(color.Faint),
	}
}

func (t *Text) Loading(path string) error {
	_, err := fmt.Fprintf(t.w, "Loading %s ...\n", path)
	return err
}

func (t *Text) Reloaded(path string, at time.Time) error {
	_, err := fmt.Fprintf(t.w, "\n%s\n", t.heading(fmt.Sprintf("--- %s changed, reloaded at %s ---", path, at.Format(time.TimeOnly))))
	return err
}

func (t *Text) Report(r *Result) error {
	ew := &errWriter{w: t.w}
	ew.printf("Loaded %s payload %s\n", r.Framing,
		t.dim(fmt.Sprintf("(%d bytes, header %s, sha256 %s)", r.Size, r.Header, checksum.Short(r.Checksum))))
	t.summary(ew, r.Summary)
	if r.Value != nil {
		ew.printf("\nSearching for value %q (%s)...\n", r.Value.Target, caseLabel(r.Value.CaseSensitive))
		for _, m := range r.Value.Matches {
			ew.printf("  %s  %s  %s\n", t.path(m.Path), t.kind("["+m.Kind+"]"), m.Preview)
		}
		ew.printf("%s\n", t.heading(fmt.Sprintf("Total: %d match(es)", r.Value.Total)))
	}
	if r.Key != nil {
		ew.printf("\nSearching for key containing %q (%s)...\n", r.Key.Target, caseLabel(r.Key.CaseSensitive))
		for _, m := range r.Key.Matches {
			ew.printf("  %s  %s  %s\n", t.path(m.Path), t.kind("("+m.Kind+")"), m.Preview)
		}
		ew.printf("%s\n", t.heading(fmt.Sprintf("Total: %d match(es)", r.Key.Total)))
	}
	return ew.err
}

func (t *Text) summary(ew *errWriter, s models.Summary) {
	switch s.RootType {
	case "object", "array":
		ew.printf("Root: %s (len=%d)\n", s.RootType, s.RootLen)
	default:
		ew.printf("Root: %s\n", s.RootType)
	}
	for _, f := range s.Fields {
		if f.Len != nil {
			ew.printf("  %s: %s (len=%d)\n", t.path(f.Key), f.Type, *f.Len)
		} else {
			ew.printf("  %s: %s %s\n", t.path(f.Key), f.Type, f.Preview)
		}
	}
}

func caseLabel(sensitive bool) string {
	if sensitive {
		return "case-sensitive"
	}
	return "case-insensitive"
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}
