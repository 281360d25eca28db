package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Reporter writes scan output. Loading is called before a save is read,
// Report after a scan completes and Reloaded before a watch-triggered rescan.
type Reporter interface {
	Loading(path string) error
	Report(r *Result) error
	Reloaded(path string, at time.Time) error
}

// New returns the Reporter for format writing to w. Colour applies to the
// text format only.
func New(format string, w io.Writer, colored bool) (Reporter, error) {
	switch format {
	case FormatText, "":
		return NewText(w, colored), nil
	case FormatJSON:
		return &jsonReporter{w: w}, nil
	case FormatYAML:
		return &yamlReporter{w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

type jsonReporter struct {
	w io.Writer
}

func (j *jsonReporter) Loading(string) error { return nil }

func (j *jsonReporter) Reloaded(string, time.Time) error { return nil }

func (j *jsonReporter) Report(r *Result) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

type yamlReporter struct {
	w       io.Writer
	written bool
}

func (y *yamlReporter) Loading(string) error { return nil }

func (y *yamlReporter) Reloaded(string, time.Time) error { return nil }

// Report emits one YAML document per call, separated by document markers.
func (y *yamlReporter) Report(r *Result) error {
	if y.written {
		if _, err := io.WriteString(y.w, "---\n"); err != nil {
			return err
		}
	}
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	y.written = true
	return enc.Close()
}
