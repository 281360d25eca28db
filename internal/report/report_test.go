package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/savscan/internal/document"
	"github.com/starford/savscan/internal/search"
)

const scenario = `{"Player": {"DisplayName": "Nova"}, "Items": ["impeller rod", "gear"], "Version": 3}`

func scenarioResult() *Result {
	root := document.MustParse(scenario)
	value := search.ValueSearch(root, "impeller rod", search.Options{})
	key := search.KeySearch(root, "Display", search.Options{})
	return &Result{
		Save:     "slot1.sav",
		Header:   "01000000",
		Framing:  "zlib",
		Checksum: "0123456789abcdef0123",
		Size:     64,
		Summary:  Summarize(root, 0),
		Value:    &value,
		Key:      &key,
	}
}

func TestSummarize_ObjectRoot(t *testing.T) {
	s := Summarize(document.MustParse(scenario), 0)
	if s.RootType != "object" || s.RootLen != 3 || len(s.Fields) != 3 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Fields[0].Key != "Player" || s.Fields[0].Len == nil || *s.Fields[0].Len != 1 {
		t.Errorf("Player = %+v", s.Fields[0])
	}
	if s.Fields[1].Type != "array" || *s.Fields[1].Len != 2 {
		t.Errorf("Items = %+v", s.Fields[1])
	}
	if s.Fields[2].Len != nil || s.Fields[2].Preview != "3" {
		t.Errorf("Version = %+v", s.Fields[2])
	}
}

func TestSummarize_ScalarPreviewLimit(t *testing.T) {
	s := Summarize(document.MustParse(`{"note": "`+strings.Repeat("y", 100)+`"}`), 0)
	if got := len(s.Fields[0].Preview); got != DefaultSummaryLimit {
		t.Errorf("preview len = %d, want %d", got, DefaultSummaryLimit)
	}
}

func TestSummarize_ScalarRoot(t *testing.T) {
	s := Summarize(document.MustParse(`true`), 0)
	if s.RootType != "boolean" || len(s.Fields) != 0 {
		t.Errorf("summary = %+v", s)
	}
}

func TestText_Report(t *testing.T) {
	var buf bytes.Buffer
	r := NewText(&buf, false)
	if err := r.Loading("slot1.sav"); err != nil {
		t.Fatal(err)
	}
	if err := r.Report(scenarioResult()); err != nil {
		t.Fatal(err)
	}
	want := `Loading slot1.sav ...
Loaded zlib payload (64 bytes, header 01000000, sha256 0123456789ab)
Root: object (len=3)
  Player: object (len=1)
  Items: array (len=2)
  Version: number 3

Searching for value "impeller rod" (case-insensitive)...
  Items[0]  [value]  "impeller rod"
Total: 1 match(es)

Searching for key containing "Display" (case-insensitive)...
  Player/DisplayName  (string)  "Nova"
Total: 1 match(es)
`
	if buf.String() != want {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestText_SummaryOnly(t *testing.T) {
	res := scenarioResult()
	res.Value, res.Key = nil, nil
	var buf bytes.Buffer
	if err := NewText(&buf, false).Report(res); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Searching") || strings.Contains(buf.String(), "Total") {
		t.Errorf("summary-only output has search sections:\n%s", buf.String())
	}
}

func TestText_Colored(t *testing.T) {
	var buf bytes.Buffer
	if err := NewText(&buf, true).Report(scenarioResult()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected ANSI escape sequences in coloured output")
	}
}

func TestText_Reloaded(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if err := NewText(&buf, false).Reloaded("slot1.sav", at); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "slot1.sav changed, reloaded at 15:04:05") {
		t.Errorf("reloaded line = %q", buf.String())
	}
}

func TestJSON_Report(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatJSON, &buf, true)
	if err != nil {
		t.Fatal(err)
	}
	_ = rep.Loading("ignored")
	if err := rep.Report(scenarioResult()); err != nil {
		t.Fatal(err)
	}
	var got Result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Value == nil || got.Value.Total != 1 || got.Value.Matches[0].Path != "Items[0]" {
		t.Errorf("value search = %+v", got.Value)
	}
	if got.Key == nil || got.Key.Matches[0].Kind != "string" {
		t.Errorf("key search = %+v", got.Key)
	}
}

func TestYAML_MultipleDocuments(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New(FormatYAML, &buf, false)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := rep.Report(scenarioResult()); err != nil {
			t.Fatal(err)
		}
	}
	dec := yaml.NewDecoder(&buf)
	docs := 0
	for {
		var r Result
		if err := dec.Decode(&r); err != nil {
			break
		}
		if r.Summary.RootType != "object" {
			t.Errorf("doc %d root type = %q", docs, r.Summary.RootType)
		}
		docs++
	}
	if docs != 2 {
		t.Errorf("decoded %d documents, want 2", docs)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New("xml", &bytes.Buffer{}, false); err == nil {
		t.Error("expected error for unknown format")
	}
}
