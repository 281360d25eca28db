// Package report renders load summaries and search results as text, JSON
// or YAML.
package report

import (
	"github.com/starford/savscan/internal/document"
	"github.com/starford/savscan/internal/models"
	"github.com/starford/savscan/internal/savefile"
)

// DefaultSummaryLimit caps scalar previews in the root summary.
const DefaultSummaryLimit = 80

// Summarize describes the root of a document: its type and size, and for an
// object root every top-level key with its type, container length or scalar
// preview.
func Summarize(root *document.Node, limit int) models.Summary {
	if limit == 0 {
		limit = DefaultSummaryLimit
	}
	s := models.Summary{RootType: root.TypeName(), RootLen: root.Len()}
	root.Each(func(key string, v *document.Node) bool {
		f := models.FieldSummary{Key: key, Type: v.TypeName()}
		if v.IsContainer() {
			n := v.Len()
			f.Len = &n
		} else {
			f.Preview = v.Preview(limit)
		}
		s.Fields = append(s.Fields, f)
		return true
	})
	return s
}

// Result is everything one scan produced.
type Result struct {
	Save     string               `json:"save" yaml:"save"`
	Header   string               `json:"header" yaml:"header"`
	Framing  string               `json:"framing" yaml:"framing"`
	Checksum string               `json:"checksum" yaml:"checksum"`
	Size     int                  `json:"size" yaml:"size"`
	Summary  models.Summary       `json:"summary" yaml:"summary"`
	Value    *models.SearchResult `json:"value_search,omitempty" yaml:"value_search,omitempty"`
	Key      *models.SearchResult `json:"key_search,omitempty" yaml:"key_search,omitempty"`
}

// NewResult fills the save metadata and summary of a Result.
func NewResult(s *savefile.Save, summaryLimit int) *Result {
	return &Result{
		Save:     s.Path,
		Header:   s.HeaderHex(),
		Framing:  string(s.Framing),
		Checksum: s.Checksum,
		Size:     s.Size,
		Summary:  Summarize(s.Root, summaryLimit),
	}
}
