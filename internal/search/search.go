// Package search walks a document depth first, in document order, and
// collects the paths whose string values or key names match a target.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/starford/savscan/internal/document"
	"github.com/starford/savscan/internal/models"
)

// DefaultPreviewLimit is the preview length used by key search when Options
// leaves it unset.
const DefaultPreviewLimit = 120

// Options tunes a search. The zero value is a case-insensitive search with
// the default preview limit.
type Options struct {
	CaseSensitive bool
	// PreviewLimit caps key-search previews in characters. Zero selects
	// DefaultPreviewLimit; a negative value disables truncation.
	PreviewLimit int
}

func (o Options) previewLimit() int {
	if o.PreviewLimit == 0 {
		return DefaultPreviewLimit
	}
	return o.PreviewLimit
}

// folder returns the case policy applied to both sides of a comparison.
// A Caser carries state, so every search builds its own.
func (o Options) folder() func(string) string {
	if o.CaseSensitive {
		return func(s string) string { return s }
	}
	return cases.Lower(language.Und).String
}

// FindValue returns every string leaf equal to or containing target. An
// exact match is recorded as models.KindValue, a containment match as
// models.KindSubstring.
func FindValue(root *document.Node, target string, opts Options) []models.Match {
	f := &valueFinder{fold: opts.folder(), matches: []models.Match{}}
	f.target = f.fold(target)
	f.walk(root, "")
	return f.matches
}

type valueFinder struct {
	target  string
	fold    func(string) string
	matches []models.Match
}

func (f *valueFinder) walk(n *document.Node, path string) {
	switch n.Kind {
	case document.Object:
		n.Each(func(key string, v *document.Node) bool {
			f.visit(v, KeyPath(path, key))
			return true
		})
	case document.Array:
		for i, v := range n.Items {
			f.visit(v, IndexPath(path, i))
		}
	}
}

func (f *valueFinder) visit(n *document.Node, path string) {
	if n.Kind != document.String {
		f.walk(n, path)
		return
	}
	v := f.fold(n.Text)
	switch {
	case v == f.target:
		f.matches = append(f.matches, models.Match{Path: path, Kind: models.KindValue, Preview: n.Repr()})
	case strings.Contains(v, f.target):
		f.matches = append(f.matches, models.Match{Path: path, Kind: models.KindSubstring, Preview: n.Repr()})
	}
}

// FindKey returns every object entry whose key contains substr, whatever
// the type of its value. Matching keys are still descended into.
func FindKey(root *document.Node, substr string, opts Options) []models.Match {
	f := &keyFinder{fold: opts.folder(), limit: opts.previewLimit(), matches: []models.Match{}}
	f.substr = f.fold(substr)
	f.walk(root, "")
	return f.matches
}

type keyFinder struct {
	substr  string
	fold    func(string) string
	limit   int
	matches []models.Match
}

func (f *keyFinder) walk(n *document.Node, path string) {
	switch n.Kind {
	case document.Object:
		n.Each(func(key string, v *document.Node) bool {
			p := KeyPath(path, key)
			if strings.Contains(f.fold(key), f.substr) {
				f.matches = append(f.matches, models.Match{Path: p, Kind: v.TypeName(), Preview: v.Preview(f.limit)})
			}
			f.walk(v, p)
			return true
		})
	case document.Array:
		for i, v := range n.Items {
			f.walk(v, IndexPath(path, i))
		}
	}
}

// ValueSearch runs FindValue and wraps the hits in a SearchResult.
func ValueSearch(root *document.Node, target string, opts Options) models.SearchResult {
	matches := FindValue(root, target, opts)
	return models.SearchResult{
		Mode:          models.ModeValue,
		Target:        target,
		CaseSensitive: opts.CaseSensitive,
		Matches:       matches,
		Total:         len(matches),
	}
}

// KeySearch runs FindKey and wraps the hits in a SearchResult.
func KeySearch(root *document.Node, substr string, opts Options) models.SearchResult {
	matches := FindKey(root, substr, opts)
	return models.SearchResult{
		Mode:          models.ModeKey,
		Target:        substr,
		CaseSensitive: opts.CaseSensitive,
		Matches:       matches,
		Total:         len(matches),
	}
}
