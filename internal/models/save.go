// Package models defines the domain types shared by the search, report and
// service layers.
package models

import "time"

// Match kinds recorded by value search.
const (
	KindValue     = "value"
	KindSubstring = "value (substring)"
)

// Search modes.
const (
	ModeValue = "value"
	ModeKey   = "key"
)

// Match is one search hit. Kind holds the match tier for value search and
// the value's type name for key search.
type Match struct {
	Path    string `json:"path" yaml:"path"`
	Kind    string `json:"kind" yaml:"kind"`
	Preview string `json:"preview" yaml:"preview"`
}

// SearchResult is the outcome of one search over one save.
type SearchResult struct {
	Mode          string  `json:"mode" yaml:"mode"`
	Target        string  `json:"target" yaml:"target"`
	CaseSensitive bool    `json:"case_sensitive" yaml:"case_sensitive"`
	Matches       []Match `json:"matches" yaml:"matches"`
	Total         int     `json:"total" yaml:"total"`
}

// FieldSummary describes one top-level key of an object root.
type FieldSummary struct {
	Key     string `json:"key" yaml:"key"`
	Type    string `json:"type" yaml:"type"`
	Len     *int   `json:"len,omitempty" yaml:"len,omitempty"`
	Preview string `json:"preview,omitempty" yaml:"preview,omitempty"`
}

// Summary is the root-level shape of a document.
type Summary struct {
	RootType string         `json:"root_type" yaml:"root_type"`
	RootLen  int            `json:"root_len" yaml:"root_len"`
	Fields   []FieldSummary `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// SaveMetadata is a lightweight representation returned by list operations.
type SaveMetadata struct {
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size" yaml:"size"`
	Checksum  string    `json:"checksum" yaml:"checksum"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}
