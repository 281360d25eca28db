package api

import (
	"github.com/starford/savscan/internal/models"
	"github.com/starford/savscan/internal/report"
)

// SaveListResponse wraps save listings.
type SaveListResponse struct {
	Saves []models.SaveMetadata `json:"saves" validate:"required"`
	Total int                   `json:"total" example:"3" validate:"required"`
}

// SummaryResponse is the save metadata plus root-level shape (aliased from the report layer).
type SummaryResponse = report.Result

// SearchResponse is a value or key search outcome (aliased from the domain layer).
type SearchResponse = models.SearchResult
