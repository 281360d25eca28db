// Package storage defines the read-only save directory abstraction.
package storage

import "github.com/starford/savscan/internal/models"

// Provider is the interface for save directory access.
type Provider interface {
	// List returns metadata for every save file under dir (relative to root).
	List(dir string) ([]models.SaveMetadata, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
}
