package database

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no asset is recorded for a path
var ErrNotFound = errors.New("asset not found")

// Asset records the inputs an exported file was built from
type Asset struct {
	Path      string    `db:"path" json:"path"`
	Digest    string    `db:"digest" json:"digest"` // hex SHA-256 of source, size and pipeline
	Size      int       `db:"size" json:"size"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
