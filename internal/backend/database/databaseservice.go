package database

import "context"

// DatabaseService stores which inputs produced each exported asset
type DatabaseService interface {
	CreateDatabase(ctx context.Context) error
	DoesDatabaseExist(ctx context.Context) bool
	Close() error
	// GetAsset returns ErrNotFound when the path was never recorded
	GetAsset(ctx context.Context, path string) (*Asset, error)
	// PutAsset inserts or replaces the record for asset.Path
	PutAsset(ctx context.Context, asset *Asset) error
	GetAllAssets(ctx context.Context) ([]*Asset, error)
	DeleteAsset(ctx context.Context, path string) error
}
