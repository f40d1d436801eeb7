package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection: in-memory databases are per connection and SQLite serializes writers anyway
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS assets (
		path TEXT PRIMARY KEY,
		digest TEXT NOT NULL,
		size INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// SQLite creates the file on connect; a successful ping means it exists
	return s.db.PingContext(ctx) == nil
}

func (s *SQLiteDatabase) GetAsset(ctx context.Context, path string) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, "SELECT path, digest, size, updated_at FROM assets WHERE path = ?", path)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *SQLiteDatabase) PutAsset(ctx context.Context, asset *Asset) error {
	if asset == nil || asset.Path == "" {
		return fmt.Errorf("asset path cannot be empty")
	}
	updatedAt := asset.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO assets (path, digest, size, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET digest = excluded.digest, size = excluded.size, updated_at = excluded.updated_at`,
		asset.Path, asset.Digest, asset.Size, updatedAt.UnixNano())
	return err
}

func (s *SQLiteDatabase) GetAllAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path, digest, size, updated_at FROM assets ORDER BY path")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as the scan result is what matters
	}()

	var assets []*Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (s *SQLiteDatabase) DeleteAsset(ctx context.Context, path string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE path = ?", path)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*Asset, error) {
	var asset Asset
	var updatedAt int64
	if err := row.Scan(&asset.Path, &asset.Digest, &asset.Size, &updatedAt); err != nil {
		return nil, err
	}
	asset.UpdatedAt = time.Unix(0, updatedAt)
	return &asset, nil
}
