package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "iconforge:asset:"
	redisIndexKey  = "iconforge:assets"
)

// RedisDatabase shares the build cache between machines, e.g. CI runners
type RedisDatabase struct {
	client *redis.Client
}

// NewRedisDatabase connects using a redis:// URL
func NewRedisDatabase(connectionString string) (DatabaseService, error) {
	opts, err := redis.ParseURL(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}
	return &RedisDatabase{client: redis.NewClient(opts)}, nil
}

func (r *RedisDatabase) CreateDatabase(ctx context.Context) error {
	// keys are created on write; only check connectivity
	return r.client.Ping(ctx).Err()
}

func (r *RedisDatabase) DoesDatabaseExist(ctx context.Context) bool {
	return r.client.Ping(ctx).Err() == nil
}

func (r *RedisDatabase) Close() error {
	return r.client.Close()
}

func (r *RedisDatabase) GetAsset(ctx context.Context, path string) (*Asset, error) {
	fields, err := r.client.HGetAll(ctx, redisKeyPrefix+path).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return assetFromHash(path, fields)
}

func (r *RedisDatabase) PutAsset(ctx context.Context, asset *Asset) error {
	if asset == nil || asset.Path == "" {
		return fmt.Errorf("asset path cannot be empty")
	}
	updatedAt := asset.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, redisKeyPrefix+asset.Path,
			"digest", asset.Digest,
			"size", asset.Size,
			"updated_at", updatedAt.UnixNano())
		pipe.SAdd(ctx, redisIndexKey, asset.Path)
		return nil
	})
	return err
}

func (r *RedisDatabase) GetAllAssets(ctx context.Context) ([]*Asset, error) {
	paths, err := r.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	assets := make([]*Asset, 0, len(paths))
	for _, path := range paths {
		asset, err := r.GetAsset(ctx, path)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (r *RedisDatabase) DeleteAsset(ctx context.Context, path string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKeyPrefix+path)
		pipe.SRem(ctx, redisIndexKey, path)
		return nil
	})
	return err
}

func assetFromHash(path string, fields map[string]string) (*Asset, error) {
	size, err := strconv.Atoi(fields["size"])
	if err != nil {
		return nil, fmt.Errorf("invalid size for asset %s: %w", path, err)
	}
	updatedAt, err := strconv.ParseInt(fields["updated_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at for asset %s: %w", path, err)
	}
	return &Asset{
		Path:      path,
		Digest:    fields["digest"],
		Size:      size,
		UpdatedAt: time.Unix(0, updatedAt),
	}, nil
}
