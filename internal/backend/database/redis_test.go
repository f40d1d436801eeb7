package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (DatabaseService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	ds, err := NewRedisDatabase("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds, mr
}

func TestRedis_Contract(t *testing.T) {
	ds, _ := newTestRedis(t)
	if err := ds.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	runContract(t, ds)
}

func TestRedis_DoesDatabaseExist(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run error: %v", err)
	}
	ds, err := NewRedisDatabase("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisDatabase error: %v", err)
	}
	defer func() { _ = ds.Close() }()

	if !ds.DoesDatabaseExist(context.Background()) {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
	mr.Close()
	if ds.DoesDatabaseExist(context.Background()) {
		t.Errorf("expected DoesDatabaseExist to return false after server shutdown")
	}
}

func TestRedis_KeyLayout(t *testing.T) {
	ds, mr := newTestRedis(t)
	if err := ds.PutAsset(context.Background(), &Asset{Path: "x.png", Digest: "abc", Size: 96}); err != nil {
		t.Fatalf("PutAsset error: %v", err)
	}
	if got := mr.HGet(redisKeyPrefix+"x.png", "digest"); got != "abc" {
		t.Errorf("digest field = %q, want %q", got, "abc")
	}
	ok, err := mr.SIsMember(redisIndexKey, "x.png")
	if err != nil || !ok {
		t.Errorf("expected x.png in index set, ok=%v err=%v", ok, err)
	}
}

func TestNewRedisDatabase_InvalidURL(t *testing.T) {
	if _, err := NewRedisDatabase("not-a-url://"); err == nil {
		t.Fatalf("expected error for invalid connection string")
	}
}

func TestNewDatabase_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ds, err := NewDatabase(context.Background(), TypeRedis, "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewDatabase error: %v", err)
	}
	_ = ds.Close()
}
