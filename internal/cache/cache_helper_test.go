package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testCacheHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "test:"), mr
}

type cachedProfile struct {
	Handle string `json:"handle"`
	Bio    string `json:"bio"`
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	helper, _ := testCacheHelper(t)
	ctx := context.Background()

	in := cachedProfile{Handle: "jane", Bio: "gopher"}
	if err := helper.Set(ctx, "handle:jane", in, time.Minute); err != nil {
		t.Fatalf("set error: %v", err)
	}

	var out cachedProfile
	if err := helper.Get(ctx, "handle:jane", &out); err != nil {
		t.Fatalf("get error: %v", err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestCacheGetMiss(t *testing.T) {
	helper, _ := testCacheHelper(t)

	var out cachedProfile
	err := helper.Get(context.Background(), "handle:absent", &out)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheOrExecuteFetchesOnceThenHits(t *testing.T) {
	helper, _ := testCacheHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedProfile{Handle: "jane"}, nil
	}

	var out cachedProfile
	for i := 0; i < 3; i++ {
		if err := helper.CacheOrExecute(ctx, "handle:jane", &out, time.Minute, fetch); err != nil {
			t.Fatalf("CacheOrExecute error: %v", err)
		}
		if out.Handle != "jane" {
			t.Fatalf("unexpected value: %+v", out)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
}

func TestCacheOrExecutePropagatesFetchError(t *testing.T) {
	helper, _ := testCacheHelper(t)

	wantErr := errors.New("db down")
	var out cachedProfile
	err := helper.CacheOrExecute(context.Background(), "k", &out, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected fetch error, got %v", err)
	}
}

func TestInvalidatePattern(t *testing.T) {
	helper, _ := testCacheHelper(t)
	ctx := context.Background()

	for _, key := range []string{"search:go", "search:rust", "id:1"} {
		if err := helper.Set(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("set error: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "search:*"); err != nil {
		t.Fatalf("invalidate error: %v", err)
	}

	var out string
	if err := helper.Get(ctx, "search:go", &out); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("search:go survived invalidation: %v", err)
	}
	if err := helper.Get(ctx, "id:1", &out); err != nil {
		t.Errorf("id:1 was wrongly invalidated: %v", err)
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("set on nil client errored: %v", err)
	}
	var out string
	if err := helper.Get(ctx, "k", &out); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	calls := 0
	if err := helper.CacheOrExecute(ctx, "k", &out, time.Minute, func() (interface{}, error) {
		calls++
		return "fetched", nil
	}); err != nil {
		t.Fatalf("CacheOrExecute error: %v", err)
	}
	if calls != 1 || out != "fetched" {
		t.Errorf("fetch fallback failed: calls=%d out=%q", calls, out)
	}
}
