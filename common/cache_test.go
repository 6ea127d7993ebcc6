package common_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/guarzo/nequiapi/common"
)

func TestCacheStore(t *testing.T) {
	cache := common.NewCacheStore()

	// 1) Set + Get
	cache.Set("foo", []byte("bar"), time.Hour)
	val, found := cache.Get("foo")
	if !found {
		t.Error("expected 'foo' to be in cache, not found")
	}
	if string(val) != "bar" {
		t.Errorf("expected 'bar', got %s", string(val))
	}

	// 2) Delete
	cache.Delete("foo")
	_, found = cache.Get("foo")
	if found {
		t.Error("expected 'foo' to be deleted, but still found")
	}
}

func TestCacheStore_Expiration(t *testing.T) {
	cache := common.NewCacheStore()

	cache.Set("short", []byte("lived"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, found := cache.Get("short"); found {
		t.Error("expected 'short' to have expired")
	}
}

func TestCacheStore_Missing(t *testing.T) {
	cache := common.NewCacheStore()
	if val, found := cache.Get("nope"); found || val != nil {
		t.Errorf("expected miss, got %v %v", val, found)
	}
}

func TestCacheStore_NoBackgroundGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()
	stores := make([]common.CacheRepository, 50)
	for i := range stores {
		stores[i] = common.NewCacheStore()
	}
	if after := runtime.NumGoroutine(); after-before >= len(stores) {
		t.Errorf("expected no goroutine per store, went from %d to %d", before, after)
	}
	runtime.KeepAlive(stores)
}

func TestCacheStore_CopiesValues(t *testing.T) {
	cache := common.NewCacheStore()

	in := []byte("bar")
	cache.Set("foo", in, time.Hour)
	in[0] = 'x'

	out, _ := cache.Get("foo")
	if string(out) != "bar" {
		t.Errorf("expected 'bar', got %s", string(out))
	}
	out[0] = 'y'
	if again, _ := cache.Get("foo"); string(again) != "bar" {
		t.Errorf("expected 'bar' after mutating a result, got %s", string(again))
	}
}

func TestCacheStore_NegativeExpirationRemoves(t *testing.T) {
	cache := common.NewCacheStore()
	cache.Set("foo", []byte("bar"), time.Hour)
	cache.Set("foo", []byte("baz"), -time.Second)
	if _, found := cache.Get("foo"); found {
		t.Error("expected 'foo' to be removed")
	}
}
