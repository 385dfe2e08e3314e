package realtime

import (
	"testing"
	"time"
)

func TestScopedValueCache(t *testing.T) {
	var cache ScopedValueCache[int]

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache returned a value")
	}

	guard := cache.Set(42)
	if v, ok := cache.Get(); !ok || v != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", v, ok)
	}

	guard.Release()
	if _, ok := cache.Get(); ok {
		t.Fatal("cache still alive after guard release")
	}

	// Release is idempotent even with a second guard outstanding.
	g1 := cache.Set(1)
	g2 := cache.Set(2)
	g1.Release()
	g1.Release()
	if v, ok := cache.Get(); !ok || v != 2 {
		t.Fatalf("got (%d, %v), want (2, true)", v, ok)
	}
	g2.Release()
	if _, ok := cache.Get(); ok {
		t.Fatal("cache alive after all guards released")
	}
}

func TestTimedValueCache(t *testing.T) {
	var cache TimedValueCache[string]

	if _, ok := cache.Get(); ok {
		t.Fatal("empty cache returned a value")
	}

	cache.Set("wine-7.0", time.Hour)
	if v, ok := cache.Get(); !ok || v != "wine-7.0" {
		t.Fatalf("got (%q, %v), want (wine-7.0, true)", v, ok)
	}

	cache.Set("expired", -time.Second)
	if _, ok := cache.Get(); ok {
		t.Fatal("expired entry returned a value")
	}
}

func TestFlushToZeroRestores(t *testing.T) {
	if !ftzSupported {
		t.Skip("no denormal control register on this architecture")
	}

	before := getDenormalFlags()

	scope := EnableFlushToZero()
	if got := getDenormalFlags(); got&ftzBits != ftzBits {
		t.Errorf("FTZ bits not set while scope active: %#x", got)
	}
	scope.Restore()

	if got := getDenormalFlags(); got != before {
		t.Errorf("flags not restored: got %#x, want %#x", got, before)
	}

	// A second Restore must not clobber anything.
	setDenormalFlags(before | ftzBits)
	scope.Restore()
	if got := getDenormalFlags(); got != before|ftzBits {
		t.Errorf("idempotent Restore changed flags: got %#x", got)
	}
	setDenormalFlags(before)
}
