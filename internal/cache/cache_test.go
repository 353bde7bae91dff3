package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey_Deterministic(t *testing.T) {
	k1 := Key("contract text", "openai", "gpt-4o-mini", "anchor")
	k2 := Key("contract text", "openai", "gpt-4o-mini", "anchor")
	if k1 != k2 {
		t.Error("expected identical inputs to produce identical keys")
	}
	if !strings.HasPrefix(k1, "clauseguard:v1:") {
		t.Errorf("unexpected key prefix: %s", k1)
	}
}

func TestKey_SensitiveToEveryPart(t *testing.T) {
	base := Key("contract text", "openai", "gpt-4o-mini", "anchor")
	variants := []string{
		Key("contract text.", "openai", "gpt-4o-mini", "anchor"),
		Key("contract text", "ollama", "gpt-4o-mini", "anchor"),
		Key("contract text", "openai", "gpt-4o", "anchor"),
		Key("contract text", "openai", "gpt-4o-mini", "digits"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d: expected a different key", i)
		}
	}
}

func TestKey_NoJoinAmbiguity(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("expected distinct keys for different part boundaries")
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("report"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get("k")
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != "report" {
		t.Errorf("expected 'report', got %q", val)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("report"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)

	if err := c.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("a"); found {
		t.Error("expected miss after Delete")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := c.Get("b"); found {
		t.Error("expected miss after Clear")
	}
}
