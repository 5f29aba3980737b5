package memoize

import (
	"context"
	"errors"
	"testing"
)

func TestMapBasics(t *testing.T) {
	ctx := context.Background()
	m := NewMap[string]()

	if ok, _ := m.Has(ctx, "k"); ok {
		t.Fatalf("Has on empty map")
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get miss err = %v", err)
	}
	_ = m.Set(ctx, "k", "v")
	if v, err := m.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("Get = %q %v", v, err)
	}
	_ = m.Delete(ctx, "k")
	if m.Len() != 0 {
		t.Fatalf("Len after Delete = %d", m.Len())
	}
}

func TestMapNonComparableKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMap[int]()

	f1, f2 := func() {}, func() {}
	s := []int{1, 2}
	mp := map[string]int{}

	for i, k := range []any{f1, f2, s, mp} {
		if err := m.Set(ctx, k, i); err != nil {
			t.Fatalf("Set(%T): %v", k, err)
		}
	}
	if m.Len() != 4 {
		t.Fatalf("Len = %d, want 4 distinct keys", m.Len())
	}
	if v, _ := m.Get(ctx, f2); v != 1 {
		t.Fatalf("Get(f2) = %d, want 1", v)
	}
	if ok, _ := m.Has(ctx, s); !ok {
		t.Fatalf("slice key lost")
	}
}
