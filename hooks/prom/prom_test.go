package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/unkn0wn-root/memoize"
	"github.com/unkn0wn-root/memoize/future"
)

func TestCountsMemoizeEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "test", "lookup")
	ctx := context.Background()

	fn := memoize.Memoize1(func(_ context.Context, id int) (*future.Future[int], error) {
		if id < 0 {
			return future.Reject[int](errors.New("negative")), nil
		}
		return future.Resolve(id), nil
	}, memoize.Options[*future.Future[int]]{Hooks: h})

	for _, id := range []int{1, 1, 2, -1} {
		if _, err := fn(ctx, id); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(h.hits); got != 1 {
		t.Fatalf("hits=%v want 1", got)
	}
	if got := testutil.ToFloat64(h.misses); got != 3 {
		t.Fatalf("misses=%v want 3", got)
	}
	if got := testutil.ToFloat64(h.stored.WithLabelValues("deferred")); got != 3 {
		t.Fatalf("stored deferred=%v want 3", got)
	}

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(h.evicted) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("eviction was never counted")
		}
		time.Sleep(time.Millisecond)
	}
}
