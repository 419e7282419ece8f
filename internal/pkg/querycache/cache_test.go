package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchCachesUntilExpiry(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	var calls int
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, "courses:list", load)
		if err != nil {
			t.Fatalf("Fetch() error: %v", err)
		}
		if v != 1 {
			t.Fatalf("expected cached value 1, got %d", v)
		}
	}

	now = now.Add(2 * time.Minute)
	if v, _ := Fetch(context.Background(), c, "courses:list", load); v != 2 {
		t.Fatalf("expected reload after expiry, got %d", v)
	}
}

func TestFailedLoadIsNotCached(t *testing.T) {
	c := New(time.Minute)
	boom := errors.New("backend down")

	if _, err := Fetch(context.Background(), c, "dashboard", func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("failures must not be cached")
	}
}

func TestInvalidateByPrefix(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()
	for _, key := range []string{"enrollment:3", "enrollments:mine", "dashboard:mine", "courses:list"} {
		if _, err := c.Get(ctx, key, func(context.Context) (interface{}, error) { return key, nil }); err != nil {
			t.Fatalf("Get() error: %v", err)
		}
	}

	c.Invalidate("enrollment", "dashboard")
	if c.Len() != 1 {
		t.Fatalf("expected only courses to survive, got %d entries", c.Len())
	}

	c.Reset()
	if c.Len() != 0 {
		t.Fatal("Reset should drop everything")
	}
}

func TestConcurrentLoadsShareOneCall(t *testing.T) {
	c := New(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	load := func(context.Context) (string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "popular", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), c, "courses:popular", load)
			if err != nil {
				t.Errorf("Fetch() error: %v", err)
			}
			results[i] = v
		}(i)
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("expected one load, got %d", calls.Load())
	}
	for _, r := range results {
		if r != "popular" {
			t.Fatalf("unexpected results %v", results)
		}
	}
}

func TestInvalidateDuringLoadDropsResult(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()

	_, err := c.Get(ctx, "dashboard:mine", func(context.Context) (interface{}, error) {
		c.Invalidate("dashboard")
		return "old", nil
	})
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("a load overlapping an invalidation must not be cached")
	}
}

func TestLoadAfterInvalidateDoesNotJoinOlderLoad(t *testing.T) {
	c := New(time.Minute)
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	first := make(chan string, 1)
	go func() {
		v, _ := Fetch(ctx, c, "enrollments:mine", func(context.Context) (string, error) {
			calls.Add(1)
			close(started)
			<-release
			return "before", nil
		})
		first <- v
	}()
	<-started

	c.Invalidate("enrollments")
	v, err := Fetch(ctx, c, "enrollments:mine", func(context.Context) (string, error) {
		calls.Add(1)
		return "after", nil
	})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if v != "after" {
		t.Fatalf("expected a fresh load after invalidation, got %q", v)
	}

	close(release)
	if got := <-first; got != "before" {
		t.Fatalf("older caller should still get its own load, got %q", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two loads, got %d", calls.Load())
	}
	if cached, _ := Fetch(ctx, c, "enrollments:mine", func(context.Context) (string, error) {
		return "unexpected", nil
	}); cached != "after" {
		t.Fatalf("only the post-invalidation result should be cached, got %q", cached)
	}
}
