package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemory_SetGetRoundTrip(t *testing.T) {
	c := NewMemory(Config{Prefix: "social"})
	ctx := context.Background()

	if err := c.Set(ctx, "code:abc", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	got, err := c.Get(ctx, "code:abc")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q", got)
	}

	ok, err := c.Exists(ctx, "code:abc")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestMemory_MissReturnsNotFound(t *testing.T) {
	c := NewMemory(Config{})
	_, err := c.Get(context.Background(), "nope")
	if !IsNotFound(err) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestMemory_TTLExpires(t *testing.T) {
	c := NewMemory(Config{})
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("expired key: want ErrNotFound, got %v", err)
	}
}

func TestMemory_GetDelClaimsExactlyOnce(t *testing.T) {
	c := NewMemory(Config{})
	ctx := context.Background()

	if err := c.Set(ctx, "code", []byte("once"), time.Minute); err != nil {
		t.Fatal(err)
	}

	const racers = 16
	var wg sync.WaitGroup
	wins := make(chan []byte, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.GetDel(ctx, "code"); err == nil {
				wins <- v
			}
		}()
	}
	wg.Wait()
	close(wins)

	var n int
	for v := range wins {
		n++
		if string(v) != "once" {
			t.Fatalf("claimed value = %q", v)
		}
	}
	if n != 1 {
		t.Fatalf("code claimed %d times, want exactly 1", n)
	}

	if _, err := c.Get(ctx, "code"); !IsNotFound(err) {
		t.Fatalf("code should be gone after claim")
	}
}

func TestMemory_StatsCountsHitsAndMisses(t *testing.T) {
	c := NewMemory(Config{})
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_, _ = c.Get(ctx, "a")
	_, _ = c.Get(ctx, "missing")

	st, err := c.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if st.Driver != "memory" {
		t.Fatalf("driver = %q", st.Driver)
	}
	if st.Keys != 1 || st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(Config{Driver: ""})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*memoryClient); !ok {
		t.Fatalf("New(\"\") = %T, want *memoryClient", c)
	}
}
