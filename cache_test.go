package main

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/proxy"
)

func TestNewCache(t *testing.T) {
	log := logger.Discard()

	t.Run("basic string cache creation", func(t *testing.T) {
		zero := "empty"
		c := NewCache(
			zero,
			func(k string) (string, error) { return zero, nil },
			func(k, v string) {},
			func(k string) string { return "" },
			log,
		)
		defer c.Close()
		if c.zero != zero {
			t.Errorf("expected %q, got %q", zero, c.zero)
		}
		if c.cache == nil || len(c.cache) != 0 {
			t.Errorf("expected non-nil, empty map; got %#v", c.cache)
		}
		if c.pipeline == nil {
			t.Errorf("expected non-nil chan; got %#v", c.pipeline)
		}
	})

	t.Run("different data type cache creation", func(t *testing.T) {
		zero := -1
		c := NewCache(
			zero,
			func(k string) (int, error) { return zero, nil },
			func(k string, v int) {},
			func(k string) string { return "" },
			log,
		)
		defer c.Close()
		if c.zero != zero {
			t.Errorf("expected %d, got %d", zero, c.zero)
		}
	})
}

func TestGet(t *testing.T) {
	zero := "zero"
	fetched := make(chan string, 1)
	c := NewCache(
		zero,
		func(k string) (string, error) { return "value-" + k, nil },
		func(k, v string) { fetched <- v },
		func(k string) string { return "" },
		logger.Discard(),
	)
	defer c.Close()

	if v := c.Get("a"); v != zero {
		t.Errorf("expected %q on a miss, got %q", zero, v)
	}
	select {
	case v := <-fetched:
		if v != "value-a" {
			t.Errorf("expected %q, got %q", "value-a", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch callback was not called")
	}
	if v := c.Get("a"); v != "value-a" {
		t.Errorf("expected %q on a hit, got %q", "value-a", v)
	}
}

func TestGetFetchesOnce(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	c := NewCache(
		"",
		func(k string) (string, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			<-release
			return k, nil
		},
		func(k, v string) {},
		func(k string) string { return "" },
		logger.Discard(),
	)

	for range 5 {
		c.Get("a")
	}
	close(release)
	c.Close()
	<-c.done

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}
}

func TestFetchErrorsAreNotCached(t *testing.T) {
	attempts := make(chan struct{}, 2)
	log := logger.Init()
	c := NewCache(
		"zero",
		func(k string) (string, error) {
			attempts <- struct{}{}
			return "", errors.New("unreachable")
		},
		func(k, v string) { t.Errorf("callback called for failed fetch") },
		func(k string) string { return "" },
		log,
	)

	c.Get("a")
	<-attempts
	select {
	case msg := <-log.Prints:
		if msg != "error fetching asset a: unreachable" {
			t.Errorf("unexpected log line %q", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("fetch error was not logged")
	}

	// the failed key is no longer pending, so it is queued again
	c.Get("a")
	<-attempts
	c.Close()
	<-c.done
}

func TestCacheEviction(t *testing.T) {
	fetched := make(chan string, 3)
	c := NewCache(
		"",
		func(k string) (string, error) { return k, nil },
		func(k, v string) { fetched <- k },
		proxy.NewLRU(2).Touch,
		logger.Discard(),
	)
	defer c.Close()

	for _, key := range []string{"a", "b", "c"} {
		c.Get(key)
		<-fetched
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.cache["a"]; ok {
		t.Errorf("expected %q to be evicted", "a")
	}
	if len(c.cache) != 2 {
		t.Errorf("expected 2 cached items, got %d", len(c.cache))
	}
}

func TestGetAfterClose(t *testing.T) {
	c := NewCache(
		"zero",
		func(k string) (string, error) { return k, nil },
		func(k, v string) {},
		func(k string) string { return "" },
		logger.Discard(),
	)
	c.Close()
	c.Close()
	if v := c.Get("a"); v != "zero" {
		t.Errorf("expected zero value after close, got %q", v)
	}
}
