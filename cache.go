// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"sync"

	"github.com/spezifisch/vidplay/logger"
)

// Cache fetches assets in the background and holds a copy, returning them on
// request. A Cache is composed of four mechanisms:
//
// 1. a zero object
// 2. a function for fetching assets
// 3. a function for invalidating assets
// 4. a call-back function for when an asset is fetched
//
// When an asset is requested, Cache returns the asset if it is cached.
// Otherwise, it returns the zero object, and queues up a fetch for the object
// in the background. When the fetch is complete, the callback function is
// called, allowing the caller to get the real asset.
type Cache[T any] struct {
	zero       T
	cacheCheck func(string) string

	mu       sync.Mutex
	cache    map[string]T
	pending  map[string]struct{}
	pipeline chan string
	closed   bool
	done     chan struct{}
}

// NewCache sets up a new cache, given
//
//   - a zeroValue, returned immediately on cache misses
//   - a fetcher, which can be a long-running function that loads assets.
//     fetcher should take a key and return an asset, or an error.
//   - a fetchedItem call-back function, which will be called from the fetch
//     goroutine when a requested asset is available.
//   - a cacheCheck function which, when given a key, returns a key to remove
//     from the cache, or the empty string if nothing is to be removed.
//   - a logger, used for reporting errors returned by the fetching function
func NewCache[T any](
	zeroValue T,
	fetcher func(string) (T, error),
	fetchedItem func(string, T),
	cacheCheck func(string) string,
	logger logger.LoggerInterface,
) *Cache[T] {
	c := &Cache[T]{
		zero:       zeroValue,
		cacheCheck: cacheCheck,
		cache:      make(map[string]T),
		pending:    make(map[string]struct{}),
		pipeline:   make(chan string, 100),
		done:       make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		for key := range c.pipeline {
			asset, err := fetcher(key)

			c.mu.Lock()
			delete(c.pending, key)
			if err != nil || c.closed {
				c.mu.Unlock()
				if err != nil {
					logger.Printf("error fetching asset %s: %s", key, err)
				}
				continue
			}
			c.cache[key] = asset
			if remove := c.cacheCheck(key); remove != "" && remove != key {
				delete(c.cache, remove)
			}
			c.mu.Unlock()

			fetchedItem(key, asset)
		}
	}()

	return c
}

// Get returns a cached asset, or the zero asset on a cache miss.
// On a cache miss, the requested asset is queued for fetching unless a fetch
// for it is already pending. Get never blocks on the fetcher.
func (c *Cache[T]) Get(key string) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.cache[key]; ok {
		// just touching, so the key is only refreshed
		c.cacheCheck(key)
		return v
	}
	if c.closed {
		return c.zero
	}
	if _, ok := c.pending[key]; ok {
		return c.zero
	}

	select {
	case c.pipeline <- key:
		c.pending[key] = struct{}{}
	default:
		// queue is full, the next Get will try again
	}
	return c.zero
}

// Close clears the cache and stops the fetch goroutine after its current
// fetch. Get keeps returning the zero value afterwards.
func (c *Cache[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	clear(c.cache)
	close(c.pipeline)
	c.mu.Unlock()
}
