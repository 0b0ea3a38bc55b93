// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package proxy

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/spezifisch/vidplay/logger"
	"golang.org/x/sync/singleflight"
)

const DefaultTimeout = 5 * time.Second

var errNoIssuer = errors.New("no proxy issuer configured")

// IsExternal reports whether url has to go through the proxy.
func IsExternal(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

type Options struct {
	// Timeout bounds a single issuer call. Zero means DefaultTimeout.
	Timeout time.Duration
	// CacheSize > 0 remembers that many issued URLs.
	CacheSize int
}

// Resolver rewrites external URLs to proxied ones. Resolution is best effort:
// any failure yields the original URL.
type Resolver struct {
	issuer  Issuer
	timeout time.Duration
	logger  logger.LoggerInterface

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]string
	lru   *LRU
}

func NewResolver(issuer Issuer, logger logger.LoggerInterface, opts Options) *Resolver {
	r := &Resolver{
		issuer:  issuer,
		timeout: opts.Timeout,
		logger:  logger,
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if opts.CacheSize > 0 {
		r.cache = make(map[string]string, opts.CacheSize)
		r.lru = NewLRU(opts.CacheSize)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, url string) string {
	if !IsExternal(url) {
		return url
	}
	if proxied, ok := r.cached(url); ok {
		return proxied
	}

	flight := r.group.DoChan(url, func() (interface{}, error) {
		if r.issuer == nil {
			return "", errNoIssuer
		}
		// the flight is shared, only the timeout may end it
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.issuer.Issue(ctx, url)
	})

	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		r.logger.Printf("proxy: using original url %s: %v", url, ctx.Err())
		return url
	}

	proxied, _ := res.Val.(string)
	err := res.Err
	if err == nil && proxied == "" {
		err = errors.New("issuer returned an empty url")
	}
	if err != nil {
		r.logger.Printf("proxy: using original url %s: %v", url, err)
		return url
	}

	r.logger.Printf("proxy: %s -> %s", url, proxied)
	r.store(url, proxied)
	return proxied
}

func (r *Resolver) cached(url string) (string, bool) {
	if r.lru == nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	proxied, ok := r.cache[url]
	if ok {
		r.lru.Touch(url)
	}
	return proxied, ok
}

func (r *Resolver) store(url, proxied string) {
	if r.lru == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[url] = proxied
	if evict := r.lru.Touch(url); evict != "" {
		delete(r.cache, evict)
	}
}
