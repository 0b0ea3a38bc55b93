// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import (
	"context"
	"sync"

	"github.com/spezifisch/vidplay/hls"
	"github.com/spezifisch/vidplay/logger"
)

// Binding owns the stream engine of one surface. There is at most one live
// engine at any time and it always belongs to the latest attach.
type Binding struct {
	surface  Surface
	resolver Resolver
	engines  EngineProvider
	logger   logger.LoggerInterface

	mu         sync.Mutex
	engine     StreamEngine
	boundURL   string
	generation uint64
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBinding(surface Surface, resolver Resolver, engines EngineProvider, logger logger.LoggerInterface) *Binding {
	ctx, cancel := context.WithCancel(context.Background())
	return &Binding{
		surface:  surface,
		resolver: resolver,
		engines:  engines,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Attach resolves url through the proxy and binds it to the surface in the
// background. An attach whose resolution completes after a newer Attach or
// Detach is dropped.
func (b *Binding) Attach(url string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.generation++
	gen := b.generation
	b.wg.Add(1)
	b.mu.Unlock()

	go b.attach(gen, url)
}

func (b *Binding) attach(gen uint64, url string) {
	defer b.wg.Done()

	// stream sources are always treated as externally hosted
	resolved := url
	if b.resolver != nil {
		resolved = b.resolver.Resolve(b.ctx, url)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || gen != b.generation {
		b.logger.Printf("binding: dropping stale attach of %s", url)
		return
	}
	b.destroyLocked()

	if b.engines != nil && b.engines.Supported() {
		engine := b.engines.NewEngine(hls.Config{
			EnableWorker:   true,
			LowLatencyMode: true,
		})
		engine.OnManifestParsed(func(data hls.ManifestData) {
			b.logger.Printf("hls: manifest parsed (%d levels), playing %s", len(data.Levels), data.Selected)
		})
		engine.OnError(func(data hls.ErrorData) {
			b.logger.Printf("hls: %s %s (fatal: %t): %v", data.Type, data.Details, data.Fatal, data.Err)
			if data.Type == hls.NetworkError {
				b.logger.Printf("hls: network error while loading stream %s", data.URL)
			}
		})

		b.engine = engine
		b.boundURL = resolved
		engine.LoadSource(resolved)
		engine.AttachMedia(b.surface)
		return
	}

	if b.surface.CanPlayType(hls.MimeType) {
		if err := b.surface.SetSource(resolved); err != nil {
			b.logger.PrintError("binding: SetSource", err)
			return
		}
		b.boundURL = resolved
		return
	}

	b.logger.Printf("binding: no way to play %s, neither stream engine nor native HLS available", url)
}

// Detach destroys the current engine, if any, and invalidates attaches that
// are still resolving.
func (b *Binding) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	b.destroyLocked()
}

func (b *Binding) destroyLocked() {
	if b.engine != nil {
		b.engine.Destroy()
		b.engine = nil
	}
	b.boundURL = ""
}

func (b *Binding) HasEngine() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.engine != nil
}

// BoundURL is the resolved URL of the last completed attach, or "".
func (b *Binding) BoundURL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.boundURL
}

// Wait blocks until all started attaches have completed or been dropped.
func (b *Binding) Wait() {
	b.wg.Wait()
}

// Close destroys the engine, cancels pending resolutions and waits for them.
// Further attaches are ignored.
func (b *Binding) Close() {
	b.mu.Lock()
	b.closed = true
	b.generation++
	b.destroyLocked()
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}
