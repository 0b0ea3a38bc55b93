// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package hls

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/spezifisch/vidplay/logger"
)

// MimeType is the HLS playlist type surfaces are asked about.
const MimeType = "application/vnd.apple.mpegurl"

const (
	DefaultMaxManifestBytes   = 4 << 20
	DefaultMaxRefreshFailures = 3

	acceptHeader = "video/*, application/vnd.apple.mpegurl, application/x-mpegURL"
	minRefresh   = 500 * time.Millisecond
)

// Media is the playback surface an engine feeds.
type Media interface {
	SetSource(url string) error
}

type Config struct {
	// EnableWorker moves manifest loading and live refreshes to a background
	// goroutine. Without it the initial load runs on the caller of
	// LoadSource/AttachMedia and live playlists are not refreshed.
	EnableWorker bool
	// LowLatencyMode refreshes live playlists at half the target duration.
	LowLatencyMode bool

	Client             *http.Client
	MaxManifestBytes   int64
	MaxRefreshFailures int
	Logger             logger.LoggerInterface
}

// ManifestData is passed to ManifestParsed observers.
type ManifestData struct {
	URL      string
	Levels   []Variant
	Selected string
	Live     bool
	// Progressive is set when the source was no playlist and got bound as is.
	Progressive bool
}

// Engine loads an HLS source and binds the chosen rendition to a Media.
// An engine is single use: after Destroy it does nothing.
type Engine struct {
	cfg Config

	mu        sync.Mutex
	source    string
	media     Media
	started   bool
	destroyed bool
	onParsed  []func(ManifestData)
	onError   []func(ErrorData)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config) *Engine {
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.MaxManifestBytes <= 0 {
		cfg.MaxManifestBytes = DefaultMaxManifestBytes
	}
	if cfg.MaxRefreshFailures <= 0 {
		cfg.MaxRefreshFailures = DefaultMaxRefreshFailures
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (e *Engine) OnManifestParsed(fn func(ManifestData)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.destroyed {
		e.onParsed = append(e.onParsed, fn)
	}
}

func (e *Engine) OnError(fn func(ErrorData)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.destroyed {
		e.onError = append(e.onError, fn)
	}
}

func (e *Engine) LoadSource(url string) {
	e.mu.Lock()
	if e.destroyed || e.started {
		e.mu.Unlock()
		return
	}
	e.source = url
	e.mu.Unlock()

	e.maybeStart()
}

func (e *Engine) AttachMedia(media Media) {
	e.mu.Lock()
	if e.destroyed || e.started {
		e.mu.Unlock()
		return
	}
	e.media = media
	e.mu.Unlock()

	e.maybeStart()
}

// Destroy stops loading, waits for the worker and drops all observers. It is
// safe to call more than once. It must not be called from an observer.
func (e *Engine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.onParsed = nil
	e.onError = nil
	e.media = nil
	e.mu.Unlock()

	e.cancel()
	e.wg.Wait()
}

func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

func (e *Engine) maybeStart() {
	e.mu.Lock()
	if e.destroyed || e.started || e.source == "" || e.media == nil {
		e.mu.Unlock()
		return
	}
	e.started = true
	source := e.source
	e.wg.Add(1)
	e.mu.Unlock()

	if e.cfg.EnableWorker {
		go e.run(source)
	} else {
		e.run(source)
	}
}

func (e *Engine) run(source string) {
	defer e.wg.Done()

	master, progressive, errData := e.fetchManifest(source, "manifest")
	if errData != nil {
		e.emitError(*errData)
		return
	}
	if progressive {
		e.cfg.Logger.Printf("hls: %s is no playlist, binding it directly", source)
		e.emitParsed(ManifestData{URL: source, Selected: source, Progressive: true})
		e.bind(source)
		return
	}

	selected := source
	level := master
	if master.Master {
		variants := master.SortedVariants()
		best := variants[len(variants)-1]
		var err error
		if selected, err = resolveReference(source, best.URI); err != nil {
			e.emitError(ErrorData{Type: MediaError, Details: "levelParsingError", Fatal: true, URL: source, Err: err})
			return
		}
		e.cfg.Logger.Printf("hls: %d levels, selected %d bps", len(variants), best.Bandwidth)

		var levelIsMedia bool
		level, levelIsMedia, errData = e.fetchManifest(selected, "level")
		if errData != nil {
			e.emitError(*errData)
			return
		}
		if levelIsMedia {
			// the level URI points straight at media, nothing to refresh
			level = &Manifest{EndList: true}
		}
	}

	e.emitParsed(ManifestData{
		URL:      source,
		Levels:   master.SortedVariants(),
		Selected: selected,
		Live:     level.Live(),
	})
	if !e.bind(selected) {
		return
	}

	if level.Live() && e.cfg.EnableWorker {
		e.refreshLive(selected, level.TargetDuration)
	}
}

// refreshLive reloads a live playlist until it ends, the engine is destroyed
// or too many reloads in a row failed.
func (e *Engine) refreshLive(url string, target time.Duration) {
	interval := target
	if e.cfg.LowLatencyMode {
		interval /= 2
	}
	if interval < minRefresh {
		interval = minRefresh
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-e.ctx.Done():
			return
		case <-ticker.C:
		}

		m, progressive, errData := e.fetchManifest(url, "level")
		if errData != nil {
			if e.ctx.Err() != nil {
				return
			}
			failures++
			errData.Fatal = failures >= e.cfg.MaxRefreshFailures
			e.emitError(*errData)
			if errData.Fatal {
				return
			}
			continue
		}
		failures = 0
		if progressive || !m.Live() {
			e.cfg.Logger.Printf("hls: live playlist %s ended", url)
			return
		}
	}
}

// fetchManifest loads url. A response that doesn't start like a playlist is
// reported as progressive instead of being parsed.
func (e *Engine) fetchManifest(url string, kind string) (*Manifest, bool, *ErrorData) {
	networkError := func(err error) *ErrorData {
		return &ErrorData{Type: NetworkError, Details: kind + "LoadError", Fatal: true, URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(e.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, networkError(err)
	}
	req.Header.Set("Accept", acceptHeader)

	res, err := e.cfg.Client.Do(req)
	if err != nil {
		return nil, false, networkError(err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, false, networkError(fmt.Errorf("unexpected status code: %d, status: %s", res.StatusCode, res.Status))
	}

	br := bufio.NewReader(io.LimitReader(res.Body, e.cfg.MaxManifestBytes))
	head, _ := br.Peek(len(utf8BOM) + len(playlistHeader))
	if !bytes.HasPrefix(bytes.TrimPrefix(head, utf8BOM), playlistHeader) {
		return nil, true, nil
	}

	m, err := ParseManifest(br)
	if err != nil {
		return nil, false, &ErrorData{Type: MediaError, Details: kind + "ParsingError", Fatal: true, URL: url, Err: err}
	}
	return m, false, nil
}

var (
	utf8BOM        = []byte{0xef, 0xbb, 0xbf}
	playlistHeader = []byte("#EXTM3U")
)

func (e *Engine) bind(url string) bool {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return false
	}
	err := e.media.SetSource(url)
	e.mu.Unlock()

	if err != nil {
		e.emitError(ErrorData{Type: MediaError, Details: "mediaAttachError", Fatal: true, URL: url, Err: err})
		return false
	}
	return true
}

func (e *Engine) emitParsed(data ManifestData) {
	e.mu.Lock()
	handlers := append([]func(ManifestData){}, e.onParsed...)
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(data)
	}
}

func (e *Engine) emitError(data ErrorData) {
	e.mu.Lock()
	handlers := append([]func(ErrorData){}, e.onError...)
	e.mu.Unlock()

	for _, fn := range handlers {
		fn(data)
	}
}
