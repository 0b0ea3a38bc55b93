// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import (
	"sync"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/playlist"
)

// Loader decides how an entry gets onto the surface.
type Loader struct {
	surface Surface
	binding *Binding
	logger  logger.LoggerInterface

	mu      sync.Mutex
	current *playlist.Entry
}

func NewLoader(surface Surface, binding *Binding, logger logger.LoggerInterface) *Loader {
	return &Loader{
		surface: surface,
		binding: binding,
		logger:  logger,
	}
}

// Load replaces whatever is playing with entry. A nil entry is ignored.
// Failures are logged, never returned.
func (l *Loader) Load(entry *playlist.Entry) {
	if entry == nil {
		return
	}

	// the previous engine has to be gone before anything else happens
	l.binding.Detach()

	loaded := *entry
	l.mu.Lock()
	l.current = &loaded
	l.mu.Unlock()

	switch {
	case entry.Kind == playlist.KindLocal:
		if err := l.surface.SetSource(entry.URL); err != nil {
			l.logger.PrintError("loader: SetSource", err)
		}
	case entry.Kind.IsStreaming():
		// nothing may keep playing while the stream resolves
		if err := l.surface.Stop(); err != nil {
			l.logger.PrintError("loader: Stop", err)
		}
		l.binding.Attach(entry.URL)
	default:
		l.logger.Printf("loader: %q has unknown kind %q", entry.Title, entry.Kind)
	}
}

// Unload detaches the engine and forgets the current entry.
func (l *Loader) Unload() {
	l.binding.Detach()
	if err := l.surface.Stop(); err != nil {
		l.logger.PrintError("loader: Stop", err)
	}
	l.mu.Lock()
	l.current = nil
	l.mu.Unlock()
}

func (l *Loader) Current() *playlist.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	cpy := *l.current
	return &cpy
}
