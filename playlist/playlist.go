// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package playlist

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrMissingTitle = errors.New("title is required")
	ErrMissingURL   = errors.New("url is required")
	ErrDuplicateID  = errors.New("duplicate entry id")
	ErrNotFound     = errors.New("entry not found")
)

// AddRequest is what the add-video form submits. Duration and Thumbnail are
// optional.
type AddRequest struct {
	Title     string
	URL       string
	Kind      Kind
	Duration  string
	Thumbnail string
}

// Playlist is an ordered list of entries with unique ids. It is safe for
// concurrent use.
type Playlist struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int

	newID func() string
}

func New(entries ...Entry) (*Playlist, error) {
	p := &Playlist{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
		newID:   uuid.NewString,
	}
	for _, e := range entries {
		if e.ID == "" {
			e.ID = p.newID()
		}
		if _, ok := p.index[e.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		p.index[e.ID] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p, nil
}

// Add validates req and appends a new entry. Nothing is appended on error.
func (p *Playlist) Add(req AddRequest) (Entry, error) {
	title := strings.TrimSpace(req.Title)
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return Entry{}, ErrMissingURL
	}
	if title == "" {
		return Entry{}, ErrMissingTitle
	}
	kind := req.Kind
	if kind == "" {
		kind = KindStream
	} else if _, err := ParseKind(string(kind)); err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Title:     title,
		URL:       url,
		Kind:      kind,
		Duration:  req.Duration,
		Thumbnail: req.Thumbnail,
	}
	if entry.Duration == "" {
		entry.Duration = DefaultDuration
	}
	if entry.Thumbnail == "" {
		entry.Thumbnail = DefaultThumbnail
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		entry.ID = p.newID()
		if _, taken := p.index[entry.ID]; !taken {
			break
		}
	}
	p.index[entry.ID] = len(p.entries)
	p.entries = append(p.entries, entry)
	return entry, nil
}

// Replace swaps the entry with the same id for e.
func (p *Playlist) Replace(e Entry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	i, ok := p.index[e.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, e.ID)
	}
	p.entries[i] = e
	return nil
}

func (p *Playlist) Get(id string) (Entry, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.index[id]
	if !ok {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Index returns the position of id, or -1.
func (p *Playlist) Index(id string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i, ok := p.index[id]; ok {
		return i
	}
	return -1
}

func (p *Playlist) At(i int) (Entry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.entries) {
		return Entry{}, errors.New("invalid playlist index")
	}
	return p.entries[i], nil
}

func (p *Playlist) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

func (p *Playlist) Entries() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cpy := make([]Entry, len(p.entries))
	copy(cpy, p.entries)
	return cpy
}
