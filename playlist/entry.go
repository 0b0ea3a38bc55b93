// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package playlist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind tells the loader how an entry's URL has to be played.
type Kind string

const (
	// KindLocal is a file on disk, assigned to the surface as is.
	KindLocal Kind = "local"
	// KindM3U8 is an HLS playlist.
	KindM3U8 Kind = "m3u8"
	// KindStream is any other remote stream.
	KindStream Kind = "stream"
)

const (
	DefaultDuration  = "00:00"
	DefaultThumbnail = "https://images.unsplash.com/photo-1574717024653-61fd2cf4d44d?w=200&h=120&fit=crop"
)

var ErrUnknownKind = errors.New("unknown source kind")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindLocal, KindM3U8, KindStream:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// IsStreaming is true for kinds that go through the stream engine.
func (k Kind) IsStreaming() bool {
	return k == KindM3U8 || k == KindStream
}

func (k Kind) String() string {
	return string(k)
}

// Entry is one playable item of the playlist.
type Entry struct {
	ID        string
	Title     string
	Duration  string
	Thumbnail string
	URL       string
	Kind      Kind
}

func (e *Entry) GetID() string {
	if e == nil {
		return ""
	}
	return e.ID
}

func (e *Entry) GetTitle() string {
	if e == nil {
		return ""
	}
	return e.Title
}

func (e *Entry) IsValid() bool {
	return e != nil && e.ID != ""
}

// Length is the parsed Duration, 0 if it is unknown or malformed.
func (e *Entry) Length() time.Duration {
	if e == nil {
		return 0
	}
	d, err := ParseDuration(e.Duration)
	if err != nil {
		return 0
	}
	return d
}

// ParseDuration reads a display duration like "MM:SS" or "H:MM:SS".
func ParseDuration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}
