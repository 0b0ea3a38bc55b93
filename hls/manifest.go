// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package hls

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"time"

	"github.com/grafov/m3u8"
)

var (
	ErrNotPlaylist   = errors.New("not an m3u8 playlist")
	ErrEmptyPlaylist = errors.New("playlist has neither variants nor segments")
)

// Variant is one rendition listed in a master playlist.
type Variant struct {
	URI        string
	Bandwidth  int
	Resolution string
	Codecs     string
}

// Manifest is the subset of a playlist the engine acts on.
type Manifest struct {
	// Master is set when the playlist lists variants instead of segments.
	Master   bool
	Variants []Variant

	TargetDuration time.Duration
	Segments       int
	Duration       time.Duration
	// EndList is set for VOD playlists and finished events.
	EndList bool
}

// Live reports whether a media playlist still grows.
func (m *Manifest) Live() bool {
	return !m.Master && !m.EndList
}

// ParseManifest reads an m3u8 playlist.
func ParseManifest(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("#EXTM3U")) {
		return nil, ErrNotPlaylist
	}

	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(data), true)
	if err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		return fromMaster(playlist.(*m3u8.MasterPlaylist))
	case m3u8.MEDIA:
		return fromMedia(playlist.(*m3u8.MediaPlaylist))
	}
	return nil, ErrEmptyPlaylist
}

func fromMaster(p *m3u8.MasterPlaylist) (*Manifest, error) {
	m := &Manifest{Master: true}
	for _, v := range p.Variants {
		if v == nil || v.URI == "" {
			continue
		}
		m.Variants = append(m.Variants, Variant{
			URI:        v.URI,
			Bandwidth:  int(v.Bandwidth),
			Resolution: v.Resolution,
			Codecs:     v.Codecs,
		})
	}
	if len(m.Variants) == 0 {
		return nil, ErrEmptyPlaylist
	}
	return m, nil
}

func fromMedia(p *m3u8.MediaPlaylist) (*Manifest, error) {
	m := &Manifest{
		TargetDuration: seconds(p.TargetDuration),
		EndList:        p.Closed || p.MediaType == m3u8.VOD,
	}
	for _, seg := range p.Segments {
		// the segment slice is a ring buffer with nil padding
		if seg == nil {
			continue
		}
		m.Segments++
		m.Duration += seconds(seg.Duration)
	}
	// a live playlist may start without segments, but it has to announce
	// a target duration
	if m.Segments == 0 && (m.EndList || m.TargetDuration == 0) {
		return nil, ErrEmptyPlaylist
	}
	return m, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SortedVariants returns the variants ordered by ascending bandwidth.
func (m *Manifest) SortedVariants() []Variant {
	cpy := make([]Variant, len(m.Variants))
	copy(cpy, m.Variants)
	sort.SliceStable(cpy, func(i, j int) bool {
		return cpy[i].Bandwidth < cpy[j].Bandwidth
	})
	return cpy
}

func resolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}
