// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"strings"

	"github.com/spezifisch/vidplay/playlist"
	"github.com/spf13/viper"
)

// playlistConfigEntry is one [[playlist]] table of the config file.
type playlistConfigEntry struct {
	ID        string `mapstructure:"id"`
	Title     string `mapstructure:"title"`
	URL       string `mapstructure:"url"`
	Type      string `mapstructure:"type"`
	Duration  string `mapstructure:"duration"`
	Thumbnail string `mapstructure:"thumbnail"`
}

// loadPlaylist builds the playlist from the config, or from the built-in
// samples when the config has none.
func loadPlaylist() (*playlist.Playlist, error) {
	if !viper.IsSet("playlist") {
		return playlist.New(playlist.Defaults()...)
	}

	var configured []playlistConfigEntry
	if err := viper.UnmarshalKey("playlist", &configured); err != nil {
		return nil, fmt.Errorf("playlist: %w", err)
	}

	entries := make([]playlist.Entry, 0, len(configured))
	for i, c := range configured {
		entry, err := c.toEntry()
		if err != nil {
			return nil, fmt.Errorf("playlist entry %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	return playlist.New(entries...)
}

func (c playlistConfigEntry) toEntry() (playlist.Entry, error) {
	title := strings.TrimSpace(c.Title)
	url := strings.TrimSpace(c.URL)
	if url == "" {
		return playlist.Entry{}, playlist.ErrMissingURL
	}
	if title == "" {
		return playlist.Entry{}, playlist.ErrMissingTitle
	}

	kind := playlist.KindStream
	if c.Type != "" {
		var err error
		if kind, err = playlist.ParseKind(c.Type); err != nil {
			return playlist.Entry{}, err
		}
	}

	entry := playlist.Entry{
		ID:        strings.TrimSpace(c.ID),
		Title:     title,
		Duration:  c.Duration,
		Thumbnail: c.Thumbnail,
		URL:       url,
		Kind:      kind,
	}
	if entry.Duration == "" {
		entry.Duration = playlist.DefaultDuration
	}
	if entry.Thumbnail == "" {
		entry.Thumbnail = playlist.DefaultThumbnail
	}
	return entry, nil
}
