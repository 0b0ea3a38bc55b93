// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import "github.com/spezifisch/vidplay/session"

type propertySnapshot struct {
	// Position is negative when mpv has none.
	Position float64
	Duration float64
	Paused   bool
}

// eventTracker turns mpv property snapshots into media events by diffing
// them against what was reported last.
type eventTracker struct {
	loaded   bool
	position float64
	duration float64
	paused   bool
}

func (t *eventTracker) reset() {
	*t = eventTracker{}
}

func (t *eventTracker) fileLoaded(s propertySnapshot) []session.MediaEvent {
	t.loaded = true
	t.duration = s.Duration
	t.paused = s.Paused
	t.position = s.Position

	events := []session.MediaEvent{{
		Type:     session.EventLoadedMetadata,
		Duration: s.Duration,
	}}
	if !s.Paused {
		events = append(events, session.MediaEvent{Type: session.EventPlay})
	}
	return events
}

func (t *eventTracker) propertiesChanged(s propertySnapshot) []session.MediaEvent {
	if !t.loaded {
		return nil
	}

	var events []session.MediaEvent
	if s.Duration > 0 && s.Duration != t.duration {
		// live streams learn their duration late
		t.duration = s.Duration
		events = append(events, session.MediaEvent{
			Type:     session.EventLoadedMetadata,
			Duration: s.Duration,
		})
	}
	if s.Position >= 0 && s.Position != t.position {
		t.position = s.Position
		events = append(events, session.MediaEvent{
			Type:     session.EventTimeUpdate,
			Position: s.Position,
			Duration: t.duration,
		})
	}
	if s.Paused != t.paused {
		t.paused = s.Paused
		typ := session.EventPlay
		if s.Paused {
			typ = session.EventPause
		}
		events = append(events, session.MediaEvent{Type: typ})
	}
	return events
}

func (t *eventTracker) fileEnded() []session.MediaEvent {
	if !t.loaded {
		return nil
	}
	t.loaded = false
	return []session.MediaEvent{{
		Type:     session.EventEnded,
		Position: t.position,
		Duration: t.duration,
	}}
}
