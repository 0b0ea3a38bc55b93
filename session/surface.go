// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import "github.com/spezifisch/vidplay/hls"

type MediaEventType int

const (
	// periodic position report while playing, data: Position
	EventTimeUpdate MediaEventType = iota
	// duration became known, data: Duration
	EventLoadedMetadata
	// playback started or resumed
	EventPlay
	EventPause
	// end of media reached
	EventEnded
)

func (t MediaEventType) String() string {
	switch t {
	case EventTimeUpdate:
		return "timeupdate"
	case EventLoadedMetadata:
		return "loadedmetadata"
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventEnded:
		return "ended"
	}
	return "unknown"
}

// MediaEvent is a notification from the playback surface. Position and
// Duration are in seconds.
type MediaEvent struct {
	Type     MediaEventType
	Position float64
	Duration float64
}

type MediaEventConsumer interface {
	// event that goes from the playback surface to the session
	SendMediaEvent(event MediaEvent)
}

// Surface is the media element that decodes and renders video. Commands are
// requests; the surface reports what actually happened through its events.
type Surface interface {
	hls.Media

	CanPlayType(mime string) bool
	Play() error
	Pause() error
	SetCurrentTime(seconds float64) error
	// Stop unloads the current source. The surface shows nothing until the
	// next SetSource.
	Stop() error
	// SetVolume takes a level in [0, 1].
	SetVolume(volume float64) error

	RequestFullscreen() error
	ExitFullscreen() error
	IsFullscreen() (bool, error)

	RegisterEventConsumer(consumer MediaEventConsumer)
}
