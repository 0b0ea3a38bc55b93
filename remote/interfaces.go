// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import "time"

type ControlledPlayer interface {
	// Requests playback when paused and a pause when playing.
	TogglePlay() error
	Play() error
	Pause() error

	// Returns true if the surface confirmed that it is playing.
	IsPlaying() bool

	// Current position in seconds.
	Position() float64

	// Seeks to an absolute position in seconds.
	Seek(seconds float64) error
	SeekRelative(delta float64) error

	// Sets a volume level in [0, 1].
	SetVolume(volume float64) error
}

type TrackInterface interface {
	GetID() string
	GetTitle() string
	Length() time.Duration

	// something like ID != ""
	IsValid() bool
}
