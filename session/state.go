// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import (
	"errors"
	"math"
	"sync"

	"github.com/spezifisch/vidplay/logger"
)

// DefaultVolume is restored on unmute when no other level was ever set.
const DefaultVolume = 1.0

var (
	ErrNoSource       = errors.New("nothing loaded")
	ErrInvalidSeekPos = errors.New("seek target is not a finite number")
)

type TransportState int

const (
	StateIdle TransportState = iota
	StateLoading
	StatePaused
	StatePlaying
)

func (s TransportState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	}
	return "unknown"
}

// PlaybackState is a snapshot of the session's transport, time and volume.
type PlaybackState struct {
	Transport TransportState
	// Position and Duration are in seconds. Duration is 0 until known.
	Position float64
	Duration float64
	Volume   float64
	Muted    bool
}

func (s PlaybackState) IsPlaying() bool {
	return s.Transport == StatePlaying
}

// StateMachine reconciles user intents with surface events. Commands are only
// forwarded to the surface; transport changes happen when the surface
// confirms them.
type StateMachine struct {
	surface Surface
	logger  logger.LoggerInterface

	mu         sync.Mutex
	state      PlaybackState
	lastVolume float64
}

func NewStateMachine(surface Surface, logger logger.LoggerInterface, volume float64) *StateMachine {
	volume = clampVolume(volume)
	m := &StateMachine{
		surface:    surface,
		logger:     logger,
		lastVolume: DefaultVolume,
	}
	m.state.Volume = volume
	m.state.Muted = volume == 0
	if volume > 0 {
		m.lastVolume = volume
	}
	return m
}

func (m *StateMachine) State() PlaybackState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BeginLoad enters Loading for a freshly assigned source.
func (m *StateMachine) BeginLoad() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Transport = StateLoading
	m.state.Position = 0
	m.state.Duration = 0
}

// Clear returns to Idle.
func (m *StateMachine) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Transport = StateIdle
	m.state.Position = 0
	m.state.Duration = 0
}

// HandleEvent applies a surface notification and reports whether the state
// changed.
func (m *StateMachine) HandleEvent(event MediaEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.state
	if m.state.Transport == StateIdle {
		return false
	}
	// until the new source reports its metadata, everything else still
	// belongs to the previous one
	if m.state.Transport == StateLoading && event.Type != EventLoadedMetadata {
		return false
	}

	switch event.Type {
	case EventTimeUpdate:
		if event.Position >= 0 && !math.IsNaN(event.Position) {
			m.state.Position = event.Position
		}

	case EventLoadedMetadata:
		if event.Duration >= 0 && !math.IsInf(event.Duration, 0) && !math.IsNaN(event.Duration) {
			m.state.Duration = event.Duration
		}
		if m.state.Transport == StateLoading {
			m.state.Transport = StatePaused
		}

	case EventPlay:
		m.state.Transport = StatePlaying

	case EventPause:
		if m.state.Transport == StatePlaying {
			m.state.Transport = StatePaused
		}

	case EventEnded:
		// position stays where the surface left it
		m.state.Transport = StatePaused

	default:
		m.logger.Printf("state: unhandled media event %v", event.Type)
	}

	return m.state != before
}

// TogglePlay asks the surface to pause when playing and to play otherwise.
func (m *StateMachine) TogglePlay() error {
	m.mu.Lock()
	transport := m.state.Transport
	m.mu.Unlock()

	switch transport {
	case StateIdle:
		return ErrNoSource
	case StatePlaying:
		return m.surface.Pause()
	default:
		return m.surface.Play()
	}
}

// Seek moves to target, clamped to [0, duration], and returns the position
// that was requested from the surface. With an unknown duration only the
// lower bound applies. Non-finite targets are rejected.
func (m *StateMachine) Seek(target float64) (float64, error) {
	m.mu.Lock()
	if m.state.Transport == StateIdle {
		m.mu.Unlock()
		return 0, ErrNoSource
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		position := m.state.Position
		m.mu.Unlock()
		return position, ErrInvalidSeekPos
	}
	position := clampSeek(target, m.state.Duration)
	m.state.Position = position
	m.mu.Unlock()

	return position, m.surface.SetCurrentTime(position)
}

func (m *StateMachine) SeekRelative(delta float64) (float64, error) {
	m.mu.Lock()
	target := m.state.Position + delta
	m.mu.Unlock()
	return m.Seek(target)
}

// SetVolume sets a level in [0, 1]. Zero mutes, anything else unmutes.
func (m *StateMachine) SetVolume(volume float64) error {
	volume = clampVolume(volume)

	m.mu.Lock()
	m.state.Volume = volume
	if volume == 0 {
		m.state.Muted = true
	} else {
		m.state.Muted = false
		m.lastVolume = volume
	}
	m.mu.Unlock()

	return m.surface.SetVolume(volume)
}

func (m *StateMachine) AdjustVolume(delta float64) error {
	m.mu.Lock()
	base := m.state.Volume
	if m.state.Muted {
		base = 0
	}
	m.mu.Unlock()
	return m.SetVolume(base + delta)
}

// ToggleMute mutes, or restores the last non-zero level.
func (m *StateMachine) ToggleMute() error {
	m.mu.Lock()
	var target float64
	if m.state.Muted {
		target = m.lastVolume
		if target <= 0 {
			target = DefaultVolume
		}
		m.state.Muted = false
		m.state.Volume = target
	} else {
		m.state.Muted = true
	}
	m.mu.Unlock()

	return m.surface.SetVolume(target)
}

// ToggleFullscreen leaves fullscreen state to the surface.
func (m *StateMachine) ToggleFullscreen() error {
	fullscreen, err := m.surface.IsFullscreen()
	if err != nil {
		return err
	}
	if fullscreen {
		return m.surface.ExitFullscreen()
	}
	return m.surface.RequestFullscreen()
}

func clampSeek(target, duration float64) float64 {
	if target < 0 {
		return 0
	}
	if duration > 0 && target > duration {
		return duration
	}
	return target
}

func clampVolume(volume float64) float64 {
	switch {
	case math.IsNaN(volume), volume < 0:
		return 0
	case volume > 1:
		return 1
	}
	return volume
}
