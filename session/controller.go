// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package session

import (
	"sync"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/playlist"
)

type UiEventType int

const (
	// playback status changed, data: PlaybackState
	EventStatus UiEventType = iota
	// a different entry was loaded, data: playlist.Entry
	EventEntryChanged
)

type UiEvent struct {
	Type UiEventType
	Data interface{}
}

type EventConsumer interface {
	// create event that goes from the session to a UI frontend
	SendEvent(event UiEvent)
}

type Options struct {
	Surface  Surface
	Resolver Resolver
	Engines  EngineProvider
	Logger   logger.LoggerInterface
	// Volume is the initial level in [0, 1].
	Volume float64
}

// Controller is the playback session: it owns the surface binding, the
// loader and the state machine, and is the only way to reach them.
type Controller struct {
	surface Surface
	binding *Binding
	loader  *Loader
	state   *StateMachine
	logger  logger.LoggerInterface

	mu              sync.Mutex
	eventConsumer   EventConsumer
	cbOnEntryChange []func(entry playlist.Entry)
	closed          bool
	closeOnce       sync.Once
}

var _ MediaEventConsumer = (*Controller)(nil)

func NewController(opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	binding := NewBinding(opts.Surface, opts.Resolver, opts.Engines, opts.Logger)
	c := &Controller{
		surface: opts.Surface,
		binding: binding,
		loader:  NewLoader(opts.Surface, binding, opts.Logger),
		state:   NewStateMachine(opts.Surface, opts.Logger, opts.Volume),
		logger:  opts.Logger,
	}
	opts.Surface.RegisterEventConsumer(c)
	return c
}

func (c *Controller) RegisterEventConsumer(consumer EventConsumer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventConsumer = consumer
}

// OnEntryChange registers a callback run after a new entry was loaded.
func (c *Controller) OnEntryChange(cb func(entry playlist.Entry)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cbOnEntryChange = append(c.cbOnEntryChange, cb)
}

// Select makes entry the current one and loads it. A nil entry keeps
// everything as it is.
func (c *Controller) Select(entry *playlist.Entry) {
	if entry == nil || c.isClosed() {
		return
	}

	c.logger.Printf("session: loading %q (%s)", entry.Title, entry.Kind)
	c.state.BeginLoad()
	c.loader.Load(entry)

	c.mu.Lock()
	callbacks := append([]func(playlist.Entry){}, c.cbOnEntryChange...)
	c.mu.Unlock()

	c.sendEvent(EventEntryChanged, *entry)
	for _, cb := range callbacks {
		cb(*entry)
	}
	c.publishStatus()
}

// Clear unloads the current entry and returns to Idle.
func (c *Controller) Clear() {
	if c.isClosed() {
		return
	}
	c.loader.Unload()
	c.state.Clear()
	c.publishStatus()
}

func (c *Controller) Current() *playlist.Entry {
	return c.loader.Current()
}

func (c *Controller) State() PlaybackState {
	return c.state.State()
}

func (c *Controller) IsPlaying() bool {
	return c.state.State().IsPlaying()
}

func (c *Controller) Position() float64 {
	return c.state.State().Position
}

func (c *Controller) TogglePlay() error {
	return c.state.TogglePlay()
}

// Play requests playback unless already playing.
func (c *Controller) Play() error {
	if c.IsPlaying() {
		return nil
	}
	return c.state.TogglePlay()
}

// Pause requests a pause when playing.
func (c *Controller) Pause() error {
	if !c.IsPlaying() {
		return nil
	}
	return c.state.TogglePlay()
}

func (c *Controller) Seek(seconds float64) error {
	_, err := c.state.Seek(seconds)
	c.publishStatus()
	return err
}

func (c *Controller) SeekRelative(delta float64) error {
	_, err := c.state.SeekRelative(delta)
	c.publishStatus()
	return err
}

func (c *Controller) SetVolume(volume float64) error {
	err := c.state.SetVolume(volume)
	c.publishStatus()
	return err
}

func (c *Controller) AdjustVolume(delta float64) error {
	err := c.state.AdjustVolume(delta)
	c.publishStatus()
	return err
}

func (c *Controller) ToggleMute() error {
	err := c.state.ToggleMute()
	c.publishStatus()
	return err
}

func (c *Controller) ToggleFullscreen() error {
	return c.state.ToggleFullscreen()
}

// SendMediaEvent receives surface notifications.
func (c *Controller) SendMediaEvent(event MediaEvent) {
	if c.state.HandleEvent(event) {
		c.publishStatus()
	}
}

// Close tears down the stream engine. Only the first call does anything.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.binding.Close()
		c.logger.Print("session: closed")
	})
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) publishStatus() {
	c.sendEvent(EventStatus, c.state.State())
}

func (c *Controller) sendEvent(typ UiEventType, data interface{}) {
	c.mu.Lock()
	consumer := c.eventConsumer
	c.mu.Unlock()

	if consumer != nil {
		consumer.SendEvent(UiEvent{
			Type: typ,
			Data: data,
		})
	}
}
