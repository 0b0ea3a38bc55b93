// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import (
	"math"
	"strconv"
	"sync"

	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/session"
	"github.com/supersonic-app/go-mpv"
)

type Options struct {
	// HWDec and VO are passed to mpv as is, empty means mpv's default.
	HWDec string
	VO    string
	// Volume is the initial level in [0, 1].
	Volume float64
}

// Player is a video surface backed by libmpv.
type Player struct {
	instance  *mpv.Mpv
	mpvEvents chan *mpv.Event
	logger    logger.LoggerInterface

	mu                sync.Mutex
	eventConsumer     session.MediaEventConsumer
	replaceInProgress bool
	tracker           eventTracker
}

var _ session.Surface = (*Player)(nil)

func NewPlayer(logger logger.LoggerInterface, opts Options) (player *Player, err error) {
	mpvInstance := mpv.Create()

	options := [][2]string{
		{"video", "auto"},
		{"force-window", "yes"},
		{"idle", "yes"},
		{"input-default-bindings", "yes"},
		{"volume", strconv.FormatInt(volumeToPercent(opts.Volume), 10)},
	}
	if opts.HWDec != "" {
		options = append(options, [2]string{"hwdec", opts.HWDec})
	}
	if opts.VO != "" {
		options = append(options, [2]string{"vo", opts.VO})
	}
	for _, option := range options {
		if err = mpvInstance.SetOptionString(option[0], option[1]); err != nil {
			logger.Printf("mpv: option %s=%s: %v", option[0], option[1], err)
			mpvInstance.TerminateDestroy()
			return
		}
	}

	if err = mpvInstance.Initialize(); err != nil {
		mpvInstance.TerminateDestroy()
		return
	}

	player = &Player{
		instance:  mpvInstance,
		mpvEvents: make(chan *mpv.Event),
		logger:    logger,
	}

	go player.mpvEngineEventHandler(mpvInstance)
	return
}

func (p *Player) mpvEngineEventHandler(instance *mpv.Mpv) {
	for {
		evt := instance.WaitEvent(1)
		p.mpvEvents <- evt
	}
}

func (p *Player) Quit() {
	p.mpvEvents <- nil
	p.instance.TerminateDestroy()
}

func (p *Player) RegisterEventConsumer(consumer session.MediaEventConsumer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eventConsumer = consumer
}

// SetSource replaces the current file. The end of the old file is not
// reported as the end of playback.
func (p *Player) SetSource(url string) error {
	p.mu.Lock()
	p.replaceInProgress = true
	p.tracker.reset()
	p.mu.Unlock()

	return p.instance.Command([]string{"loadfile", url, "replace"})
}

// Stop unloads the current file. Events mpv still delivers for it are
// dropped because the tracker no longer considers anything loaded.
func (p *Player) Stop() error {
	p.mu.Lock()
	p.tracker.reset()
	p.mu.Unlock()

	return p.instance.Command([]string{"stop"})
}

func (p *Player) CanPlayType(mimeType string) bool {
	return canPlayType(mimeType)
}

func (p *Player) Play() error {
	return p.instance.SetProperty("pause", mpv.FORMAT_FLAG, false)
}

func (p *Player) Pause() error {
	return p.instance.SetProperty("pause", mpv.FORMAT_FLAG, true)
}

func (p *Player) IsPaused() (bool, error) {
	return p.getPropertyBool("pause")
}

func (p *Player) SetCurrentTime(seconds float64) error {
	return p.instance.Command([]string{"seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute"})
}

// SetVolume takes a level in [0, 1].
func (p *Player) SetVolume(volume float64) error {
	return p.instance.SetProperty("volume", mpv.FORMAT_INT64, volumeToPercent(volume))
}

func (p *Player) Volume() (int64, error) {
	return p.getPropertyInt64("volume")
}

func (p *Player) RequestFullscreen() error {
	return p.instance.SetProperty("fullscreen", mpv.FORMAT_FLAG, true)
}

func (p *Player) ExitFullscreen() error {
	return p.instance.SetProperty("fullscreen", mpv.FORMAT_FLAG, false)
}

func (p *Player) IsFullscreen() (bool, error) {
	return p.getPropertyBool("fullscreen")
}

func volumeToPercent(volume float64) int64 {
	if volume < 0 || math.IsNaN(volume) {
		volume = 0
	} else if volume > 1 {
		volume = 1
	}
	return int64(math.Round(volume * 100))
}
