// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package mpvplayer

import (
	"github.com/spezifisch/vidplay/session"
	"github.com/supersonic-app/go-mpv"
)

func (p *Player) EventLoop() {
	if err := p.instance.ObserveProperty(0, "time-pos", mpv.FORMAT_DOUBLE); err != nil {
		p.logger.PrintError("Observe1", err)
	}
	if err := p.instance.ObserveProperty(0, "duration", mpv.FORMAT_DOUBLE); err != nil {
		p.logger.PrintError("Observe2", err)
	}
	if err := p.instance.ObserveProperty(0, "pause", mpv.FORMAT_FLAG); err != nil {
		p.logger.PrintError("Observe3", err)
	}

	for evt := range p.mpvEvents {
		if evt == nil {
			// quit signal
			break
		}

		switch evt.Event_Id {
		case mpv.EVENT_PROPERTY_CHANGE:
			// which property changed doesn't matter, the tracker diffs all of them
			snapshot := p.snapshot(evt.Event_Id.String())
			p.mu.Lock()
			events := p.tracker.propertiesChanged(snapshot)
			p.mu.Unlock()
			p.dispatch(events)

		case mpv.EVENT_START_FILE:
			p.mu.Lock()
			p.replaceInProgress = false
			p.mu.Unlock()

		case mpv.EVENT_FILE_LOADED:
			snapshot := p.snapshot(evt.Event_Id.String())
			p.mu.Lock()
			events := p.tracker.fileLoaded(snapshot)
			p.mu.Unlock()
			p.dispatch(events)

		case mpv.EVENT_END_FILE:
			p.mu.Lock()
			var events []session.MediaEvent
			if !p.replaceInProgress {
				events = p.tracker.fileEnded()
			}
			p.mu.Unlock()
			p.dispatch(events)

		case mpv.EVENT_IDLE, mpv.EVENT_NONE:
			continue

		default:
			p.logger.Printf("mpv.EventLoop: unhandled event id %v", evt.Event_Id)
		}
	}
}

func (p *Player) snapshot(source string) propertySnapshot {
	var s propertySnapshot
	var err error

	// time-pos and duration are unavailable while nothing is loaded
	if s.Position, err = p.getPropertyDouble("time-pos"); err != nil {
		s.Position = -1
	}
	if s.Duration, err = p.getPropertyDouble("duration"); err != nil {
		s.Duration = 0
	}
	if s.Paused, err = p.getPropertyBool("pause"); err != nil {
		p.logger.Printf("mpv.EventLoop (%s): GetProperty %s -- %s", source, "pause", err.Error())
	}
	return s
}

func (p *Player) dispatch(events []session.MediaEvent) {
	if len(events) == 0 {
		return
	}

	p.mu.Lock()
	consumer := p.eventConsumer
	p.mu.Unlock()

	if consumer == nil {
		return
	}
	for _, event := range events {
		consumer.SendMediaEvent(event)
	}
}
