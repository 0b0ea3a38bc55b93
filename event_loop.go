// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/session"
)

// SendEvent receives session events. Status snapshots may be dropped when
// the loop is behind, the next one supersedes them anyway.
func (ui *Ui) SendEvent(event session.UiEvent) {
	if event.Type == session.EventStatus {
		select {
		case ui.sessionEvents <- event:
		default:
		}
		return
	}
	ui.sessionEvents <- event
}

// handle ui updates
func (ui *Ui) guiEventLoop() {
	for {
		select {
		case msg := <-ui.logger.Prints:
			// handle log page output
			ui.logPage.Print(msg)

		case event := <-ui.sessionEvents:
			ui.handleSessionEvent(event)
		}
	}
}

func (ui *Ui) handleSessionEvent(event session.UiEvent) {
	switch event.Type {
	case session.EventStatus:
		state, ok := event.Data.(session.PlaybackState)
		if !ok {
			return
		}
		statusText := formatTransport(state) + formatEntryForStatusBar(ui.session.Current())

		if ui.mprisPlayer != nil {
			ui.mprisPlayer.OnPlaybackStatus(state.IsPlaying())
		}

		ui.app.QueueUpdateDraw(func() {
			ui.startStopStatus.SetText(statusText)
			ui.playerStatus.SetText(formatPlayerStatus(state))
		})

	case session.EventEntryChanged:
		entry, ok := event.Data.(playlist.Entry)
		if !ok {
			return
		}
		ui.logger.Printf("sessionEvent: loading %s", entry.URL)

		ui.app.QueueUpdateDraw(func() {
			ui.playlistPage.MarkCurrent(entry.ID)
		})

	default:
		ui.logger.Printf("guiEventLoop: unhandled sessionEvent %v", event)
	}
}
