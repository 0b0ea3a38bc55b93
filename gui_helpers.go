// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"math"

	"github.com/rivo/tview"
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/session"
)

func makeModal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewGrid().
		SetColumns(0, width, 0).
		SetRows(0, height, 0).
		AddItem(p, 1, 1, 1, 1, 0, 0, true)
}

func formatPlayerStatus(state session.PlaybackState) string {
	volume := fmt.Sprintf("%d%%", int(math.Round(state.Volume*100)))
	if state.Muted {
		volume = "[gray]muted[-]"
	}

	positionMin, positionSec := secondsToMinAndSec(state.Position)
	durationMin, durationSec := secondsToMinAndSec(state.Duration)

	return fmt.Sprintf("[%s][::b][%02d:%02d/%02d:%02d]", volume, positionMin, positionSec, durationMin, durationSec)
}

func formatTransport(state session.PlaybackState) string {
	switch state.Transport {
	case session.StatePlaying:
		return "[green::b]Playing[::-]"
	case session.StatePaused:
		return "[yellow::b]Paused[::-]"
	case session.StateLoading:
		return "[blue::b]Loading[::-]"
	default:
		return "[red::b]Stopped[::-]"
	}
}

func formatEntryForStatusBar(entry *playlist.Entry) (text string) {
	if entry == nil {
		return
	}
	if entry.Title != "" {
		text += "[::-] [white]" + tview.Escape(entry.Title)
	}
	return
}

func formatEntryForList(entry playlist.Entry) string {
	return fmt.Sprintf("%-6s [gray]%-6s[white] %s", entry.Duration, entry.Kind, tview.Escape(entry.Title))
}
