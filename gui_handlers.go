// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/session"
)

const (
	seekStep   = 10.0
	volumeStep = 0.05
)

func (ui *Ui) handlePageInput(event *tcell.EventKey) *tcell.EventKey {
	// we don't want any of these firing while typing into the add-video form
	if ui.addVideoWidget.visible || ui.helpWidget.visible {
		return event
	}

	command, ok := ui.keys.Command(event)
	if !ok {
		return event
	}
	ui.runCommand(command)
	return nil
}

func (ui *Ui) runCommand(command string) {
	switch command {
	case cmdPagePlaylist:
		ui.ShowPage(PagePlaylist)

	case cmdPageLog:
		ui.ShowPage(PageLog)

	case cmdHelp:
		ui.ShowHelp()

	case cmdQuit:
		ui.Quit()

	case cmdAddVideo:
		ui.ShowAddVideo()

	case cmdTogglePlay:
		ui.logSessionError("TogglePlay", ui.session.TogglePlay())

	case cmdVolumeDown:
		ui.logSessionError("AdjustVolume-", ui.session.AdjustVolume(-volumeStep))

	case cmdVolumeUp:
		ui.logSessionError("AdjustVolume+", ui.session.AdjustVolume(volumeStep))

	case cmdToggleMute:
		ui.logSessionError("ToggleMute", ui.session.ToggleMute())

	case cmdSeekForward:
		// >>
		ui.logSessionError("Seek+", ui.session.SeekRelative(seekStep))

	case cmdSeekBack:
		// <<
		ui.logSessionError("Seek-", ui.session.SeekRelative(-seekStep))

	case cmdToggleFullscreen:
		ui.logSessionError("ToggleFullscreen", ui.session.ToggleFullscreen())

	default:
		ui.logger.Printf("runCommand: unknown command %q", command)
	}
}

// logSessionError logs err unless it just means nothing is loaded yet.
func (ui *Ui) logSessionError(source string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, session.ErrNoSource) {
		ui.logger.Printf("%s: select a video first", source)
		return
	}
	ui.logger.PrintError("handlePageInput: "+source, err)
}

func (ui *Ui) ShowPage(name string) {
	ui.pages.SwitchToPage(name)
	ui.menuWidget.SetActivePage(name)
	_, prim := ui.pages.GetFrontPage()
	ui.app.SetFocus(prim)
}

func (ui *Ui) Quit() {
	// tears down the stream engine exactly once
	ui.session.Close()
	ui.player.Quit()
	if ui.thumbnails != nil {
		ui.thumbnails.Close()
	}
	ui.app.Stop()
}

func (ui *Ui) selectEntry(entry playlist.Entry) {
	ui.session.Select(&entry)
}

// addVideo validates and appends a new entry, then selects it.
func (ui *Ui) addVideo(req playlist.AddRequest) (playlist.Entry, error) {
	entry, err := ui.playlist.Add(req)
	if err != nil {
		return playlist.Entry{}, err
	}
	ui.logger.Printf("added %q (%s)", entry.Title, entry.Kind)
	ui.playlistPage.UpdatePlaylist()
	ui.playlistPage.Focus(entry.ID)
	ui.selectEntry(entry)
	return entry, nil
}
