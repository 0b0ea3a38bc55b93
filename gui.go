// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/mpvplayer"
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/remote"
	"github.com/spezifisch/vidplay/session"
)

// struct contains all the updatable elements of the Ui
type Ui struct {
	app   *tview.Application
	pages *tview.Pages

	// top bar
	startStopStatus *tview.TextView
	playerStatus    *tview.TextView

	// bottom bar
	menuWidget *MenuWidget

	// playlist page
	playlistPage *PlaylistPage

	// log page
	logPage *LogPage

	// modals
	messageBox     *tview.Modal
	helpModal      tview.Primitive
	helpWidget     *HelpWidget
	addVideoModal  tview.Primitive
	addVideoWidget *AddVideoWidget

	// nil when thumbnails are disabled
	thumbnails *Cache[image.Image]

	sessionEvents chan session.UiEvent
	mprisPlayer   *remote.MprisPlayer
	keys          keyMap

	playlist *playlist.Playlist
	session  *session.Controller
	player   *mpvplayer.Player
	logger   *logger.Logger
}

const (
	// page identifiers (use these instead of hardcoding page names for showing/hiding)
	PagePlaylist = "playlist"
	PageLog      = "log"

	PageAddVideo   = "addVideo"
	PageMessageBox = "messageBox"
	PageHelpBox    = "helpBox"
)

func InitGui(videos *playlist.Playlist,
	controller *session.Controller,
	player *mpvplayer.Player,
	logger *logger.Logger,
	mprisPlayer *remote.MprisPlayer,
	keys keyMap,
	showThumbnails bool) (ui *Ui) {
	ui = &Ui{
		sessionEvents: make(chan session.UiEvent, 100),
		keys:          keys,

		playlist:    videos,
		session:     controller,
		player:      player,
		logger:      logger,
		mprisPlayer: mprisPlayer,
	}

	ui.app = tview.NewApplication()
	ui.pages = tview.NewPages()

	if showThumbnails {
		ui.thumbnails = newThumbnailCache(nil, func(url string, img image.Image) {
			ui.app.QueueUpdateDraw(func() {
				ui.playlistPage.thumbnailFetched(url, img)
			})
		}, logger)
	}

	// status text at the top
	statusLeft := fmt.Sprintf("[::b]%s[::-] v%s", Name, Version)
	ui.startStopStatus = tview.NewTextView().SetText(statusLeft).
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetScrollable(false)
	ui.startStopStatus.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		return action, nil
	})

	statusRight := formatPlayerStatus(controller.State())
	ui.playerStatus = tview.NewTextView().SetText(statusRight).
		SetTextAlign(tview.AlignRight).
		SetDynamicColors(true).
		SetScrollable(false)

	ui.menuWidget = ui.createMenuWidget()
	ui.helpWidget = ui.createHelpWidget()
	ui.addVideoWidget = ui.createAddVideoWidget()

	// message box for small notes
	ui.messageBox = tview.NewModal().
		SetText("hi there").
		SetBackgroundColor(tcell.ColorBlack)
	ui.messageBox.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		ui.pages.HidePage(PageMessageBox)
		return event
	})

	// help box modal
	ui.helpModal = makeModal(ui.helpWidget.Root, 80, 30)
	ui.helpWidget.Root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// only ESC closes, like the help text says
		if ui.helpWidget.visible && (event.Key() == tcell.KeyEscape) {
			ui.CloseHelp()
		}
		return event
	})

	ui.addVideoModal = makeModal(ui.addVideoWidget.Root, 70, 13)

	// top bar: status text
	topBarFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(ui.startStopStatus, 0, 1, false).
		AddItem(ui.playerStatus, 24, 0, false)

	// playlist page
	ui.playlistPage = ui.createPlaylistPage()

	// log page
	ui.logPage = ui.createLogPage()

	ui.pages.AddPage(PagePlaylist, ui.playlistPage.Root, true, true).
		AddPage(PageAddVideo, ui.addVideoModal, true, false).
		AddPage(PageMessageBox, ui.messageBox, true, false).
		AddPage(PageHelpBox, ui.helpModal, true, false).
		AddPage(PageLog, ui.logPage.Root, true, false)

	rootFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topBarFlex, 1, 0, false).
		AddItem(ui.pages, 0, 1, true).
		AddItem(ui.menuWidget.Root, 1, 0, false)

	// add main input handler
	rootFlex.SetInputCapture(ui.handlePageInput)

	ui.app.SetRoot(rootFlex, true).
		SetFocus(rootFlex).
		EnableMouse(true)

	ui.playlistPage.UpdatePlaylist()

	return ui
}

func (ui *Ui) Run() error {
	// receive events from the playback session
	ui.session.RegisterEventConsumer(ui)

	// run gui event handler
	go ui.guiEventLoop()

	// run mpv event handler
	go ui.player.EventLoop()

	// gui main loop (blocking)
	return ui.app.Run()
}

func (ui *Ui) ShowHelp() {
	activePage := ui.menuWidget.GetActivePage()
	ui.helpWidget.RenderHelp(activePage)

	ui.pages.ShowPage(PageHelpBox)
	ui.pages.SendToFront(PageHelpBox)
	ui.app.SetFocus(ui.helpModal)
	ui.helpWidget.visible = true
}

func (ui *Ui) CloseHelp() {
	ui.helpWidget.visible = false
	ui.pages.HidePage(PageHelpBox)
}

func (ui *Ui) ShowAddVideo() {
	ui.addVideoWidget.Reset()
	ui.pages.ShowPage(PageAddVideo)
	ui.pages.SendToFront(PageAddVideo)
	ui.app.SetFocus(ui.addVideoWidget.Root)
	ui.addVideoWidget.visible = true
}

func (ui *Ui) CloseAddVideo() {
	ui.addVideoWidget.visible = false
	ui.pages.HidePage(PageAddVideo)
	ui.app.SetFocus(ui.playlistPage.Root)
}

func (ui *Ui) showMessageBox(text string) {
	ui.pages.ShowPage(PageMessageBox)
	ui.messageBox.SetText(text)
	ui.app.SetFocus(ui.messageBox)
}
