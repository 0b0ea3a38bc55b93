// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spezifisch/vidplay/playlist"
)

const thumbnailRows = 10

type PlaylistPage struct {
	Root *tview.Flex

	entryList *tview.List
	detailBox *tview.Flex
	thumbnail *tview.Image
	details   *tview.TextView

	// snapshot of the playlist shown in entryList
	entries   []playlist.Entry
	currentID string

	// external refs
	ui *Ui
}

func (ui *Ui) createPlaylistPage() *PlaylistPage {
	playlistPage := PlaylistPage{
		ui: ui,
	}

	playlistPage.entryList = tview.NewList().
		ShowSecondaryText(false).
		SetSelectedFocusOnly(true)
	playlistPage.entryList.Box.
		SetTitle(" videos ").
		SetTitleAlign(tview.AlignLeft).
		SetBorder(true)

	playlistPage.details = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true)
	playlistPage.details.Box.
		SetTitle(" details ").
		SetTitleAlign(tview.AlignLeft).
		SetBorder(true)

	playlistPage.thumbnail = tview.NewImage()
	playlistPage.detailBox = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(playlistPage.thumbnail, 0, 0, false).
		AddItem(playlistPage.details, 0, 1, false)

	playlistPage.entryList.SetChangedFunc(func(index int, _ string, _ string, _ rune) {
		playlistPage.showDetails(index)
	})
	playlistPage.entryList.SetSelectedFunc(func(index int, _ string, _ string, _ rune) {
		playlistPage.handleEntrySelected(index)
	})

	playlistPage.Root = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(playlistPage.entryList, 0, 2, true).
		AddItem(playlistPage.detailBox, 0, 1, false)

	playlistPage.entryList.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRight {
			ui.app.SetFocus(playlistPage.details)
			return nil
		}
		return event
	})
	playlistPage.details.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyLeft || event.Key() == tcell.KeyEscape {
			ui.app.SetFocus(playlistPage.entryList)
			return nil
		}
		return event
	})

	return &playlistPage
}

// UpdatePlaylist redraws the list from the playlist, keeping the cursor.
func (p *PlaylistPage) UpdatePlaylist() {
	cursor := p.entryList.GetCurrentItem()

	p.entries = p.ui.playlist.Entries()
	p.entryList.Clear()
	for _, entry := range p.entries {
		p.entryList.AddItem(p.formatEntry(entry), "", 0, nil)
	}

	if cursor >= 0 && cursor < len(p.entries) {
		p.entryList.SetCurrentItem(cursor)
	}
	p.showDetails(p.entryList.GetCurrentItem())
}

// Focus moves the cursor to the entry with id.
func (p *PlaylistPage) Focus(id string) {
	for i, entry := range p.entries {
		if entry.ID == id {
			p.entryList.SetCurrentItem(i)
			return
		}
	}
}

// MarkCurrent highlights the entry that is loaded in the session.
func (p *PlaylistPage) MarkCurrent(id string) {
	p.currentID = id
	for i, entry := range p.entries {
		p.entryList.SetItemText(i, p.formatEntry(entry), "")
	}
}

func (p *PlaylistPage) formatEntry(entry playlist.Entry) string {
	text := formatEntryForList(entry)
	if entry.ID == p.currentID {
		text = "[green]▶[white] " + text
	} else {
		text = "  " + text
	}
	return text
}

func (p *PlaylistPage) handleEntrySelected(index int) {
	if index < 0 || index >= len(p.entries) {
		return
	}
	p.ui.selectEntry(p.entries[index])
}

func (p *PlaylistPage) showDetails(index int) {
	if index < 0 || index >= len(p.entries) {
		p.details.SetText("")
		return
	}
	entry := p.entries[index]
	p.details.SetText(formatEntryDetails(entry))
	p.showThumbnail(entry.Thumbnail)
}

// showThumbnail shows the cached thumbnail, or hides the image until the
// cache has fetched it.
func (p *PlaylistPage) showThumbnail(url string) {
	var img image.Image
	if p.ui.thumbnails != nil && url != "" {
		img = p.ui.thumbnails.Get(url)
	}
	if img == nil {
		p.detailBox.ResizeItem(p.thumbnail, 0, 0)
		return
	}
	p.thumbnail.SetImage(img)
	p.detailBox.ResizeItem(p.thumbnail, thumbnailRows, 0)
}

// thumbnailFetched is called on the ui goroutine when an image arrived.
func (p *PlaylistPage) thumbnailFetched(url string, img image.Image) {
	index := p.entryList.GetCurrentItem()
	if index < 0 || index >= len(p.entries) || p.entries[index].Thumbnail != url {
		return
	}
	p.thumbnail.SetImage(img)
	p.detailBox.ResizeItem(p.thumbnail, thumbnailRows, 0)
}

func formatEntryDetails(entry playlist.Entry) string {
	return "[::b]" + tview.Escape(entry.Title) + "[::-]\n\n" +
		"[gray]duration:[white]  " + tview.Escape(entry.Duration) + "\n" +
		"[gray]type:[white]      " + tview.Escape(entry.Kind.String()) + "\n" +
		"[gray]url:[white]       " + tview.Escape(entry.URL) + "\n" +
		"[gray]thumbnail:[white] " + tview.Escape(entry.Thumbnail) + "\n"
}
