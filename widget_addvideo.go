// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"errors"

	"github.com/rivo/tview"
	"github.com/spezifisch/vidplay/playlist"
)

var addVideoKinds = []string{
	string(playlist.KindLocal),
	string(playlist.KindM3U8),
	string(playlist.KindStream),
}

type AddVideoWidget struct {
	Root *tview.Flex

	form       *tview.Form
	typeField  *tview.DropDown
	titleField *tview.InputField
	urlField   *tview.InputField
	message    *tview.TextView

	// visible reflects whether the modal is shown
	visible bool

	// external references
	ui *Ui
}

func (ui *Ui) createAddVideoWidget() (w *AddVideoWidget) {
	w = &AddVideoWidget{
		ui: ui,
	}

	w.typeField = tview.NewDropDown().
		SetLabel("Type").
		SetOptions(addVideoKinds, nil).
		SetCurrentOption(0)
	w.titleField = tview.NewInputField().
		SetLabel("Title").
		SetFieldWidth(50)
	w.urlField = tview.NewInputField().
		SetLabel("URL").
		SetFieldWidth(50)

	w.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	w.form = tview.NewForm().
		AddFormItem(w.typeField).
		AddFormItem(w.titleField).
		AddFormItem(w.urlField).
		AddButton("Add", w.submit).
		AddButton("Cancel", ui.CloseAddVideo).
		SetCancelFunc(ui.CloseAddVideo)

	w.Root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.form, 0, 1, true).
		AddItem(w.message, 1, 0, false)
	w.Root.Box.SetBorder(true).SetTitle(" Add video ")

	return
}

// Reset clears the form for a new entry.
func (w *AddVideoWidget) Reset() {
	w.typeField.SetCurrentOption(0)
	w.titleField.SetText("")
	w.urlField.SetText("")
	w.message.SetText("")
	w.form.SetFocus(0)
}

// submit adds the entry and closes the modal. Validation failures keep the
// modal open and show what is missing.
func (w *AddVideoWidget) submit() {
	_, kind := w.typeField.GetCurrentOption()

	if _, err := w.ui.addVideo(playlist.AddRequest{
		Title: w.titleField.GetText(),
		URL:   w.urlField.GetText(),
		Kind:  playlist.Kind(kind),
	}); err != nil {
		w.message.SetText("[red]" + tview.Escape(addVideoErrorText(err)))
		return
	}

	w.message.SetText("")
	w.ui.CloseAddVideo()
}

func addVideoErrorText(err error) string {
	if errors.Is(err, playlist.ErrMissingTitle) || errors.Is(err, playlist.ErrMissingURL) {
		return "Please enter a video URL and title"
	}
	return err.Error()
}
