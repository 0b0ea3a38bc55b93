package main

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spezifisch/vidplay/logger"
	"github.com/spezifisch/vidplay/playlist"
	"github.com/spezifisch/vidplay/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSurface accepts everything and remembers the last source.
type stubSurface struct {
	source string
}

func (s *stubSurface) SetSource(url string) error                       { s.source = url; return nil }
func (s *stubSurface) CanPlayType(string) bool                          { return false }
func (s *stubSurface) Play() error                                      { return nil }
func (s *stubSurface) Pause() error                                     { return nil }
func (s *stubSurface) SetCurrentTime(float64) error                     { return nil }
func (s *stubSurface) Stop() error                                      { return nil }
func (s *stubSurface) SetVolume(float64) error                          { return nil }
func (s *stubSurface) RequestFullscreen() error                         { return nil }
func (s *stubSurface) ExitFullscreen() error                            { return nil }
func (s *stubSurface) IsFullscreen() (bool, error)                      { return false, nil }
func (s *stubSurface) RegisterEventConsumer(session.MediaEventConsumer) {}

func newTestUi(t *testing.T) (*Ui, *stubSurface) {
	t.Helper()

	videos, err := playlist.New(playlist.Defaults()...)
	require.NoError(t, err)

	surface := &stubSurface{}
	controller := session.NewController(session.Options{
		Surface: surface,
		Logger:  logger.Discard(),
		Volume:  1,
	})
	t.Cleanup(controller.Close)

	keys, err := newKeyMap(nil)
	require.NoError(t, err)

	ui := &Ui{
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		playlist: videos,
		session:  controller,
		logger:   logger.Discard(),
		keys:     keys,
	}
	ui.playlistPage = ui.createPlaylistPage()
	ui.addVideoWidget = ui.createAddVideoWidget()
	ui.helpWidget = ui.createHelpWidget()
	ui.playlistPage.UpdatePlaylist()
	return ui, surface
}

func TestAddVideoRejectsEmptyTitle(t *testing.T) {
	ui, surface := newTestUi(t)
	before := ui.playlist.Len()

	ui.ShowAddVideo()
	ui.addVideoWidget.urlField.SetText("/videos/new.mp4")
	ui.addVideoWidget.submit()

	assert.Equal(t, before, ui.playlist.Len(), "no entry is appended")
	assert.True(t, ui.addVideoWidget.visible, "the form stays open")
	assert.Contains(t, ui.addVideoWidget.message.GetText(true), "Please enter a video URL and title")
	assert.Empty(t, surface.source)
}

func TestAddVideoRejectsEmptyURL(t *testing.T) {
	ui, _ := newTestUi(t)
	before := ui.playlist.Len()

	ui.ShowAddVideo()
	ui.addVideoWidget.titleField.SetText("Holiday")
	ui.addVideoWidget.submit()

	assert.Equal(t, before, ui.playlist.Len())
	assert.True(t, ui.addVideoWidget.visible)
}

func TestAddVideoAppendsAndSelects(t *testing.T) {
	ui, surface := newTestUi(t)
	before := ui.playlist.Len()

	ui.ShowAddVideo()
	ui.addVideoWidget.titleField.SetText(" Holiday ")
	ui.addVideoWidget.urlField.SetText("/videos/holiday.mp4")
	ui.addVideoWidget.submit()

	require.Equal(t, before+1, ui.playlist.Len())
	assert.False(t, ui.addVideoWidget.visible, "the form closes")

	entries := ui.playlist.Entries()
	added := entries[len(entries)-1]
	assert.Equal(t, "Holiday", added.Title)
	assert.Equal(t, playlist.KindLocal, added.Kind)
	assert.Equal(t, playlist.DefaultDuration, added.Duration)
	assert.Equal(t, playlist.DefaultThumbnail, added.Thumbnail)

	assert.Equal(t, "/videos/holiday.mp4", surface.source)
	require.NotNil(t, ui.session.Current())
	assert.Equal(t, added.ID, ui.session.Current().ID)
	assert.Equal(t, before, ui.playlistPage.entryList.GetCurrentItem())
}

func TestAddVideoReset(t *testing.T) {
	ui, _ := newTestUi(t)

	ui.addVideoWidget.titleField.SetText("x")
	ui.addVideoWidget.message.SetText("old")
	ui.ShowAddVideo()

	assert.Equal(t, "", ui.addVideoWidget.titleField.GetText())
	assert.Equal(t, "", ui.addVideoWidget.message.GetText(true))
}

func TestAddVideoErrorText(t *testing.T) {
	assert.Equal(t, "Please enter a video URL and title", addVideoErrorText(playlist.ErrMissingTitle))
	assert.Equal(t, "boom", addVideoErrorText(errors.New("boom")))
}

func TestPlaylistPageSelect(t *testing.T) {
	ui, surface := newTestUi(t)
	entry, err := ui.playlist.Add(playlist.AddRequest{
		Title: "Holiday",
		URL:   "/videos/holiday.mp4",
		Kind:  playlist.KindLocal,
	})
	require.NoError(t, err)
	ui.playlistPage.UpdatePlaylist()

	ui.playlistPage.handleEntrySelected(ui.playlist.Len() - 1)
	require.NotNil(t, ui.session.Current())
	assert.Equal(t, entry.ID, ui.session.Current().ID)
	assert.Equal(t, "/videos/holiday.mp4", surface.source)

	// out of range keeps the current entry
	ui.playlistPage.handleEntrySelected(99)
	assert.Equal(t, entry.ID, ui.session.Current().ID)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestPageInputFollowsKeyBindings(t *testing.T) {
	ui, _ := newTestUi(t)

	assert.Nil(t, ui.handlePageInput(runeKey('m')))
	assert.True(t, ui.session.State().Muted)
	assert.NotNil(t, ui.handlePageInput(runeKey('z')), "unbound keys pass through")

	keys, err := newKeyMap(map[string][]string{cmdToggleMute: {"x"}})
	require.NoError(t, err)
	ui.keys = keys

	assert.NotNil(t, ui.handlePageInput(runeKey('m')), "a rebound command loses its default key")
	assert.True(t, ui.session.State().Muted)
	assert.Nil(t, ui.handlePageInput(runeKey('x')))
	assert.False(t, ui.session.State().Muted)
}

func TestPageInputIgnoredWhileAddingVideo(t *testing.T) {
	ui, _ := newTestUi(t)
	ui.ShowAddVideo()

	assert.NotNil(t, ui.handlePageInput(runeKey('m')))
	assert.False(t, ui.session.State().Muted)
}

func TestFormatPlayerStatus(t *testing.T) {
	assert.Equal(t, "[50%][::b][01:05/10:00]", formatPlayerStatus(session.PlaybackState{
		Volume:   0.5,
		Position: 65,
		Duration: 600,
	}))
	assert.Equal(t, "[[gray]muted[-]][::b][00:00/00:00]", formatPlayerStatus(session.PlaybackState{
		Muted:    true,
		Position: -3,
	}))
}

func TestFormatTransport(t *testing.T) {
	assert.Contains(t, formatTransport(session.PlaybackState{Transport: session.StatePlaying}), "Playing")
	assert.Contains(t, formatTransport(session.PlaybackState{Transport: session.StatePaused}), "Paused")
	assert.Contains(t, formatTransport(session.PlaybackState{Transport: session.StateLoading}), "Loading")
	assert.Contains(t, formatTransport(session.PlaybackState{}), "Stopped")
}

func TestSecondsToMinAndSec(t *testing.T) {
	m, s := secondsToMinAndSec(125.7)
	assert.Equal(t, 2, m)
	assert.Equal(t, 5, s)

	m, s = secondsToMinAndSec(-1)
	assert.Equal(t, 0, m)
	assert.Equal(t, 0, s)
}
