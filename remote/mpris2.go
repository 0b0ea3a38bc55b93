// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/spezifisch/vidplay/logger"
)

const (
	objectPath      = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
	busName         = "org.mpris.MediaPlayer2.vidplay"
	trackPathPrefix = "/org/spezifisch/vidplay/track/"
	noTrackPath     = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
)

type MprisPlayer struct {
	dbus   *dbus.Conn
	props  *prop.Properties
	player ControlledPlayer
	logger logger.LoggerInterface

	mu      sync.Mutex
	current TrackInterface
}

func RegisterMprisPlayer(player ControlledPlayer, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return
	}

	mpp = &MprisPlayer{
		dbus:   conn,
		player: player,
		logger: logger_,
	}

	err = conn.ExportAll(mpp, objectPath, playerInterface)
	if err != nil {
		return
	}

	var mprisPlayer = map[string]*prop.Prop{
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: metadataFor(nil), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Volume":         {Value: float64(1.0), Writable: true, Emit: prop.EmitTrue, Callback: mpp.volumeChange},
		"PlaybackStatus": {Value: playbackStatus(false), Writable: false, Emit: prop.EmitTrue, Callback: nil},
	}

	var mediaPlayer = map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: "vidplay", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: []string{"file", "http", "https"}, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: []string{"application/vnd.apple.mpegurl", "video/mp4"}, Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	props, err := prop.Export(
		conn,
		objectPath,
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2": mediaPlayer,
			playerInterface:          mprisPlayer,
		},
	)
	if err != nil {
		return
	}
	mpp.props = props

	n := &introspect.Node{
		Name: objectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       playerInterface,
				Methods:    introspect.Methods(mpp),
				Properties: props.Introspection(playerInterface), // we implement the standard interface
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(n), objectPath, "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return
	}

	// our unique name
	reply, err := conn.RequestName(busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		err = errors.New("name already owned")
		return
	}
	return
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpp Close", err)
	}
}

// Mandatory functions
func (m *MprisPlayer) Stop() {
	if err := m.player.Pause(); err != nil {
		m.logger.PrintError("mpp Stop", err)
	}
}

// set paused
func (m *MprisPlayer) Pause() {
	if err := m.player.Pause(); err != nil {
		m.logger.PrintError("mpp Pause", err)
	}
}

// set playing
func (m *MprisPlayer) Play() {
	if err := m.player.Play(); err != nil {
		m.logger.PrintError("mpp Play", err)
	}
}

func (m *MprisPlayer) PlayPause() {
	if err := m.player.TogglePlay(); err != nil {
		m.logger.PrintError("mpp PlayPause", err)
	}
}

// Next and Previous have nothing to go to, the session plays single entries.
func (m *MprisPlayer) Next() {}

func (m *MprisPlayer) Previous() {}

func (m *MprisPlayer) OpenUri(string) {
	m.logger.Print("mpris: OpenUri is not supported")
}

// Seek moves by offset microseconds.
func (m *MprisPlayer) Seek(offset int64) *dbus.Error {
	if err := m.player.SeekRelative(microsToSeconds(offset)); err != nil {
		m.logger.PrintError("mpp Seek", err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

// SetPosition seeks to position microseconds if trackID is still current.
func (m *MprisPlayer) SetPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()

	if current == nil || trackID != trackObjectPath(current.GetID()) {
		m.logger.Printf("mpris: ignoring SetPosition for stale track %s", trackID)
		return nil
	}
	if position < 0 || (current.Length() > 0 && microsToDuration(position) > current.Length()) {
		return nil
	}
	if err := m.player.Seek(microsToSeconds(position)); err != nil {
		m.logger.PrintError("mpp SetPosition", err)
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (m *MprisPlayer) volumeChange(c *prop.Change) *dbus.Error {
	fVol, ok := c.Value.(float64)
	if !ok {
		return prop.ErrInvalidArg
	}

	if err := m.player.SetVolume(fVol); err != nil {
		m.logger.PrintError("volumeChange", err)
	} else {
		m.logger.Printf("mpris: adjust volume %f", fVol)
	}
	return nil
}

// OnEntryChange publishes the metadata of a newly loaded entry.
func (m *MprisPlayer) OnEntryChange(track TrackInterface) {
	m.mu.Lock()
	m.current = track
	m.mu.Unlock()

	metadata := metadataFor(track)
	m.logger.Printf("mpris: Emitting PropertiesChanged with metadata: %+v", metadata)
	m.props.SetMust(playerInterface, "Metadata", metadata)
}

// OnPlaybackStatus publishes whether the surface is playing.
func (m *MprisPlayer) OnPlaybackStatus(playing bool) {
	status := playbackStatus(playing)
	if current, ok := m.props.GetMust(playerInterface, "PlaybackStatus").(string); ok && current == status {
		return
	}
	m.props.SetMust(playerInterface, "PlaybackStatus", status)
}

func metadataFor(track TrackInterface) map[string]dbus.Variant {
	trackID := dbus.ObjectPath(noTrackPath)
	var title string
	var length time.Duration
	if track != nil && track.IsValid() {
		trackID = trackObjectPath(track.GetID())
		title = track.GetTitle()
		length = track.Length()
	}

	return map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackID),
		"mpris:length":  dbus.MakeVariant(length.Microseconds()),
		"xesam:title":   dbus.MakeVariant(title),
	}
}

// trackObjectPath maps an entry ID onto the D-Bus object path charset.
func trackObjectPath(id string) dbus.ObjectPath {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x", r)
		}
	}
	if sb.Len() == 0 {
		return noTrackPath
	}
	return dbus.ObjectPath(trackPathPrefix + sb.String())
}

func playbackStatus(playing bool) string {
	if playing {
		return "Playing"
	}
	return "Paused"
}

func microsToSeconds(us int64) float64 {
	return float64(us) / float64(time.Second/time.Microsecond)
}

func microsToDuration(us int64) time.Duration {
	return time.Duration(us) * time.Microsecond
}
