// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
)

// commands the page input handler understands
const (
	cmdPagePlaylist     = "page-playlist"
	cmdPageLog          = "page-log"
	cmdHelp             = "help"
	cmdQuit             = "quit"
	cmdAddVideo         = "add-video"
	cmdTogglePlay       = "toggle-play"
	cmdVolumeDown       = "volume-down"
	cmdVolumeUp         = "volume-up"
	cmdToggleMute       = "toggle-mute"
	cmdSeekForward      = "seek-forward"
	cmdSeekBack         = "seek-back"
	cmdToggleFullscreen = "toggle-fullscreen"
)

// keySpace names the space bar, which has no printable name of its own.
const keySpace = "Space"

var defaultBindings = map[string][]string{
	cmdPagePlaylist:     {"1"},
	cmdPageLog:          {"2"},
	cmdHelp:             {"?"},
	cmdQuit:             {"Q"},
	cmdAddVideo:         {"a"},
	cmdTogglePlay:       {"p", keySpace},
	cmdVolumeDown:       {"-"},
	cmdVolumeUp:         {"+", "="},
	cmdToggleMute:       {"m"},
	cmdSeekForward:      {"."},
	cmdSeekBack:         {","},
	cmdToggleFullscreen: {"f"},
}

// keyMap maps key names to command names.
type keyMap map[string]string

// newKeyMap applies bindings on top of the defaults. A command listed in
// bindings loses its default keys.
func newKeyMap(bindings map[string][]string) (keyMap, error) {
	byCommand := make(map[string][]string, len(defaultBindings))
	for command, keys := range defaultBindings {
		byCommand[command] = keys
	}
	for command, keys := range bindings {
		if _, ok := defaultBindings[command]; !ok {
			return nil, fmt.Errorf("unknown command %q", command)
		}
		byCommand[command] = keys
	}

	// sorted so a conflict is always reported the same way
	commands := make([]string, 0, len(byCommand))
	for command := range byCommand {
		commands = append(commands, command)
	}
	sort.Strings(commands)

	keys := make(keyMap)
	for _, command := range commands {
		for _, key := range byCommand[command] {
			if other, ok := keys[key]; ok && other != command {
				return nil, fmt.Errorf("key %q is bound to both %q and %q", key, other, command)
			}
			keys[key] = command
		}
	}
	return keys, nil
}

// loadKeyMap reads the [ui.keys] table, e.g. quit = "q" or
// toggle-play = ["p", "Space"].
func loadKeyMap() (keyMap, error) {
	return newKeyMap(viper.GetStringMapStringSlice("ui.keys"))
}

// Command returns the command bound to event.
func (k keyMap) Command(event *tcell.EventKey) (string, bool) {
	command, ok := k[keyName(event)]
	return command, ok
}

func keyName(event *tcell.EventKey) string {
	if event.Key() != tcell.KeyRune {
		return event.Name()
	}
	if event.Rune() == ' ' {
		return keySpace
	}
	return string(event.Rune())
}
