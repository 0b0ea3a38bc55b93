package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	keys, err := newKeyMap(nil)
	require.NoError(t, err)

	tests := map[rune]string{
		'1': cmdPagePlaylist,
		'Q': cmdQuit,
		'p': cmdTogglePlay,
		' ': cmdTogglePlay,
		'=': cmdVolumeUp,
		'+': cmdVolumeUp,
		',': cmdSeekBack,
		'.': cmdSeekForward,
	}
	for r, want := range tests {
		got, ok := keys.Command(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		assert.True(t, ok, "%q", r)
		assert.Equal(t, want, got, "%q", r)
	}

	_, ok := keys.Command(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	assert.False(t, ok, "quit is upper case only")
}

func TestKeyMapOverrides(t *testing.T) {
	keys, err := newKeyMap(map[string][]string{
		cmdQuit:       {"q", "Ctrl+Q"},
		cmdTogglePlay: {keySpace},
	})
	require.NoError(t, err)

	assert.Equal(t, cmdQuit, keys["q"])
	assert.Equal(t, cmdQuit, keys["Ctrl+Q"])
	assert.NotContains(t, keys, "Q")
	assert.NotContains(t, keys, "p")
	assert.Equal(t, cmdTogglePlay, keys[keySpace])
	assert.Equal(t, cmdToggleMute, keys["m"], "other defaults stay")
}

func TestKeyMapRejectsBadBindings(t *testing.T) {
	_, err := newKeyMap(map[string][]string{"explode": {"x"}})
	assert.ErrorContains(t, err, `unknown command "explode"`)

	_, err = newKeyMap(map[string][]string{cmdQuit: {"m"}})
	assert.ErrorContains(t, err, `key "m" is bound to both`)
}

func TestKeyNameOfSpecialKeys(t *testing.T) {
	assert.Equal(t, keySpace, keyName(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	assert.Equal(t, "a", keyName(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.Equal(t, "F1", keyName(tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone)))
}

func TestLoadKeyMapFromConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	config := writeConfig(t, `
[ui.keys]
quit = "q"
toggle-play = ["p", "Space"]
`)
	require.NoError(t, readConfig(&config))

	keys, err := loadKeyMap()
	require.NoError(t, err)
	assert.Equal(t, cmdQuit, keys["q"])
	assert.Equal(t, cmdTogglePlay, keys[keySpace])
}
