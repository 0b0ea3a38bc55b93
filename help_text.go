package main

const helpPlayback = `
p/SPACE play/pause
,/.     seek -10/+10 seconds
-/=     volume down/volume up
m       mute/unmute
f       toggle fullscreen
a       add a video
`

const helpPagePlaylist = `
ENTER   play the selected video
RIGHT   focus the details pane
LEFT    back to the list
`

const helpPageLog = `
newest lines are on top
`

const helpAddVideo = `
TAB     next field
Add     add and play (title and url are required)
ESC     cancel
`
