// Package ux provides the presentation rules of the interactive chat.
//
// It is a pure layer over engine replies and never changes what the engine
// produced. It provides:
//
//   - Typing playback plans (line by line for lists, word by word otherwise)
//   - Code block placement around the reply text
//   - Theme and mode preferences persisted through the chat store
//
// Nothing here sleeps or draws; the TUI schedules the frames it is given.
package ux
