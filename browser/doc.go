// Package browser attaches ghost-text prediction to an <input> or
// <textarea> in a Chromium page driven by go-rod.
//
// The controller runs in Go. Page-side listeners report input, keydown,
// blur and resize through an exposed binding, and the mirror lives in a
// shadow root appended to document.body. The accept key's default action
// is suppressed in the page while a prediction is on screen, since a round
// trip to Go would arrive too late to cancel it.
package browser
