// Package ui is the terminal interface for the student records client.
//
// Core abstractions:
//   - View: A screen or major UI region with its own model, update, view (Elm-style)
//   - Overlay: Modal or popup views with dismiss key
//   - Notification: The single transient banner for all outcome messages
//
// All backend I/O happens in command closures; the update loop only ever
// sees typed messages, so every screen stays a pure state transition over
// an explicit model.
package ui
