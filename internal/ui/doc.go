// Package ui provides the terminal settings panel for a light node.
//
// # Architecture Overview
//
// The panel is a single Bubble Tea model. A header shows the node state
// (online, offline, loading, saving, restarting), its address, firmware
// version and the last load error. Below it a command bar lists the action
// keys, followed by the settings form:
//
//   - Device name and ESP-NOW network name as text inputs
//   - LED type and the five channel GPIO pins as selects cycled with ←/→
//
// # Data Flow
//
// The form is filled from the first successful config load, either the
// explicit load issued by Init or the background poller's result read from
// state.Store on each tick. Later polls only refresh the header; they never
// overwrite edits in progress. ctrl+l reloads explicitly and replaces the form.
//
// Saving submits the form through device.API and always ends in a modal
// asking the operator to restart the node, whether or not the request
// succeeded. Restart is independent of the form.
//
// All network calls run as tea.Cmds so the event loop never blocks.
package ui
