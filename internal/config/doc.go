// Package config loads lightpanel's TOML configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lightpanel/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # TOML Format
//
//	device = "192.168.4.1"     # host[:port] or URL of the light node
//	timeout_seconds = 5        # per-request timeout
//	poll_seconds = 10          # background reachability poll in the TUI
//	log_file = "~/.local/state/lightpanel/lightpanel.log"
//	template = ""              # local page markup for render (optional)
//
// Paths support tilde expansion and are made absolute.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files and
// invalid TOML ("parse config: ..."). A missing file is not an error.
package config
