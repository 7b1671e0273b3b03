// Package app is the composition root of the interactive panel.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read ~/.config/lightpanel/config.toml
//	       ├─────> prefs.Load()         Theme and last device
//	       ├─────> ResolveDevice()      --device, config, last device, default
//	       ├─────> logging.OpenFile()   zerolog JSON file, keeps the screen clean
//	       ├─────> device.NewClient()   HTTP client for the node
//	       ├─────> StartPoller()        Background config reloads
//	       └─────> ui.Run()             Bubble Tea panel (blocks)
//
// # Polling Behavior
//
// The poller reloads /config through the same device.Loader the UI uses, so
// an operator reload and a poll never overlap; whichever arrives second gets
// ErrLoadInFlight and is skipped. Results land in state.Store, which the UI
// reads on each tick. After a failure the next poll waits twice as long, up
// to 30 seconds, and the interval resets on the first success.
//
// # Error Handling
//
// Configuration, log file and client setup errors are returned from Run.
// Poll failures are logged and recorded in the store; they never stop the
// panel.
package app
