// Package state holds the latest node configuration shared between the
// background poller and the UI.
//
//	Poller:                        UI:
//	  Loader.Load()                  store.Snapshot()
//	  store.Update(cfg, err) ──────→   render header/status
//
// Update with an error keeps the previous configuration and increments
// ConsecutiveFailures; a successful update resets it. Snapshot returns a copy
// so callers never share the stored response.
package state
