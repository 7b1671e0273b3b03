// Package device is the HTTP client for an ESP-NOW light node's settings API.
//
// # Endpoints
//
//	GET /          settings page markup
//	GET /config    JSON configuration document
//	GET /setting   persist settings (query string, response ignored)
//	GET /restart   reboot the node (response ignored)
//
// # Configuration Response
//
// ConfigResponse keeps the keys of the /config object in document order so
// that placeholder substitution is deterministic. Values are kept in their
// textual form: strings verbatim, numbers and booleans as written, nested
// values as compact JSON.
//
// # Settings Submission
//
// Settings.Query builds the /setting query in a fixed parameter order:
//
//	deviceName, espnowNetName, ledType, coldWhitePin, warmWhitePin,
//	redPin, greenPin, bluePin
//
// Values are percent-encoded with spaces as %20, so a device name of "A B"
// is sent as deviceName=A%20B. The node's web server decodes parameters
// before use.
//
// # Load Guard
//
// Loader allows one outstanding /config request. A Load issued while
// another is running returns ErrLoadInFlight immediately.
package device
