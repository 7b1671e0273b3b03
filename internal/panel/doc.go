// Package panel implements the settings page logic of a light node: loading
// the configuration into the page markup, populating the form controls and
// reading them back for submission.
//
// # Page Load
//
//	markup ──Substitute──> markup with {{key}} replaced
//	       ──Parse──────> Document
//	       ──Populate───> version text + selects set from hidden inputs
//
// Substitute is literal string replacement over the whole markup, one key at
// a time in response order. A placeholder whose key is missing from the
// response stays in the output untouched; Unresolved lists those keys.
//
// Populate and the form accessors bind to explicit elements by id rather than
// to markup positions. A missing id yields an error wrapping
// ErrElementNotFound.
package panel
