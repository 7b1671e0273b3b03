// Package logtail reads the tail of the panel's log file and formats its
// zerolog JSON entries for the terminal.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays bounded
// regardless of file size. Format turns
//
//	{"level":"info","device":"192.168.4.1","time":"...","message":"config loaded"}
//
// into
//
//	14:03:11 INFO  config loaded device=192.168.4.1
package logtail
