// Package progress delivers human-readable status messages from a running
// resolution to whoever started it: a terminal, a log, or a test.
//
// Messages are advisory. A Reporter must not block for long and has no way to
// influence the resolution it is reporting on.
package progress
