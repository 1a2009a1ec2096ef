// Package logging constructs the slog loggers used across meetingscribe.
// It provides a console handler for interactive use and a JSON handler for
// machine-readable daemon logs.
package logging
