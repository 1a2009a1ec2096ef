// Package daemon wires the transcription services together: it owns the
// mutable configuration, enforces single-instance execution, runs the job
// manager, and serves the HTTP API the CLI talks to.
package daemon
