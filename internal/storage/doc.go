// Package storage wraps the MinIO object-store holding recorded meeting
// audio. It exposes prefix listing, object download, and a reachability
// check that never surfaces expected failures as errors.
package storage
