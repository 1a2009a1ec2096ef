// Package config loads, validates, and persists meetingscribe configuration.
//
// Loading never fails the caller: a missing, unreadable, or malformed file
// yields the built-in defaults so recoverable user data on disk is not
// clobbered until the next explicit save. Saves go through a coalescing
// Saver so the newest value always wins when updates arrive faster than
// disk writes complete.
package config
