// Package services holds the error taxonomy and the shared process executor
// used by the external-tool clients.
package services
