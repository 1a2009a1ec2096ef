package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConnectivity marks object-store reachability failures.
	ErrConnectivity = errors.New("connectivity error")
	// ErrCatalog marks meeting listing failures.
	ErrCatalog = errors.New("catalog error")
	// ErrConflict marks a start request rejected because a job is active.
	ErrConflict = errors.New("conflict error")
	// ErrFetch marks audio download failures.
	ErrFetch = errors.New("fetch error")
	// ErrExtraction marks audio extraction tool failures.
	ErrExtraction = errors.New("extraction error")
	// ErrRecognition marks speech recognition engine failures.
	ErrRecognition = errors.New("recognition error")
	// ErrFormatting marks transcript formatting/write failures.
	ErrFormatting = errors.New("formatting error")
	// ErrConfiguration marks missing or unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks lookups of unknown identifiers.
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
