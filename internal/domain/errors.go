package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrAllPlatformsFailed is returned when every selected platform pipeline failed
	ErrAllPlatformsFailed = errors.New("all platform pipelines failed")
)

// ConnectorError reports a transport or HTTP failure against one upstream
// marketplace. It is an integration failure, never a client error.
type ConnectorError struct {
	Platform  Platform
	Operation string
	Err       error
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Platform, e.Operation, e.Err)
}

func (e *ConnectorError) Unwrap() error { return e.Err }

// NormalizationError reports that an upstream response no longer matches the
// shape the normalizer expects. Path names the access that failed; Snippet
// carries a bounded chunk of the raw payload so shape drift is diagnosable.
type NormalizationError struct {
	Platform Platform
	Path     string
	Snippet  string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s response shape drift at %s (raw: %s)", e.Platform, e.Path, e.Snippet)
}

// UnknownConditionError reports an upstream condition code with no mapped
// label. Fatal for the item; there is no default label.
type UnknownConditionError struct {
	Code string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("unmapped item condition %q", e.Code)
}
