package schema

import (
	"errors"
	"fmt"
)

// ConfigError is an invalid caller input. It is raised before any network access.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// TransportKind classifies a failed exchange with the controller.
type TransportKind string

// All transport failure kinds.
const (
	TransportAuth       TransportKind = "auth"
	TransportNotFound   TransportKind = "not_found"
	TransportServer     TransportKind = "server"
	TransportStatus     TransportKind = "status"
	TransportTimeout    TransportKind = "timeout"
	TransportConnection TransportKind = "connection"
	TransportDecode     TransportKind = "decode"
)

// TransportError is a failed request to the controller API.
type TransportError struct {
	Kind     TransportKind
	Endpoint string
	Status   int // HTTP status, 0 when no response was received
	Msg      string
	Err      error
}

func (e *TransportError) Error() string {
	return e.Msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError means the named object is absent or ambiguous.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist or is not discoverable", e.Name)
}

// IsConfigError reports whether err wraps a ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
