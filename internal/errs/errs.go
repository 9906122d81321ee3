// Package errs defines the failure taxonomy of the delivery pipeline.
//
// Store and gateway faults are typed so callers can tell a scan-level fault
// from a per-record one with errors.As, while the sentinels below are matched
// with errors.Is.
package errs

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrStore is matched by every StoreError.
	ErrStore = errors.New("store error")
	// ErrGateway is matched by every GatewayError.
	ErrGateway = errors.New("gateway error")
	// ErrConfiguration is matched by every ConfigError.
	ErrConfiguration = errors.New("configuration fault")

	// ErrNoDeviceToken marks a subscriber without a registered device.
	// It is a resolution gap, not a failure: the record stays pending.
	ErrNoDeviceToken = errors.New("no device token")

	// ErrScanInProgress is returned when a trigger is dropped because a
	// previous pass is still running and overlap is disabled.
	ErrScanInProgress = errors.New("scan already in progress")
)

// StoreError is an I/O fault talking to the persistent store.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError wraps err as a StoreError for the given operation.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// GatewayError is a push send that was rejected or never reached the provider.
type GatewayError struct {
	NotificationID uuid.UUID
	Err            error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: notification %s: %v", e.NotificationID, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

func (e *GatewayError) Is(target error) bool { return target == ErrGateway }

// ConfigError reports missing or invalid settings detected at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }
