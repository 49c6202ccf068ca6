package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Collaborator errors: failures of services the site depends on but does not own.
var (
	ErrAuditLog           = errors.New("audit log write failed")
	ErrCacheInvalidation  = errors.New("cache invalidation failed")
	ErrEmailDelivery      = errors.New("email delivery failed")
	ErrObjectStorage      = errors.New("object storage failed")
	ErrConfigMissing      = errors.New("configuration missing")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// NewAuditLogError wraps a failed audit write. It is only ever logged.
func NewAuditLogError(action string, cause error) error {
	return fmt.Errorf("%w (%s): %w", ErrAuditLog, action, cause)
}

func NewEmailDeliveryError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrEmailDelivery,
		Details:    "The message could not be sent, please try again later",
		Cause:      cause,
	}
}

func NewObjectStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrObjectStorage,
		Details:    fmt.Sprintf("Object storage failed during %s", operation),
		Cause:      cause,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        fmt.Errorf("%w: %w", ErrServiceUnavailable, ErrConfigMissing),
		Details:    fmt.Sprintf("%s is not configured", key),
		Field:      key,
	}
}

func IsAuditLogError(err error) bool {
	return errors.Is(err, ErrAuditLog)
}

func IsConfigMissingError(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

func IsEmailDeliveryError(err error) bool {
	return errors.Is(err, ErrEmailDelivery)
}

func IsObjectStorageError(err error) bool {
	return errors.Is(err, ErrObjectStorage)
}
