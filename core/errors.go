package core

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorTransportFailed      = "WXMP_TRANSPORT_FAILED"
	ErrorPlatform             = "WXMP_PLATFORM_ERROR"
	ErrorConfigurationMissing = "WXMP_CONFIGURATION_MISSING"
	ErrorDecodeFailed         = "WXMP_DECODE_FAILED"
	ErrorBadInput             = "WXMP_BAD_INPUT"
	ErrorInternal             = "WXMP_INTERNAL_ERROR"
)

// PlatformError is a well-formed envelope carrying a nonzero errcode.
type PlatformError struct {
	Operation string
	Code      int
	Message   string
}

func (e *PlatformError) Error() string {
	if e == nil {
		return ""
	}
	operation := strings.TrimSpace(e.Operation)
	if operation == "" {
		operation = "request"
	}
	return fmt.Sprintf("%s: platform errcode %d: %s", operation, e.Code, strings.TrimSpace(e.Message))
}

// TransportError reports a call that did not produce a 200 response. status
// is zero when no response was received at all.
func TransportError(operation string, status int, cause error) error {
	code := status
	if code <= 0 {
		code = http.StatusBadGateway
	}
	message := fmt.Sprintf("%s: unexpected status %d", operation, status)
	metadata := map[string]any{"operation": operation, "status_code": status}

	var err *goerrors.Error
	if cause != nil {
		message = fmt.Sprintf("%s: request failed", operation)
		err = goerrors.Wrap(cause, goerrors.CategoryExternal, message)
	} else {
		err = goerrors.New(message, goerrors.CategoryExternal)
	}
	err = err.WithCode(code).WithTextCode(ErrorTransportFailed)
	err.WithMetadata(metadata)
	return err
}

func NewPlatformError(operation string, errcode int, errmsg string) error {
	source := &PlatformError{Operation: operation, Code: errcode, Message: errmsg}
	err := goerrors.Wrap(source, goerrors.CategoryExternal, source.Error()).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorPlatform)
	err.WithMetadata(map[string]any{
		"operation": operation,
		"errcode":   errcode,
		"errmsg":    errmsg,
	})
	return err
}

// ConfigurationError reports missing static configuration. It is raised
// before any network call.
func ConfigurationError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorConfigurationMissing)
}

func DecodeError(operation string, cause error) error {
	return goerrors.Wrap(cause, goerrors.CategoryExternal, fmt.Sprintf("%s: decode response", operation)).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorDecodeFailed)
}

func BadInputError(message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(ErrorBadInput)
}

func IsTransportError(err error) bool {
	return hasTextCode(err, ErrorTransportFailed)
}

func IsConfigurationError(err error) bool {
	return hasTextCode(err, ErrorConfigurationMissing)
}

func AsPlatformError(err error) (*PlatformError, bool) {
	if err == nil {
		return nil, false
	}
	var platformErr *PlatformError
	if goerrors.As(err, &platformErr) && platformErr != nil {
		return platformErr, true
	}
	return nil, false
}

func hasTextCode(err error, textCode string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == textCode
}
