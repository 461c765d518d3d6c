// Package errors provides standardized error handling for the file chooser.
// It defines the error kinds produced while scanning, classifying and decoding
// chooser payloads, along with helpers for consistent creation and inspection.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// Common error constants for frequently occurring errors
var (
	ErrNotADirectory = NewFileError("not a directory", "", NotADirectory, nil)
	ErrInvalidName   = NewFileError("entry name is not valid text", "", InvalidName, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	NotADirectory
	InvalidName
	MetadataUnavailable
	SymlinkUnresolvable
	FileNotFound
	FileAccessDenied
	InvalidPath
	// Payload error kinds
	SerializationError
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

var kindNames = map[ErrorKind]string{
	Unknown:             "unknown",
	NotADirectory:       "not_a_directory",
	InvalidName:         "invalid_name",
	MetadataUnavailable: "metadata_unavailable",
	SymlinkUnresolvable: "symlink_unresolvable",
	FileNotFound:        "file_not_found",
	FileAccessDenied:    "file_access_denied",
	InvalidPath:         "invalid_path",
	SerializationError:  "serialization",
	InvalidConfig:       "invalid_config",
	ConfigNotFound:      "config_not_found",
}

// String returns a stable name for the kind, suitable for log fields.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors tied to a filesystem path
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Is matches sentinel file errors by kind so errors.Is(err, ErrNotADirectory)
// holds for any NotADirectory error regardless of path.
func (e *FileError) Is(target error) bool {
	t, ok := target.(*FileError)
	if !ok {
		return false
	}
	return t.path == "" && t.err == nil && t.kind == e.kind
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// PayloadError is returned when an options or filter payload received from
// a caller is malformed. Field names the offending member.
type PayloadError struct {
	ApplicationError
	field string
}

// NewSerializationError creates a new payload decoding error
func NewSerializationError(msg string, field string, err error) *PayloadError {
	return &PayloadError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: SerializationError,
		},
		field: field,
	}
}

// Error returns the payload error message
func (e *PayloadError) Error() string {
	if e.field != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: field %s: %v", e.msg, e.field, e.err)
		}
		return fmt.Sprintf("%s: field %s", e.msg, e.field)
	}
	return e.ApplicationError.Error()
}

// Field returns the payload field associated with the error
func (e *PayloadError) Field() string {
	return e.field
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

type kinded interface {
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain,
// or Unknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

func hasKind(err error, kind ErrorKind) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.Kind() == kind {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotADirectory checks if the error reports a non-enumerable directory
func IsNotADirectory(err error) bool {
	return hasKind(err, NotADirectory)
}

// IsInvalidName checks if the error reports an entry name that is not valid text
func IsInvalidName(err error) bool {
	return hasKind(err, InvalidName)
}

// IsMetadataUnavailable checks if the error reports unreadable entry metadata
func IsMetadataUnavailable(err error) bool {
	return hasKind(err, MetadataUnavailable)
}

// IsSymlinkUnresolvable checks if the error reports a dangling symlink
func IsSymlinkUnresolvable(err error) bool {
	return hasKind(err, SymlinkUnresolvable)
}

// IsSerialization checks if the error reports a malformed payload
func IsSerialization(err error) bool {
	var payloadErr *PayloadError
	return errors.As(err, &payloadErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	return hasKind(err, FileNotFound)
}
