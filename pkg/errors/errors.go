package errors

import (
	"fmt"
)

// ConfigurationError reports bad or missing run input. It is fatal and is
// always raised before any host is contacted.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

// NewConfigurationError constructs a ConfigurationError.
func NewConfigurationError(field, message string, err error) error {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecordParseError represents a malformed or unreadable run record with
// optional line metadata.
type RecordParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewRecordParseError constructs a RecordParseError.
func NewRecordParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &RecordParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *RecordParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("run record error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("run record error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *RecordParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RemoteAccessError represents a transport, permission, or RPC failure while
// talking to a host's configuration service. Non-fatal: the host is
// classified as errored and the batch continues.
type RemoteAccessError struct {
	Host string
	Op   string
	Err  error
}

// NewRemoteAccessError constructs a RemoteAccessError for the given host and operation.
func NewRemoteAccessError(host, op string, err error) error {
	return &RemoteAccessError{Host: host, Op: op, Err: err}
}

func (e *RemoteAccessError) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" {
		return fmt.Sprintf("remote access error on %s during %s: %v", e.Host, e.Op, e.Err)
	}
	return fmt.Sprintf("remote access error on %s: %v", e.Host, e.Err)
}

// Unwrap exposes the root error.
func (e *RemoteAccessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ApplyError indicates that setting the DNS server order on an interface
// failed, either because the provider returned a non-success result code or
// because the call itself faulted.
type ApplyError struct {
	Host      string
	Interface string
	Code      int
	Err       error
}

// NewApplyError constructs an ApplyError carrying the provider result code.
func NewApplyError(host, iface string, code int, err error) error {
	return &ApplyError{Host: host, Interface: iface, Code: code, Err: err}
}

func (e *ApplyError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("apply error on %s (%s): %v", e.Host, e.Interface, e.Err)
	}
	return fmt.Sprintf("apply error on %s (%s): provider returned code %d", e.Host, e.Interface, e.Code)
}

// Unwrap exposes the underlying error.
func (e *ApplyError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
