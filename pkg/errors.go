package fileutils

import (
	"fmt"
	"sync"
)

// ConfigError reports an invalid configuration: an unsupported hash
// algorithm, conflicting size filter options, or a pattern that does not
// compile. Configuration is validated before any traversal starts, so a
// ConfigError is always fatal to the requested operation.
type ConfigError struct {
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// WalkError records a single directory or entry that could not be scanned
// during traversal. Non-fatal by default; the walk skips the entry and
// continues with its siblings.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("error reading %s: %v", SafeDisplayPath(e.Path), e.Err)
}

func (e *WalkError) Unwrap() error { return e.Err }

// HashError records a file that could not be fully read while computing
// its digest. Non-fatal to a batch operation; the file is excluded from
// the result.
type HashError struct {
	Path string
	Err  error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("error hashing %s: %v", SafeDisplayPath(e.Path), e.Err)
}

func (e *HashError) Unwrap() error { return e.Err }

// PathEncodingError records a path that could not be rendered in the
// output encoding. The path is displayed in a quoted substitute form and
// the failure is still observable through the sink.
type PathEncodingError struct {
	Path string
}

func (e *PathEncodingError) Error() string {
	return fmt.Sprintf("path is not valid UTF-8: %s", SafeDisplayPath(e.Path))
}

// ErrorSink is the side channel for non-fatal traversal and hashing
// errors. The default policy accumulates every reported error without
// stopping the producing operation; a handler can be attached to forward
// errors as they arrive instead. In strict mode the first reported error
// is promoted to a fatal abort of the whole operation.
//
// A sink is safe for concurrent use; hash workers and the traversal
// producer report into the same sink.
type ErrorSink struct {
	mu      sync.Mutex
	strict  bool
	handler func(error)
	errs    []error
	fatal   error
}

// NewErrorSink returns a sink that accumulates errors and never aborts.
func NewErrorSink() *ErrorSink {
	return &ErrorSink{}
}

// NewStrictSink returns a sink that promotes the first reported error to
// a fatal abort.
func NewStrictSink() *ErrorSink {
	return &ErrorSink{strict: true}
}

// NewForwardingSink returns a sink that forwards each error to handler as
// it is reported, in addition to accumulating it.
func NewForwardingSink(handler func(error)) *ErrorSink {
	return &ErrorSink{handler: handler}
}

// Report records err. The returned error is nil under the default policy;
// in strict mode it is err itself, signalling the caller to abort. A nil
// err is ignored.
func (s *ErrorSink) Report(err error) error {
	if err == nil {
		return nil
	}

	s.mu.Lock()
	s.errs = append(s.errs, err)
	if s.strict && s.fatal == nil {
		s.fatal = err
	}
	handler := s.handler
	s.mu.Unlock()

	if handler != nil {
		handler(err)
	}

	if s.strict {
		return err
	}
	return nil
}

// Errors returns a copy of every error reported so far.
func (s *ErrorSink) Errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

// Len returns the number of errors reported so far.
func (s *ErrorSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errs)
}

// Err returns the error that aborted a strict-mode operation, or nil if
// the sink is not strict or nothing has been reported.
func (s *ErrorSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}
