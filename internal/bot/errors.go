package bot

import "fmt"

// BackingStoreError marks a transient catalog or registration failure. The
// interaction that hit it degrades to a notice; it never aborts the update
// loop.
type BackingStoreError struct {
	Op  string
	Err error
}

func (e *BackingStoreError) Error() string {
	return fmt.Sprintf("backing store: %s: %v", e.Op, e.Err)
}

func (e *BackingStoreError) Unwrap() error { return e.Err }

// Code implements the error-code hook used by the log summaries.
func (e *BackingStoreError) Code() string { return "BACKING_STORE" }

// ConfigurationError marks a catalog wiring defect. It is only legal during
// startup validation; surfacing one at interaction time is a bug.
type ConfigurationError struct {
	Detail string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Detail, e.Err)
	}
	return "configuration: " + e.Detail
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Code() string { return "CONFIGURATION" }
