// Copyright © 2026 The elnames authors

package namespace

import "fmt"

// StaleContextError indicates that engine state from a previous invocation
// was still active when a new invocation began.  The invocation is refused
// rather than mixing namespaces.
type StaleContextError struct {
	Prefix string
}

func (err *StaleContextError) Error() string {
	return fmt.Sprintf("namespace context for prefix %q is still active; a previous invocation did not clean up", err.Prefix)
}

// UnknownOptionError indicates an option name with no matching handler.
type UnknownOptionError struct {
	Option string
}

func (err *UnknownOptionError) Error() string {
	return fmt.Sprintf("unknown namespace option: %q", err.Option)
}

// InvalidProtectionValueError indicates a configured protection marker that
// is not usable as the leading text of a printable symbol name.
type InvalidProtectionValueError struct {
	Value string
}

func (err *InvalidProtectionValueError) Error() string {
	return fmt.Sprintf("protection marker is not a printable name: %q", err.Value)
}
