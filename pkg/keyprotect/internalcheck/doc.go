// Package internalcheck provides internal validation and testing utilities.
//
// This package contains utilities used internally by keyprotect-go for
// consistency checks and testing support. It is not intended for external
// use and the API may change without notice.
//
// # Internal Use Only
//
// This package is part of the internal implementation and should not be
// imported by applications using keyprotect-go. Use the public API
// provided by pkg/keyprotect instead.
package internalcheck
