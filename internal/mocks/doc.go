// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the
// application, so test packages share one set of mocks instead of redefining
// them inline. Each mock supports per-method function overrides, default
// return values, and call tracking for verification.
package mocks
