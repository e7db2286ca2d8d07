// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout
// the application, so individual test files can share one set of mocks
// instead of redefining them inline. Each mock exposes function fields for
// per-test behavior plus simple defaults backed by in-memory maps.
//
// When adding a new mock to this package:
//  1. Create a new file named after the interface being mocked
//  2. Implement the mock struct with function fields for each interface method
//  3. Document any helper methods or special functionality
package mocks
