// Package mocks provides centralized mock implementations for testing.
//
// Each mock mirrors one of the store or event interfaces with function
// fields for per-test overrides and a simple in-memory default behavior,
// so test packages don't redefine the same inline mocks.
package mocks
