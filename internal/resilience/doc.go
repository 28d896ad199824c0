// Package resilience provides reliability patterns for upstream calls.
//
// Subpackages:
//   - retry: exponential backoff with jitter for transient failures
//   - circuitbreaker: gobreaker-based breakers, one per upstream source
package resilience
