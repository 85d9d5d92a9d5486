// Package orchestrator wires definition source → transformers → validation
// schema → form controller → renderer, providing dependency injection
// friendly helpers for consumers that prefer a single entry point.
package orchestrator
