// Package pkg provides shared utilities for the pico-usb-adc bridge.
//
// This package contains common functionality used across the bridge core,
// the hardware abstraction implementations, and the host-side tools:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for bridge and transfer conditions
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with bridge-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentBridge, "channel table ready", "interfaces", 2)
//
// Log calls are kept off the pumping and capture hot paths; they appear
// only in setup, teardown, and host-side tooling.
//
// # Errors
//
// Common conditions are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrNotConnected) {
//	    // Host side of the interface is gone
//	}
package pkg
