// Package sim provides an in-memory implementation of the bridge HAL for
// host-side tests and demos.
//
// The simulated stack exposes scriptable serial ports: tests inject
// host-to-device bytes with [Port.HostWrite], collect flushed
// device-to-host bytes with [Port.HostRead], toggle connectivity, and cap
// per-call write acceptance to exercise partial drains. The simulated
// converter produces a constant level or generator-driven readings, and
// the simulated transfer engine honors the pacing contract: readings flow
// into the destination only while the converter is running.
//
// Nothing here touches real hardware; timing is collapsed so a full
// capture completes as soon as the converter runs.
package sim
