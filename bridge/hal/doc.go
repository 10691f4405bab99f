// Package hal defines the hardware abstraction interfaces consumed by the
// bridge core.
//
// The bridge treats every piece of hardware as an external collaborator
// behind a minimal interface: the USB device stack, the per-interface
// serial ports it exposes, the analog converter, the hardware transfer
// engine that drains the converter, the status indicator, and the serial
// peripheral attached behind a channel. Platform bindings implement these
// interfaces to run the bridge on real hardware.
//
// # Design Principles
//
// The interfaces are:
//
//   - Minimal: only the operations the bridge core actually performs
//   - Generic: no platform-specific types or register assumptions
//   - Non-blocking where the core requires it: [Port] and [Peripheral]
//     I/O must return promptly with partial counts rather than wait
//
// The one deliberately blocking call is [Transfer.Wait], which parks the
// capture context until the hardware transfer engine reports completion.
//
// # Implementations
//
// An in-memory implementation for host-side tests and demos is available
// in [github.com/thinpv/pico-usb-adc/bridge/hal/sim]. A TinyGo binding for
// the RP2040 is available in
// [github.com/thinpv/pico-usb-adc/bridge/hal/rp2040].
package hal
