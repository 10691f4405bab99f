// Package bridge implements the core of a USB analog-capture and serial
// bridge: fixed-capacity guarded byte buffers, the per-interface pump that
// moves bytes between the USB transport and those buffers, a time-bounded
// analog capture pipeline built on a hardware-paced transfer engine, and
// the dual-context scheduler that ties them together.
//
// # Architecture
//
// Two independent execution contexts share state only through guarded
// buffers and the hardware abstraction:
//
//   - The capture context repeatedly performs one acquisition cycle and
//     writes the completed sample set directly to the capture interface,
//     bypassing the channel buffers for latency.
//   - The service context polls the USB device stack and, for every
//     connected interface, pumps bytes between USB and that interface's
//     channel buffers, then services any attached serial peripheral.
//
// All buffer operations on the service path are non-blocking try-style:
// a held guard means skip this pass and retry on the next one. The only
// blocking suspension point in the whole design is the capture context's
// wait for transfer completion.
//
// # Buffers
//
// [Buffer] is a fixed-capacity byte accumulator whose guard is only ever
// acquired with TryLock. Producers append through [Buffer.TryFill], which
// exposes the writable tail directly so transport reads land in place;
// consumers remove from the front through [Buffer.TryDrain], which
// compacts the unconsumed remainder to offset zero. A channel carries one
// buffer per direction, each with its own guard, so the two directions
// proceed concurrently.
//
// # Hardware
//
// All hardware is reached through the interfaces in
// [github.com/thinpv/pico-usb-adc/bridge/hal]. The USB device stack is an
// opaque collaborator whose Task method must be called frequently and
// never blocked.
package bridge
