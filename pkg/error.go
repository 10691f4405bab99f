package pkg

import "errors"

// Bridge errors.
var (
	// ErrNotConnected indicates the host side of an interface is not present.
	ErrNotConnected = errors.New("interface not connected")

	// ErrBusy indicates the resource guard is held by a concurrent operation.
	ErrBusy = errors.New("resource busy")

	// ErrNoTransfer indicates a wait was issued with no transfer programmed.
	ErrNoTransfer = errors.New("no transfer programmed")

	// ErrTransferActive indicates a transfer is already in flight.
	ErrTransferActive = errors.New("transfer already active")

	// ErrConverterStopped indicates a paced transfer found the converter idle.
	ErrConverterStopped = errors.New("converter not running")

	// ErrInvalidInterface indicates an out-of-range interface index.
	ErrInvalidInterface = errors.New("invalid interface index")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotConfigured indicates a component was used before configuration.
	ErrNotConfigured = errors.New("not configured")

	// ErrNotSupported indicates an unsupported operation or feature.
	ErrNotSupported = errors.New("not supported")

	// ErrPortClosed indicates the transport beneath a port has gone away.
	ErrPortClosed = errors.New("port closed")
)
