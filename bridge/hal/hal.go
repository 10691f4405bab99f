package hal

import "context"

// Stop bit encodings (CDC-ACM bCharFormat values).
const (
	StopBits1   uint8 = 0 // 1 stop bit
	StopBits1_5 uint8 = 1 // 1.5 stop bits
	StopBits2   uint8 = 2 // 2 stop bits
)

// Parity encodings (CDC-ACM bParityType values).
const (
	ParityNone  uint8 = 0
	ParityOdd   uint8 = 1
	ParityEven  uint8 = 2
	ParityMark  uint8 = 3
	ParitySpace uint8 = 4
)

// LineCoding is the serial line configuration for one side of a channel.
// Values are carried as the host supplies them; nothing validates them.
type LineCoding struct {
	BaudRate uint32 // Data terminal rate in bits per second
	StopBits uint8  // StopBits1, StopBits1_5, or StopBits2
	Parity   uint8  // ParityNone through ParitySpace
	DataBits uint8  // 5, 6, 7, 8, or 16
}

// DefaultLineCoding is the conventional 115200 8N1 configuration.
var DefaultLineCoding = LineCoding{
	BaudRate: 115200,
	StopBits: StopBits1,
	Parity:   ParityNone,
	DataBits: 8,
}

// Port is one virtual serial interface exposed by the USB device stack.
//
// All methods must return promptly. Read and Write move whatever the
// transport can take right now and report the partial count; the bridge
// retries the remainder on a later scheduling pass.
type Port interface {
	// Connected reports whether the host has opened this interface.
	Connected() bool

	// Buffered returns the number of host-submitted bytes ready to Read.
	Buffered() int

	// Read consumes up to len(p) buffered bytes from the transport.
	Read(p []byte) (int, error)

	// Write hands up to len(p) bytes to the transport's transmit path.
	// Bytes not accepted remain the caller's responsibility.
	Write(p []byte) (int, error)

	// Flush pushes any written bytes toward the host immediately instead
	// of waiting for a larger batch.
	Flush() error

	// LineCoding returns the line configuration most recently requested
	// by the host for this interface.
	LineCoding() LineCoding
}

// Stack is the USB device stack, consumed as an opaque service.
//
// Task services the stack's internal state machine. It must be invoked
// frequently and must never be blocked; starving it risks USB protocol
// violations or disconnection.
type Stack interface {
	// Init brings up the stack. Called once before the first Task.
	Init(ctx context.Context) error

	// Task runs one iteration of the stack's internal state machine.
	Task()

	// Ports returns the number of virtual serial interfaces exposed.
	Ports() int

	// Port returns the interface with the given index [0, Ports()).
	Port(n int) Port
}

// ConverterConfig selects the analog input and the conversion rate.
type ConverterConfig struct {
	// Channel is the analog input channel to convert.
	Channel uint8

	// ClockDiv divides the converter clock to set the sample rate.
	// With a 48 MHz converter clock: 96 -> 500 kHz, 240 -> 200 kHz,
	// 480 -> 100 kHz, 960 -> 50 kHz, 9600 -> 5 kHz.
	ClockDiv float32
}

// Converter is the analog-to-digital converter with a hardware result queue.
type Converter interface {
	// Configure prepares the converter: input selection, result queue
	// setup for single-byte readings, and sample clock divisor.
	Configure(cfg ConverterConfig) error

	// Start begins free-running conversion.
	Start()

	// Stop halts conversion. Safe to call when already stopped.
	Stop()

	// Drain discards any stale readings held in the result queue.
	Drain()
}

// Transfer is a one-shot hardware-paced transfer engine. It moves
// converted readings from the converter's result queue into memory with
// no software involvement per sample; transfers are paced by the
// converter-ready signal, which is what sets the effective sample rate.
type Transfer interface {
	// Program arms a one-shot transfer of len(dst) single-byte readings
	// into dst: fixed source address, incrementing destination.
	Program(dst []byte) error

	// Wait blocks the calling context until the armed transfer completes
	// or ctx is cancelled. There is no timeout: if the hardware never
	// completes, Wait never returns on its own.
	Wait(ctx context.Context) error
}

// Indicator is a single digital status output, typically an LED.
type Indicator interface {
	Set(on bool)
}

// Peripheral is the serial peripheral attached behind one bridge channel.
// The byte-level driver is an external responsibility; the bridge only
// moves bytes across this boundary and re-applies line configuration.
type Peripheral interface {
	// Configure applies a line configuration to the peripheral.
	Configure(lc LineCoding) error

	// TryWrite accepts up to len(p) bytes without blocking and returns
	// the number accepted.
	TryWrite(p []byte) int

	// TryRead fills p with up to len(p) received bytes without blocking
	// and returns the number read.
	TryRead(p []byte) int
}
