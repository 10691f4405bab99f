//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"machine"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
)

// UART adapts a machine UART to the bridge's peripheral boundary. Byte
// movement is non-blocking: writes seed the hardware TX FIFO only while
// it has room, reads take what the receive ring already holds.
type UART struct {
	uart *machine.UART
	bus  *rp.UART0_Type
	tx   machine.Pin
	rx   machine.Pin
}

// NewUART returns the peripheral binding for a machine UART and its pins.
func NewUART(uart *machine.UART, bus *rp.UART0_Type, tx, rx machine.Pin) *UART {
	return &UART{uart: uart, bus: bus, tx: tx, rx: rx}
}

// Configure implements hal.Peripheral: apply baud, then frame format.
// Parity values the PL011 cannot express (mark/space) fall back to none;
// nothing validates the rest, per the bridge's pass-through policy.
func (u *UART) Configure(lc hal.LineCoding) error {
	if err := u.uart.Configure(machine.UARTConfig{
		BaudRate: lc.BaudRate,
		TX:       u.tx,
		RX:       u.rx,
	}); err != nil {
		return err
	}

	parity := machine.ParityNone
	switch lc.Parity {
	case hal.ParityOdd:
		parity = machine.ParityOdd
	case hal.ParityEven:
		parity = machine.ParityEven
	}

	stop := uint8(1)
	if lc.StopBits == hal.StopBits2 {
		stop = 2
	}

	return u.uart.SetFormat(lc.DataBits, stop, parity)
}

// TryWrite implements hal.Peripheral: push bytes while the TX FIFO has
// room, return the count accepted.
func (u *UART) TryWrite(p []byte) int {
	n := 0
	for n < len(p) && !u.bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF) {
		u.bus.UARTDR.Set(uint32(p[n]))
		n++
	}
	return n
}

// TryRead implements hal.Peripheral: drain the receive ring into p.
func (u *UART) TryRead(p []byte) int {
	n := u.uart.Buffered()
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		c, err := u.uart.ReadByte()
		if err != nil {
			return i
		}
		p[i] = c
	}
	return n
}
