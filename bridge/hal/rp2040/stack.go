//go:build tinygo && rp2040

package rp2040

import (
	"context"
	"machine"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
)

// Stack exposes TinyGo's built-in USB CDC-ACM function as the bridge's
// device stack.
//
// TODO(multi-cdc): expose bridge interfaces 1+ once TinyGo grows
// composite CDC descriptor support; until then the capture interface is
// the only one available on hardware.
type Stack struct {
	port cdcPort
}

// NewStack returns a stack exposing the single CDC interface.
func NewStack() *Stack {
	return &Stack{}
}

// Init implements hal.Stack.
func (s *Stack) Init(ctx context.Context) error {
	return machine.Serial.Configure(machine.UARTConfig{})
}

// Task implements hal.Stack. The TinyGo runtime services the USB state
// machine from interrupts; there is nothing to poll here.
func (s *Stack) Task() {}

// Ports implements hal.Stack.
func (s *Stack) Ports() int { return 1 }

// Port implements hal.Stack.
func (s *Stack) Port(n int) hal.Port { return &s.port }

// cdcPort adapts machine.Serial to hal.Port.
type cdcPort struct{}

// Connected reports true unconditionally: TinyGo's CDC does not surface
// the host's open/close state, and writes to an unopened port are
// buffered or dropped by the runtime.
func (p *cdcPort) Connected() bool { return true }

func (p *cdcPort) Buffered() int { return machine.Serial.Buffered() }

// Read consumes buffered bytes one at a time; the runtime's receive ring
// has no bulk read.
func (p *cdcPort) Read(buf []byte) (int, error) {
	n := machine.Serial.Buffered()
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		c, err := machine.Serial.ReadByte()
		if err != nil {
			return i, nil
		}
		buf[i] = c
	}
	return n, nil
}

func (p *cdcPort) Write(buf []byte) (int, error) {
	return machine.Serial.Write(buf)
}

// Flush is a no-op: the runtime transmits CDC packets as they fill.
func (p *cdcPort) Flush() error { return nil }

// LineCoding returns the default coding; TinyGo's CDC does not surface
// SET_LINE_CODING requests, and the capture interface ignores it anyway.
func (p *cdcPort) LineCoding() hal.LineCoding { return hal.DefaultLineCoding }
