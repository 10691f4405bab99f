package bridge

import (
	"sync"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
)

// Channel holds the per-interface bridging state: one buffer per
// direction and the line-coding pair for the two sides of the link.
//
// FromHost accumulates host-submitted bytes awaiting the peripheral;
// ToHost accumulates peripheral bytes awaiting transmission to the host.
// Each buffer carries its own guard, and the line codings have a third,
// so no lock spans more than one concern.
type Channel struct {
	FromHost *Buffer
	ToHost   *Buffer

	lcGuard sync.Mutex
	usbLC   hal.LineCoding
	uartLC  hal.LineCoding
}

func newChannel(capacity int) Channel {
	return Channel{
		FromHost: NewBuffer(capacity),
		ToHost:   NewBuffer(capacity),
		usbLC:    hal.DefaultLineCoding,
		uartLC:   hal.DefaultLineCoding,
	}
}

// SetHostLineCoding records the line configuration requested by the host.
// The peripheral side is updated lazily by the service loop.
func (c *Channel) SetHostLineCoding(lc hal.LineCoding) {
	c.lcGuard.Lock()
	c.usbLC = lc
	c.lcGuard.Unlock()
}

// HostLineCoding returns the most recently recorded host configuration.
func (c *Channel) HostLineCoding() hal.LineCoding {
	c.lcGuard.Lock()
	defer c.lcGuard.Unlock()
	return c.usbLC
}

// syncLineCoding re-applies the host configuration to the peripheral if
// the two sides have diverged. Values are applied as given; nothing
// validates them.
func (c *Channel) syncLineCoding(p hal.Peripheral) error {
	c.lcGuard.Lock()
	want := c.usbLC
	have := c.uartLC
	c.lcGuard.Unlock()

	if want == have {
		return nil
	}
	if err := p.Configure(want); err != nil {
		return err
	}

	c.lcGuard.Lock()
	c.uartLC = want
	c.lcGuard.Unlock()
	return nil
}
