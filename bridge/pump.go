package bridge

import "github.com/thinpv/pico-usb-adc/bridge/hal"

// Pump performs one scheduling pass for a connected interface: the read
// side is always attempted before the write side.
//
// Read side: if the transport reports buffered host bytes, they are read
// directly into the host-to-device buffer's tail, limited to the smaller
// of the available count and the buffer's remaining capacity. Write side:
// pending device-to-host bytes are offered to the transport; whatever it
// declines stays compacted at the front of the buffer, and if it accepted
// anything the transport is flushed so the host sees the bytes without
// waiting for a larger batch.
//
// Either side silently skips its pass when the buffer guard is held by a
// concurrent operation; the next pass retries.
func Pump(port hal.Port, ch *Channel) {
	pumpReadSide(port, ch)
	pumpWriteSide(port, ch)
}

func pumpReadSide(port hal.Port, ch *Channel) int {
	avail := port.Buffered()
	if avail == 0 {
		return 0
	}
	n, _ := ch.FromHost.TryFill(avail, func(dst []byte) int {
		n, err := port.Read(dst)
		if err != nil || n < 0 {
			return 0
		}
		return n
	})
	return n
}

func pumpWriteSide(port hal.Port, ch *Channel) int {
	n, _ := ch.ToHost.TryDrain(func(src []byte) int {
		n, err := port.Write(src)
		if err != nil || n < 0 {
			return 0
		}
		return n
	})
	if n > 0 {
		port.Flush()
	}
	return n
}
