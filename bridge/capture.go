package bridge

import (
	"context"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
)

// Default acquisition parameters, matching the board this firmware was
// written for.
const (
	// SampleCount is the number of single-byte readings per capture.
	SampleCount = 500

	// CaptureChannel is the analog input channel (GPIO26 on the Pico).
	CaptureChannel = 0

	// ClockDiv sets the sample rate; see hal.ConverterConfig for the
	// divisor-to-Hz mapping.
	ClockDiv = 240
)

// Capturer performs fixed-length single-shot acquisitions: the converter
// free-runs while the transfer engine, paced by the converter-ready
// signal, streams readings into the destination with no software
// involvement per sample.
type Capturer struct {
	conv hal.Converter
	xfer hal.Transfer
	led  hal.Indicator
}

// NewCapturer returns a capturer over the given converter and transfer
// engine. The indicator is raised for the duration of each acquisition
// and may be nil.
func NewCapturer(conv hal.Converter, xfer hal.Transfer, led hal.Indicator) *Capturer {
	return &Capturer{conv: conv, xfer: xfer, led: led}
}

// Capture performs one complete acquisition cycle into dst and returns
// only when len(dst) readings have been written, the transfer engine
// reports an error, or ctx is cancelled.
//
// There is no timeout: a transfer the hardware never completes stalls the
// calling context until ctx is cancelled, and the firmware entry runs
// with a context that never is. External reset is the only recovery.
func (c *Capturer) Capture(ctx context.Context, dst []byte) error {
	// Idempotent reset: discard stale readings, ensure the converter is
	// stopped before re-arming the transfer.
	c.conv.Drain()
	c.conv.Stop()

	if err := c.xfer.Program(dst); err != nil {
		return err
	}

	c.indicate(true)
	c.conv.Start()
	err := c.xfer.Wait(ctx)
	c.indicate(false)

	return err
}

func (c *Capturer) indicate(on bool) {
	if c.led != nil {
		c.led.Set(on)
	}
}
