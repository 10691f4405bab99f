package bridge

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/pkg"
)

// component identifies this package for structured logging.
const component = pkg.ComponentBridge

// disconnectedPoll is how long the capture context rests between
// connectivity checks while the capture interface has no host attached.
const disconnectedPoll = 10 * time.Millisecond

// Config carries the compile-time-style constants of the bridge. Zero
// values select the defaults the firmware ships with.
type Config struct {
	// BufferSize is the per-direction channel buffer capacity.
	// Defaults to BufferSize.
	BufferSize int

	// SampleCount is the number of readings per capture.
	// Defaults to SampleCount.
	SampleCount int

	// CaptureInterface receives raw sample sets. Interface 0 by
	// convention; the host must know SampleCount to parse the stream.
	CaptureInterface int

	// DiagInterface receives the best-effort text diagnostic stream.
	// Defaults to interface 1; set negative to disable.
	DiagInterface int
}

func (c *Config) setDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = BufferSize
	}
	if c.SampleCount == 0 {
		c.SampleCount = SampleCount
	}
	if c.DiagInterface == 0 {
		c.DiagInterface = 1
	}
}

// Bridge owns the channel table and runs the two execution contexts.
//
// Context A (capture) repeatedly acquires one sample set and publishes it
// directly to the capture interface. Context B (service) polls the USB
// stack and pumps every connected interface. The contexts communicate
// only through the channel buffers and the hardware abstraction.
type Bridge struct {
	stack hal.Stack
	capt  *Capturer
	led   hal.Indicator
	cfg   Config

	// channels is allocated once for the stack's interface count and
	// reused for the process lifetime.
	channels []Channel
	periphs  []hal.Peripheral

	// sample is the single static capture buffer; ownership alternates
	// between the capture pipeline and the USB write, never copied.
	sample []byte
}

// New returns a bridge over the given stack and capture pipeline. The
// indicator reflects "any interface connected" each service pass and may
// be nil. Channel buffers and the sample buffer are allocated here, once.
func New(stack hal.Stack, capt *Capturer, led hal.Indicator, cfg Config) *Bridge {
	cfg.setDefaults()

	n := stack.Ports()
	b := &Bridge{
		stack:    stack,
		capt:     capt,
		led:      led,
		cfg:      cfg,
		channels: make([]Channel, n),
		periphs:  make([]hal.Peripheral, n),
		sample:   make([]byte, cfg.SampleCount),
	}
	for i := range b.channels {
		b.channels[i] = newChannel(cfg.BufferSize)
	}
	return b
}

// Channel returns the channel record for an interface, for peripheral
// drivers and tests. The returned pointer stays valid for the bridge's
// lifetime.
func (b *Bridge) Channel(itf int) (*Channel, error) {
	if itf < 0 || itf >= len(b.channels) {
		return nil, fmt.Errorf("interface %d: %w", itf, pkg.ErrInvalidInterface)
	}
	return &b.channels[itf], nil
}

// AttachPeripheral registers the serial peripheral behind an interface.
// The service context will drain host bytes into it, fill the
// device-to-host buffer from it, and re-apply line coding on change.
func (b *Bridge) AttachPeripheral(itf int, p hal.Peripheral) error {
	if itf < 0 || itf >= len(b.periphs) {
		return fmt.Errorf("interface %d: %w", itf, pkg.ErrInvalidInterface)
	}
	b.periphs[itf] = p
	return nil
}

// Run initializes the stack, launches the two execution contexts, and
// blocks until both return. The contexts only return when ctx is
// cancelled; firmware runs with a context that never is.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.stack.Init(ctx); err != nil {
		return fmt.Errorf("stack init: %w", err)
	}

	pkg.LogInfo(component, "bridge running",
		"interfaces", len(b.channels),
		"bufferSize", b.cfg.BufferSize,
		"sampleCount", b.cfg.SampleCount)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.captureLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		b.serviceLoop(ctx)
	}()
	wg.Wait()

	return ctx.Err()
}

// captureLoop is Context A: while the capture interface is connected,
// acquire one sample set and publish it, flush, repeat.
func (b *Bridge) captureLoop(ctx context.Context) {
	port := b.stack.Port(b.cfg.CaptureInterface)

	for ctx.Err() == nil {
		if !port.Connected() {
			sleepCtx(ctx, disconnectedPoll)
			continue
		}

		if err := b.capt.Capture(ctx, b.sample); err != nil {
			if ctx.Err() != nil {
				return
			}
			pkg.LogWarn(pkg.ComponentCapture, "capture failed", "error", err)
			continue
		}

		// Direct write; the sample path bypasses the channel buffers.
		// A short count means the transport's transmit queue was full
		// and the remainder of this set is dropped, same as the
		// trailing sets the host isn't reading.
		if n, err := port.Write(b.sample); err == nil && n > 0 {
			port.Flush()
		}
	}
}

// serviceLoop is Context B: service the device stack, then pump every
// connected interface. Never blocks; all buffer work is try-style.
func (b *Bridge) serviceLoop(ctx context.Context) {
	for ctx.Err() == nil {
		b.stack.Task()

		connected := false
		for i := range b.channels {
			port := b.stack.Port(i)
			if !port.Connected() {
				continue
			}
			connected = true
			b.serviceInterface(i, port)
		}

		if b.led != nil {
			b.led.Set(connected)
		}
		runtime.Gosched()
	}
}

func (b *Bridge) serviceInterface(itf int, port hal.Port) {
	ch := &b.channels[itf]
	Pump(port, ch)

	p := b.periphs[itf]
	if p == nil {
		return
	}

	ch.SetHostLineCoding(port.LineCoding())
	if err := ch.syncLineCoding(p); err != nil {
		pkg.LogDebug(pkg.ComponentPump, "line coding apply failed",
			"interface", itf, "error", err)
	}

	ch.FromHost.TryDrain(p.TryWrite)
	ch.ToHost.TryFill(ch.ToHost.Cap(), p.TryRead)
}

// Diag writes a text diagnostic to the diagnostic interface, best
// effort: silently dropped unless that interface exists and is
// connected.
func (b *Bridge) Diag(msg string) {
	itf := b.cfg.DiagInterface
	if itf < 0 || itf >= b.stack.Ports() {
		return
	}
	port := b.stack.Port(itf)
	if !port.Connected() {
		return
	}
	if n, err := port.Write([]byte(msg)); err == nil && n > 0 {
		port.Flush()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
