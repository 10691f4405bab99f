// Package main runs the bridge against the simulated HAL.
//
// The simulator stands in for the converter, the paced transfer engine,
// and the USB stack, so the full firmware loop runs as an ordinary host
// process: the capture context publishes sample sets on interface 0
// while interface 1 carries serial traffic through a loopback
// peripheral. A host-side goroutine plays the role of the attached PC,
// consuming sample sets and exercising the serial path.
//
// Usage:
//
//	go run ./cmd/bridge-sim [options]
//
// Options:
//
//	-v             Enable verbose (debug) logging
//	-json          Use JSON log format
//	-sets n        Number of sample sets to consume before exiting (default: 4)
//	-level byte    Constant reading produced by the simulated converter (default: 0x80)
//	-samples n     Readings per sample set (default: 500)
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thinpv/pico-usb-adc/bridge"
	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/bridge/hal/sim"
	"github.com/thinpv/pico-usb-adc/pkg"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentSim

func main() {
	verbose := flag.Bool("v", false, "enable verbose (debug) logging")
	jsonLog := flag.Bool("json", false, "use JSON log format")
	sets := flag.Int("sets", 4, "number of sample sets to consume before exiting")
	level := flag.Int("level", 0x80, "constant reading produced by the simulated converter")
	samples := flag.Int("samples", bridge.SampleCount, "readings per sample set")
	flag.Parse()

	// Set up logging
	pkg.SetLogLevel(slog.LevelInfo)
	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}
	if *jsonLog {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}

	// Assemble the simulated hardware: two CDC interfaces, a converter
	// producing a flat trace, and a transfer engine paced by it.
	stack := sim.NewStack(2)
	conv := sim.NewConverter()
	conv.SetLevel(byte(*level))
	xfer := sim.NewTransfer(conv)
	led := sim.NewIndicator()

	if err := conv.Configure(hal.ConverterConfig{
		Channel:  bridge.CaptureChannel,
		ClockDiv: bridge.ClockDiv,
	}); err != nil {
		pkg.LogError(component, "failed to configure converter", "error", err)
		os.Exit(1)
	}

	capt := bridge.NewCapturer(conv, xfer, led)
	b := bridge.New(stack, capt, led, bridge.Config{
		SampleCount: *samples,
	})

	if err := b.AttachPeripheral(1, sim.NewLoopback()); err != nil {
		pkg.LogError(component, "failed to attach peripheral", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		pkg.LogInfo(component, "shutting down")
		cancel()
	}()

	// Play the host: open both interfaces, consume sample sets from the
	// capture interface, and bounce a line through the serial interface.
	go func() {
		defer cancel()

		capture := stack.HostPort(0)
		serial := stack.HostPort(1)
		capture.SetConnected(true)
		serial.SetConnected(true)

		serial.HostWrite([]byte("hello, bridge\n"))

		buf := make([]byte, *samples)
		consumed := 0
		for consumed < *sets {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if capture.FlushedLen() < *samples {
				time.Sleep(time.Millisecond)
				continue
			}
			n := capture.HostRead(buf)
			consumed++
			pkg.LogInfo(component, "sample set received",
				"set", consumed,
				"bytes", n,
				"first", buf[0],
				"last", buf[n-1])
		}

		if n := serial.HostRead(buf); n > 0 {
			pkg.LogInfo(component, "serial echo received",
				"bytes", n,
				"data", string(buf[:n]))
		}
	}()

	pkg.LogInfo(component, "starting bridge",
		"samples", *samples,
		"sets", *sets)

	if err := b.Run(ctx); err != nil && err != context.Canceled {
		pkg.LogError(component, "bridge stopped", "error", err)
		os.Exit(1)
	}

	pkg.LogInfo(component, "done",
		"tasks", stack.TaskCount(),
		"ledTransitions", led.Transitions())
}
