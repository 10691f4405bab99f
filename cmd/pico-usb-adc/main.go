//go:build tinygo && rp2040

// Package main is the Pico firmware entry point.
//
// Build and flash with TinyGo:
//
//	tinygo flash -target pico ./cmd/pico-usb-adc
//
// The on-board ADC samples GPIO26 in hardware-paced sets of 500 bytes
// and streams them over the USB virtual serial port. The on-board LED
// stays lit while a capture is in flight and reflects connectivity
// between captures.
package main

import (
	"context"
	"machine"

	"github.com/thinpv/pico-usb-adc/bridge"
	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/bridge/hal/rp2040"
	"github.com/thinpv/pico-usb-adc/pkg"
)

const component = pkg.ComponentBridge

func main() {
	led := rp2040.NewLED(machine.LED)

	conv := rp2040.NewConverter()
	if err := conv.Configure(hal.ConverterConfig{
		Channel:  bridge.CaptureChannel,
		ClockDiv: bridge.ClockDiv,
	}); err != nil {
		pkg.LogError(component, "failed to configure converter", "error", err)
		return
	}

	capt := bridge.NewCapturer(conv, rp2040.NewTransfer(), led)

	// One CDC interface on hardware; route diagnostics nowhere.
	b := bridge.New(rp2040.NewStack(), capt, led, bridge.Config{
		DiagInterface: -1,
	})

	// Firmware never stops; the context exists to satisfy the blocking
	// call contracts and is never cancelled.
	if err := b.Run(context.Background()); err != nil {
		pkg.LogError(component, "bridge stopped", "error", err)
	}
}
