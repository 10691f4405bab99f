//go:build tinygo && rp2040

package rp2040

import "machine"

// LED is the status indicator on a GPIO pin.
type LED struct {
	pin machine.Pin
}

// NewLED configures the pin as an output and returns the indicator.
func NewLED(pin machine.Pin) *LED {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &LED{pin: pin}
}

// Set implements hal.Indicator.
func (l *LED) Set(on bool) {
	l.pin.Set(on)
}
