//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"machine"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/pkg"
)

// adcChannelPin maps an ADC input channel to its GPIO (channel 0 is
// GPIO26).
func adcChannelPin(channel uint8) (machine.Pin, bool) {
	switch channel {
	case 0:
		return machine.GPIO26, true
	case 1:
		return machine.GPIO27, true
	case 2:
		return machine.GPIO28, true
	case 3:
		return machine.GPIO29, true
	default:
		return machine.NoPin, false
	}
}

// Converter drives the RP2040 ADC in free-running mode with the result
// FIFO feeding DREQ-paced transfers.
type Converter struct {
	configured bool
}

// NewConverter returns the ADC-backed converter. The RP2040 has a single
// ADC; only one Converter should exist.
func NewConverter() *Converter {
	return &Converter{}
}

// Configure implements hal.Converter: reset the ADC block, mux the input
// pin to analog, set up the result FIFO for single-byte readings with
// DREQ on every sample, and program the sample clock divisor.
func (c *Converter) Configure(cfg hal.ConverterConfig) error {
	pin, ok := adcChannelPin(cfg.Channel)
	if !ok {
		return pkg.ErrInvalidParameter
	}

	rp.RESETS.RESET.SetBits(rp.RESETS_RESET_ADC)
	rp.RESETS.RESET.ClearBits(rp.RESETS_RESET_ADC)
	for !rp.RESETS.RESET_DONE.HasBits(rp.RESETS_RESET_ADC) {
	}

	machine.InitADC()
	machine.ADC{Pin: pin}.Configure(machine.ADCConfig{})

	// Enable, select the input, leave free-run off until Start.
	rp.ADC.CS.Set(rp.ADC_CS_EN | uint32(cfg.Channel)<<rp.ADC_CS_AINSEL_Pos)
	for !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}

	// FIFO: enabled, DREQ on >=1 sample, readings shifted to 8 bits.
	// The error bit is not pushed; it would land in the byte we keep.
	rp.ADC.FCS.Set(rp.ADC_FCS_EN |
		rp.ADC_FCS_DREQ_EN |
		rp.ADC_FCS_SHIFT |
		1<<rp.ADC_FCS_THRESH_Pos)

	// DIV holds an 8.8 fixed-point divisor; a divisor of N produces one
	// sample every N cycles of the 48 MHz ADC clock.
	rp.ADC.DIV.Set(uint32(cfg.ClockDiv * 256))

	c.configured = true
	return nil
}

// Start implements hal.Converter.
func (c *Converter) Start() {
	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)
}

// Stop implements hal.Converter.
func (c *Converter) Stop() {
	rp.ADC.CS.ClearBits(rp.ADC_CS_START_MANY)
}

// Drain implements hal.Converter: pop the FIFO until empty.
func (c *Converter) Drain() {
	for !rp.ADC.FCS.HasBits(rp.ADC_FCS_EMPTY) {
		_ = rp.ADC.FIFO.Get()
	}
}
