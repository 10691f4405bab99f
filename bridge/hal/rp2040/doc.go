// Package rp2040 binds the bridge HAL to RP2040 hardware under TinyGo.
//
// The converter and transfer implementations program the ADC and a DMA
// channel directly through the device register blocks: the ADC free-runs
// with its result FIFO in 8-bit mode, and the DMA channel is paced by
// DREQ_ADC so one byte moves per completed conversion, which is what sets
// the effective sample rate (48 MHz / clock divisor).
//
// The USB stack binding rides on TinyGo's built-in CDC-ACM function
// (machine.Serial); the TinyGo runtime services the USB state machine
// from interrupts, so the stack's Task method is a no-op here.
//
// All files except this one carry TinyGo build tags; the package is inert
// in host builds.
package rp2040
