//go:build tinygo && rp2040

package rp2040

import (
	"context"
	"device/rp"
	"runtime"
	"unsafe"

	"github.com/thinpv/pico-usb-adc/pkg"
)

// dreqADC is the DREQ number pacing transfers on ADC FIFO availability.
const dreqADC = 36

// Transfer drives DMA channel 0 as the one-shot paced engine moving ADC
// FIFO bytes into memory. The channel is owned exclusively by the
// capture context; nothing else may claim it.
type Transfer struct {
	// armed keeps the destination reachable while hardware writes it.
	armed []byte
}

// NewTransfer resets the DMA block and returns the channel-0 transfer
// engine.
func NewTransfer() *Transfer {
	rp.RESETS.RESET.SetBits(rp.RESETS_RESET_DMA)
	rp.RESETS.RESET.ClearBits(rp.RESETS_RESET_DMA)
	for !rp.RESETS.RESET_DONE.HasBits(rp.RESETS_RESET_DMA) {
	}
	return &Transfer{}
}

// Program implements hal.Transfer: arm a one-shot byte transfer from the
// fixed ADC FIFO address to the incrementing destination, paced by
// DREQ_ADC, and start it (it makes no progress until the converter runs).
func (t *Transfer) Program(dst []byte) error {
	if len(dst) == 0 {
		return pkg.ErrInvalidParameter
	}
	if t.armed != nil {
		return pkg.ErrTransferActive
	}
	t.armed = dst

	rp.DMA.CH0_READ_ADDR.Set(uint32(uintptr(unsafe.Pointer(&rp.ADC.FIFO))))
	rp.DMA.CH0_WRITE_ADDR.Set(uint32(uintptr(unsafe.Pointer(&dst[0]))))
	rp.DMA.CH0_TRANS_COUNT.Set(uint32(len(dst)))

	// 8-bit units, fixed read address, incrementing write address,
	// DREQ_ADC pacing. Writing CTRL_TRIG with EN starts the channel.
	rp.DMA.CH0_CTRL_TRIG.Set(rp.DMA_CH0_CTRL_TRIG_EN |
		rp.DMA_CH0_CTRL_TRIG_INCR_WRITE |
		dreqADC<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)

	return nil
}

// Wait implements hal.Transfer: block until the channel clears BUSY.
// There is no timeout; a transfer the hardware never completes parks the
// capture context here until external reset.
func (t *Transfer) Wait(ctx context.Context) error {
	if t.armed == nil {
		return pkg.ErrNoTransfer
	}
	for rp.DMA.CH0_CTRL_TRIG.HasBits(rp.DMA_CH0_CTRL_TRIG_BUSY) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			runtime.Gosched()
		}
	}
	t.armed = nil
	return nil
}
