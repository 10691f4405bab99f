package sim

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/pkg"
)

// Interface compliance.
var (
	_ hal.Stack      = (*Stack)(nil)
	_ hal.Port       = (*Port)(nil)
	_ hal.Converter  = (*Converter)(nil)
	_ hal.Transfer   = (*Transfer)(nil)
	_ hal.Indicator  = (*Indicator)(nil)
	_ hal.Peripheral = (*Loopback)(nil)
)

func TestPortWriteCaps(t *testing.T) {
	p := NewPort()
	p.SetConnected(true)
	p.SetWriteLimit(4)

	n, err := p.Write([]byte("abcdefgh"))
	if err != nil || n != 4 {
		t.Errorf("Write = (%d, %v), want (4, nil)", n, err)
	}

	// Unflushed bytes are not visible to the host.
	buf := make([]byte, 8)
	if got := p.HostRead(buf); got != 0 {
		t.Errorf("host saw %d bytes before flush, want 0", got)
	}

	if err := p.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := p.HostRead(buf)
	if !bytes.Equal(buf[:got], []byte("abcd")) {
		t.Errorf("host saw %q, want %q", buf[:got], "abcd")
	}
}

func TestPortDisconnectedIO(t *testing.T) {
	p := NewPort()

	if _, err := p.Write([]byte("x")); !errors.Is(err, pkg.ErrNotConnected) {
		t.Errorf("Write while disconnected: %v, want ErrNotConnected", err)
	}
	if _, err := p.Read(make([]byte, 1)); !errors.Is(err, pkg.ErrNotConnected) {
		t.Errorf("Read while disconnected: %v, want ErrNotConnected", err)
	}

	// Host bytes survive the disconnected interval.
	p.HostWrite([]byte("kept"))
	p.SetConnected(true)
	buf := make([]byte, 8)
	n, err := p.Read(buf)
	if err != nil || string(buf[:n]) != "kept" {
		t.Errorf("Read after reconnect = (%q, %v)", buf[:n], err)
	}
}

func TestTransferRequiresProgram(t *testing.T) {
	conv := NewConverter()
	xfer := NewTransfer(conv)

	if err := xfer.Wait(context.Background()); !errors.Is(err, pkg.ErrNoTransfer) {
		t.Errorf("Wait without Program: %v, want ErrNoTransfer", err)
	}
	if err := xfer.Program(nil); !errors.Is(err, pkg.ErrInvalidParameter) {
		t.Errorf("Program(nil): %v, want ErrInvalidParameter", err)
	}
}

func TestTransferPacedByConverter(t *testing.T) {
	conv := NewConverter()
	conv.SetLevel(0x55)
	xfer := NewTransfer(conv)

	dst := make([]byte, 8)
	if err := xfer.Program(dst); err != nil {
		t.Fatalf("Program: %v", err)
	}

	// Converter idle: the paced transfer makes no progress.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	err := xfer.Wait(ctx)
	cancel()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait with idle converter: %v, want deadline exceeded", err)
	}

	conv.Start()
	if err := xfer.Wait(context.Background()); err != nil {
		t.Fatalf("Wait with running converter: %v", err)
	}
	if !bytes.Equal(dst, bytes.Repeat([]byte{0x55}, 8)) {
		t.Error("destination not filled with converter readings")
	}
}
