package bridge

import (
	"testing"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/bridge/hal/sim"
)

func TestChannelLineCodingSyncOnChange(t *testing.T) {
	ch := newTestChannel(8)
	p := sim.NewLoopback()

	// Both sides start at the default: nothing to apply.
	if err := ch.syncLineCoding(p); err != nil {
		t.Fatalf("syncLineCoding: %v", err)
	}
	if got := p.Configures(); got != 0 {
		t.Errorf("peripheral configured %d times with no change, want 0", got)
	}

	want := hal.LineCoding{BaudRate: 57600, StopBits: hal.StopBits2, Parity: hal.ParityEven, DataBits: 7}
	ch.SetHostLineCoding(want)

	if err := ch.syncLineCoding(p); err != nil {
		t.Fatalf("syncLineCoding: %v", err)
	}
	if got := p.Configures(); got != 1 {
		t.Errorf("peripheral configured %d times after change, want 1", got)
	}
	if got := p.LineCoding(); got != want {
		t.Errorf("peripheral line coding = %+v, want %+v", got, want)
	}

	// Re-sync with no further change is a no-op.
	if err := ch.syncLineCoding(p); err != nil {
		t.Fatalf("syncLineCoding: %v", err)
	}
	if got := p.Configures(); got != 1 {
		t.Errorf("peripheral reconfigured without a change (%d applies)", got)
	}
}

func TestChannelBufferGuardsAreIndependent(t *testing.T) {
	ch := newTestChannel(8)

	// Hold FromHost's guard; ToHost must still accept traffic.
	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch.FromHost.TryFill(1, func(dst []byte) int {
			close(entered)
			<-release
			return 0
		})
	}()
	<-entered

	if n, ok := fillBytes(ch.ToHost, []byte("xy")); !ok || n != 2 {
		t.Errorf("ToHost fill = (%d, %v) while FromHost guard held, want (2, true)", n, ok)
	}
	close(release)
	<-done
}
