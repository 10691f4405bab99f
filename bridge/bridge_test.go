package bridge

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/bridge/hal/sim"
)

const testSamples = 16

type simBridge struct {
	*Bridge
	stack *sim.Stack
	conv  *sim.Converter
	led   *sim.Indicator
}

func newSimBridge(t *testing.T, ports int) *simBridge {
	t.Helper()

	stack := sim.NewStack(ports)
	conv := sim.NewConverter()
	led := sim.NewIndicator()
	capt := NewCapturer(conv, sim.NewTransfer(conv), led)

	b := New(stack, capt, led, Config{
		BufferSize:  32,
		SampleCount: testSamples,
	})
	return &simBridge{Bridge: b, stack: stack, conv: conv, led: led}
}

// runBridge starts Run and returns a stop function that cancels the
// contexts and waits for a clean exit.
func runBridge(t *testing.T, b *Bridge) func() {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("Run returned %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("bridge contexts did not exit after cancellation")
		}
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestBridgePublishesSampleSets(t *testing.T) {
	sb := newSimBridge(t, 2)
	sb.conv.SetGenerator(func(i int) byte { return byte(i % testSamples) })
	capture := sb.stack.HostPort(0)
	capture.SetConnected(true)

	stop := runBridge(t, sb.Bridge)
	defer stop()

	// Two full sets prove the static buffer is reused, not reallocated.
	waitFor(t, "two sample sets", func() bool {
		return capture.FlushedLen() >= 2*testSamples
	})

	buf := make([]byte, 2*testSamples)
	capture.HostRead(buf)
	var want []byte
	for i := 0; i < testSamples; i++ {
		want = append(want, byte(i))
	}
	if !bytes.Equal(buf[:testSamples], want) {
		t.Errorf("first sample set = %v, want %v", buf[:testSamples], want)
	}
}

func TestBridgeSerialLoopback(t *testing.T) {
	sb := newSimBridge(t, 2)
	serial := sb.stack.HostPort(1)
	serial.SetConnected(true)

	loop := sim.NewLoopback()
	if err := sb.AttachPeripheral(1, loop); err != nil {
		t.Fatalf("AttachPeripheral: %v", err)
	}

	stop := runBridge(t, sb.Bridge)
	defer stop()

	msg := []byte("hello, peripheral")
	serial.HostWrite(msg)

	// Host bytes travel FromHost -> peripheral -> ToHost -> host.
	got := make([]byte, 0, len(msg))
	waitFor(t, "loopback echo", func() bool {
		buf := make([]byte, len(msg))
		n := serial.HostRead(buf)
		got = append(got, buf[:n]...)
		return len(got) >= len(msg)
	})
	if !bytes.Equal(got, msg) {
		t.Errorf("echoed %q, want %q", got, msg)
	}
}

func TestBridgeAppliesHostLineCoding(t *testing.T) {
	sb := newSimBridge(t, 2)
	serial := sb.stack.HostPort(1)
	serial.SetConnected(true)

	loop := sim.NewLoopback()
	if err := sb.AttachPeripheral(1, loop); err != nil {
		t.Fatalf("AttachPeripheral: %v", err)
	}

	stop := runBridge(t, sb.Bridge)
	defer stop()

	want := hal.LineCoding{BaudRate: 9600, StopBits: hal.StopBits1, Parity: hal.ParityOdd, DataBits: 8}
	serial.SetHostLineCoding(want)

	waitFor(t, "line coding re-applied", func() bool {
		return loop.LineCoding() == want
	})
}

func TestBridgeServicesStackEveryPass(t *testing.T) {
	sb := newSimBridge(t, 2)
	stop := runBridge(t, sb.Bridge)
	defer stop()

	waitFor(t, "stack task polling", func() bool {
		return sb.stack.TaskCount() > 100
	})
}

func TestBridgeIndicatorTracksConnectivity(t *testing.T) {
	sb := newSimBridge(t, 2)
	serial := sb.stack.HostPort(1)

	stop := runBridge(t, sb.Bridge)
	defer stop()

	waitFor(t, "indicator off with no host", func() bool {
		return !sb.led.On()
	})

	serial.SetConnected(true)
	waitFor(t, "indicator on after connect", func() bool {
		return sb.led.On()
	})

	serial.SetConnected(false)
	waitFor(t, "indicator off after disconnect", func() bool {
		return !sb.led.On()
	})
}

func TestBridgeDiagBestEffort(t *testing.T) {
	sb := newSimBridge(t, 2)
	diag := sb.stack.HostPort(1)

	stop := runBridge(t, sb.Bridge)
	defer stop()

	// Disconnected: silently dropped.
	sb.Diag("dropped")
	if diag.FlushedLen() != 0 {
		t.Error("diagnostic delivered to a disconnected interface")
	}

	diag.SetConnected(true)
	sb.Diag("adc ready\r\n")
	buf := make([]byte, 64)
	n := diag.HostRead(buf)
	if string(buf[:n]) != "adc ready\r\n" {
		t.Errorf("diagnostic = %q, want %q", buf[:n], "adc ready\r\n")
	}
}

func TestBridgeChannelLookup(t *testing.T) {
	sb := newSimBridge(t, 2)

	if _, err := sb.Channel(0); err != nil {
		t.Errorf("Channel(0): %v", err)
	}
	if _, err := sb.Channel(2); err == nil {
		t.Error("Channel(2) succeeded for a 2-interface stack")
	}
	if err := sb.AttachPeripheral(-1, sim.NewLoopback()); err == nil {
		t.Error("AttachPeripheral(-1) succeeded")
	}
}
