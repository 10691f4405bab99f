package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thinpv/pico-usb-adc/bridge/hal"
	"github.com/thinpv/pico-usb-adc/pkg"
)

// DefaultTxCapacity is the simulated transmit queue size per port.
const DefaultTxCapacity = 4096

// Stack is a simulated USB device stack exposing a fixed set of ports.
type Stack struct {
	ports []*Port
	tasks atomic.Uint64
}

// NewStack returns a stack with n disconnected ports.
func NewStack(n int) *Stack {
	s := &Stack{ports: make([]*Port, n)}
	for i := range s.ports {
		s.ports[i] = NewPort()
	}
	return s
}

// Init implements hal.Stack.
func (s *Stack) Init(ctx context.Context) error { return ctx.Err() }

// Task implements hal.Stack. The simulation has no protocol state
// machine; Task only counts invocations so tests can assert the service
// context keeps polling.
func (s *Stack) Task() { s.tasks.Add(1) }

// TaskCount returns the number of Task invocations so far.
func (s *Stack) TaskCount() uint64 { return s.tasks.Load() }

// Ports implements hal.Stack.
func (s *Stack) Ports() int { return len(s.ports) }

// Port implements hal.Stack.
func (s *Stack) Port(n int) hal.Port { return s.ports[n] }

// HostPort returns the concrete simulated port for host-side scripting.
func (s *Stack) HostPort(n int) *Port { return s.ports[n] }

// Port is one simulated virtual serial interface. The device side sees
// the hal.Port methods; tests drive the host side.
type Port struct {
	mu         sync.Mutex
	connected  bool
	lc         hal.LineCoding
	rx         []byte // host-submitted, awaiting device Read
	tx         []byte // device-written, awaiting Flush
	flushed    []byte // flushed toward the host
	txCap      int
	writeLimit int // per-call acceptance cap; 0 = uncapped
}

// NewPort returns a disconnected port with default line coding.
func NewPort() *Port {
	return &Port{lc: hal.DefaultLineCoding, txCap: DefaultTxCapacity}
}

// Connected implements hal.Port.
func (p *Port) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Buffered implements hal.Port.
func (p *Port) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rx)
}

// Read implements hal.Port.
func (p *Port) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return 0, pkg.ErrNotConnected
	}
	n := copy(buf, p.rx)
	p.rx = p.rx[n:]
	return n, nil
}

// Write implements hal.Port. Acceptance is capped by the per-call write
// limit and the remaining transmit queue space; the rest is declined.
func (p *Port) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return 0, pkg.ErrNotConnected
	}
	n := len(buf)
	if p.writeLimit > 0 && n > p.writeLimit {
		n = p.writeLimit
	}
	if free := p.txCap - len(p.tx); n > free {
		n = free
	}
	if n < 0 {
		n = 0
	}
	p.tx = append(p.tx, buf[:n]...)
	return n, nil
}

// Flush implements hal.Port.
func (p *Port) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.connected {
		return pkg.ErrNotConnected
	}
	p.flushed = append(p.flushed, p.tx...)
	p.tx = p.tx[:0]
	return nil
}

// LineCoding implements hal.Port.
func (p *Port) LineCoding() hal.LineCoding {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lc
}

// SetConnected toggles the simulated host connection. Pending bytes are
// retained across disconnects, as a real transport's buffers would be.
func (p *Port) SetConnected(connected bool) {
	p.mu.Lock()
	p.connected = connected
	p.mu.Unlock()
}

// SetHostLineCoding simulates a host line-coding request.
func (p *Port) SetHostLineCoding(lc hal.LineCoding) {
	p.mu.Lock()
	p.lc = lc
	p.mu.Unlock()
}

// SetWriteLimit caps how many bytes a single device Write may accept.
// Zero removes the cap.
func (p *Port) SetWriteLimit(n int) {
	p.mu.Lock()
	p.writeLimit = n
	p.mu.Unlock()
}

// HostWrite submits bytes from the simulated host; the device observes
// them through Buffered and Read.
func (p *Port) HostWrite(data []byte) {
	p.mu.Lock()
	p.rx = append(p.rx, data...)
	p.mu.Unlock()
}

// HostRead consumes bytes the device has flushed toward the host.
func (p *Port) HostRead(buf []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := copy(buf, p.flushed)
	p.flushed = p.flushed[n:]
	return n
}

// FlushedLen returns how many flushed bytes await the host.
func (p *Port) FlushedLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.flushed)
}

// PendingLen returns how many written bytes await a Flush.
func (p *Port) PendingLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tx)
}

// Converter is a simulated analog converter. Readings come from a
// generator function; the default produces a constant mid-scale level.
type Converter struct {
	mu         sync.Mutex
	cfg        hal.ConverterConfig
	configured bool
	running    bool
	stale      int
	idx        int
	gen        func(i int) byte

	drains int
	stops  int
	starts int
}

// NewConverter returns a converter producing a constant 0x80 level.
func NewConverter() *Converter {
	return &Converter{gen: func(int) byte { return 0x80 }}
}

// SetLevel makes every reading the given constant.
func (c *Converter) SetLevel(level byte) {
	c.SetGenerator(func(int) byte { return level })
}

// SetGenerator installs a reading generator indexed by conversion count.
func (c *Converter) SetGenerator(gen func(i int) byte) {
	c.mu.Lock()
	c.gen = gen
	c.mu.Unlock()
}

// Configure implements hal.Converter.
func (c *Converter) Configure(cfg hal.ConverterConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.configured = true
	return nil
}

// Start implements hal.Converter.
func (c *Converter) Start() {
	c.mu.Lock()
	c.running = true
	c.starts++
	c.mu.Unlock()
}

// Stop implements hal.Converter.
func (c *Converter) Stop() {
	c.mu.Lock()
	c.running = false
	c.stops++
	c.mu.Unlock()
}

// Drain implements hal.Converter.
func (c *Converter) Drain() {
	c.mu.Lock()
	c.stale = 0
	c.drains++
	c.mu.Unlock()
}

// InjectStale seeds stale readings for tests asserting the idempotent
// reset path.
func (c *Converter) InjectStale(n int) {
	c.mu.Lock()
	c.stale += n
	c.mu.Unlock()
}

// Running reports whether the converter is free-running.
func (c *Converter) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// StaleReadings returns the stale count remaining in the result queue.
func (c *Converter) StaleReadings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Drains returns how many times the result queue was drained.
func (c *Converter) Drains() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drains
}

// Config returns the last applied configuration and whether Configure was
// ever called.
func (c *Converter) Config() (hal.ConverterConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg, c.configured
}

// sample produces the next reading. Only valid while running.
func (c *Converter) sample() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.gen(c.idx)
	c.idx++
	return v
}

// Transfer is a simulated one-shot paced transfer engine bound to a
// converter. Wait completes as soon as the converter is running, filling
// the whole destination in one step; real pacing is collapsed.
type Transfer struct {
	mu    sync.Mutex
	conv  *Converter
	dst   []byte
	err   error
	stall bool
}

// NewTransfer returns a transfer engine drawing readings from conv.
func NewTransfer(conv *Converter) *Transfer {
	return &Transfer{conv: conv}
}

// SetError forces the next Wait to fail after completing the transfer.
func (t *Transfer) SetError(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

// SetStall makes Wait block until its context is cancelled, simulating a
// transfer the hardware never completes.
func (t *Transfer) SetStall(stall bool) {
	t.mu.Lock()
	t.stall = stall
	t.mu.Unlock()
}

// Program implements hal.Transfer.
func (t *Transfer) Program(dst []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(dst) == 0 {
		return pkg.ErrInvalidParameter
	}
	if t.dst != nil {
		return pkg.ErrTransferActive
	}
	t.dst = dst
	return nil
}

// Wait implements hal.Transfer.
func (t *Transfer) Wait(ctx context.Context) error {
	t.mu.Lock()
	dst := t.dst
	stall := t.stall
	t.mu.Unlock()

	if dst == nil {
		return pkg.ErrNoTransfer
	}
	if stall {
		<-ctx.Done()
		return ctx.Err()
	}

	// Paced by the converter: no readings move until it runs.
	for !t.conv.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Microsecond):
		}
	}

	for i := range dst {
		dst[i] = t.conv.sample()
	}

	t.mu.Lock()
	t.dst = nil
	err := t.err
	t.mu.Unlock()
	return err
}

// Indicator is a simulated status output recording transitions.
type Indicator struct {
	mu          sync.Mutex
	on          bool
	transitions int
}

// NewIndicator returns an indicator in the off state.
func NewIndicator() *Indicator { return &Indicator{} }

// Set implements hal.Indicator.
func (i *Indicator) Set(on bool) {
	i.mu.Lock()
	if on != i.on {
		i.transitions++
	}
	i.on = on
	i.mu.Unlock()
}

// On reports the current state.
func (i *Indicator) On() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.on
}

// Transitions returns how many state changes occurred.
func (i *Indicator) Transitions() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.transitions
}

// Loopback is a simulated peripheral that echoes written bytes back to
// its read side through an internal queue.
type Loopback struct {
	mu         sync.Mutex
	queue      []byte
	lc         hal.LineCoding
	configures int
}

// NewLoopback returns an empty loopback peripheral.
func NewLoopback() *Loopback { return &Loopback{} }

// Configure implements hal.Peripheral.
func (l *Loopback) Configure(lc hal.LineCoding) error {
	l.mu.Lock()
	l.lc = lc
	l.configures++
	l.mu.Unlock()
	return nil
}

// TryWrite implements hal.Peripheral.
func (l *Loopback) TryWrite(p []byte) int {
	l.mu.Lock()
	l.queue = append(l.queue, p...)
	l.mu.Unlock()
	return len(p)
}

// TryRead implements hal.Peripheral.
func (l *Loopback) TryRead(p []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := copy(p, l.queue)
	l.queue = l.queue[n:]
	return n
}

// LineCoding returns the last applied configuration.
func (l *Loopback) LineCoding() hal.LineCoding {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lc
}

// Configures returns how many times Configure was called.
func (l *Loopback) Configures() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.configures
}
