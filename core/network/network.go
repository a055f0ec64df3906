// Package network keeps a named set of clocks around one timebase so that
// control surfaces and configuration files can address clocks by name.
//
// All operations of a Network are serialized by a single mutex, which makes
// the lazily reconciled clocks safe to query from several goroutines.
package network

import (
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"example.com/wiggles/base/metrics"
	"example.com/wiggles/base/rate"
	basetimebase "example.com/wiggles/base/timebase"
	"example.com/wiggles/base/zaplog"
	"example.com/wiggles/core/clock"
	"example.com/wiggles/core/timebase"
)

var (
	clocksGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: metrics.NetworkClocksN,
		Help: metrics.NetworkClocksH,
	})
	queriesCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.NetworkQueriesN,
		Help: metrics.NetworkQueriesH,
	})
)

type Kind int

const (
	KindClock Kind = iota
	KindMultiplier
	KindTriggered
)

func (k Kind) String() string {
	switch k {
	case KindClock:
		return "clock"
	case KindMultiplier:
		return "multiplier"
	case KindTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// Value is the state of one clock as of the current frame.
type Value struct {
	Name       string
	Kind       Kind
	Frame      int64
	Phase      float64
	Ticks      int64
	TotalTicks int64
	Ticked     bool
}

type node struct {
	name   string
	kind   Kind
	source string // empty for the timebase
	clk    clock.Node
}

type rateSetter interface {
	SetRate(r rate.Rate)
}

type Network struct {
	tb  *timebase.Timebase
	log *zap.Logger

	mu    sync.Mutex
	nodes *treemap.Map // string -> *node
}

// New creates an empty network driven by tb.
func New(tb *timebase.Timebase, log *zap.Logger) *Network {
	if tb == nil {
		panic("nil timebase")
	}
	return &Network{
		tb:    tb,
		log:   zaplog.Or(log),
		nodes: treemap.NewWithStringComparator(),
	}
}

func (n *Network) Timebase() *timebase.Timebase {
	return n.tb
}

func (n *Network) lookup(name string) (*node, error) {
	v, ok := n.nodes.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
	return v.(*node), nil
}

func (n *Network) frameSource(source string) (basetimebase.FrameSource, error) {
	if source == "" {
		return n.tb, nil
	}
	nd, err := n.lookup(source)
	if err != nil {
		return nil, err
	}
	return nd.clk, nil
}

func (n *Network) phaseSource(source string) (clock.PhaseSource, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: multiplier requires a source clock", ErrUnknownClock)
	}
	nd, err := n.lookup(source)
	if err != nil {
		return nil, err
	}
	return nd.clk, nil
}

func (n *Network) insert(nd *node) {
	n.nodes.Put(nd.name, nd)
	clocksGauge.Set(float64(n.nodes.Size()))
	n.log.Debug("clock added",
		zap.String("name", nd.name),
		zap.Stringer("kind", nd.kind),
		zap.String("source", nd.source))
}

func (n *Network) checkNew(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownClock)
	}
	if _, ok := n.nodes.Get(name); ok {
		return fmt.Errorf("%w: %q", ErrDuplicateClock, name)
	}
	return nil
}

// AddClock adds a clock ticking at r. An empty source drives it directly
// from the timebase.
func (n *Network) AddClock(name string, r rate.Rate, phase float64, source string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.checkNew(name); err != nil {
		return err
	}
	src, err := n.frameSource(source)
	if err != nil {
		return err
	}
	c, err := clock.New(src, r, phase)
	if err != nil {
		return err
	}
	n.insert(&node{name: name, kind: KindClock, source: source, clk: c})
	return nil
}

func (n *Network) AddMultiplier(name, source string, mult float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.checkNew(name); err != nil {
		return err
	}
	src, err := n.phaseSource(source)
	if err != nil {
		return err
	}
	m, err := clock.NewMultiplier(src, mult)
	if err != nil {
		return err
	}
	n.insert(&node{name: name, kind: KindMultiplier, source: source, clk: m})
	return nil
}

func (n *Network) AddTriggered(name string, r rate.Rate, source string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.checkNew(name); err != nil {
		return err
	}
	src, err := n.frameSource(source)
	if err != nil {
		return err
	}
	t, err := clock.NewTriggered(src, r)
	if err != nil {
		return err
	}
	n.insert(&node{name: name, kind: KindTriggered, source: source, clk: t})
	return nil
}

// Remove deletes a clock that no other clock is driven by. The clock stops
// following and being followed by any other clock.
func (n *Network) Remove(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	it := n.nodes.Iterator()
	for it.Next() {
		other := it.Value().(*node)
		if other.source == name {
			return fmt.Errorf("%w: %q drives %q", ErrHasDependents, name, other.name)
		}
	}
	it = n.nodes.Iterator()
	for it.Next() {
		it.Value().(*node).clk.RemoveFollower(nd.clk)
	}
	n.nodes.Remove(name)
	clocksGauge.Set(float64(n.nodes.Size()))
	n.log.Debug("clock removed", zap.String("name", name))
	return nil
}

// SetSource re-drives a clock from another clock, or from the timebase if
// source is empty.
func (n *Network) SetSource(name, source string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	switch c := nd.clk.(type) {
	case *clock.Multiplier:
		src, err := n.phaseSource(source)
		if err != nil {
			return err
		}
		err = c.SetSource(src)
		if err != nil {
			return err
		}
	case interface {
		SetSource(basetimebase.FrameSource) error
	}:
		src, err := n.frameSource(source)
		if err != nil {
			return err
		}
		err = c.SetSource(src)
		if err != nil {
			return err
		}
	}
	nd.source = source
	return nil
}

func (n *Network) SetRate(name string, r rate.Rate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	c, ok := nd.clk.(rateSetter)
	if !ok {
		return fmt.Errorf("%w: cannot set rate of %s %q", ErrWrongKind, nd.kind, name)
	}
	c.SetRate(r)
	return nil
}

func (n *Network) SetMult(name string, mult float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, err := n.multiplier(name)
	if err != nil {
		return err
	}
	return m.SetMult(mult)
}

func (n *Network) ResetToSource(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, err := n.multiplier(name)
	if err != nil {
		return err
	}
	m.ResetToSource()
	return nil
}

func (n *Network) multiplier(name string) (*clock.Multiplier, error) {
	nd, err := n.lookup(name)
	if err != nil {
		return nil, err
	}
	m, ok := nd.clk.(*clock.Multiplier)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a multiplier", ErrWrongKind, nd.kind, name)
	}
	return m, nil
}

// Reset zeroes a clock and everything following it.
func (n *Network) Reset(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	nd.clk.Reset()
	return nil
}

func (n *Network) ForceTick(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	nd.clk.ForceTick()
	return nil
}

func (n *Network) Trigger(name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return err
	}
	t, ok := nd.clk.(*clock.Triggered)
	if !ok {
		return fmt.Errorf("%w: %s %q cannot be triggered", ErrWrongKind, nd.kind, name)
	}
	t.Trigger()
	return nil
}

// Follow makes follower reset and tick whenever master is reset or forced
// to tick.
func (n *Network) Follow(follower, master string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	f, err := n.lookup(follower)
	if err != nil {
		return err
	}
	m, err := n.lookup(master)
	if err != nil {
		return err
	}
	return m.clk.AddFollower(f.clk)
}

func (n *Network) Unfollow(follower, master string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	f, err := n.lookup(follower)
	if err != nil {
		return err
	}
	m, err := n.lookup(master)
	if err != nil {
		return err
	}
	m.clk.RemoveFollower(f.clk)
	return nil
}

func (nd *node) value() Value {
	c := nd.clk
	c.Reconcile()
	return Value{
		Name:       nd.name,
		Kind:       nd.kind,
		Frame:      c.FrameNumber(),
		Phase:      c.Phase(),
		Ticks:      c.Ticks(),
		TotalTicks: c.TotalTicks(),
		Ticked:     c.Ticked(),
	}
}

func (n *Network) Value(name string) (Value, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return Value{}, err
	}
	queriesCounter.Inc()
	return nd.value(), nil
}

// Values returns the values of all clocks ordered by name.
func (n *Network) Values() []Value {
	n.mu.Lock()
	defer n.mu.Unlock()
	vs := make([]Value, 0, n.nodes.Size())
	it := n.nodes.Iterator()
	for it.Next() {
		vs = append(vs, it.Value().(*node).value())
	}
	queriesCounter.Add(float64(len(vs)))
	return vs
}

func (n *Network) Names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, 0, n.nodes.Size())
	for _, k := range n.nodes.Keys() {
		names = append(names, k.(string))
	}
	return names
}

func (n *Network) Kind(name string) (Kind, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	nd, err := n.lookup(name)
	if err != nil {
		return 0, err
	}
	return nd.kind, nil
}

func (n *Network) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.nodes.Size()
}
