package config

import (
	"fmt"
	"strings"

	"example.com/wiggles/base/rate"
	"example.com/wiggles/core/clock"
	"example.com/wiggles/core/network"
)

type entry struct {
	name   string
	source string
	add    func(*network.Network) error
}

func entries(cfg Config) ([]entry, error) {
	var es []entry
	for _, c := range cfg.Clocks {
		c := c
		r, err := rate.Parse(c.Rate)
		if err != nil {
			return nil, fmt.Errorf("clock %q: %w", c.Name, err)
		}
		es = append(es, entry{c.Name, c.Source, func(net *network.Network) error {
			return net.AddClock(c.Name, r, c.Phase, c.Source)
		}})
	}
	for _, m := range cfg.Multipliers {
		m := m
		es = append(es, entry{m.Name, m.Source, func(net *network.Network) error {
			return net.AddMultiplier(m.Name, m.Source, m.Mult)
		}})
	}
	for _, t := range cfg.Triggered {
		t := t
		r, err := rate.Parse(t.Rate)
		if err != nil {
			return nil, fmt.Errorf("triggered clock %q: %w", t.Name, err)
		}
		es = append(es, entry{t.Name, t.Source, func(net *network.Network) error {
			return net.AddTriggered(t.Name, r, t.Source)
		}})
	}
	return es, nil
}

func exists(net *network.Network, name string) bool {
	_, err := net.Kind(name)
	return err == nil
}

// Apply adds the clocks of cfg to net. Clocks may be declared in any order;
// each is added once its source exists.
func Apply(cfg Config, net *network.Network) error {
	pending, err := entries(cfg)
	if err != nil {
		return err
	}
	for len(pending) != 0 {
		var rest []entry
		for _, e := range pending {
			if e.source != "" && !exists(net, e.source) {
				rest = append(rest, e)
				continue
			}
			if err := e.add(net); err != nil {
				return fmt.Errorf("clock %q: %w", e.name, err)
			}
		}
		if len(rest) == len(pending) {
			return unresolved(rest)
		}
		pending = rest
	}
	for _, f := range cfg.Follow {
		if err := net.Follow(f.Follower, f.Master); err != nil {
			return fmt.Errorf("%q following %q: %w", f.Follower, f.Master, err)
		}
	}
	return nil
}

func unresolved(es []entry) error {
	declared := make(map[string]bool, len(es))
	for _, e := range es {
		declared[e.name] = true
	}
	var names []string
	for _, e := range es {
		if !declared[e.source] {
			return fmt.Errorf("clock %q: %w: %q", e.name, network.ErrUnknownClock, e.source)
		}
		names = append(names, e.name)
	}
	return fmt.Errorf("%w: %s", clock.ErrCyclicDependency, strings.Join(names, ", "))
}
