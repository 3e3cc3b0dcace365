// Package pinger answers one question: does a scanner respond at this IP.
package pinger

import (
	"context"
	"time"

	"github.com/go-ping/ping"
)

const defaultTimeout = 3 * time.Second

// probeFunc is a package-level variable so tests can substitute the probe.
var probeFunc = probe

// Probe sends a single unprivileged ICMP echo to ip and reports whether a
// reply arrived before the ctx deadline (or a short default timeout).
func Probe(ctx context.Context, ip string) (bool, error) {
	return probeFunc(ctx, ip)
}

func probe(ctx context.Context, ip string) (bool, error) {
	p, err := ping.NewPinger(ip)
	if err != nil {
		return false, err
	}
	p.Count = 1
	p.SetPrivileged(false)
	p.Timeout = defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < p.Timeout {
			p.Timeout = d
		}
	}

	if err := p.Run(); err != nil {
		return false, err
	}
	return p.Statistics().PacketsRecv > 0, nil
}
