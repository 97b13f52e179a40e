package probe

import (
	"context"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultAttempts is the fixed number of probe attempts per host.
	DefaultAttempts = 2
	// DefaultTimeout bounds a single probe attempt.
	DefaultTimeout = 2 * time.Second
	// DefaultPort is the management port probed for liveness.
	DefaultPort = 135
)

// Prober answers whether a host currently responds to a lightweight liveness
// check. Implementations never return an error: timeouts and unreachable
// networks map to false.
type Prober interface {
	Probe(ctx context.Context, host string) bool
}

// DialProber probes reachability with a bounded TCP connect against a
// management port. A refused or timed-out dial counts as unreachable.
type DialProber struct {
	Port     int
	Attempts int
	Timeout  time.Duration

	// DialContext allows substituting the dial function in tests.
	DialContext func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialProber returns a DialProber with the default attempt count, timeout
// and port.
func NewDialProber() *DialProber {
	return &DialProber{Port: DefaultPort, Attempts: DefaultAttempts, Timeout: DefaultTimeout}
}

// Probe dials the host up to Attempts times, each attempt bounded by Timeout.
// It returns true on the first successful connect.
func (p *DialProber) Probe(ctx context.Context, host string) bool {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	port := p.Port
	if port <= 0 {
		port = DefaultPort
	}

	dial := p.DialContext
	if dial == nil {
		dialer := &net.Dialer{}
		dial = dialer.DialContext
	}

	address := net.JoinHostPort(host, strconv.Itoa(port))
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return false
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		conn, err := dial(attemptCtx, "tcp", address)
		cancel()
		if err == nil {
			conn.Close()
			return true
		}
	}

	return false
}
