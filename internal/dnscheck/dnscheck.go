// Package dnscheck verifies that the desired DNS servers actually answer
// queries before the fleet is pointed at them.
package dnscheck

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// DefaultTimeout bounds a single health query.
const DefaultTimeout = 3 * time.Second

// Result reports the health of one desired DNS server.
type Result struct {
	Server string
	OK     bool
	RTT    time.Duration
	Err    error
}

// Checker issues a root NS query to each server and records whether it
// answered at all. Any response, including a negative one, proves the
// resolver is alive.
type Checker struct {
	Timeout time.Duration

	// exchange is a test seam over the DNS client exchange.
	exchange func(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error)
}

// New returns a Checker with the default per-query timeout.
func New() *Checker {
	return &Checker{Timeout: DefaultTimeout}
}

// CheckServers queries every server once and returns one result per server,
// in input order.
func (c *Checker) CheckServers(ctx context.Context, servers []string) []Result {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	exchange := c.exchange
	if exchange == nil {
		client := &dns.Client{Timeout: timeout}
		exchange = func(ctx context.Context, msg *dns.Msg, addr string) (*dns.Msg, time.Duration, error) {
			return client.ExchangeContext(ctx, msg, addr)
		}
	}

	results := make([]Result, 0, len(servers))
	for _, server := range servers {
		msg := new(dns.Msg)
		msg.SetQuestion(".", dns.TypeNS)
		msg.RecursionDesired = false

		addr := server
		if _, _, err := net.SplitHostPort(server); err != nil {
			addr = net.JoinHostPort(server, "53")
		}

		queryCtx, cancel := context.WithTimeout(ctx, timeout)
		resp, rtt, err := exchange(queryCtx, msg, addr)
		cancel()

		res := Result{Server: server, RTT: rtt, Err: err}
		res.OK = err == nil && resp != nil
		results = append(results, res)
	}

	return results
}

// Healthy returns nil when every result is OK, otherwise a
// ConfigurationError naming the servers that did not respond.
func Healthy(results []Result) error {
	var dead []string
	for _, res := range results {
		if !res.OK {
			dead = append(dead, res.Server)
		}
	}
	if len(dead) == 0 {
		return nil
	}
	return herderrors.NewConfigurationError("new-dns",
		fmt.Sprintf("desired DNS servers not responding: %s", strings.Join(dead, ", ")), nil)
}
