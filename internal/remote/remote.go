// Package remote defines the capability interface for the management
// transport that lists a host's network interfaces and rewrites a selected
// interface's DNS server search order. The wire protocol itself is supplied
// by the embedding environment; this package only fixes the contract and the
// provider result-code semantics.
package remote

import (
	"context"

	"github.com/opsdrift/dnsherd/internal/model"
)

// Provider result codes for SetDNSServerOrder. Zero is plain success; one
// means the change took effect but the host wants a reboot. Both count as
// applied.
const (
	CodeSuccess        = 0
	CodeRebootRequired = 1
)

// Client is the remote configuration transport consumed by the orchestrator.
type Client interface {
	// ListInterfaces enumerates the host's network interfaces with their
	// bound IP addresses and current DNS server search order. Transport,
	// permission and RPC failures surface as an error.
	ListInterfaces(ctx context.Context, host string) ([]model.InterfaceSnapshot, error)

	// SetDNSServerOrder rewrites the DNS server search order of the
	// interface addressed by ref. The returned code follows the provider
	// convention above; a non-nil error reports a transport-level fault.
	SetDNSServerOrder(ctx context.Context, host string, ref model.InterfaceRef, servers []string) (int, error)
}

// Applied reports whether a provider result code counts as a successful
// apply.
func Applied(code int) bool {
	return code == CodeSuccess || code == CodeRebootRequired
}
