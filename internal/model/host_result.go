package model

import (
	"time"
)

// RunParameters holds the inputs that shape a reconciliation pass. Immutable
// once the run starts.
type RunParameters struct {
	// IPPrefix is the wildcard pattern an interface IP must match to be in
	// scope, e.g. "10.0.1.*".
	IPPrefix string
	// DesiredDNS is the DNS server search order to enforce. Order is
	// insignificant for comparison but applied verbatim. Must be non-empty.
	DesiredDNS []string
	// DryRun simulates changes without any remote write.
	DryRun bool
}

// InterfaceRef is an opaque handle identifying an interface to the remote
// configuration service. It is used only to address SetDNSServerOrder calls.
type InterfaceRef string

// InterfaceSnapshot is the fixed-shape view of one network interface on one
// host, fetched fresh per host and never cached across hosts.
type InterfaceSnapshot struct {
	Host        string
	Ref         InterfaceRef
	Name        string
	IPAddresses []string
	DNSServers  []string
}

// InterfaceDecision records the outcome for a single in-scope interface.
type InterfaceDecision struct {
	Interface string
	Outcome   Outcome
	Message   string
}

// HostResult captures the outcome of reconciling a single host.
type HostResult struct {
	Host      string
	Outcome   Outcome
	Message   string
	Decisions []InterfaceDecision
	Duration  time.Duration
	Timestamp time.Time
}

// Summary holds the final counters for a run. Changed, Unchanged and Error
// count interface-level decisions; hosts that never reached interface
// inspection (offline, or nothing in scope) contribute one count each.
type Summary struct {
	Changed   int
	Unchanged int
	Offline   int
	Error     int
}

// Total returns the sum of all counters.
func (s Summary) Total() int {
	return s.Changed + s.Unchanged + s.Offline + s.Error
}
