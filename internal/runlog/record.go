package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/opsdrift/dnsherd/internal/model"
)

const (
	prefixHeaderToken = "LocalIPPrefix:"
	dnsHeaderToken    = "NewDNS:"
)

// Record is the persisted artifact of one reconciliation pass. It carries the
// run parameters (minus dry-run) and the final host-level bucket memberships,
// and doubles as resumption input for a follow-up run.
type Record struct {
	// Timestamp is the moment the record was created. Zero when a parsed
	// record carried an unrecognized timestamp line.
	Timestamp time.Time
	// RawTimestamp preserves the first line of a parsed record verbatim.
	RawTimestamp string

	IPPrefix   string
	DesiredDNS []string

	buckets map[model.Outcome][]string
}

// New creates an empty record for the given run parameters, stamped now.
func New(params model.RunParameters, now time.Time) *Record {
	return &Record{
		Timestamp:    now,
		RawTimestamp: now.Format(time.RFC3339),
		IPPrefix:     params.IPPrefix,
		DesiredDNS:   append([]string(nil), params.DesiredDNS...),
		buckets:      make(map[model.Outcome][]string),
	}
}

// Add appends a host to an outcome bucket, preserving insertion order.
func (r *Record) Add(outcome model.Outcome, host string) {
	if r.buckets == nil {
		r.buckets = make(map[model.Outcome][]string)
	}
	r.buckets[outcome] = append(r.buckets[outcome], host)
}

// Hosts returns the bucket membership for an outcome in insertion order.
func (r *Record) Hosts(outcome model.Outcome) []string {
	return r.buckets[outcome]
}

// ResumeHosts returns the host set a follow-up run should target: the Offline
// bucket followed by the Error bucket, in recorded order. Changed and
// Unchanged hosts already reached a terminal successful state and are
// excluded.
func (r *Record) ResumeHosts() []string {
	var hosts []string
	hosts = append(hosts, r.buckets[model.OutcomeOffline]...)
	hosts = append(hosts, r.buckets[model.OutcomeError]...)
	return hosts
}

// Parameters reconstructs the run parameters recorded in the header. DryRun
// is never persisted and always comes back false.
func (r *Record) Parameters() model.RunParameters {
	return model.RunParameters{
		IPPrefix:   r.IPPrefix,
		DesiredDNS: append([]string(nil), r.DesiredDNS...),
	}
}

// Encode renders the record in its line-oriented text form. Empty sections
// are omitted entirely; a blank line separates the header from the first
// section and each non-empty section from the next.
func (r *Record) Encode() []byte {
	var b strings.Builder

	ts := r.RawTimestamp
	if ts == "" && !r.Timestamp.IsZero() {
		ts = r.Timestamp.Format(time.RFC3339)
	}
	b.WriteString(ts)
	b.WriteString("\n")
	b.WriteString(prefixHeaderToken + r.IPPrefix + "\n")
	b.WriteString(dnsHeaderToken + strings.Join(r.DesiredDNS, ",") + "\n")

	for _, outcome := range model.Outcomes {
		hosts := r.buckets[outcome]
		if len(hosts) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(outcome.SectionHeader() + "\n")
		for _, host := range hosts {
			b.WriteString(host + "\n")
		}
	}

	return []byte(b.String())
}

// WriteFile persists the record atomically: the content lands in a temporary
// file first and is renamed into place.
func (r *Record) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, r.Encode(), 0o644); err != nil {
		return fmt.Errorf("write temporary record: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temporary record: %w", err)
	}

	return nil
}
