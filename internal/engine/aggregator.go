package engine

import (
	"sync"

	"github.com/opsdrift/dnsherd/internal/model"
)

// Aggregator accumulates run outcomes. Counters count interface-level
// decisions; the bucket lists hold host-level membership, one entry per host
// under its final outcome, in the order hosts were recorded.
type Aggregator struct {
	mu      sync.Mutex
	summary model.Summary
	buckets map[model.Outcome][]string
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{buckets: make(map[model.Outcome][]string)}
}

// RecordHost folds one host's result into the counters and bucket lists. A
// result without interface decisions (offline host, or nothing in scope)
// contributes a single count under its host-level outcome.
func (a *Aggregator) RecordHost(res model.HostResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(res.Decisions) == 0 {
		a.count(res.Outcome)
	} else {
		for _, d := range res.Decisions {
			a.count(d.Outcome)
		}
	}

	a.buckets[res.Outcome] = append(a.buckets[res.Outcome], res.Host)
}

func (a *Aggregator) count(outcome model.Outcome) {
	switch outcome {
	case model.OutcomeChanged:
		a.summary.Changed++
	case model.OutcomeUnchanged:
		a.summary.Unchanged++
	case model.OutcomeOffline:
		a.summary.Offline++
	case model.OutcomeError:
		a.summary.Error++
	}
}

// Summary returns the accumulated counters.
func (a *Aggregator) Summary() model.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary
}

// Hosts returns the bucket membership for an outcome in recorded order.
func (a *Aggregator) Hosts(outcome model.Outcome) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.buckets[outcome]...)
}
