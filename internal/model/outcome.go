package model

// Outcome classifies the result of reconciling a host or a single interface.
type Outcome string

const (
	// OutcomeChanged means a DNS change was necessary and was applied (or
	// simulated under dry-run).
	OutcomeChanged Outcome = "changed"
	// OutcomeUnchanged means the current DNS configuration already matched
	// the desired set, or the host had no interface in scope.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeOffline means the host did not answer the reachability probe.
	OutcomeOffline Outcome = "offline"
	// OutcomeError means inspection or apply failed on a reachable host.
	OutcomeError Outcome = "error"
)

// Outcomes lists every outcome in record section order.
var Outcomes = []Outcome{OutcomeChanged, OutcomeUnchanged, OutcomeOffline, OutcomeError}

// SectionHeader returns the run record section token for the outcome,
// including the trailing colon.
func (o Outcome) SectionHeader() string {
	switch o {
	case OutcomeChanged:
		return "Changed:"
	case OutcomeUnchanged:
		return "Unchanged:"
	case OutcomeOffline:
		return "Offline:"
	case OutcomeError:
		return "Error:"
	default:
		return ""
	}
}

// OutcomeFromSectionHeader maps a record section token back to its outcome.
// The second return value reports whether the token was recognized.
func OutcomeFromSectionHeader(token string) (Outcome, bool) {
	for _, o := range Outcomes {
		if o.SectionHeader() == token {
			return o, true
		}
	}
	return "", false
}
