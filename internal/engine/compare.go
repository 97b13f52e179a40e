package engine

// NeedsChange reports whether the current DNS server list differs from the
// desired list as a set. Order and duplicates within either list are
// ignored; a single missing or extra entry forces a change.
func NeedsChange(current, desired []string) bool {
	currentSet := toSet(current)
	desiredSet := toSet(desired)

	for server := range desiredSet {
		if _, ok := currentSet[server]; !ok {
			return true
		}
	}
	for server := range currentSet {
		if _, ok := desiredSet[server]; !ok {
			return true
		}
	}
	return false
}

func toSet(servers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(servers))
	for _, s := range servers {
		set[s] = struct{}{}
	}
	return set
}
