package runlog

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/opsdrift/dnsherd/internal/model"
	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// parser states for the record reader.
type parseState int

const (
	stateTimestamp parseState = iota
	stateHeader
	stateSection
)

// ParseFile reads and parses a run record from disk.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, herderrors.NewRecordParseError(path, 0, err)
	}
	defer f.Close()

	rec := &Record{buckets: make(map[model.Outcome][]string)}

	state := stateTimestamp
	var section model.Outcome

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if state == stateTimestamp {
			rec.RawTimestamp = trimmed
			if ts, err := time.Parse(time.RFC3339, trimmed); err == nil {
				rec.Timestamp = ts
			}
			state = stateHeader
			continue
		}

		if trimmed == "" {
			continue
		}

		// A recognized section header switches sections from any state.
		if outcome, ok := model.OutcomeFromSectionHeader(trimmed); ok {
			state = stateSection
			section = outcome
			continue
		}

		switch state {
		case stateHeader:
			switch {
			case strings.HasPrefix(trimmed, prefixHeaderToken):
				rec.IPPrefix = strings.TrimSpace(strings.TrimPrefix(trimmed, prefixHeaderToken))
			case strings.HasPrefix(trimmed, dnsHeaderToken):
				rec.DesiredDNS = splitDNSList(strings.TrimPrefix(trimmed, dnsHeaderToken))
			default:
				return nil, herderrors.NewRecordParseError(path, lineNo,
					fmt.Errorf("unrecognized header line %q", trimmed))
			}
		case stateSection:
			rec.buckets[section] = append(rec.buckets[section], trimmed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, herderrors.NewRecordParseError(path, lineNo, err)
	}

	if rec.IPPrefix == "" {
		return nil, herderrors.NewRecordParseError(path, 0,
			fmt.Errorf("missing %s header", strings.TrimSuffix(prefixHeaderToken, ":")))
	}
	if len(rec.DesiredDNS) == 0 {
		return nil, herderrors.NewRecordParseError(path, 0,
			fmt.Errorf("missing %s header", strings.TrimSuffix(dnsHeaderToken, ":")))
	}

	return rec, nil
}

func splitDNSList(raw string) []string {
	var servers []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			servers = append(servers, part)
		}
	}
	return servers
}
