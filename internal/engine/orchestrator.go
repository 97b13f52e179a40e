package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/opsdrift/dnsherd/internal/logger"
	"github.com/opsdrift/dnsherd/internal/model"
	"github.com/opsdrift/dnsherd/internal/probe"
	"github.com/opsdrift/dnsherd/internal/remote"
	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// Orchestrator drives the per-host reconciliation pass: probe, inspect,
// compare, apply, classify. Hosts are independent units of work; within a
// host the steps are strictly sequential because each gates the next.
type Orchestrator struct {
	Prober probe.Prober
	Remote remote.Client
	Params model.RunParameters
	Logger *logger.Logger

	// Parallel bounds the worker pool. Values below two process one host
	// at a time in input order.
	Parallel int
	// HostTimeout caps each host's wall-clock budget; an exhausted budget
	// classifies the host as errored rather than stalling the run.
	HostTimeout time.Duration
	// OnHostDone, when set, receives every finished host result. It may be
	// called from worker goroutines.
	OnHostDone func(model.HostResult)
}

// Run reconciles every host and returns the aggregated outcome. Results are
// folded into the aggregator in input order regardless of parallelism, so
// bucket order is deterministic.
func (o *Orchestrator) Run(ctx context.Context, hosts []string) (*Aggregator, []model.HostResult) {
	results := make([]model.HostResult, len(hosts))

	workers := o.Parallel
	if workers < 1 {
		workers = 1
	}
	pool := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, host := range hosts {
		wg.Add(1)
		pool <- struct{}{}
		go func(i int, host string) {
			defer wg.Done()
			defer func() { <-pool }()

			res := o.reconcileHost(ctx, host)
			results[i] = res
			if o.OnHostDone != nil {
				o.OnHostDone(res)
			}
		}(i, host)
	}
	wg.Wait()

	agg := NewAggregator()
	for _, res := range results {
		agg.RecordHost(res)
	}
	return agg, results
}

func (o *Orchestrator) reconcileHost(ctx context.Context, host string) model.HostResult {
	start := time.Now()
	log := o.Logger.WithHost(host)

	hostCtx := ctx
	if o.HostTimeout > 0 {
		var cancel context.CancelFunc
		hostCtx, cancel = context.WithTimeout(ctx, o.HostTimeout)
		defer cancel()
	}

	res := model.HostResult{Host: host, Timestamp: start}

	log.Debug("probing host")
	if !o.Prober.Probe(hostCtx, host) {
		log.Warn("host is offline")
		res.Outcome = model.OutcomeOffline
		res.Message = "no response to reachability probe"
		return finish(&res, start)
	}

	log.Debug("listing network interfaces")
	snapshots, err := o.Remote.ListInterfaces(hostCtx, host)
	if err != nil {
		wrapped := herderrors.NewRemoteAccessError(host, "list interfaces", err)
		log.Error(wrapped, "interface inspection failed")
		res.Outcome = model.OutcomeError
		res.Message = wrapped.Error()
		return finish(&res, start)
	}

	inScope := make([]model.InterfaceSnapshot, 0, len(snapshots))
	for _, snap := range snapshots {
		if InScope(o.Params.IPPrefix, snap.IPAddresses) {
			inScope = append(inScope, snap)
		}
	}

	if len(inScope) == 0 {
		log.Info("no matching interface")
		res.Outcome = model.OutcomeUnchanged
		res.Message = "no matching interface"
		return finish(&res, start)
	}

	// A host with several in-scope interfaces keeps whichever interface
	// outcome was decided last.
	for _, snap := range inScope {
		if hostCtx.Err() != nil {
			res.Outcome = model.OutcomeError
			res.Message = fmt.Sprintf("host budget exceeded: %v", hostCtx.Err())
			log.Error(hostCtx.Err(), "host budget exceeded")
			return finish(&res, start)
		}

		decision := o.reconcileInterface(hostCtx, log, snap)
		res.Decisions = append(res.Decisions, decision)
		res.Outcome = decision.Outcome
		res.Message = decision.Message
	}

	return finish(&res, start)
}

func (o *Orchestrator) reconcileInterface(ctx context.Context, log *logger.Logger, snap model.InterfaceSnapshot) model.InterfaceDecision {
	decision := model.InterfaceDecision{Interface: snap.Name}

	if !NeedsChange(snap.DNSServers, o.Params.DesiredDNS) {
		log.WithFields(map[string]any{"interface": snap.Name}).Debug("DNS already matches desired set")
		decision.Outcome = model.OutcomeUnchanged
		decision.Message = "DNS already matches desired set"
		return decision
	}

	desired := strings.Join(o.Params.DesiredDNS, ",")

	if o.Params.DryRun {
		log.WithFields(map[string]any{"interface": snap.Name, "dns": desired}).Info("would set DNS server order")
		decision.Outcome = model.OutcomeChanged
		decision.Message = fmt.Sprintf("would set DNS server order to %s", desired)
		return decision
	}

	code, err := o.Remote.SetDNSServerOrder(ctx, snap.Host, snap.Ref, o.Params.DesiredDNS)
	if err != nil {
		wrapped := herderrors.NewApplyError(snap.Host, snap.Name, code, err)
		log.Error(wrapped, "apply failed")
		decision.Outcome = model.OutcomeError
		decision.Message = wrapped.Error()
		return decision
	}

	if !remote.Applied(code) {
		wrapped := herderrors.NewApplyError(snap.Host, snap.Name, code, nil)
		log.Error(wrapped, "provider rejected DNS change")
		decision.Outcome = model.OutcomeError
		decision.Message = fmt.Sprintf("%v; re-run with --prev-log to retry this host", wrapped)
		return decision
	}

	decision.Outcome = model.OutcomeChanged
	if code == remote.CodeRebootRequired {
		log.WithFields(map[string]any{"interface": snap.Name, "dns": desired}).Info("DNS server order set, reboot required")
		decision.Message = fmt.Sprintf("set DNS server order to %s (reboot required)", desired)
	} else {
		log.WithFields(map[string]any{"interface": snap.Name, "dns": desired}).Info("DNS server order set")
		decision.Message = fmt.Sprintf("set DNS server order to %s", desired)
	}
	return decision
}

func finish(res *model.HostResult, start time.Time) model.HostResult {
	res.Duration = time.Since(start)
	return *res
}
