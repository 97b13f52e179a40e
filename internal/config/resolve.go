package config

import (
	"context"

	"github.com/opsdrift/dnsherd/internal/directory"
	"github.com/opsdrift/dnsherd/internal/model"
	"github.com/opsdrift/dnsherd/internal/runlog"
	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// Inputs is the resolved starting point of a run: the target host set and
// the parameters governing the pass.
type Inputs struct {
	Hosts  []string
	Params model.RunParameters
	// DN is the distinguished name queried in directory mode, empty when
	// resuming.
	DN string
	// Resumed reports whether the host set came from a previous run record.
	Resumed bool
}

// Resolve produces the run inputs from a validated configuration: either a
// directory query over the OU subtree, or the offline and errored hosts of a
// previous run's record. The configuration must already have passed
// Validate.
func Resolve(ctx context.Context, cfg *RunConfig, dir directory.Client) (*Inputs, error) {
	if cfg.PrevLog != "" {
		return resumeFromRecord(cfg)
	}
	return discoverFromDirectory(ctx, cfg, dir)
}

func resumeFromRecord(cfg *RunConfig) (*Inputs, error) {
	rec, err := runlog.ParseFile(cfg.PrevLog)
	if err != nil {
		return nil, herderrors.NewConfigurationError("prev-log", "cannot resume from run record", err)
	}

	params := rec.Parameters()
	params.DryRun = cfg.DryRun

	// Explicit flags still win over the recorded header.
	if cfg.IPPrefix != "" {
		params.IPPrefix = cfg.IPPrefix
	}
	if len(cfg.NewDNS) > 0 {
		params.DesiredDNS = append([]string(nil), cfg.NewDNS...)
	}

	return &Inputs{
		Hosts:   rec.ResumeHosts(),
		Params:  params,
		Resumed: true,
	}, nil
}

func discoverFromDirectory(ctx context.Context, cfg *RunConfig, dir directory.Client) (*Inputs, error) {
	dn, err := directory.PathToDN(cfg.OUPath)
	if err != nil {
		return nil, err
	}

	if dir == nil {
		return nil, herderrors.NewConfigurationError("ou", "no directory client configured", nil)
	}

	hosts, err := dir.ListComputers(ctx, dn)
	if err != nil {
		return nil, herderrors.NewConfigurationError("ou", "directory query failed", err)
	}

	return &Inputs{
		Hosts: hosts,
		Params: model.RunParameters{
			IPPrefix:   cfg.IPPrefix,
			DesiredDNS: append([]string(nil), cfg.NewDNS...),
			DryRun:     cfg.DryRun,
		},
		DN: dn,
	}, nil
}
