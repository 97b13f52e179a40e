package main

import (
	"github.com/opsdrift/dnsherd/internal/config"
	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// validateRunOptions checks transport availability on top of the run
// configuration's own validation. All of this happens before any host is
// contacted.
func validateRunOptions(cfg *config.RunConfig) error {
	if cfg.OUPath != "" && cfg.DirectoryCommand == "" {
		return herderrors.NewConfigurationError("directory-command",
			"a directory command is required to discover hosts from an OU", nil)
	}
	if cfg.ListCommand == "" {
		return herderrors.NewConfigurationError("list-command",
			"a list command is required to inspect host interfaces", nil)
	}
	if !cfg.DryRun && cfg.ApplyCommand == "" {
		return herderrors.NewConfigurationError("apply-command",
			"an apply command is required outside dry-run", nil)
	}
	return nil
}
