package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	herderrors "github.com/opsdrift/dnsherd/pkg/errors"
)

// DefaultHostTimeout caps a host's wall-clock budget when neither the flag
// nor the config file sets one. A hung remote call on one host must not
// stall the run; the host is classified as errored when the budget expires.
const DefaultHostTimeout = 5 * time.Minute

// RunConfig holds every knob for one reconciliation pass. Values come from
// CLI flags, optionally layered over a YAML file.
type RunConfig struct {
	// OUPath addresses the directory subtree to discover hosts from, e.g.
	// `example.com\Servers\Web`. Mutually exclusive with PrevLog.
	OUPath string `yaml:"ou"`
	// PrevLog points at a previous run's record; the new run targets that
	// run's offline and errored hosts.
	PrevLog string `yaml:"prev_log"`

	IPPrefix string   `yaml:"local_ip_prefix" validate:"omitempty,ip_pattern"`
	NewDNS   []string `yaml:"new_dns" validate:"omitempty,dive,ip"`
	DryRun   bool     `yaml:"dry_run"`

	Parallel     int      `yaml:"parallel" validate:"omitempty,min=1,max=64"`
	ProbePort    int      `yaml:"probe_port" validate:"omitempty,min=1,max=65535"`
	ProbeTimeout Duration `yaml:"probe_timeout"`
	HostTimeout  Duration `yaml:"host_timeout"`
	CheckDNS     bool     `yaml:"check_dns"`
	LogPath      string   `yaml:"log"`

	// Transport commands. The directory query and the per-host management
	// calls are delegated to environment-specific tooling; see the script
	// package for the contract each command must honour.
	DirectoryCommand string `yaml:"directory_command"`
	ListCommand      string `yaml:"list_command"`
	ApplyCommand     string `yaml:"apply_command"`
	Shell            string `yaml:"shell"`
}

// LoadFile reads a RunConfig from a YAML file.
func LoadFile(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, herderrors.NewConfigurationError("config", "cannot read config file", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, herderrors.NewConfigurationError("config", "cannot parse config file", err)
	}

	return &cfg, nil
}

// Merged layers explicit flag values over a file-sourced base. Zero-valued
// flag fields leave the base untouched; booleans are or-ed since a set flag
// can only turn them on.
func Merged(base, flags *RunConfig) *RunConfig {
	if base == nil {
		out := *flags
		return &out
	}

	out := *base
	if flags.OUPath != "" {
		out.OUPath = flags.OUPath
	}
	if flags.PrevLog != "" {
		out.PrevLog = flags.PrevLog
	}
	if flags.IPPrefix != "" {
		out.IPPrefix = flags.IPPrefix
	}
	if len(flags.NewDNS) > 0 {
		out.NewDNS = flags.NewDNS
	}
	if flags.Parallel > 0 {
		out.Parallel = flags.Parallel
	}
	if flags.ProbePort > 0 {
		out.ProbePort = flags.ProbePort
	}
	if flags.ProbeTimeout > 0 {
		out.ProbeTimeout = flags.ProbeTimeout
	}
	if flags.HostTimeout > 0 {
		out.HostTimeout = flags.HostTimeout
	}
	if flags.LogPath != "" {
		out.LogPath = flags.LogPath
	}
	if flags.DirectoryCommand != "" {
		out.DirectoryCommand = flags.DirectoryCommand
	}
	if flags.ListCommand != "" {
		out.ListCommand = flags.ListCommand
	}
	if flags.ApplyCommand != "" {
		out.ApplyCommand = flags.ApplyCommand
	}
	if flags.Shell != "" {
		out.Shell = flags.Shell
	}
	out.DryRun = out.DryRun || flags.DryRun
	out.CheckDNS = out.CheckDNS || flags.CheckDNS

	return &out
}

// Validate checks the configuration before any host is contacted. Exactly
// one of OUPath and PrevLog must be set; directory mode additionally needs
// the prefix pattern and a non-empty desired DNS list.
func (c *RunConfig) Validate() error {
	switch {
	case c.OUPath != "" && c.PrevLog != "":
		return herderrors.NewConfigurationError("", "--ou and --prev-log are mutually exclusive", nil)
	case c.OUPath == "" && c.PrevLog == "":
		return herderrors.NewConfigurationError("", "one of --ou or --prev-log is required", nil)
	}

	if c.OUPath != "" {
		if c.IPPrefix == "" {
			return herderrors.NewConfigurationError("local-ip-prefix", "required when discovering hosts from the directory", nil)
		}
		if len(c.NewDNS) == 0 {
			return herderrors.NewConfigurationError("new-dns", "at least one DNS server is required", nil)
		}
	}

	if err := validatorInstance().Struct(c); err != nil {
		return herderrors.NewConfigurationError("", "invalid run configuration", err)
	}

	return nil
}
