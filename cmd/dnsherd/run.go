package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/opsdrift/dnsherd/internal/config"
	"github.com/opsdrift/dnsherd/internal/directory"
	"github.com/opsdrift/dnsherd/internal/dnscheck"
	"github.com/opsdrift/dnsherd/internal/engine"
	"github.com/opsdrift/dnsherd/internal/logger"
	"github.com/opsdrift/dnsherd/internal/model"
	"github.com/opsdrift/dnsherd/internal/probe"
	"github.com/opsdrift/dnsherd/internal/runlog"
	"github.com/opsdrift/dnsherd/internal/script"
	"github.com/opsdrift/dnsherd/internal/tui"
)

type runOptions struct {
	ConfigPath     string
	OUPath         string
	PrevLog        string
	IPPrefix       string
	NewDNS         []string
	Parallel       int
	ProbePort      int
	ProbeTimeout   time.Duration
	HostTimeout    time.Duration
	CheckDNS       bool
	LogPath        string
	NoTUI          bool
	DryRun         bool
	Verbose        bool
	NonInteractive bool
}

var runCmdRunner = runRun

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile DNS resolver settings across the target hosts",
		Long: `Run discovers the target hosts (directory query or a previous run's
record), probes each for reachability, and brings the DNS server search
order of every interface matching the IP prefix into conformance with the
desired DNS server list. A resumable run record is written at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DryRun = opts.DryRun || root.dryRun
			opts.Verbose = root.verbose
			opts.NonInteractive = opts.NoTUI || !term.IsTerminal(int(os.Stdout.Fd()))

			return runCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.Flags().StringVar(&opts.OUPath, "ou", "", `Organizational path to discover hosts from, e.g. "example.com\Servers\Web"`)
	cmd.Flags().StringVar(&opts.PrevLog, "prev-log", "", "Previous run record; retries that run's offline and errored hosts (explicit --local-ip-prefix/--new-dns override the recorded parameters)")
	cmd.Flags().StringVar(&opts.IPPrefix, "local-ip-prefix", "", `Wildcard pattern an interface IP must match, e.g. "10.0.1.*"`)
	cmd.Flags().StringSliceVar(&opts.NewDNS, "new-dns", nil, "Desired DNS server order (comma-separated)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "Hosts reconciled concurrently (default 1)")
	cmd.Flags().IntVar(&opts.ProbePort, "probe-port", 0, "TCP port used by the reachability probe")
	cmd.Flags().DurationVar(&opts.ProbeTimeout, "probe-timeout", 0, "Timeout per probe attempt")
	cmd.Flags().DurationVar(&opts.HostTimeout, "host-timeout", 0, "Wall-clock budget per host; negative disables the cap (default 5m)")
	cmd.Flags().BoolVar(&opts.CheckDNS, "check-dns", false, "Verify the desired DNS servers answer queries before starting")
	cmd.Flags().StringVar(&opts.LogPath, "log", "", "Run record path (default dnsherd-run-<timestamp>.log)")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable the live progress display")

	return cmd
}

func flagsConfig(opts runOptions) *config.RunConfig {
	return &config.RunConfig{
		OUPath:       opts.OUPath,
		PrevLog:      opts.PrevLog,
		IPPrefix:     opts.IPPrefix,
		NewDNS:       opts.NewDNS,
		DryRun:       opts.DryRun,
		Parallel:     opts.Parallel,
		ProbePort:    opts.ProbePort,
		ProbeTimeout: config.Duration(opts.ProbeTimeout),
		HostTimeout:  config.Duration(opts.HostTimeout),
		CheckDNS:     opts.CheckDNS,
		LogPath:      opts.LogPath,
	}
}

// effectiveHostTimeout resolves the per-host budget. Unset falls back to
// DefaultHostTimeout; a negative value disables the cap.
func effectiveHostTimeout(d time.Duration) time.Duration {
	if d != 0 {
		return d
	}
	return config.DefaultHostTimeout
}

func runRun(cmd *cobra.Command, opts runOptions) error {
	cfg := flagsConfig(opts)
	if opts.ConfigPath != "" {
		base, err := config.LoadFile(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = config.Merged(base, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateRunOptions(cfg); err != nil {
		return err
	}

	level := "info"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var dir directory.Client
	if cfg.DirectoryCommand != "" {
		dir = &script.Directory{Command: cfg.DirectoryCommand, Shell: cfg.Shell}
	}

	inputs, err := config.Resolve(ctx, cfg, dir)
	if err != nil {
		return err
	}

	if cfg.CheckDNS {
		checker := dnscheck.New()
		if err := dnscheck.Healthy(checker.CheckServers(ctx, inputs.Params.DesiredDNS)); err != nil {
			return err
		}
		log.Info("desired DNS servers are responding")
	}

	log.WithFields(map[string]any{
		"hosts":   len(inputs.Hosts),
		"prefix":  inputs.Params.IPPrefix,
		"dns":     strings.Join(inputs.Params.DesiredDNS, ","),
		"dry_run": inputs.Params.DryRun,
		"resumed": inputs.Resumed,
	}).Info("starting reconciliation")

	prober := probe.NewDialProber()
	if cfg.ProbePort > 0 {
		prober.Port = cfg.ProbePort
	}
	if cfg.ProbeTimeout > 0 {
		prober.Timeout = cfg.ProbeTimeout.Std()
	}

	rem := &script.Remote{
		ListCommand:  cfg.ListCommand,
		ApplyCommand: cfg.ApplyCommand,
		Shell:        cfg.Shell,
	}

	modelState := tui.NewModel(inputs.Hosts, inputs.Params, opts.NonInteractive)
	interactive := !opts.NonInteractive

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	orch := &engine.Orchestrator{
		Prober:      prober,
		Remote:      rem,
		Params:      inputs.Params,
		Logger:      log,
		Parallel:    cfg.Parallel,
		HostTimeout: effectiveHostTimeout(cfg.HostTimeout.Std()),
		OnHostDone: func(res model.HostResult) {
			if interactive && program != nil {
				program.Send(tui.HostCompleteMsg{Result: res})
			}
		},
	}

	agg, results := orch.Run(ctx, inputs.Hosts)

	if interactive {
		program.Send(tea.QuitMsg{})
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		for _, res := range results {
			updated, _ := modelState.Update(tui.HostCompleteMsg{Result: res})
			if m, ok := updated.(tui.Model); ok {
				modelState = m
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), modelState.View())
	}

	record := runlog.New(inputs.Params, time.Now())
	for _, outcome := range model.Outcomes {
		for _, host := range agg.Hosts(outcome) {
			record.Add(outcome, host)
		}
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = fmt.Sprintf("dnsherd-run-%s.log", time.Now().Format("20060102-150405"))
	}
	if err := record.WriteFile(logPath); err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), agg.Summary(), logPath, inputs.Params.DryRun)
	return nil
}
