// Package script adapts user-supplied shell commands into the directory and
// remote-management capability interfaces. The reconciler itself stays
// protocol-agnostic: whatever tooling the environment uses to query the
// directory or talk to hosts is plugged in as a command, with inputs passed
// through the environment.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/opsdrift/dnsherd/internal/model"
)

// Environment variables exported to the configured commands.
const (
	EnvDN         = "DNSHERD_DN"
	EnvHost       = "DNSHERD_HOST"
	EnvInterface  = "DNSHERD_INTERFACE"
	EnvDNSServers = "DNSHERD_DNS"
)

const defaultShell = "/bin/sh"

// Directory lists computers under a distinguished name by running a command.
// The DN is exported as DNSHERD_DN; stdout is read as one hostname per line.
type Directory struct {
	Command string
	Shell   string
}

// ListComputers implements directory.Client.
func (d *Directory) ListComputers(ctx context.Context, dn string) ([]string, error) {
	out, err := runCommand(ctx, d.Shell, d.Command, map[string]string{EnvDN: dn})
	if err != nil {
		return nil, fmt.Errorf("directory command: %w", err)
	}

	var hosts []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			hosts = append(hosts, line)
		}
	}
	return hosts, nil
}

// wireInterface is the JSON shape the list command must print, one array
// element per interface.
type wireInterface struct {
	Ref  string   `json:"ref"`
	Name string   `json:"name"`
	IPs  []string `json:"ips"`
	DNS  []string `json:"dns"`
}

// Remote implements the management transport over two commands. The list
// command receives DNSHERD_HOST and prints a JSON array of interfaces; the
// apply command receives DNSHERD_HOST, DNSHERD_INTERFACE and DNSHERD_DNS
// (comma-separated) and its exit code is taken as the provider result code.
type Remote struct {
	ListCommand  string
	ApplyCommand string
	Shell        string
}

// ListInterfaces implements remote.Client.
func (r *Remote) ListInterfaces(ctx context.Context, host string) ([]model.InterfaceSnapshot, error) {
	out, err := runCommand(ctx, r.Shell, r.ListCommand, map[string]string{EnvHost: host})
	if err != nil {
		return nil, fmt.Errorf("list command: %w", err)
	}

	var wire []wireInterface
	if err := json.Unmarshal(out, &wire); err != nil {
		return nil, fmt.Errorf("list command output: %w", err)
	}

	snapshots := make([]model.InterfaceSnapshot, 0, len(wire))
	for _, w := range wire {
		snapshots = append(snapshots, model.InterfaceSnapshot{
			Host:        host,
			Ref:         model.InterfaceRef(w.Ref),
			Name:        w.Name,
			IPAddresses: w.IPs,
			DNSServers:  w.DNS,
		})
	}
	return snapshots, nil
}

// SetDNSServerOrder implements remote.Client. The apply command's exit code
// is the provider result code; only failures to run the command at all are
// returned as errors.
func (r *Remote) SetDNSServerOrder(ctx context.Context, host string, ref model.InterfaceRef, servers []string) (int, error) {
	_, err := runCommand(ctx, r.Shell, r.ApplyCommand, map[string]string{
		EnvHost:       host,
		EnvInterface:  string(ref),
		EnvDNSServers: strings.Join(servers, ","),
	})
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, err
	}
	return 0, nil
}

func runCommand(ctx context.Context, shell, command string, env map[string]string) ([]byte, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New("no command configured")
	}
	if shell == "" {
		shell = defaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	return cmd.Output()
}
