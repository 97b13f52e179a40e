package main

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/opsdrift/dnsherd/internal/model"
	"github.com/opsdrift/dnsherd/internal/runlog"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRunRejectsMissingInputMode(t *testing.T) {
	_, err := executeCommand(newRootCmd(), "run", "--local-ip-prefix", "10.0.1.*", "--new-dns", "10.0.0.1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "one of --ou or --prev-log")
}

func TestRunRejectsBothInputModes(t *testing.T) {
	_, err := executeCommand(newRootCmd(),
		"run", "--ou", `example.com\Servers`, "--prev-log", "run.log",
		"--local-ip-prefix", "10.0.1.*", "--new-dns", "10.0.0.1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")
}

func TestRunRejectsIncompleteDirectoryTriple(t *testing.T) {
	_, err := executeCommand(newRootCmd(), "run", "--ou", `example.com\Servers`, "--new-dns", "10.0.0.1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "local-ip-prefix")
}

func TestRunRejectsMalformedOUBeforeAnyQuery(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "queried")

	_, err := executeCommand(newRootCmd(),
		"run", "--ou", `\NoDomain`,
		"--local-ip-prefix", "10.0.1.*", "--new-dns", "10.0.0.1",
		"--config", writeConfig(t, fmt.Sprintf(`directory_command: touch %s
list_command: echo []
apply_command: "true"
`, marker)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "configuration error")

	_, statErr := os.Stat(marker)
	require.True(t, os.IsNotExist(statErr), "directory command must not run for a rejected configuration")
}

func TestRunRejectsMissingPrevLog(t *testing.T) {
	_, err := executeCommand(newRootCmd(),
		"run", "--prev-log", filepath.Join(t.TempDir(), "absent.log"),
		"--config", writeConfig(t, "list_command: echo []\napply_command: \"true\"\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot resume")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dnsherd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunDryRunEndToEnd(t *testing.T) {
	// A local listener stands in for the reachable host's management port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	logPath := filepath.Join(t.TempDir(), "run.log")
	cfgPath := writeConfig(t, `directory_command: echo 127.0.0.1
list_command: echo '[{"ref":"idx:7","name":"Ethernet0","ips":["10.0.1.5"],"dns":["8.8.8.8"]}]'
`)

	out, err := executeCommand(newRootCmd(),
		"run", "--dry-run", "--no-tui",
		"--ou", `example.com\Servers`,
		"--local-ip-prefix", "10.0.1.*",
		"--new-dns", "10.0.0.1,10.0.0.2",
		"--probe-port", fmt.Sprint(port),
		"--probe-timeout", "500ms",
		"--log", logPath,
		"--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, "Changed:")
	require.Contains(t, out, "would set DNS server order to 10.0.0.1,10.0.0.2")

	rec, err := runlog.ParseFile(logPath)
	require.NoError(t, err)
	require.Equal(t, "10.0.1.*", rec.IPPrefix)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, rec.DesiredDNS)
	require.Equal(t, []string{"127.0.0.1"}, rec.Hosts(model.OutcomeChanged))
}

func TestRunOfflineHostEndToEnd(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")
	cfgPath := writeConfig(t, `directory_command: echo 203.0.113.7
list_command: echo []
probe_timeout: 50ms
`)

	start := time.Now()
	out, err := executeCommand(newRootCmd(),
		"run", "--dry-run", "--no-tui",
		"--ou", `example.com\Servers`,
		"--local-ip-prefix", "10.0.1.*",
		"--new-dns", "10.0.0.1",
		"--log", logPath,
		"--config", cfgPath)
	require.NoError(t, err)
	require.Less(t, time.Since(start), 10*time.Second)
	require.Contains(t, out, "Offline:")
	require.Contains(t, out, "--prev-log")

	rec, err := runlog.ParseFile(logPath)
	require.NoError(t, err)
	require.Equal(t, []string{"203.0.113.7"}, rec.Hosts(model.OutcomeOffline))
	require.Empty(t, rec.Hosts(model.OutcomeChanged))

	// The record can seed the follow-up run.
	require.Equal(t, []string{"203.0.113.7"}, rec.ResumeHosts())
}

func TestRunHungListCommandIsCappedByHostBudget(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	logPath := filepath.Join(t.TempDir(), "run.log")
	cfgPath := writeConfig(t, `directory_command: echo 127.0.0.1
list_command: sleep 30
`)

	start := time.Now()
	out, err := executeCommand(newRootCmd(),
		"run", "--dry-run", "--no-tui",
		"--ou", `example.com\Servers`,
		"--local-ip-prefix", "10.0.1.*",
		"--new-dns", "10.0.0.1",
		"--probe-port", fmt.Sprint(port),
		"--probe-timeout", "500ms",
		"--host-timeout", "300ms",
		"--log", logPath,
		"--config", cfgPath)
	require.NoError(t, err)
	require.Less(t, time.Since(start), 10*time.Second)
	require.Contains(t, out, "Error:")

	rec, err := runlog.ParseFile(logPath)
	require.NoError(t, err)
	require.Equal(t, []string{"127.0.0.1"}, rec.Hosts(model.OutcomeError))
}

func TestRunHelpDocumentsResumeParameterOverrides(t *testing.T) {
	out, err := executeCommand(newRootCmd(), "run", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "override the recorded parameters")
}

func TestRunResumeEndToEnd(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	prev := runlog.New(model.RunParameters{
		IPPrefix:   "10.0.1.*",
		DesiredDNS: []string{"10.0.0.1", "10.0.0.2"},
	}, time.Now())
	prev.Add(model.OutcomeChanged, "done01")
	prev.Add(model.OutcomeError, "127.0.0.1")

	prevPath := filepath.Join(t.TempDir(), "prev.log")
	require.NoError(t, prev.WriteFile(prevPath))

	logPath := filepath.Join(t.TempDir(), "run.log")
	cfgPath := writeConfig(t, `list_command: echo '[{"ref":"idx:7","name":"Ethernet0","ips":["10.0.1.5"],"dns":["10.0.0.2","10.0.0.1"]}]'
`)

	out, err := executeCommand(newRootCmd(),
		"run", "--dry-run", "--no-tui",
		"--prev-log", prevPath,
		"--probe-port", fmt.Sprint(port),
		"--probe-timeout", "500ms",
		"--log", logPath,
		"--config", cfgPath)
	require.NoError(t, err)

	// Parameters were recovered from the record header; the current DNS is
	// set-equal to the desired set, so the retried host is now unchanged.
	require.Contains(t, out, "Unchanged:")
	require.NotContains(t, out, "done01")

	rec, err := runlog.ParseFile(logPath)
	require.NoError(t, err)
	require.Equal(t, []string{"127.0.0.1"}, rec.Hosts(model.OutcomeUnchanged))
	require.Empty(t, rec.Hosts(model.OutcomeChanged))
}
