package probe

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmluang/xTerm/internal/providers/hosts"
)

type fakeCreds struct{ passwords map[string]string }

func (c *fakeCreds) Get(hostID string) (string, error) {
	return c.passwords[hostID], nil
}

// capturedRun records one runSSH invocation and returns canned output.
type capturedRun struct {
	env    []string
	args   []string
	stdout string
	stderr string
	err    error
}

func newProberWith(run *capturedRun, creds PasswordSource) *Prober {
	p := NewProber(creds)
	p.runSSH = func(ctx context.Context, extraEnv []string, args []string) ([]byte, []byte, error) {
		run.env = extraEnv
		run.args = args
		return []byte(run.stdout), []byte(run.stderr), run.err
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestParseKV(t *testing.T) {
	kv, procs := parseKV(`
kernel=Linux 6.8.0
cpu_cores=8

proc=nginx|2.5|1.0
proc=postgres|1.1|4.2
malformed line
 spaced_key = spaced value
`)
	assert.Equal(t, "Linux 6.8.0", kv["kernel"])
	assert.Equal(t, "8", kv["cpu_cores"])
	assert.Equal(t, "spaced value", kv["spaced_key"])
	assert.Equal(t, []string{"nginx|2.5|1.0", "postgres|1.1|4.2"}, procs)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'plain'", shellQuote("plain"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}

func TestBaseArgsPassthrough(t *testing.T) {
	args := baseArgs(hosts.Host{
		Port:         2222,
		IdentityFile: strPtr("~/.ssh/id_ed25519"),
		ProxyJump:    strPtr("bastion"),
	})
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "ConnectTimeout=8")
	assert.Contains(t, joined, "ConnectionAttempts=1")
	assert.Contains(t, joined, "StrictHostKeyChecking=accept-new")
	assert.Contains(t, joined, "-p 2222")
	assert.Contains(t, joined, "-i ~/.ssh/id_ed25519")
	assert.Contains(t, joined, "-J bastion")
}

func TestTargetOf(t *testing.T) {
	assert.Equal(t, "deploy@web", targetOf(hosts.Host{User: "deploy", Hostname: "web"}))
	assert.Equal(t, "web", targetOf(hosts.Host{Hostname: " web "}))
	assert.Empty(t, targetOf(hosts.Host{User: "deploy"}))
}

func TestStaticProbeParsesOutput(t *testing.T) {
	run := &capturedRun{stdout: `
system_name=Ubuntu 24.04 LTS
kernel=Linux 6.8.0-41-generic
arch=x86_64
cpu_model=AMD EPYC 7543
cpu_cores=32
mem_total_kb=131072000
`}
	p := newProberWith(run, nil)

	info, err := p.Static(context.Background(), hosts.Host{ID: "h1", Hostname: "web", User: "deploy"})
	require.NoError(t, err)

	require.NotNil(t, info.SystemName)
	assert.Equal(t, "Ubuntu 24.04 LTS", *info.SystemName)
	require.NotNil(t, info.CPUCores)
	assert.Equal(t, uint32(32), *info.CPUCores)
	require.NotNil(t, info.MemTotalKB)
	assert.Equal(t, uint64(131072000), *info.MemTotalKB)

	// Without a stored password the probe runs in batch mode.
	assert.Contains(t, strings.Join(run.args, " "), "BatchMode=yes")
	assert.Empty(t, run.env)
	assert.Equal(t, "deploy@web", run.args[len(run.args)-4])
}

func TestStaticProbeUnknownValuesMapToNil(t *testing.T) {
	run := &capturedRun{stdout: "system_name=unknown\nkernel=\ncpu_cores=not-a-number\n"}
	p := newProberWith(run, nil)

	info, err := p.Static(context.Background(), hosts.Host{Hostname: "web"})
	require.NoError(t, err)
	assert.Nil(t, info.SystemName)
	assert.Nil(t, info.Kernel)
	assert.Nil(t, info.CPUCores)
}

func TestLiveProbeParsesProcesses(t *testing.T) {
	run := &capturedRun{stdout: `
cpu_percent=12.5
cpu_idle_percent=87.5
cpu_cores=4
uptime_seconds=86400
mem_total_kb=8000000
mem_used_kb=3000000
load_1=0.42
disk_root_total_kb=100000000
disk_root_used_kb=55000000
proc=nginx|2.5|1.0
proc=postgres|1.1|4.2
proc=|9.9|9.9
`}
	p := newProberWith(run, nil)

	info, err := p.Live(context.Background(), hosts.Host{Hostname: "web"})
	require.NoError(t, err)

	require.NotNil(t, info.CPUPercent)
	assert.Equal(t, 12.5, *info.CPUPercent)
	require.NotNil(t, info.UptimeSeconds)
	assert.Equal(t, uint64(86400), *info.UptimeSeconds)
	require.NotNil(t, info.Load1)
	assert.Equal(t, 0.42, *info.Load1)
	assert.Nil(t, info.Load5, "missing keys stay nil")

	require.Len(t, info.Processes, 2, "empty command rows are dropped")
	assert.Equal(t, "nginx", info.Processes[0].Command)
	assert.Equal(t, 2.5, info.Processes[0].CPUPercent)
	assert.Equal(t, 4.2, info.Processes[1].MemPercent)
}

func TestProbeWithStoredPasswordUsesAskpass(t *testing.T) {
	run := &capturedRun{stdout: "kernel=Linux\n"}
	creds := &fakeCreds{passwords: map[string]string{"h1": "hunter2"}}
	p := newProberWith(run, creds)

	var askpassPath string
	p.runSSH = func(ctx context.Context, extraEnv []string, args []string) ([]byte, []byte, error) {
		run.env = extraEnv
		run.args = args
		for _, kv := range extraEnv {
			if v, ok := strings.CutPrefix(kv, "SSH_ASKPASS="); ok {
				askpassPath = v
				content, err := os.ReadFile(v)
				require.NoError(t, err)
				assert.Contains(t, string(content), "'hunter2'")
				fi, err := os.Stat(v)
				require.NoError(t, err)
				assert.Equal(t, os.FileMode(0o700), fi.Mode().Perm())
			}
		}
		return []byte(run.stdout), nil, nil
	}

	_, err := p.Static(context.Background(), hosts.Host{ID: "h1", Hostname: "web"})
	require.NoError(t, err)

	joined := strings.Join(run.args, " ")
	assert.Contains(t, joined, "BatchMode=no")
	assert.Contains(t, joined, "NumberOfPasswordPrompts=1")
	assert.Contains(t, strings.Join(run.env, " "), "SSH_ASKPASS_REQUIRE=force")

	require.NotEmpty(t, askpassPath)
	_, statErr := os.Stat(askpassPath)
	assert.True(t, os.IsNotExist(statErr), "askpass script removed after the probe")
}

func TestProbeErrorPrefersStderr(t *testing.T) {
	run := &capturedRun{
		stderr: "Permission denied (publickey).",
		err:    errors.New("exit status 255"),
	}
	p := newProberWith(run, nil)

	_, err := p.Static(context.Background(), hosts.Host{Hostname: "web"})
	require.Error(t, err)
	assert.Equal(t, "Permission denied (publickey).", err.Error())
}

func TestProbeRequiresHostname(t *testing.T) {
	p := newProberWith(&capturedRun{}, nil)
	_, err := p.Static(context.Background(), hosts.Host{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostname is required")
}
