package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jmluang/xTerm/internal/providers/hosts"
)

const defaultSSHPath = "/usr/bin/ssh"

// PasswordSource answers whether a stored password exists for a host.
type PasswordSource interface {
	Get(hostID string) (string, error)
}

// sshExec runs the assembled ssh invocation and returns stdout, stderr
// and the run error. Swapped out in tests.
type sshExec func(ctx context.Context, extraEnv []string, args []string) (stdout, stderr []byte, err error)

// Prober collects facts about remote hosts over the system ssh binary,
// so the user's existing agent, known_hosts and config all apply.
type Prober struct {
	creds   PasswordSource
	sshPath string
	runSSH  sshExec
}

func NewProber(creds PasswordSource) *Prober {
	p := &Prober{creds: creds, sshPath: defaultSSHPath}
	p.runSSH = p.systemSSH
	return p
}

func (p *Prober) systemSSH(ctx context.Context, extraEnv []string, args []string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, p.sshPath, args...)
	cmd.Env = append(os.Environ(), extraEnv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Static collects slow-changing facts about the host.
func (p *Prober) Static(ctx context.Context, host hosts.Host) (StaticInfo, error) {
	stdout, err := p.probe(ctx, host, staticScript)
	if err != nil {
		return StaticInfo{}, err
	}

	kv, _ := parseKV(stdout)
	return StaticInfo{
		SystemName: maybeText(kv["system_name"]),
		Kernel:     maybeText(kv["kernel"]),
		Arch:       maybeText(kv["arch"]),
		CPUModel:   maybeText(kv["cpu_model"]),
		CPUCores:   parseUint32(kv["cpu_cores"]),
		MemTotalKB: parseUint64(kv["mem_total_kb"]),
	}, nil
}

// Live collects a utilization snapshot of the host.
func (p *Prober) Live(ctx context.Context, host hosts.Host) (LiveInfo, error) {
	stdout, err := p.probe(ctx, host, liveScript)
	if err != nil {
		return LiveInfo{}, err
	}

	kv, procLines := parseKV(stdout)
	processes := make([]LiveProcess, 0, len(procLines))
	for _, line := range procLines {
		parts := strings.SplitN(line, "|", 3)
		command := strings.TrimSpace(parts[0])
		if command == "" {
			continue
		}
		proc := LiveProcess{Command: command}
		if len(parts) > 1 {
			proc.CPUPercent, _ = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		}
		if len(parts) > 2 {
			proc.MemPercent, _ = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		}
		processes = append(processes, proc)
	}

	return LiveInfo{
		CPUPercent:       parseFloat(kv["cpu_percent"]),
		CPUUserPercent:   parseFloat(kv["cpu_user_percent"]),
		CPUSystemPercent: parseFloat(kv["cpu_system_percent"]),
		CPUIowaitPercent: parseFloat(kv["cpu_iowait_percent"]),
		CPUIdlePercent:   parseFloat(kv["cpu_idle_percent"]),
		CPUCores:         parseUint32(kv["cpu_cores"]),
		UptimeSeconds:    parseUint64(kv["uptime_seconds"]),
		MemTotalKB:       parseUint64(kv["mem_total_kb"]),
		MemUsedKB:        parseUint64(kv["mem_used_kb"]),
		MemFreeKB:        parseUint64(kv["mem_free_kb"]),
		MemPageCacheKB:   parseUint64(kv["mem_page_cache_kb"]),
		Load1:            parseFloat(kv["load_1"]),
		Load5:            parseFloat(kv["load_5"]),
		Load15:           parseFloat(kv["load_15"]),
		DiskRootTotalKB:  parseUint64(kv["disk_root_total_kb"]),
		DiskRootUsedKB:   parseUint64(kv["disk_root_used_kb"]),
		Processes:        processes,
	}, nil
}

// probe runs script on the host through ssh and returns its stdout.
func (p *Prober) probe(ctx context.Context, host hosts.Host, script string) (string, error) {
	target := targetOf(host)
	if target == "" {
		return "", errors.New("hostname is required")
	}

	args := baseArgs(host)

	var extraEnv []string
	password := p.storedPassword(host.ID)
	if password != "" {
		askpass, err := writeAskpassScript(password)
		if err != nil {
			return "", err
		}
		defer os.Remove(askpass)

		args = append(args, "-o", "BatchMode=no", "-o", "NumberOfPasswordPrompts=1")
		extraEnv = []string{
			"DISPLAY=xterm:0",
			"SSH_ASKPASS_REQUIRE=force",
			"SSH_ASKPASS=" + askpass,
		}
	} else {
		args = append(args, "-o", "BatchMode=yes")
	}

	args = append(args, target, "sh", "-lc", script)

	stdout, stderr, err := p.runSSH(ctx, extraEnv, args)
	if err != nil {
		msg := strings.TrimSpace(string(stderr))
		if msg == "" {
			msg = strings.TrimSpace(string(stdout))
		}
		if msg == "" {
			return "", fmt.Errorf("ssh failed: %w", err)
		}
		return "", errors.New(msg)
	}
	return string(stdout), nil
}

func (p *Prober) storedPassword(hostID string) string {
	if p.creds == nil || strings.TrimSpace(hostID) == "" {
		return ""
	}
	pw, err := p.creds.Get(hostID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(pw)
}

// baseArgs builds the invariant option set: short timeouts and a single
// attempt keep a dead host from hanging the UI, accept-new avoids an
// interactive prompt on first contact.
func baseArgs(host hosts.Host) []string {
	args := []string{
		"-o", "ConnectTimeout=8",
		"-o", "ConnectionAttempts=1",
		"-o", "StrictHostKeyChecking=accept-new",
		"-o", "ServerAliveInterval=10",
		"-o", "ServerAliveCountMax=1",
	}
	if host.Port > 0 {
		args = append(args, "-p", strconv.Itoa(int(host.Port)))
	}
	if host.IdentityFile != nil {
		if path := strings.TrimSpace(*host.IdentityFile); path != "" {
			args = append(args, "-i", path)
		}
	}
	if host.ProxyJump != nil {
		if jump := strings.TrimSpace(*host.ProxyJump); jump != "" {
			args = append(args, "-J", jump)
		}
	}
	return args
}

func targetOf(host hosts.Host) string {
	user := strings.TrimSpace(host.User)
	hostname := strings.TrimSpace(host.Hostname)
	if hostname == "" {
		return ""
	}
	if user == "" {
		return hostname
	}
	return user + "@" + hostname
}

// writeAskpassScript drops a transient script that prints the password,
// for ssh to call via SSH_ASKPASS. Owner-only permissions.
func writeAskpassScript(password string) (string, error) {
	nonce := time.Now().UnixNano()
	path := filepath.Join(os.TempDir(), fmt.Sprintf("xterm-askpass-%d.sh", nonce))
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' %s\n", shellQuote(password))
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil {
		return "", fmt.Errorf("write askpass script: %w", err)
	}
	return path, nil
}

func shellQuote(input string) string {
	return "'" + strings.ReplaceAll(input, "'", `'\''`) + "'"
}

// parseKV splits probe output into key=value pairs and proc= lines.
func parseKV(stdout string) (map[string]string, []string) {
	kv := make(map[string]string)
	var procLines []string
	for _, raw := range strings.Split(stdout, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "proc="); ok {
			procLines = append(procLines, rest)
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			kv[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return kv, procLines
}

func maybeText(value string) *string {
	v := strings.TrimSpace(value)
	if v == "" || v == "unknown" {
		return nil
	}
	return &v
}

func parseUint32(value string) *uint32 {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return nil
	}
	v := uint32(n)
	return &v
}

func parseUint64(value string) *uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(value string) *float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return nil
	}
	return &n
}
