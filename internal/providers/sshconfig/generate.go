package sshconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/jmluang/xTerm/internal/providers/hosts"
	"github.com/jmluang/xTerm/internal/shared/paths"
)

// Generator renders the saved host list into an OpenSSH config file in
// the config directory, so `ssh -F` and tools that read it see the same
// hosts the app manages.
type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// Path returns the generated file's location.
func (g *Generator) Path() string { return paths.SSHConfig(g.dir) }

// WriteConfig renders hosts and writes the file, replacing any previous
// rendering. Deleted hosts are skipped.
func (g *Generator) WriteConfig(list []hosts.Host) error {
	var b strings.Builder
	for _, h := range list {
		if h.Deleted {
			continue
		}

		alias := h.Alias
		if strings.TrimSpace(alias) == "" {
			alias = h.Hostname
		}
		fmt.Fprintf(&b, "Host %s\n", alias)
		fmt.Fprintf(&b, "  HostName %s\n", h.Hostname)
		if h.User != "" {
			fmt.Fprintf(&b, "  User %s\n", h.User)
		}
		if h.Port != 0 && h.Port != hosts.DefaultPort {
			fmt.Fprintf(&b, "  Port %d\n", h.Port)
		}
		if h.IdentityFile != nil && *h.IdentityFile != "" {
			fmt.Fprintf(&b, "  IdentityFile %s\n", *h.IdentityFile)
			b.WriteString("  IdentitiesOnly yes\n")
		}
		if h.ProxyJump != nil && *h.ProxyJump != "" {
			fmt.Fprintf(&b, "  ProxyJump %s\n", *h.ProxyJump)
		}
		b.WriteString("  ServerAliveInterval 30\n\n")
	}

	if err := os.WriteFile(g.Path(), []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write ssh_config: %w", err)
	}
	return nil
}
