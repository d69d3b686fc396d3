package sshconfig

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Candidate is one importable Host block found in the user's OpenSSH
// configuration.
type Candidate struct {
	Alias        string  `json:"alias"`
	Hostname     string  `json:"hostname"`
	User         string  `json:"user"`
	Port         uint16  `json:"port"`
	IdentityFile *string `json:"identityFile"`
	ProxyJump    *string `json:"proxyJump"`
	Fingerprint  *string `json:"fingerprint"`
	SourcePath   string  `json:"sourcePath"`
}

type hostOptions struct {
	hostname     string
	user         string
	port         uint16
	identityFile string
	proxyJump    string
}

// Scanner discovers and parses the user's ssh config files.
type Scanner struct {
	home string
}

// NewScanner scans under home; empty means the current user's home.
func NewScanner(home string) *Scanner {
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return &Scanner{home: home}
}

// Scan walks ~/.ssh/config, top-level *.conf files and config.d/*.conf,
// returning concrete Host blocks sorted by alias. Wildcard and negated
// patterns are skipped, duplicates dedupe case-insensitively with the
// first occurrence winning.
func (s *Scanner) Scan() ([]Candidate, error) {
	var candidates []Candidate
	seen := make(map[string]bool)

	for _, path := range s.discover() {
		parsed, err := parseConfigFile(path)
		if err != nil {
			return nil, err
		}
		for _, c := range parsed {
			key := strings.ToLower(c.Alias)
			if seen[key] {
				continue
			}
			seen[key] = true
			c.Fingerprint = s.fingerprint(c.IdentityFile)
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return strings.ToLower(candidates[i].Alias) < strings.ToLower(candidates[j].Alias)
	})
	return candidates, nil
}

func (s *Scanner) discover() []string {
	sshDir := filepath.Join(s.home, ".ssh")
	info, err := os.Stat(sshDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	var paths []string
	mainConfig := filepath.Join(sshDir, "config")
	if fi, err := os.Stat(mainConfig); err == nil && fi.Mode().IsRegular() {
		paths = append(paths, mainConfig)
	}

	for _, p := range collectConfFiles(sshDir) {
		if p != mainConfig {
			paths = append(paths, p)
		}
	}
	paths = append(paths, collectConfFiles(filepath.Join(sshDir, "config.d"))...)
	return paths
}

func collectConfFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(name, "config") || strings.HasSuffix(name, ".conf") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files
}

func parseConfigFile(path string) ([]Candidate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out []Candidate
	var aliases []string
	opts := hostOptions{}

	flush := func() {
		for _, alias := range aliases {
			if strings.TrimSpace(alias) == "" {
				continue
			}
			hostname := strings.TrimSpace(opts.hostname)
			if hostname == "" {
				hostname = alias
			}
			port := opts.port
			if port == 0 {
				port = 22
			}
			c := Candidate{
				Alias:      alias,
				Hostname:   hostname,
				User:       opts.user,
				Port:       port,
				SourcePath: path,
			}
			if opts.identityFile != "" {
				v := opts.identityFile
				c.IdentityFile = &v
			}
			if opts.proxyJump != "" {
				v := opts.proxyJump
				c.ProxyJump = &v
			}
			out = append(out, c)
		}
		aliases = nil
		opts = hostOptions{}
	}

	for _, rawLine := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(stripComments(rawLine))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		key := fields[0]
		rest := strings.Join(fields[1:], " ")

		switch {
		case strings.EqualFold(key, "Host"):
			flush()
			for _, token := range strings.Fields(rest) {
				if isImportableAlias(token) {
					aliases = append(aliases, token)
				}
			}
			continue
		case strings.EqualFold(key, "Match"):
			// Match blocks are conditional; nothing in them maps to a
			// concrete host.
			flush()
			continue
		}

		if len(aliases) == 0 {
			continue
		}
		value := strings.TrimSpace(rest)
		if value == "" {
			continue
		}

		switch {
		case strings.EqualFold(key, "HostName"):
			opts.hostname = value
		case strings.EqualFold(key, "User"):
			opts.user = value
		case strings.EqualFold(key, "Port"):
			if p, err := strconv.ParseUint(value, 10, 16); err == nil {
				opts.port = uint16(p)
			}
		case strings.EqualFold(key, "IdentityFile"):
			opts.identityFile = value
		case strings.EqualFold(key, "ProxyJump"):
			opts.proxyJump = value
		}
	}
	flush()
	return out, nil
}

// stripComments removes a trailing # comment, respecting quoted
// sections.
func stripComments(input string) string {
	var b strings.Builder
	inSingle, inDouble := false, false
	for _, c := range input {
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
		case c == '"' && !inSingle:
			inDouble = !inDouble
		case c == '#' && !inSingle && !inDouble:
			return b.String()
		}
		b.WriteRune(c)
	}
	return b.String()
}

func isImportableAlias(alias string) bool {
	if alias == "" || strings.HasPrefix(alias, "!") {
		return false
	}
	return !strings.ContainsAny(alias, "*?!")
}

// fingerprint derives the SHA256 public-key fingerprint for an identity
// file, preferring the .pub sidecar and falling back to parsing an
// unencrypted private key. Unreadable or unparseable keys yield nil.
func (s *Scanner) fingerprint(identityFile *string) *string {
	if identityFile == nil || *identityFile == "" {
		return nil
	}
	path := *identityFile
	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(s.home, path[2:])
	}

	if content, err := os.ReadFile(path + ".pub"); err == nil {
		if pub, _, _, _, err := ssh.ParseAuthorizedKey(content); err == nil {
			fp := ssh.FingerprintSHA256(pub)
			return &fp
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	signer, err := ssh.ParsePrivateKey(content)
	if err != nil {
		return nil
	}
	fp := ssh.FingerprintSHA256(signer.PublicKey())
	return &fp
}
