package webdav

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/providers/hosts"
	"github.com/jmluang/xTerm/internal/providers/settings"
)

const (
	dbFilename   = "hosts.db"
	jsonFilename = "hosts.json"

	// errorBodyLimit caps how much of a server error body lands in the
	// error message shown to the user.
	errorBodyLimit = 180
)

// Syncer moves the host database between the local store and a WebDAV
// server. Pull prefers the portable hosts.json representation and falls
// back to the raw database file; push uploads both.
type Syncer struct {
	settings *settings.Store
	store    *hosts.Store
	config   hosts.ConfigWriter
	client   *Client
	logger   *logging.Logger
}

func NewSyncer(settingsStore *settings.Store, store *hosts.Store, config hosts.ConfigWriter, client *Client, logger *logging.Logger) *Syncer {
	return &Syncer{
		settings: settingsStore,
		store:    store,
		config:   config,
		client:   client,
		logger:   logger,
	}
}

func (s *Syncer) credentials(cfg settings.Settings) (string, string) {
	var user, pass string
	if cfg.WebdavUsername != nil {
		user = *cfg.WebdavUsername
	}
	if cfg.WebdavPassword != nil {
		pass = *cfg.WebdavPassword
	}
	return user, pass
}

func (s *Syncer) baseURL(cfg settings.Settings) (string, error) {
	if cfg.WebdavURL == nil || strings.TrimSpace(*cfg.WebdavURL) == "" {
		return "", ErrNotConfigured
	}
	return *cfg.WebdavURL, nil
}

// Pull fetches the remote host list and replaces the local database.
func (s *Syncer) Pull(ctx context.Context) error {
	cfg, err := s.settings.Load()
	if err != nil {
		return err
	}
	base, err := s.baseURL(cfg)
	if err != nil {
		return err
	}
	user, pass := s.credentials(cfg)

	urlJSON, err := ResolveURLWithFolder(base, cfg.Folder(), jsonFilename)
	if err != nil {
		return err
	}
	resp, err := s.client.Get(ctx, urlJSON, user, pass)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}

	switch {
	case resp.IsSuccess():
		var list []hosts.Host
		if err := json.Unmarshal(resp.Body(), &list); err != nil {
			return fmt.Errorf("pull failed: parse remote hosts.json: %w", err)
		}
		if err := s.store.Replace(list); err != nil {
			return fmt.Errorf("pull failed: %w", err)
		}
		s.logger.Info("pulled remote hosts.json", zap.Int("hosts", len(list)))
		return s.regenerate()

	case resp.StatusCode() == 404:
		return s.pullDatabase(ctx, base, cfg, user, pass)

	default:
		return httpError("pull failed", resp)
	}
}

// pullDatabase is the fallback when the server has no hosts.json: the
// raw database file replaces the local one, after a compressed backup.
func (s *Syncer) pullDatabase(ctx context.Context, base string, cfg settings.Settings, user, pass string) error {
	urlDB, err := ResolveURLWithFolder(base, cfg.Folder(), dbFilename)
	if err != nil {
		return err
	}
	resp, err := s.client.Get(ctx, urlDB, user, pass)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if !resp.IsSuccess() {
		return httpError("pull failed", resp)
	}

	if err := s.backupDatabase(); err != nil {
		s.logger.Warn("database backup failed before pull", zap.Error(err))
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("pull failed: close local db: %w", err)
	}

	// Stale WAL sidecars would replay local edits over the pulled file.
	s.removeSidecars()
	if err := os.WriteFile(s.store.DBPath(), resp.Body(), 0o600); err != nil {
		return fmt.Errorf("pull failed: write local db: %w", err)
	}
	s.removeSidecars()

	if err := s.store.Reopen(); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	s.logger.Info("pulled remote hosts.db", zap.Int("bytes", len(resp.Body())))
	return s.regenerate()
}

// Push uploads the local database and its JSON rendering.
func (s *Syncer) Push(ctx context.Context) error {
	cfg, err := s.settings.Load()
	if err != nil {
		return err
	}
	base, err := s.baseURL(cfg)
	if err != nil {
		return err
	}
	user, pass := s.credentials(cfg)

	// Flush the WAL so the file on disk carries the latest state.
	if err := s.store.Checkpoint(); err != nil {
		s.logger.Warn("wal checkpoint before push failed", zap.Error(err))
	}
	content, err := os.ReadFile(s.store.DBPath())
	if err != nil {
		return fmt.Errorf("push failed: read local db: %w", err)
	}
	list, err := s.store.Load()
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	hostsJSON, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("push failed: encode hosts.json: %w", err)
	}

	if err := s.ensureRemoteFolder(ctx, base, cfg.Folder(), user, pass); err != nil {
		return err
	}

	urlDB, err := ResolveURLWithFolder(base, cfg.Folder(), dbFilename)
	if err != nil {
		return err
	}
	resp, err := s.client.Put(ctx, urlDB, content, user, pass)
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	if !resp.IsSuccess() {
		return httpError(fmt.Sprintf("push failed (%s)", urlDB), resp)
	}

	urlJSON, err := ResolveURLWithFolder(base, cfg.Folder(), jsonFilename)
	if err != nil {
		return err
	}
	resp, err = s.client.Put(ctx, urlJSON, hostsJSON, user, pass)
	if err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	if !resp.IsSuccess() {
		return httpError(fmt.Sprintf("push failed (%s)", urlJSON), resp)
	}

	s.logger.Info("pushed hosts to WebDAV",
		zap.Int("db_bytes", len(content)), zap.Int("hosts", len(list)))
	return nil
}

// ensureRemoteFolder creates each folder level with MKCOL. 405 means
// the collection already exists.
func (s *Syncer) ensureRemoteFolder(ctx context.Context, base, folder, user, pass string) error {
	urls, err := folderURLs(base, folder)
	if err != nil {
		return err
	}
	for _, u := range urls {
		resp, err := s.client.MkCol(ctx, u, user, pass)
		if err != nil {
			return fmt.Errorf("create remote directory: %w", err)
		}
		if resp.IsSuccess() || resp.StatusCode() == 405 {
			continue
		}
		return httpError(fmt.Sprintf("failed to create remote directory (%s)", u), resp)
	}
	return nil
}

// backupDatabase writes a timestamped gzip copy of the database next to
// it before a pull overwrites the file.
func (s *Syncer) backupDatabase() error {
	content, err := os.ReadFile(s.store.DBPath())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	backupPath := fmt.Sprintf("%s.bak.%s.gz", s.store.DBPath(), time.Now().UTC().Format("20060102150405"))
	f, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(content); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func (s *Syncer) removeSidecars() {
	os.Remove(s.store.DBPath() + "-wal")
	os.Remove(s.store.DBPath() + "-shm")
}

func (s *Syncer) regenerate() error {
	if s.config == nil {
		return nil
	}
	list, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := s.config.WriteConfig(list); err != nil {
		s.logger.Warn("ssh_config regeneration after sync failed", zap.Error(err))
	}
	return nil
}

func httpError(prefix string, resp *resty.Response) error {
	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		return fmt.Errorf("%s: %s", prefix, resp.Status())
	}
	runes := []rune(body)
	if len(runes) > errorBodyLimit {
		body = string(runes[:errorBodyLimit])
	}
	return fmt.Errorf("%s: %s (%s)", prefix, resp.Status(), body)
}
