package hosts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jmluang/xTerm/internal/infrastructure/logging"
	"github.com/jmluang/xTerm/internal/shared/paths"
)

// Store persists hosts in a SQLite database under the config directory.
// Passwords never live in the database: imports route them to the
// keychain and the legacy plaintext column is drained on open.
type Store struct {
	dir    string
	db     *gorm.DB
	creds  Keychain
	logger *logging.Logger

	legacyImported bool
}

// Open opens (creating if needed) the hosts database in dir. A first
// run against a legacy hosts.json imports the file into the database.
func Open(dir string, creds Keychain, logger *logging.Logger) (*Store, error) {
	s := &Store{dir: dir, creds: creds, logger: logger}

	dbExists := fileExists(s.DBPath())
	if err := s.open(); err != nil {
		return nil, err
	}

	if !dbExists {
		if err := s.importLegacyJSON(); err != nil {
			return nil, err
		}
	}
	if err := s.migratePlaintextPasswords(); err != nil {
		logger.Warn("plaintext password migration incomplete", zap.Error(err))
	}
	return s, nil
}

func (s *Store) open() error {
	db, err := gorm.Open(sqlite.Open(s.DBPath()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open hosts db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&Host{}); err != nil {
		return fmt.Errorf("auto-migrate hosts: %w", err)
	}

	s.db = db
	return nil
}

// DBPath returns the database file path.
func (s *Store) DBPath() string { return paths.HostsDB(s.dir) }

// LegacyImported reports whether this open migrated a hosts.json file.
func (s *Store) LegacyImported() bool { return s.legacyImported }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Reopen re-establishes the connection after the database file was
// swapped out underneath the store.
func (s *Store) Reopen() error {
	return s.open()
}

// Checkpoint flushes the WAL into the main database file so the file
// on disk is complete and self-contained.
func (s *Store) Checkpoint() error {
	if err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("wal checkpoint: %w", err)
	}
	return nil
}

// Load returns all hosts ordered by sort order then recency. Password
// presence is answered by the keychain, never by row contents.
func (s *Store) Load() ([]Host, error) {
	var hosts []Host
	if err := s.db.Order("sort_order ASC, updated_at DESC").Find(&hosts).Error; err != nil {
		return nil, fmt.Errorf("load hosts: %w", err)
	}
	for i := range hosts {
		hosts[i].Password = nil
		hosts[i].HasPassword = s.creds.Has(hosts[i].ID)
		if hosts[i].Tags == nil {
			hosts[i].Tags = []string{}
		}
	}
	return hosts, nil
}

// Replace swaps the entire host list inside one transaction, the way
// the frontend saves: it always sends the full list. Inline passwords
// are moved to the keychain before the row is written.
func (s *Store) Replace(hosts []Host) error {
	rows := make([]Host, len(hosts))
	for i, h := range hosts {
		if strings.TrimSpace(h.ID) == "" {
			h.ID = uuid.NewString()
		}
		if h.SortOrder == nil {
			order := int64(i)
			h.SortOrder = &order
		}
		if h.Port == 0 {
			h.Port = DefaultPort
		}
		if h.Tags == nil {
			h.Tags = []string{}
		}

		if h.Password != nil {
			pw := strings.TrimSpace(*h.Password)
			if pw == "" {
				if err := s.creds.Delete(h.ID); err != nil {
					return fmt.Errorf("clear password for %s: %w", h.ID, err)
				}
				h.HasPassword = false
			} else {
				if err := s.creds.Set(h.ID, pw); err != nil {
					return fmt.Errorf("save password for %s: %w", h.ID, err)
				}
				h.HasPassword = true
			}
		} else {
			h.HasPassword = s.creds.Has(h.ID)
		}
		h.Password = nil
		rows[i] = h
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Host{}).Error; err != nil {
			return fmt.Errorf("clear hosts: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert hosts: %w", err)
		}
		return nil
	})
}

// importLegacyJSON seeds a fresh database from the hosts.json file
// earlier releases wrote, when one exists.
func (s *Store) importLegacyJSON() error {
	jsonPath := paths.HostsJSON(s.dir)
	content, err := os.ReadFile(jsonPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read legacy hosts.json: %w", err)
	}

	var hosts []Host
	if err := json.Unmarshal(content, &hosts); err != nil {
		return fmt.Errorf("parse legacy hosts.json: %w", err)
	}
	if err := s.Replace(hosts); err != nil {
		return fmt.Errorf("import legacy hosts.json: %w", err)
	}

	s.legacyImported = true
	s.logger.Info("imported legacy hosts.json", zap.Int("hosts", len(hosts)))
	return nil
}

// migratePlaintextPasswords drains the password column that databases
// written by earlier releases still carry. Rows already flagged keep
// their keychain entry; the column value is nulled either way.
func (s *Store) migratePlaintextPasswords() error {
	if !s.db.Migrator().HasColumn(&Host{}, "password") {
		return nil
	}

	type legacyRow struct {
		ID          string
		Password    string
		HasPassword bool
	}
	var rows []legacyRow
	err := s.db.Table("hosts").
		Select("id, password, has_password").
		Where("password IS NOT NULL AND password != ''").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("scan legacy passwords: %w", err)
	}

	for _, row := range rows {
		if row.HasPassword {
			s.db.Table("hosts").Where("id = ?", row.ID).Update("password", nil)
			continue
		}
		pw := strings.TrimSpace(row.Password)
		if pw == "" {
			continue
		}
		if err := s.creds.Set(row.ID, pw); err != nil {
			s.logger.Warn("password migration failed for host",
				zap.String("host_id", row.ID), zap.Error(err))
			continue
		}
		s.db.Table("hosts").Where("id = ?", row.ID).
			Updates(map[string]interface{}{"has_password": true, "password": nil})
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
