package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const migrationsTable = "safetyd_schema_migrations"

type Migration struct {
	ID   string
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

var (
	registryMu sync.Mutex
	registry   = map[string]Migration{}
)

// RegisterMigration is called from init functions in pkg/infra/migrations.
// IDs sort lexically, so they start with a date.
func RegisterMigration(m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if m.ID == "" || m.Up == nil {
		panic(fmt.Sprintf("migration %q needs an ID and an Up function", m.ID))
	}
	if _, exists := registry[m.ID]; exists {
		panic(fmt.Sprintf("migration %s registered twice", m.ID))
	}
	registry[m.ID] = m
}

func registered() []Migration {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Migration, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type MigrationsManager struct {
	logger     *logrus.Logger
	db         *gorm.DB
	migrations []Migration
	now        func() time.Time
}

func NewMigrationsManager(logger *logrus.Logger, db *gorm.DB) *MigrationsManager {
	return &MigrationsManager{logger: logger, db: db, migrations: registered(), now: time.Now}
}

func (m *MigrationsManager) applied(ctx context.Context) (map[string]bool, error) {
	err := m.db.WithContext(ctx).Exec(`CREATE TABLE IF NOT EXISTS ` + migrationsTable + ` (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL
)`).Error
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", migrationsTable, err)
	}
	var ids []string
	if err := m.db.WithContext(ctx).Raw(`SELECT id FROM ` + migrationsTable).Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("read %s: %w", migrationsTable, err)
	}
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// ApplyPending runs every migration not yet recorded, each in its own
// transaction together with its version row. It returns the applied IDs.
func (m *MigrationsManager) ApplyPending(ctx context.Context) ([]string, error) {
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}
	var ran []string
	for _, mig := range m.migrations {
		if done[mig.ID] {
			continue
		}
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Exec(`INSERT INTO `+migrationsTable+` (id, name, applied_at) VALUES (?, ?, ?)`,
				mig.ID, mig.Name, m.now().UTC()).Error
		})
		if err != nil {
			return ran, fmt.Errorf("migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		m.logger.WithField("migration", mig.ID).Info("applied migration")
		ran = append(ran, mig.ID)
	}
	return ran, nil
}
