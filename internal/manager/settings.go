package manager

import (
	"context"
	"log"

	"taskmaster/internal/api"
	"taskmaster/internal/cache"
	"taskmaster/internal/model"
	"taskmaster/internal/mutation"
	"taskmaster/internal/session"
	"taskmaster/internal/storage"
)

// SettingsManager owns the settings read and the whole-document update
// mutation. Whenever the read resolves it re-applies the theme and settings
// snapshot into persisted storage; both writes are idempotent.
type SettingsManager struct {
	api     *api.Client
	cache   *cache.Cache
	session *session.Session
	store   *storage.Store

	updateRunner *mutation.Runner
}

func NewSettingsManager(client *api.Client, c *cache.Cache, sess *session.Session, store *storage.Store) *SettingsManager {
	return &SettingsManager{
		api:          client,
		cache:        c,
		session:      sess,
		store:        store,
		updateRunner: mutation.NewRunner(c),
	}
}

func (m *SettingsManager) ReadKey() cache.Key { return SettingsKey(m.session.UserID()) }

func (m *SettingsManager) Subscribe() {
	m.cache.Subscribe(m.ReadKey(), func(ctx context.Context) (any, error) {
		settings, err := m.api.GetSettings(ctx)
		if err != nil {
			return nil, err
		}
		m.applySideEffects(ctx, settings)
		return settings, nil
	})
}

func (m *SettingsManager) Unsubscribe() { m.cache.Unsubscribe(m.ReadKey()) }

// Settings returns the resolved settings, falling back to the persisted
// snapshot and finally the seeded defaults while the read is in flight.
func (m *SettingsManager) Settings() model.Settings {
	if settings, ok := m.cache.Get(m.ReadKey()).Value.(model.Settings); ok {
		return settings
	}
	if snapshot, ok, err := m.store.LoadSettings(context.Background(), m.session.UserID()); err == nil && ok {
		return snapshot
	}
	return model.DefaultSettings()
}

func (m *SettingsManager) Update(ctx context.Context, settings model.Settings) error {
	return m.updateRunner.Do(ctx, func(ctx context.Context) error {
		_, err := m.api.UpdateSettings(ctx, settings)
		return err
	}, m.ReadKey())
}

func (m *SettingsManager) LastError() error {
	if m.updateRunner.Status() == mutation.StatusError {
		return m.updateRunner.Err()
	}
	return nil
}

func (m *SettingsManager) applySideEffects(ctx context.Context, settings model.Settings) {
	if err := m.store.SaveSettings(ctx, m.session.UserID(), settings); err != nil {
		log.Printf("persist settings snapshot: %v", err)
	}
	if err := m.store.SetDarkOverride(ctx, settings.Theme == model.ThemeDark); err != nil {
		log.Printf("persist theme override: %v", err)
	}
}
