package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const settingColumns = `id, setting_key, value, description, updated_at`

// SettingRepository handles database operations for system settings.
type SettingRepository struct {
	db *sqlx.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *sqlx.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// List returns all settings ordered by key.
func (r *SettingRepository) List(ctx context.Context) ([]*Setting, error) {
	var settings []*Setting
	if err := r.db.SelectContext(ctx, &settings, `SELECT `+settingColumns+` FROM settings ORDER BY setting_key`); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// GetAll returns all settings as a key/value map.
func (r *SettingRepository) GetAll(ctx context.Context) (map[string]string, error) {
	settings, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// GetByID finds a setting by ID.
func (r *SettingRepository) GetByID(ctx context.Context, id int64) (*Setting, error) {
	var setting Setting
	if err := getOne(ctx, r.db, &setting, `SELECT `+settingColumns+` FROM settings WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("setting %d: %w", id, err)
	}
	return &setting, nil
}

// GetByKey finds a setting by its key.
func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*Setting, error) {
	var setting Setting
	if err := getOne(ctx, r.db, &setting, `SELECT `+settingColumns+` FROM settings WHERE setting_key = ?`, key); err != nil {
		return nil, fmt.Errorf("setting %q: %w", key, err)
	}
	return &setting, nil
}

// Create inserts a setting and fills in its ID.
func (r *SettingRepository) Create(ctx context.Context, setting *Setting) error {
	setting.UpdatedAt = time.Now().UTC()
	id, err := insert(ctx, r.db, `INSERT INTO settings (setting_key, value, description, updated_at)
		VALUES (:setting_key, :value, :description, :updated_at)`, setting)
	if err != nil {
		return fmt.Errorf("failed to create setting: %w", err)
	}
	setting.ID = id
	return nil
}

// Update saves changes to an existing setting.
func (r *SettingRepository) Update(ctx context.Context, setting *Setting) error {
	setting.UpdatedAt = time.Now().UTC()
	err := namedExecOne(ctx, r.db, `UPDATE settings SET setting_key = :setting_key, value = :value,
		description = :description, updated_at = :updated_at WHERE id = :id`, setting)
	if err != nil {
		return fmt.Errorf("failed to update setting %d: %w", setting.ID, err)
	}
	return nil
}

// Delete removes a setting by ID.
func (r *SettingRepository) Delete(ctx context.Context, id int64) error {
	if err := execOne(ctx, r.db, `DELETE FROM settings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete setting %d: %w", id, err)
	}
	return nil
}
