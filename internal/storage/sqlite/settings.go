package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/settings"
)

// SettingsRepository persists the single model configuration row.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(d *DB) *SettingsRepository {
	return &SettingsRepository{db: d.db}
}

// LoadModelConfig returns the stored configuration, or nil when none exists.
func (r *SettingsRepository) LoadModelConfig() (*settings.ModelConfig, error) {
	row := r.db.QueryRow(`SELECT provider, model, api_key, use_custom_key FROM model_settings WHERE id = 1`)

	var (
		cfg       settings.ModelConfig
		provider  string
		customKey int
	)
	err := row.Scan(&provider, &cfg.Model, &cfg.APIKey, &customKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load model settings: %w", err)
	}
	cfg.Provider = ai.ProviderName(provider)
	cfg.UseCustomKey = customKey != 0
	return &cfg, nil
}

// SaveModelConfig upserts the configuration row.
func (r *SettingsRepository) SaveModelConfig(cfg settings.ModelConfig) error {
	_, err := r.db.Exec(
		`INSERT INTO model_settings (id, provider, model, api_key, use_custom_key, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   provider = excluded.provider,
		   model = excluded.model,
		   api_key = excluded.api_key,
		   use_custom_key = excluded.use_custom_key,
		   updated_at = excluded.updated_at`,
		string(cfg.Provider), cfg.Model, cfg.APIKey, boolToInt(cfg.UseCustomKey), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save model settings: %w", err)
	}
	return nil
}
