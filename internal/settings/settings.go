// Package settings holds the process-wide model configuration: which
// provider and model generation requests go to, and whether a caller-supplied
// API key is in use. The configuration is loaded from local device storage
// once at startup and written back on every mutation.
package settings

import (
	"fmt"
	"sync"

	"github.com/writewise/content-engine/internal/ai"
	"github.com/writewise/content-engine/internal/ai/mistral"
)

// ModelConfig selects the active provider and model for generation.
type ModelConfig struct {
	Provider     ai.ProviderName `json:"provider"`
	Model        string          `json:"model"`
	APIKey       string          `json:"api_key"`
	UseCustomKey bool            `json:"use_custom_key"`
}

// Default is the configuration used before the user ever changes anything:
// the default provider with its flagship model, keyed from the environment.
func Default() ModelConfig {
	return ModelConfig{
		Provider: ai.DefaultProvider,
		Model:    mistral.DefaultModel,
	}
}

// Repository persists the model configuration on the local device.
type Repository interface {
	// LoadModelConfig returns the stored configuration, or nil when none
	// has ever been saved.
	LoadModelConfig() (*ModelConfig, error)
	SaveModelConfig(cfg ModelConfig) error
}

// Manager is the accessor for the process-wide configuration. It exists so
// callers never touch ambient globals and tests can inject their own.
type Manager struct {
	mu   sync.RWMutex
	cfg  ModelConfig
	repo Repository
}

// NewManager loads the stored configuration, falling back to Default when
// nothing has been saved yet. repo may be nil (no persistence).
func NewManager(repo Repository) (*Manager, error) {
	m := &Manager{repo: repo, cfg: Default()}
	if repo != nil {
		stored, err := repo.LoadModelConfig()
		if err != nil {
			return nil, fmt.Errorf("load model settings: %w", err)
		}
		if stored != nil {
			m.cfg = *stored
		}
	}
	return m, nil
}

// Current returns the active configuration.
func (m *Manager) Current() ModelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Update replaces the configuration and writes it through to the
// repository. The default provider's key comes from the environment and is
// never persisted to device storage.
func (m *Manager) Update(cfg ModelConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.repo != nil {
		persisted := cfg
		if persisted.Provider == ai.DefaultProvider {
			persisted.APIKey = ""
			persisted.UseCustomKey = false
		}
		if err := m.repo.SaveModelConfig(persisted); err != nil {
			return fmt.Errorf("save model settings: %w", err)
		}
	}
	m.cfg = cfg
	return nil
}
