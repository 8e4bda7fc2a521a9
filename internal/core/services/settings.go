package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/margin-labs/margo/internal/core/domain"
	"github.com/margin-labs/margo/internal/core/ports/driven"
	"github.com/margin-labs/margo/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAnalysisEndpoint = "analysis.endpoint"
	keyAnalysisTimeout  = "analysis.timeout"
	keyEditorDebounce   = "editor.debounce"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Analysis: domain.AnalysisSettings{
			Endpoint: s.getString(keyAnalysisEndpoint, defaults.Analysis.Endpoint),
			Timeout:  s.getDuration(keyAnalysisTimeout, defaults.Analysis.Timeout),
		},
		Editor: domain.EditorSettings{
			Debounce: s.getDuration(keyEditorDebounce, defaults.Editor.Debounce),
		},
	}

	return settings, nil
}

// Save persists application settings. Durations are stored as strings
// ("750ms", "1s") so the config file stays hand-editable.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := s.configStore.Set(keyAnalysisEndpoint, settings.Analysis.Endpoint); err != nil {
		return fmt.Errorf("save analysis endpoint: %w", err)
	}
	if err := s.configStore.Set(keyAnalysisTimeout, settings.Analysis.Timeout.String()); err != nil {
		return fmt.Errorf("save analysis timeout: %w", err)
	}
	if err := s.configStore.Set(keyEditorDebounce, settings.Editor.Debounce.String()); err != nil {
		return fmt.Errorf("save editor debounce: %w", err)
	}

	return nil
}

// SetEndpoint updates the analysis service endpoint.
func (s *SettingsService) SetEndpoint(endpoint string) error {
	endpoint = strings.TrimRight(endpoint, "/")
	if err := validateEndpoint(endpoint); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Analysis.Endpoint = endpoint

	return s.Save(settings)
}

// SetDebounce updates the checker's quiet period.
func (s *SettingsService) SetDebounce(debounce time.Duration) error {
	if debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", debounce)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Editor.Debounce = debounce

	return s.Save(settings)
}

// Validate checks that current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Analysis.IsConfigured() {
		return fmt.Errorf("analysis endpoint is not configured")
	}
	if err := validateEndpoint(settings.Analysis.Endpoint); err != nil {
		return err
	}
	if settings.Analysis.Timeout <= 0 {
		return fmt.Errorf("analysis timeout must be positive, got %s", settings.Analysis.Timeout)
	}
	if settings.Editor.Debounce <= 0 {
		return fmt.Errorf("editor debounce must be positive, got %s", settings.Editor.Debounce)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// validateEndpoint rejects URLs the analysis client cannot use.
func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint %q must use http or https", endpoint)
	}
	if parsed.Host == "" {
		return fmt.Errorf("endpoint %q has no host", endpoint)
	}

	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := time.ParseDuration(val)
	if err != nil || parsed <= 0 {
		return defaultVal
	}
	return parsed
}
