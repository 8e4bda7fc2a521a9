package driving

import (
	"time"

	"github.com/margin-labs/margo/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetEndpoint updates the analysis service endpoint.
	SetEndpoint(endpoint string) error

	// SetDebounce updates the checker's quiet period.
	SetDebounce(debounce time.Duration) error

	// Validate checks that current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}
