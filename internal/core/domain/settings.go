package domain

import "time"

// AnalysisSettings holds analysis service configuration.
type AnalysisSettings struct {
	// Endpoint is the base URL of the paragraph analysis service.
	Endpoint string

	// Timeout bounds a single analysis request.
	Timeout time.Duration
}

// IsConfigured returns true if an endpoint is set.
func (a AnalysisSettings) IsConfigured() bool {
	return a.Endpoint != ""
}

// EditorSettings holds behaviour configuration for the live checker.
type EditorSettings struct {
	// Debounce is the quiet period after the last edit before a
	// cycle starts.
	Debounce time.Duration
}

// Settings holds all application settings.
type Settings struct {
	// Analysis holds analysis service settings.
	Analysis AnalysisSettings

	// Editor holds live checker settings.
	Editor EditorSettings
}

// DefaultSettings returns settings with sensible defaults.
// The endpoint matches the analysis service's development default.
func DefaultSettings() Settings {
	return Settings{
		Analysis: AnalysisSettings{
			Endpoint: "http://localhost:5000",
			Timeout:  30 * time.Second,
		},
		Editor: EditorSettings{
			Debounce: time.Second,
		},
	}
}
