package config

import "path/filepath"

// LogFileName is the file written inside LoggingConfig.Dir.
const LogFileName = "glorp.log"

// LoggingConfig configures the debug log. Nothing is written unless
// DebugMode is on.
type LoggingConfig struct {
	Level      string          `yaml:"level" json:"level,omitempty"`   // debug, info, warn, error
	Format     string          `yaml:"format" json:"format,omitempty"` // json, console
	Dir        string          `yaml:"dir" json:"dir,omitempty"`
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode,omitempty"`
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"` // unlisted categories are on
}

// FilePath is the full path of the log file.
func (c *LoggingConfig) FilePath() string {
	return filepath.Join(c.Dir, LogFileName)
}

// IsCategoryEnabled reports whether a category logs. Everything is off
// outside debug mode.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	on, listed := c.Categories[category]
	return !listed || on
}
