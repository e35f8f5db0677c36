// Package sheets provides read-only Google Sheets API access for the dashboard.
package sheets

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
)

// Config holds the configuration for the Google Sheets reader.
type Config struct {
	ServiceAccount ServiceAccount `mapstructure:"-"`
	SpreadsheetID  string         `mapstructure:"spreadsheet_id"`
	NumbersRange   string         `mapstructure:"numbers_range"`
	ChartsRange    string         `mapstructure:"charts_range"`
	Endpoint       string         `mapstructure:"endpoint"` // empty means Google's default
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	RetryAttempts  int            `mapstructure:"retry_attempts"`
	RetryDelay     time.Duration  `mapstructure:"retry_delay"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumbersRange:   "Numbers!A1:C2",
		ChartsRange:    "Charts!A1:B10",
		RequestTimeout: 15 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Second,
		ServiceAccount: ServiceAccount{
			UniverseDomain: defaultUniverseDomain,
		},
	}
}

// LoadFromEnv applies the GOOGLE_SHEETS_* fallbacks. The spreadsheet id is
// only taken from the environment when unset; ranges are overridden when the
// variable is present.
func (c *Config) LoadFromEnv() {
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_NUMBERS_RANGE")); v != "" {
		c.NumbersRange = v
	}
	if v := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CHARTS_RANGE")); v != "" {
		c.ChartsRange = v
	}
}

// Numbers returns the range holding the scalar metrics.
func (c Config) Numbers() model.SheetRange {
	return model.NewSheetRange(c.SpreadsheetID, c.NumbersRange)
}

// Charts returns the range holding the category/value chart data.
func (c Config) Charts() model.SheetRange {
	return model.NewSheetRange(c.SpreadsheetID, c.ChartsRange)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ServiceAccount.Validate(); err != nil {
		return err
	}

	var missing []string
	if strings.TrimSpace(c.SpreadsheetID) == "" {
		missing = append(missing, "spreadsheet_id")
	}
	if strings.TrimSpace(c.NumbersRange) == "" {
		missing = append(missing, "numbers_range")
	}
	if strings.TrimSpace(c.ChartsRange) == "" {
		missing = append(missing, "charts_range")
	}
	if len(missing) > 0 {
		return &common.ConfigurationError{Section: "sheets", Missing: missing}
	}

	if c.RequestTimeout < 0 {
		return &common.ConfigurationError{Section: "sheets", Err: fmt.Errorf("request timeout cannot be negative")}
	}

	if c.RetryAttempts < 0 {
		return &common.ConfigurationError{Section: "sheets", Err: fmt.Errorf("retry attempts cannot be negative")}
	}

	if c.RetryDelay < 0 {
		return &common.ConfigurationError{Section: "sheets", Err: fmt.Errorf("retry delay cannot be negative")}
	}

	return nil
}
