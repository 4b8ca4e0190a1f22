package plan

import "fmt"

// Config defines planning horizon parameters loaded from configuration.
type Config struct {
	// Days is the number of working days in the horizon.
	Days int `json:"days"`
	// UseCalendar enables the company-calendar gate. When false every day
	// is treated as a working day.
	UseCalendar bool `json:"use_calendar"`
	// SearchFactor bounds the calendar scan: at most Days*SearchFactor
	// calendar days are examined while collecting working days.
	SearchFactor int `json:"search_factor"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Days == 0 {
		c.Days = 7
	}
	if c.SearchFactor == 0 {
		c.SearchFactor = 7
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be positive")
	}
	if c.SearchFactor <= 0 {
		return fmt.Errorf("search_factor must be positive")
	}
	return nil
}
