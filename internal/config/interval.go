package config

import "time"

// Interval parses DayInterval. An empty value means no pacing.
func (c *Config) Interval() (time.Duration, error) {
	if c.DayInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(c.DayInterval)
}
