package config

import "fmt"

// SampleDataConfig controls seeding of demo teams and members at startup.
type SampleDataConfig struct {
	// Enabled turns seeding on.
	Enabled bool
	// Size is the number of members created.
	Size int
}

// LoadSampleDataConfigFromEnv loads sample data configuration from environment variables.
func LoadSampleDataConfigFromEnv() SampleDataConfig {
	return SampleDataConfig{
		Enabled: GetEnvBool("SAMPLE_DATA_ENABLED", false),
		Size:    GetEnvInt("SAMPLE_DATA_SIZE", 100),
	}
}

// Validate validates sample data configuration.
func (c SampleDataConfig) Validate() error {
	if c.Enabled && c.Size <= 0 {
		return fmt.Errorf("SAMPLE_DATA_SIZE must be greater than 0, got %d", c.Size)
	}
	return nil
}
