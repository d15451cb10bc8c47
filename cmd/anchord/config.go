// config.go - Configuration management for the anchord pipeline
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	// Protocol settings
	Range     uint8  `json:"range"`      // tree exponent, 2^range leaves
	Witness   uint64 `json:"witness"`    // enrolled value to prove; 0 cycles through 1..num_proofs
	NumProofs int    `json:"num_proofs"` // proofs to generate against the one tree
	SeedH     string `json:"seed_h"`     // hex seed for generator H; empty uses the protocol default
	SeedB     string `json:"seed_b"`     // hex seed for generator B; empty uses the protocol default

	// File paths
	ProofPath string `json:"proof_path"` // last generated bundle is written here

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Performance
	MaxConcurrency int `json:"max_concurrency"` // tree-build workers
	TimeoutSeconds int `json:"timeout_seconds"` // tree-build deadline
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Range:          8,
		Witness:        0,
		NumProofs:      3,
		ProofPath:      "proof.json",
		LogLevel:       "info",
		LogFile:        "anchord.log",
		MaxConcurrency: 4,
		TimeoutSeconds: 120,
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		var config Config
		if err := json.NewDecoder(file).Decode(&config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		return &config, nil
	}

	// Create default config and save it
	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}
	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Range < 1 || c.Range > 32 {
		return fmt.Errorf("range must be in [1, 32]")
	}
	if c.NumProofs <= 0 {
		return fmt.Errorf("num_proofs must be positive")
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive")
	}
	if c.Witness > uint64(1)<<c.Range {
		return fmt.Errorf("witness %d is not enrolled for range %d", c.Witness, c.Range)
	}
	for _, seed := range []string{c.SeedH, c.SeedB} {
		if seed == "" {
			continue
		}
		if _, err := hex.DecodeString(seed); err != nil {
			return fmt.Errorf("generator seeds must be hex: %w", err)
		}
	}
	return nil
}

// GeneratorSeeds returns the configured seeds, falling back to the protocol
// defaults (all-zero for H, all-one for B).
func (c *Config) GeneratorSeeds() (seedH, seedB []byte) {
	seedH = make([]byte, 32)
	seedB = make([]byte, 32)
	for i := range seedB {
		seedB[i] = 0x01
	}
	if c.SeedH != "" {
		seedH, _ = hex.DecodeString(c.SeedH)
	}
	if c.SeedB != "" {
		seedB, _ = hex.DecodeString(c.SeedB)
	}
	return seedH, seedB
}
