// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads the application configuration from YAML, filling in
// production defaults for anything the file leaves out.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Defaults struct {
		Format  string `yaml:"format"`
		Debug   bool   `yaml:"debug"`
		NoColor bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	Recognition struct {
		APIKey                 string   `yaml:"api_key"`
		StandardEndpoints      []string `yaml:"standard_endpoints"`
		ElevatedEndpoints      []string `yaml:"elevated_endpoints"`
		StandardAttempts       int      `yaml:"standard_attempts"`
		ElevatedAttempts       int      `yaml:"elevated_attempts"`
		Language               string   `yaml:"language"`
		Engine                 int      `yaml:"engine"`
		DetectOrientation      bool     `yaml:"detect_orientation"`
		Scale                  bool     `yaml:"scale"`
		BackoffSeconds         int      `yaml:"backoff_seconds"`
		AttemptTimeoutsSeconds []int    `yaml:"attempt_timeouts_seconds"`
	} `yaml:"recognition"`

	Compression struct {
		MaxBytes    int `yaml:"max_bytes"`
		MaxWidth    int `yaml:"max_width"`
		MaxHeight   int `yaml:"max_height"`
		JPEGQuality int `yaml:"jpeg_quality"`
	} `yaml:"compression"`

	Classifier struct {
		Threshold int `yaml:"threshold"`
	} `yaml:"classifier"`

	MRZ struct {
		BirthYearPivot  int `yaml:"birth_year_pivot"`
		ExpiryYearPivot int `yaml:"expiry_year_pivot"`
	} `yaml:"mrz"`
}

// LoadConfig loads configuration from the specified file path. An empty
// path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// YAML unmarshaling zeroes bool fields that are simply absent from the
	// file; remember the defaults so absence keeps them.
	defaultDetect := config.Recognition.DetectOrientation
	defaultScale := config.Recognition.Scale

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if !containsField(data, "recognition", "detect_orientation") {
		config.Recognition.DetectOrientation = defaultDetect
	}
	if !containsField(data, "recognition", "scale") {
		config.Recognition.Scale = defaultScale
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the given file, falling back to defaults when
// the file is missing or unparsable. Callers that can proceed without a
// config file use this instead of LoadConfig.
func LoadConfigOrDefault(configPath string) *Config {
	config, err := LoadConfig(configPath)
	if err != nil {
		return defaultConfig()
	}
	return config
}

func defaultConfig() *Config {
	config := &Config{}

	config.Defaults.Format = "text"

	config.Recognition.StandardEndpoints = []string{
		"https://api.ocr.space/parse/image",
		"https://apipro1.ocr.space/parse/image",
		"https://apipro2.ocr.space/parse/image",
	}
	config.Recognition.ElevatedEndpoints = []string{
		"https://apipro1.ocr.space/parse/image",
		"https://apipro2.ocr.space/parse/image",
	}
	config.Recognition.StandardAttempts = 3
	config.Recognition.ElevatedAttempts = 2
	config.Recognition.Language = "fre"
	config.Recognition.Engine = 2
	config.Recognition.DetectOrientation = true
	config.Recognition.Scale = true
	config.Recognition.BackoffSeconds = 2
	config.Recognition.AttemptTimeoutsSeconds = []int{90, 120, 150}

	config.Compression.MaxBytes = 1 << 20
	config.Compression.MaxWidth = 2048
	config.Compression.MaxHeight = 2048
	config.Compression.JPEGQuality = 80

	config.Classifier.Threshold = 25

	config.MRZ.BirthYearPivot = 30
	config.MRZ.ExpiryYearPivot = 50

	return config
}

// ValidateConfig checks configuration consistency.
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format %q (want text or json)", config.Defaults.Format)
	}

	if len(config.Recognition.StandardEndpoints) == 0 {
		return fmt.Errorf("recognition.standard_endpoints must not be empty")
	}
	if len(config.Recognition.ElevatedEndpoints) == 0 {
		return fmt.Errorf("recognition.elevated_endpoints must not be empty")
	}
	if config.Recognition.StandardAttempts < 1 {
		return fmt.Errorf("recognition.standard_attempts must be at least 1")
	}
	if config.Recognition.ElevatedAttempts < 1 {
		return fmt.Errorf("recognition.elevated_attempts must be at least 1")
	}
	if config.Recognition.BackoffSeconds < 0 {
		return fmt.Errorf("recognition.backoff_seconds must not be negative")
	}
	for _, t := range config.Recognition.AttemptTimeoutsSeconds {
		if t <= 0 {
			return fmt.Errorf("recognition.attempt_timeouts_seconds entries must be positive")
		}
	}

	if q := config.Compression.JPEGQuality; q < 1 || q > 100 {
		return fmt.Errorf("compression.jpeg_quality %d out of range 1-100", q)
	}

	if th := config.Classifier.Threshold; th < 0 || th > 100 {
		return fmt.Errorf("classifier.threshold %d out of range 0-100", th)
	}

	if p := config.MRZ.BirthYearPivot; p < 0 || p > 99 {
		return fmt.Errorf("mrz.birth_year_pivot %d out of range 0-99", p)
	}
	if p := config.MRZ.ExpiryYearPivot; p < 0 || p > 99 {
		return fmt.Errorf("mrz.expiry_year_pivot %d out of range 0-99", p)
	}

	return nil
}

// Backoff returns the configured backoff as a duration.
func (c *Config) Backoff() time.Duration {
	return time.Duration(c.Recognition.BackoffSeconds) * time.Second
}

// AttemptTimeouts returns the per-attempt timeouts as durations.
func (c *Config) AttemptTimeouts() []time.Duration {
	out := make([]time.Duration, 0, len(c.Recognition.AttemptTimeoutsSeconds))
	for _, s := range c.Recognition.AttemptTimeoutsSeconds {
		out = append(out, time.Duration(s)*time.Second)
	}
	return out
}

// FindConfigFile looks for a configuration file in standard locations.
func FindConfigFile() string {
	for _, name := range []string{"config.yaml", "idscan.yaml", "idscan.yml", ".idscan.yaml", ".idscan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeConfig := filepath.Join(home, ".idscan.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		candidate := filepath.Join(xdgConfig, "idscan", name)
		if fileExists(candidate) {
			return candidate
		}
	}

	return ""
}

// fileExists checks if a file exists and is not a directory.
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// containsField checks if a nested field exists in the YAML data.
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}
