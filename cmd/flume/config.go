package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// clientConfig is the YAML client profile loaded via --config.
//
//	timeout: 10s
//	retries: 3
//	max_inflight: 8
//	headers:
//	  Accept: application/json
type clientConfig struct {
	Timeout     string            `yaml:"timeout"`
	Retries     int               `yaml:"retries"`
	MaxInFlight int64             `yaml:"max_inflight"`
	Headers     map[string]string `yaml:"headers"`
}

func loadConfig(path string) (*clientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg clientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *clientConfig) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Timeout)
}
