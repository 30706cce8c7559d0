package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"liveosc/client"
)

// config holds connection settings, loadable from a YAML file:
//
//	host: 192.168.1.20
//	send_port: 11000
//	receive_port: 11001
//	timeout: 2s
type config struct {
	Host        string
	SendPort    int
	ReceivePort int
	Timeout     time.Duration
}

// UnmarshalYAML merges the file over whatever defaults the receiver already
// holds; absent keys keep their values. Durations use Go syntax ("2s",
// "500ms") rather than raw nanoseconds.
func (c *config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Host        string `yaml:"host"`
		SendPort    int    `yaml:"send_port"`
		ReceivePort int    `yaml:"receive_port"`
		Timeout     string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Host != "" {
		c.Host = raw.Host
	}
	if raw.SendPort != 0 {
		c.SendPort = raw.SendPort
	}
	if raw.ReceivePort != 0 {
		c.ReceivePort = raw.ReceivePort
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		c.Timeout = d
	}
	return nil
}

func defaultConfig() *config {
	return &config{
		Host:        client.DefaultHost,
		SendPort:    client.DefaultSendPort,
		ReceivePort: client.DefaultReceivePort,
		Timeout:     client.DefaultTimeout,
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".livectl.yaml")
}

// loadConfig reads the YAML file at path, or the default path when path is
// empty. A missing file at the default path is not an error; an explicitly
// requested file must exist.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
