// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store_core.go
// Summary: Config/Section types and the package-level store they live in.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	systemConfigName = "texelation.json"
	legacyConfigName = "config.json"
	legacyThemeName  = "theme.json"
)

// Section is one named group of config keys.
type Section map[string]interface{}

// Config is a whole configuration document: top-level keys are either
// plain values (e.g. "defaultApp") or nested Sections.
type Config map[string]interface{}

var (
	once     sync.Once
	system   Config
	apps     map[string]Config
	loadErr  error
	storeMu  sync.Mutex
)

// System returns the loaded system configuration, loading and migrating
// it on first use.
func System() Config {
	once.Do(func() {
		loadErr = loadSystemLocked()
	})
	storeMu.Lock()
	defer storeMu.Unlock()
	return system
}

// SetSystem replaces the in-memory system configuration (tests and
// callers that want to force a particular state before saving).
func SetSystem(cfg Config) {
	storeMu.Lock()
	defer storeMu.Unlock()
	system = cfg
}

// SaveSystem persists the current system configuration to disk.
func SaveSystem() error {
	storeMu.Lock()
	cfg := system
	storeMu.Unlock()
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

// App returns the loaded configuration for the named app, loading and
// migrating it on first use.
func App(name string) Config {
	storeMu.Lock()
	defer storeMu.Unlock()
	if apps == nil {
		apps = make(map[string]Config)
	}
	if cfg, ok := apps[name]; ok {
		return cfg
	}
	cfg, err := loadAppLocked(name)
	if err != nil {
		log.Printf("Config: error loading app %q config: %v", name, err)
	}
	apps[name] = cfg
	return cfg
}

// SetApp replaces the in-memory configuration for the named app.
func SetApp(name string, cfg Config) {
	storeMu.Lock()
	defer storeMu.Unlock()
	if apps == nil {
		apps = make(map[string]Config)
	}
	apps[name] = cfg
}

// SaveApp persists the named app's current configuration to disk.
func SaveApp(name string) error {
	storeMu.Lock()
	cfg := apps[name]
	storeMu.Unlock()
	path, err := appConfigPath(name)
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

// readConfig reads and decodes a JSON config file. A missing file is not
// an error; exists is false and cfg is nil.
func readConfig(path string) (cfg Config, exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// writeConfig encodes cfg as indented JSON and writes it to path,
// creating parent directories as needed.
func writeConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
