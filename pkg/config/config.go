// Winesteam
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Winesteam.
//
// Winesteam is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Winesteam is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Winesteam.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads and persists the winesteam runner configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion   = 1
	AppName         = "winesteam"
	CfgEnv          = "WINESTEAM_CFG"
	CfgFile         = "winesteam.toml"
	LogFile         = "winesteam.log"
	RunnerName      = "winesteam"
	DefaultWinePath = "wine"
)

// AppVersion is set at build time with -ldflags.
var AppVersion = "DEVELOPMENT"

type Values struct {
	Runner         Runner `toml:"winesteam"`
	Game           Game   `toml:"game,omitempty"`
	SentryDSN      string `toml:"sentry_dsn,omitempty" validate:"omitempty,url"`
	DeviceID       string `toml:"device_id,omitempty" validate:"omitempty,uuid"`
	ConfigSchema   int    `toml:"config_schema"`
	DebugLogging   bool   `toml:"debug_logging"`
	ErrorReporting bool   `toml:"error_reporting"`
}

// Runner holds options shared by every game launched through Wine Steam.
type Runner struct {
	SteamPath string `toml:"steam_path,omitempty"`
	WinePath  string `toml:"wine_path,omitempty"`
}

// Game holds the per-game options.
type Game struct {
	AppID  string `toml:"appid,omitempty" validate:"omitempty,numeric,max=10"`
	Args   string `toml:"args,omitempty"`
	Prefix string `toml:"prefix,omitempty"`
}

// RunnerConfig is the read-only snapshot the runner core works from.
type RunnerConfig struct {
	SteamPath string
	AppID     string
	Args      string
	Prefix    string
	WinePath  string
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Runner: Runner{
		WinePath: DefaultWinePath,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       sync.RWMutex
}

// NewConfig loads the config file from configDir, writing defaults first if
// it doesn't exist. WINESTEAM_CFG overrides the file location.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := Validate(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	log.Debug().Str("path", c.cfgPath).Msg("saved config")
	return nil
}

func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting && c.vals.SentryDSN != ""
}

func (c *Instance) SentryDSN() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.SentryDSN
}

// DeviceID is the anonymous ID attached to error reports.
func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DeviceID
}
