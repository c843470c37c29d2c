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

package config

// SteamPath returns the configured path to Steam.exe, which may be empty.
func (c *Instance) SteamPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Runner.SteamPath
}

// SetSteamPath records the path to Steam.exe. Call Save to persist it.
func (c *Instance) SetSteamPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Runner.SteamPath = path
}

// SetGame replaces the game options after validating them.
func (c *Instance) SetGame(g Game) error {
	if err := DefaultValidator.Struct(g); err != nil {
		return formatValidationError(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Game = g
	return nil
}

// RunnerConfig returns a snapshot of the values the runner core needs. An
// empty Wine path falls back to "wine" on PATH.
func (c *Instance) RunnerConfig() RunnerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	winePath := c.vals.Runner.WinePath
	if winePath == "" {
		winePath = DefaultWinePath
	}
	return RunnerConfig{
		SteamPath: c.vals.Runner.SteamPath,
		WinePath:  winePath,
		AppID:     c.vals.Game.AppID,
		Args:      c.vals.Game.Args,
		Prefix:    c.vals.Game.Prefix,
	}
}
