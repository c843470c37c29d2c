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

package steam

import (
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ConfigFile is Steam's client configuration, relative to the Steam root.
const ConfigFile = "config/config.vdf"

// ReadConfig reads config.vdf under steamDir and returns the
// InstallConfigStore/Software/Valve/Steam section.
func ReadConfig(fs afero.Fs, steamDir string) (map[string]any, bool) {
	if steamDir == "" {
		return nil, false
	}

	m, err := readVDF(fs, filepath.Join(steamDir, ConfigFile))
	if err != nil {
		log.Debug().Err(err).Msg("failed to read Steam config")
		return nil, false
	}

	steamSection, ok := section(m, "InstallConfigStore", "Software", "Valve", "Steam")
	if !ok {
		log.Debug().Msg("Steam section not found in config.vdf")
		return nil, false
	}
	return steamSection, true
}

// PathFromConfig looks up the install directory recorded for appID in the
// config's apps section. Entries can be stale after an app is removed.
func PathFromConfig(cfg map[string]any, appID string) (string, bool) {
	app, ok := section(cfg, "apps", appID)
	if !ok {
		return "", false
	}
	installDir, ok := app["installdir"].(string)
	if !ok || installDir == "" {
		return "", false
	}
	return installDir, true
}

// AppIDs returns the app IDs listed in the config's apps section, sorted.
func AppIDs(cfg map[string]any) []string {
	apps, ok := section(cfg, "apps")
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(apps))
	for id := range apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
