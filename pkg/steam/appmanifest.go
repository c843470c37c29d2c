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
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// steamAppsCandidates are the library directory names Steam has used,
// tried in order. Older Windows installs use the mixed-case form.
var steamAppsCandidates = []string{"SteamApps", "steamapps"}

// ErrSteamAppsNotFound is returned when no steamapps/common directory exists.
var ErrSteamAppsNotFound = errors.New("unable to locate SteamApps path")

// AppInfo contains metadata for a Steam app from its manifest.
type AppInfo struct {
	AppID      string
	Name       string
	InstallDir string
}

// ValidateAppID checks that id is a Steam app ID. App IDs end up in file
// names and URIs so anything non-numeric is rejected.
func ValidateAppID(id string) error {
	if _, err := strconv.ParseUint(id, 10, 32); err != nil {
		return fmt.Errorf("invalid Steam app ID: %q", id)
	}
	return nil
}

func manifestName(appID string) string {
	return "appmanifest_" + appID + ".acf"
}

// ReadAppManifest reads appmanifest_<appID>.acf from steamAppsDir.
func ReadAppManifest(fs afero.Fs, steamAppsDir, appID string) (AppInfo, bool) {
	m, err := readVDF(fs, filepath.Join(steamAppsDir, manifestName(appID)))
	if err != nil {
		log.Debug().Err(err).Str("appID", appID).Msg("failed to read app manifest")
		return AppInfo{}, false
	}

	appState, ok := section(m, "AppState")
	if !ok {
		log.Debug().Str("appID", appID).Msg("AppState not found in manifest")
		return AppInfo{}, false
	}

	name, _ := appState["name"].(string)             //nolint:revive // name is optional
	installDir, _ := appState["installdir"].(string) //nolint:revive // checked by callers

	return AppInfo{
		AppID:      appID,
		Name:       name,
		InstallDir: installDir,
	}, true
}

// findManifestDir returns the first steamapps candidate under steamDir that
// holds a manifest for appID.
func findManifestDir(fs afero.Fs, steamDir, appID string) (string, bool) {
	for _, candidate := range steamAppsCandidates {
		dir := filepath.Join(steamDir, candidate)
		if ok, _ := afero.Exists(fs, filepath.Join(dir, manifestName(appID))); ok {
			return dir, true
		}
	}
	return "", false
}

// PathFromAppManifest returns <steamapps>/common/<installdir> for appID when
// its manifest exists and the install directory is present on disk.
func PathFromAppManifest(fs afero.Fs, steamDir, appID string) (string, bool) {
	if steamDir == "" {
		return "", false
	}

	steamAppsDir, ok := findManifestDir(fs, steamDir, appID)
	if !ok {
		return "", false
	}

	info, ok := ReadAppManifest(fs, steamAppsDir, appID)
	if !ok || info.InstallDir == "" {
		return "", false
	}

	installPath := filepath.Join(steamAppsDir, "common", info.InstallDir)
	if ok, _ := afero.DirExists(fs, installPath); !ok {
		log.Debug().Str("appID", appID).Str("path", installPath).Msg("manifest install dir missing on disk")
		return "", false
	}
	return installPath, true
}

// SteamAppsCommonDir returns the first existing steamapps/common directory.
func SteamAppsCommonDir(fs afero.Fs, steamDir string) (string, error) {
	for _, candidate := range steamAppsCandidates {
		path := filepath.Join(steamDir, candidate, "common")
		if ok, _ := afero.DirExists(fs, path); ok {
			return path, nil
		}
	}
	return "", ErrSteamAppsNotFound
}
