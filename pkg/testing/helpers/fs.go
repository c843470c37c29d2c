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

package helpers

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FSHelper builds Steam install fixtures on an afero filesystem.
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS creates a new in-memory filesystem for testing
func NewMemoryFS() *FSHelper {
	return &FSHelper{
		Fs: afero.NewMemMapFs(),
	}
}

// WriteFile writes content to path, creating parent directories.
func (h *FSHelper) WriteFile(path, content string) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// CreateSteamInstall creates an empty Steam.exe in steamDir and returns its path.
func (h *FSHelper) CreateSteamInstall(steamDir string) (string, error) {
	exe := filepath.Join(steamDir, "Steam.exe")
	return exe, h.WriteFile(exe, "")
}

// CreateAppManifest writes appmanifest_<appID>.acf into steamAppsDir and,
// when createDir is set, the matching common/<installDir> directory.
func (h *FSHelper) CreateAppManifest(steamAppsDir, appID, name, installDir string, createDir bool) error {
	manifest := fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"name"		"%s"
	"installdir"		"%s"
}
`, appID, name, installDir)

	path := filepath.Join(steamAppsDir, "appmanifest_"+appID+".acf")
	if err := h.WriteFile(path, manifest); err != nil {
		return err
	}
	if !createDir {
		return nil
	}
	if err := h.Fs.MkdirAll(filepath.Join(steamAppsDir, "common", installDir), 0o750); err != nil {
		return fmt.Errorf("failed to create install dir: %w", err)
	}
	return nil
}

// CreateSteamConfig writes config/config.vdf under steamDir with an
// installdir entry for every app in apps.
func (h *FSHelper) CreateSteamConfig(steamDir string, apps map[string]string) error {
	ids := make([]string, 0, len(apps))
	for id := range apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("\"InstallConfigStore\"\n{\n\t\"Software\"\n\t{\n\t\t\"Valve\"\n\t\t{\n")
	b.WriteString("\t\t\t\"Steam\"\n\t\t\t{\n\t\t\t\t\"apps\"\n\t\t\t\t{\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "\t\t\t\t\t%q\n\t\t\t\t\t{\n\t\t\t\t\t\t\"installdir\"\t\t%q\n\t\t\t\t\t}\n", id, apps[id])
	}
	b.WriteString("\t\t\t\t}\n\t\t\t}\n\t\t}\n\t}\n}\n")

	return h.WriteFile(filepath.Join(steamDir, "config", "config.vdf"), b.String())
}
