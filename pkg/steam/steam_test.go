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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testSteamDir = "/pfx/drive_c/Program Files/Steam"

// fixtureT is satisfied by both *testing.T and *rapid.T.
type fixtureT interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
}

func writeFile(t fixtureT, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o600))
}

// createMockManifest writes an appmanifest and, when installDir is set,
// creates the matching common/ directory.
func createMockManifest(t fixtureT, fs afero.Fs, steamAppsDir, appID, name, installDir string) {
	t.Helper()
	content := fmt.Sprintf(`"AppState"
{
	"appid"		"%s"
	"name"		"%s"
	"installdir"		"%s"
}`, appID, name, installDir)
	writeFile(t, fs, filepath.Join(steamAppsDir, "appmanifest_"+appID+".acf"), content)
	if installDir != "" {
		require.NoError(t, fs.MkdirAll(filepath.Join(steamAppsDir, "common", installDir), 0o750))
	}
}

// createMockConfig writes config.vdf with an apps section mapping app IDs
// to install directories.
func createMockConfig(t fixtureT, fs afero.Fs, steamDir string, apps map[string]string) {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("\"InstallConfigStore\"\n{\n\t\"Software\"\n\t{\n\t\t\"valve\"\n\t\t{\n")
	sb.WriteString("\t\t\t\"Steam\"\n\t\t\t{\n\t\t\t\t\"apps\"\n\t\t\t\t{\n")
	for id, dir := range apps {
		fmt.Fprintf(&sb, "\t\t\t\t\t\"%s\"\n\t\t\t\t\t{\n", id)
		if dir != "" {
			fmt.Fprintf(&sb, "\t\t\t\t\t\t\"installdir\"\t\t\"%s\"\n", dir)
		}
		sb.WriteString("\t\t\t\t\t}\n")
	}
	sb.WriteString("\t\t\t\t}\n\t\t\t}\n\t\t}\n\t}\n}\n")
	writeFile(t, fs, filepath.Join(steamDir, ConfigFile), sb.String())
}
