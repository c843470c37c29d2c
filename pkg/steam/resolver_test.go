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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestResolver(fs afero.Fs) (*Resolver, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.WarnLevel)
	return NewResolver(testSteamDir, WithFs(fs), WithLogger(logger)), buf
}

func warnCount(buf *bytes.Buffer) int {
	return strings.Count(buf.String(), `"level":"warn"`)
}

func TestResolver_ResolveDataPath(t *testing.T) {
	t.Parallel()

	t.Run("manifest_wins_over_config", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		steamApps := filepath.Join(testSteamDir, "steamapps")
		createMockManifest(t, fs, steamApps, "440", "Team Fortress 2", "Team Fortress 2")
		createMockConfig(t, fs, testSteamDir, map[string]string{"440": "D:/Elsewhere/TF2"})
		r, buf := newTestResolver(fs)

		path, ok := r.ResolveDataPath("440")

		require.True(t, ok)
		assert.Equal(t, filepath.Join(steamApps, "common", "Team Fortress 2"), path)
		assert.Zero(t, warnCount(buf))
	})

	t.Run("falls_back_to_config", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		createMockConfig(t, fs, testSteamDir, map[string]string{"440": "D:/Elsewhere/TF2"})
		r, buf := newTestResolver(fs)

		path, ok := r.ResolveDataPath("440")

		require.True(t, ok)
		assert.Equal(t, "D:/Elsewhere/TF2", path)
		assert.Zero(t, warnCount(buf))
	})

	t.Run("stale_manifest_falls_back_to_config", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		writeFile(t, fs, filepath.Join(testSteamDir, "steamapps", "appmanifest_440.acf"), `"AppState"
{
	"installdir"		"Removed"
}`)
		createMockConfig(t, fs, testSteamDir, map[string]string{"440": "D:/Elsewhere/TF2"})
		r, _ := newTestResolver(fs)

		path, ok := r.ResolveDataPath("440")

		require.True(t, ok)
		assert.Equal(t, "D:/Elsewhere/TF2", path)
	})

	t.Run("unresolved_warns_exactly_once", func(t *testing.T) {
		t.Parallel()

		fs := afero.NewMemMapFs()
		createMockConfig(t, fs, testSteamDir, map[string]string{"570": "C:/Dota"})
		r, buf := newTestResolver(fs)

		path, ok := r.ResolveDataPath("440")

		assert.False(t, ok)
		assert.Empty(t, path)
		assert.Equal(t, 1, warnCount(buf))
		assert.Contains(t, buf.String(), `"appID":"440"`)
	})

	t.Run("invalid_app_id_is_unresolved", func(t *testing.T) {
		t.Parallel()

		r, buf := newTestResolver(afero.NewMemMapFs())

		_, ok := r.ResolveDataPath("../../etc")

		assert.False(t, ok)
		assert.Equal(t, 1, warnCount(buf))
	})
}

//nolint:paralleltest // modifies the global logger
func TestResolver_ManifestWithoutAppStateWarnsOnce(t *testing.T) {
	oldLogger := log.Logger
	oldLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.SetGlobalLevel(oldLevel)
	})
	globalBuf := &bytes.Buffer{}
	log.Logger = zerolog.New(globalBuf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	fs := afero.NewMemMapFs()
	writeFile(t, fs, filepath.Join(testSteamDir, "steamapps", "appmanifest_440.acf"), "\"Other\"\n{\n}\n")
	r, buf := newTestResolver(fs)

	path, ok := r.ResolveDataPath("440")

	assert.False(t, ok)
	assert.Empty(t, path)
	assert.Equal(t, 1, warnCount(buf)+warnCount(globalBuf))
	assert.Equal(t, 0, warnCount(globalBuf))
}

func TestResolver_AppIDs(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	createMockConfig(t, fs, testSteamDir, map[string]string{"440": "a", "220": "b"})
	r, _ := newTestResolver(fs)

	assert.Equal(t, []string{"220", "440"}, r.AppIDs())

	empty, _ := newTestResolver(afero.NewMemMapFs())
	assert.Nil(t, empty.AppIDs())
}

func TestResolver_SteamAppsCommonDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(filepath.Join(testSteamDir, "SteamApps", "common"), 0o750))
	r, _ := newTestResolver(fs)

	path, err := r.SteamAppsCommonDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testSteamDir, "SteamApps", "common"), path)
	assert.Equal(t, testSteamDir, r.SteamDir())
}

// TestPropertyManifestWins verifies the manifest is used whenever it has an
// entry, whatever the config says.
func TestPropertyManifestWins(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		appID := rapid.StringMatching(`[1-9][0-9]{0,6}`).Draw(t, "appID")
		installDir := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,20}`).Draw(t, "installDir")
		configDir := rapid.StringMatching(`[A-Z]:/[A-Za-z0-9]{1,20}`).Draw(t, "configDir")

		fs := afero.NewMemMapFs()
		steamApps := filepath.Join(testSteamDir, "steamapps")
		createMockManifest(t, fs, steamApps, appID, "Game", installDir)
		createMockConfig(t, fs, testSteamDir, map[string]string{appID: configDir})
		r, _ := newTestResolver(fs)

		path, ok := r.ResolveDataPath(appID)
		if !ok {
			t.Fatalf("appID %s not resolved", appID)
		}
		if want := filepath.Join(steamApps, "common", installDir); path != want {
			t.Fatalf("got %q, want manifest path %q", path, want)
		}
	})
}

// TestPropertyConfigFallback verifies config entries resolve when there is no manifest.
func TestPropertyConfigFallback(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		appID := rapid.StringMatching(`[1-9][0-9]{0,6}`).Draw(t, "appID")
		configDir := rapid.StringMatching(`[A-Z]:/[A-Za-z0-9]{1,20}`).Draw(t, "configDir")

		fs := afero.NewMemMapFs()
		createMockConfig(t, fs, testSteamDir, map[string]string{appID: configDir})
		r, _ := newTestResolver(fs)

		path, ok := r.ResolveDataPath(appID)
		if !ok || path != configDir {
			t.Fatalf("got (%q, %v), want (%q, true)", path, ok, configDir)
		}
	})
}
