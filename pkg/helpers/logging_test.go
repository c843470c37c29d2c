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
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	testRoot := t.TempDir()
	dirs := []string{
		filepath.Join(testRoot, "config", "nested"),
		filepath.Join(testRoot, "state", "nested"),
	}

	require.NoError(t, EnsureDirectories(dirs...))
	// already existing is fine
	require.NoError(t, EnsureDirectories(dirs...))

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
		}
	}
}

func TestEnsureDirectories_InvalidPath(t *testing.T) {
	t.Parallel()

	err := EnsureDirectories("/proc/invalid\x00path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestDirs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, config.AppName, filepath.Base(ConfigDir()))
	assert.Equal(t, config.AppName, filepath.Base(LogDir()))
}

//nolint:paralleltest // modifies the global logger
func TestInitLogging(t *testing.T) {
	oldLogger := log.Logger
	oldLevel := zerolog.GlobalLevel()
	oldWriter := logWriter
	t.Cleanup(func() {
		log.Logger = oldLogger
		logWriter = oldWriter
		zerolog.SetGlobalLevel(oldLevel)
	})

	logDir := filepath.Join(t.TempDir(), "logs")
	var console bytes.Buffer
	require.NoError(t, InitLogging(logDir, &console))
	assert.NotSame(t, os.Stderr, LogWriter())

	SetLogLevel(false)
	log.Debug().Msg("hidden")
	log.Info().Str("appID", "440").Msg("visible")

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), `"appID":"440"`)

	SetLogLevel(true)
	log.Debug().Msg("now shown")
	assert.Contains(t, console.String(), "now shown")

	data, err := os.ReadFile(filepath.Join(logDir, config.LogFile))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}
