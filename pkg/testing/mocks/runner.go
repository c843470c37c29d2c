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

package mocks

import (
	"context"

	"github.com/ZaparooProject/winesteam/pkg/config"
	"github.com/stretchr/testify/mock"
)

// MockDirectoryPrompter is a testify mock for runner.DirectoryPrompter.
type MockDirectoryPrompter struct {
	mock.Mock
}

func (m *MockDirectoryPrompter) PromptDirectory(title string) (dir string, ok bool) {
	args := m.Called(title)
	return args.String(0), args.Bool(1)
}

// MockErrorReporter is a testify mock for runner.ErrorReporter.
type MockErrorReporter struct {
	mock.Mock
}

func (m *MockErrorReporter) ShowError(msg string) {
	m.Called(msg)
}

// MockBaseRuntime is a testify mock for runner.BaseRuntime.
type MockBaseRuntime struct {
	mock.Mock
}

func (m *MockBaseRuntime) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return args.Error(0)
}

// MockConfigStore is a testify mock for runner.ConfigStore. RunnerConfig
// returns Config directly so tests can adjust it between calls; the setter
// records the new path there as well.
type MockConfigStore struct {
	mock.Mock
	Config config.RunnerConfig
}

func (m *MockConfigStore) RunnerConfig() config.RunnerConfig {
	return m.Config
}

func (m *MockConfigStore) SetSteamPath(path string) {
	m.Called(path)
	m.Config.SteamPath = path
}

func (m *MockConfigStore) Save() error {
	args := m.Called()
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return args.Error(0)
}
