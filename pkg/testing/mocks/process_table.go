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
	"regexp"

	"github.com/stretchr/testify/mock"
)

// MockProcessTable is a testify mock for procprobe.Table.
//
// Successive probes of a process that exits part-way through a test can be
// scripted with Once():
//
//	table.On("FindPID", mock.Anything, mock.Anything).Return(int32(42), true).Once()
//	table.On("FindPID", mock.Anything, mock.Anything).Return(int32(0), false)
type MockProcessTable struct {
	mock.Mock
}

// FindPID mocks a process-table scan.
func (m *MockProcessTable) FindPID(ctx context.Context, pattern *regexp.Regexp) (int32, bool) {
	args := m.Called(ctx, pattern)
	pid, _ := args.Get(0).(int32)
	return pid, args.Bool(1)
}

// Cwd mocks reading a process working directory.
func (m *MockProcessTable) Cwd(ctx context.Context, pid int32) (string, bool) {
	args := m.Called(ctx, pid)
	return args.String(0), args.Bool(1)
}

// Cmdline mocks reading a process argument vector.
func (m *MockProcessTable) Cmdline(ctx context.Context, pid int32) ([]string, bool) {
	args := m.Called(ctx, pid)
	argv, _ := args.Get(0).([]string)
	return argv, args.Bool(1)
}

// Kill mocks an unconditional kill.
func (m *MockProcessTable) Kill(ctx context.Context, pid int32) error {
	args := m.Called(ctx, pid)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return args.Error(0)
}
