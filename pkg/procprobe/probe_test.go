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

package procprobe

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"testing"

	"github.com/ZaparooProject/winesteam/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fakeProbe(entries []entry, err error) *Probe {
	return &Probe{
		list: func(context.Context) ([]entry, error) {
			return entries, err
		},
	}
}

func TestSteamPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		match bool
	}{
		{name: "Steam.exe", match: true},
		{name: "C:\\Program Files\\Steam\\Steam.exe", match: true},
		{name: "steam.exe", match: false},
		{name: "Steam.exe.bak", match: false},
		{name: "steamwebhelper.exe", match: false},
		{name: "steam", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.match, SteamPattern.MatchString(tt.name))
		})
	}
}

func TestProbe_FindPID(t *testing.T) {
	t.Parallel()

	t.Run("returns_first_enumerated_match", func(t *testing.T) {
		t.Parallel()

		p := fakeProbe([]entry{
			{pid: 10, name: "wineserver"},
			{pid: 42, name: "Steam.exe"},
			{pid: 43, name: "Steam.exe"},
		}, nil)

		pid, ok := p.FindPID(context.Background(), SteamPattern)

		assert.True(t, ok)
		assert.Equal(t, int32(42), pid)
	})

	t.Run("returns_false_without_match", func(t *testing.T) {
		t.Parallel()

		p := fakeProbe([]entry{{pid: 10, name: "steam.exe"}}, nil)

		_, ok := p.FindPID(context.Background(), SteamPattern)

		assert.False(t, ok)
	})

	t.Run("scan_error_is_not_found", func(t *testing.T) {
		t.Parallel()

		p := fakeProbe(nil, errors.New("permission denied"))

		_, ok := p.FindPID(context.Background(), SteamPattern)

		assert.False(t, ok)
	})
}

func TestProbe_RealProcessTable(t *testing.T) {
	t.Parallel()

	probe := New()
	ctx := context.Background()
	self := int32(os.Getpid()) //nolint:gosec // G115: pid fits in int32

	t.Run("reads_own_cwd", func(t *testing.T) {
		t.Parallel()

		wd, err := os.Getwd()
		require.NoError(t, err)

		cwd, ok := probe.Cwd(ctx, self)

		assert.True(t, ok)
		assert.Equal(t, wd, cwd)
	})

	t.Run("reads_own_cmdline", func(t *testing.T) {
		t.Parallel()

		args, ok := probe.Cmdline(ctx, self)

		assert.True(t, ok)
		assert.Equal(t, os.Args, args)
	})

	t.Run("finds_running_child", func(t *testing.T) {
		t.Parallel()

		cmd := exec.CommandContext(ctx, "sleep", "30")
		require.NoError(t, cmd.Start())
		t.Cleanup(func() {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		})

		pid, ok := probe.FindPID(ctx, regexp.MustCompile(`^sleep$`))

		assert.True(t, ok)
		assert.NotZero(t, pid)
	})

	t.Run("kills_running_child", func(t *testing.T) {
		t.Parallel()

		cmd := exec.CommandContext(ctx, "sleep", "30")
		require.NoError(t, cmd.Start())
		pid := int32(cmd.Process.Pid) //nolint:gosec // G115: pid fits in int32

		require.NoError(t, probe.Kill(ctx, pid))

		err := cmd.Wait()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "killed")
	})

	t.Run("kill_of_exited_pid_is_not_an_error", func(t *testing.T) {
		t.Parallel()

		cmd := exec.CommandContext(ctx, "true")
		require.NoError(t, cmd.Run())
		pid := int32(cmd.Process.Pid) //nolint:gosec // G115: pid fits in int32

		assert.NoError(t, probe.Kill(ctx, pid))
	})

	t.Run("details_of_exited_pid_are_absent", func(t *testing.T) {
		t.Parallel()

		cmd := exec.CommandContext(ctx, "true")
		require.NoError(t, cmd.Run())
		pid := int32(cmd.Process.Pid) //nolint:gosec // G115: pid fits in int32

		_, ok := probe.Cwd(ctx, pid)
		assert.False(t, ok)

		_, ok = probe.Cmdline(ctx, pid)
		assert.False(t, ok)
	})
}

func TestFind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("builds_handle", func(t *testing.T) {
		t.Parallel()

		table := &mocks.MockProcessTable{}
		table.On("FindPID", mock.Anything, SteamPattern).Return(int32(77), true)
		table.On("Cwd", mock.Anything, int32(77)).Return("/pfx/drive_c/Program Files/Steam", true)
		table.On("Cmdline", mock.Anything, int32(77)).
			Return([]string{`C:\Program Files\Steam\Steam.exe`, "-silent"}, true)

		h, ok := Find(ctx, table, SteamPattern)

		require.True(t, ok)
		assert.Equal(t, int32(77), h.PID)
		assert.Equal(t, "/pfx/drive_c/Program Files/Steam", h.Cwd)
		assert.Equal(t, `C:\Program Files\Steam\Steam.exe -silent`, h.Cmdline)
		assert.Len(t, h.Args, 2)
		table.AssertExpectations(t)
	})

	t.Run("not_running", func(t *testing.T) {
		t.Parallel()

		table := &mocks.MockProcessTable{}
		table.On("FindPID", mock.Anything, SteamPattern).Return(int32(0), false)

		_, ok := Find(ctx, table, SteamPattern)

		assert.False(t, ok)
		table.AssertNotCalled(t, "Cwd", mock.Anything, mock.Anything)
	})

	t.Run("exits_between_probe_and_read", func(t *testing.T) {
		t.Parallel()

		table := &mocks.MockProcessTable{}
		table.On("FindPID", mock.Anything, SteamPattern).Return(int32(77), true)
		table.On("Cwd", mock.Anything, int32(77)).Return("", false)

		_, ok := Find(ctx, table, SteamPattern)

		assert.False(t, ok)
		table.AssertNotCalled(t, "Cmdline", mock.Anything, mock.Anything)
	})
}
