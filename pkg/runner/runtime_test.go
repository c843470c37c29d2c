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

package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/ZaparooProject/winesteam/pkg/helpers/command"
	"github.com/ZaparooProject/winesteam/pkg/launchplan"
	"github.com/ZaparooProject/winesteam/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWineServerPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wine string
		want string
	}{
		{wine: "wine", want: "wineserver"},
		{wine: "wine64", want: "wineserver"},
		{wine: "/usr/bin/wine", want: "/usr/bin/wineserver"},
		{wine: "/opt/proton/files/bin/wine64", want: "/opt/proton/files/bin/wineserver"},
	}

	for _, tt := range tests {
		t.Run(tt.wine, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, WineServerPath(tt.wine))
		})
	}
}

func TestWineServerRuntime_Stop(t *testing.T) {
	t.Parallel()

	exec := &mocks.MockCommandExecutor{}
	exec.On("RunWithOptions",
		context.Background(),
		command.StartOptions{Env: launchplan.Env("/pfx")},
		"wineserver",
		[]string{"-k"},
	).Return(nil).Once()

	rt := NewWineServerRuntime(exec, "wine", "/pfx")
	require.NoError(t, rt.Stop(context.Background()))
	exec.AssertExpectations(t)
}

func TestWineServerRuntime_StopError(t *testing.T) {
	t.Parallel()

	exec := &mocks.MockCommandExecutor{}
	exec.On("RunWithOptions", context.Background(), command.StartOptions{Env: launchplan.Env("")}, "wineserver", []string{"-k"}).
		Return(errors.New("exit status 1")).Once()

	err := NewWineServerRuntime(exec, "wine", "").Stop(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wineserver -k failed")
}
