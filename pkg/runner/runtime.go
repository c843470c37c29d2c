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
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/winesteam/pkg/helpers/command"
	"github.com/ZaparooProject/winesteam/pkg/launchplan"
	"github.com/rs/zerolog/log"
)

const wineServerBin = "wineserver"

// WineServerRuntime kills every process in a Wine prefix with wineserver -k.
type WineServerRuntime struct {
	executor   command.Executor
	env        map[string]string
	wineServer string
}

// NewWineServerRuntime uses the wineserver that sits next to winePath, or
// the one on PATH when winePath is a bare name.
func NewWineServerRuntime(executor command.Executor, winePath, prefix string) *WineServerRuntime {
	return &WineServerRuntime{
		executor:   executor,
		env:        launchplan.Env(prefix),
		wineServer: WineServerPath(winePath),
	}
}

// WineServerPath returns the wineserver binary matching winePath.
func WineServerPath(winePath string) string {
	dir := filepath.Dir(winePath)
	if dir == "." || dir == "" {
		return wineServerBin
	}
	return filepath.Join(dir, wineServerBin)
}

func (w *WineServerRuntime) Stop(ctx context.Context) error {
	log.Debug().Str("wineserver", w.wineServer).Msg("killing wine processes")
	err := w.executor.RunWithOptions(ctx, command.StartOptions{Env: w.env}, w.wineServer, "-k")
	if err != nil {
		return fmt.Errorf("wineserver -k failed: %w", err)
	}
	return nil
}
