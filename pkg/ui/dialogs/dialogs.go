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

// Package dialogs provides the user prompts the runner needs when Steam has
// to be located or an install fails.
package dialogs

import (
	"errors"

	"github.com/nixinwang/dialog"
	"github.com/rs/zerolog/log"
)

// ErrorTitle is the window title of error dialogs.
const ErrorTitle = "Steam for Windows"

// Native shows the platform's own file and message dialogs.
type Native struct{}

// PromptDirectory opens a directory chooser.
func (Native) PromptDirectory(title string) (string, bool) {
	dir, err := dialog.Directory().Title(title).Browse()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			log.Warn().Err(err).Msg("failed to open directory dialog")
		}
		return "", false
	}
	return dir, dir != ""
}

// ShowError opens a modal error message.
func (Native) ShowError(msg string) {
	log.Error().Msg(msg)
	dialog.Message("%s", msg).Title(ErrorTitle).Error()
}

// Fixed answers every directory prompt with the same path. An empty Fixed
// behaves like a dismissed prompt.
type Fixed string

func (f Fixed) PromptDirectory(title string) (string, bool) {
	log.Debug().Str("title", title).Str("dir", string(f)).Msg("answering directory prompt")
	return string(f), f != ""
}

// Log reports errors to the log only, for headless use.
type Log struct{}

func (Log) ShowError(msg string) {
	log.Error().Msg(msg)
}
