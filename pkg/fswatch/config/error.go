// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
)

var (
	ErrContentMissing = errors.New("configuration content is missing.")
	ErrInvalidWindow  = errors.New("max window lifetime is shorter than quiescence interval.")
)

type RelativeRootError struct {
	Path string
}

func (e *RelativeRootError) Error() string {
	return fmt.Sprintf("root %q is not an absolute path.", e.Path)
}
