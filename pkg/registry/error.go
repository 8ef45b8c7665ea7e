// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package registry

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownHandle  = errors.New("unknown watch handle.")
	ErrRelativePath   = errors.New("watch root must be an absolute path.")
	ErrUnresolvedPath = errors.New("path is outside of all watch roots.")
)

type UnresolvedPathError struct {
	Path string
}

func (e *UnresolvedPathError) Error() string {
	return fmt.Sprintf("path %q is outside of all watch roots.", e.Path)
}

func (e *UnresolvedPathError) Is(target error) bool {
	return target == ErrUnresolvedPath
}
