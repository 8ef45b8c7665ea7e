// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	. "github.com/black-desk/lib/go/errwrap"
)

const maxUserWatchesPath = "/proc/sys/fs/inotify/max_user_watches"

// checkWatchLimit fails if the inotify watch limit
// cannot hold one watch per directory.
func checkWatchLimit(dirs int) (err error) {
	defer Wrap(&err, "check inotify watch limit")

	var content []byte
	content, err = os.ReadFile(maxUserWatchesPath)
	if err != nil {
		return
	}

	var limit int
	limit, err = strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		err = fmt.Errorf(
			"Unexpected format of %s (content: %s).",
			maxUserWatchesPath, content,
		)
		return
	}

	if dirs > limit {
		err = fmt.Errorf(
			"%d directories to watch but %s is %d.",
			dirs, maxUserWatchesPath, limit,
		)
		return
	}

	return
}
