// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/spf13/cobra"
)

// checkRootsCmd represents the roots command
var checkRootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Check watch roots",
	Long:  `Check every configured root is an existing directory the watch backend can cover.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err == nil {
				return
			}

			err = fmt.Errorf("\n\n%w\n"+CheckDocumentString, err)

			return
		}()

		err = checkRootsCmdRun()
		return
	},
}

func checkRootsCmdRun() (err error) {
	defer Wrap(&err, "Failed to check watch roots.")

	cfg, err := readCheckedConfig()
	if err != nil {
		return
	}

	log := checkLogger()

	dirs := 0
	for i := range cfg.Roots {
		root := &cfg.Roots[i]

		var info os.FileInfo
		info, err = os.Stat(root.Path)
		if err != nil {
			return
		}

		if !info.IsDir() {
			err = &ErrRootNotDirectory{Path: root.Path, Mode: info.Mode()}
			return
		}

		if !root.IsRecursive() {
			dirs++
			continue
		}

		err = filepath.WalkDir(root.Path,
			func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					log.Warnw("Failed to walk into directory.",
						"path", path,
						"error", err,
					)
					return nil
				}

				if d.IsDir() {
					dirs++
				}
				return nil
			})
		if err != nil {
			return
		}
	}

	log.Infow("Watch roots checked.",
		"roots", len(cfg.Roots),
		"directories", dirs,
	)

	err = checkWatchLimit(dirs)
	return
}

func init() {
	checkCmd.AddCommand(checkRootsCmd)
}
