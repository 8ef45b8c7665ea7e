// SPDX-FileCopyrightText: 2025 Chen Linxuan <me@black-desk.cn>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"

	. "github.com/black-desk/lib/go/errwrap"
	"github.com/go-playground/validator/v10"
)

func (c *Config) check() (err error) {
	defer Wrap(&err, "check configuration")

	var validator = validator.New()
	err = validator.Struct(c)
	if err != nil {
		err = fmt.Errorf("validator: %w", err)
		return
	}

	if c.Backend == "" {
		c.Backend = BackendNotify
	}

	if c.QuiescenceIntervalMs == 0 {
		c.QuiescenceIntervalMs = DefaultQuiescenceIntervalMs
	}

	if c.MaxWindowLifetimeMs == 0 {
		c.MaxWindowLifetimeMs = DefaultMaxWindowLifetimeMs
		if c.MaxWindowLifetimeMs < c.QuiescenceIntervalMs {
			c.MaxWindowLifetimeMs = c.QuiescenceIntervalMs
		}
	}

	if c.MaxWindowLifetimeMs < c.QuiescenceIntervalMs {
		err = ErrInvalidWindow
		return
	}

	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = DefaultPollIntervalMs
	}

	if c.SubscriptionQueueCapacity == 0 {
		c.SubscriptionQueueCapacity = DefaultSubscriptionQueueCapacity
	}

	if c.MaxPendingEntries == 0 {
		c.MaxPendingEntries = DefaultMaxPendingEntries
	}

	for i := range c.Roots {
		if !filepath.IsAbs(c.Roots[i].Path) {
			err = &RelativeRootError{Path: c.Roots[i].Path}
			return
		}

		c.Roots[i].Path = filepath.Clean(c.Roots[i].Path)
	}

	if len(c.Roots) == 0 {
		c.log.Warnw("No roots in config.")
	}

	return
}
