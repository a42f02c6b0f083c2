// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"
)

// Schedules of the built-in jobs.
const (
	MaintenanceSchedule = "@hourly"
	SweepSchedule       = "@every 10m"
)

// SweepIdle is how long a client must be idle before its rate limiter
// state is dropped.
const SweepIdle = 30 * time.Minute

// Maintainer is storage that can optimize itself.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// MaintenanceJob returns the hourly database maintenance job.
func MaintenanceJob(m Maintainer) Job {
	return Job{
		Name:        "store-maintenance",
		Description: "Optimize the database and checkpoint the write-ahead log",
		Schedule:    MaintenanceSchedule,
		Run:         m.Maintain,
	}
}

// SweepJob returns a job calling every sweep with SweepIdle. It is used to
// trim the in-memory rate limiter tables.
func SweepJob(sweeps ...func(maxIdle time.Duration)) Job {
	return Job{
		Name:        "limiter-sweep",
		Description: "Forget idle clients of the rate limiters",
		Schedule:    SweepSchedule,
		Run: func(ctx context.Context) error {
			for _, sweep := range sweeps {
				if err := ctx.Err(); err != nil {
					return err
				}
				sweep(SweepIdle)
			}
			return nil
		},
	}
}
