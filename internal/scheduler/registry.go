// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// registeredJob holds a job and its run history.
type registeredJob struct {
	job     Job
	entryID cron.EntryID

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
	runs    int
}

func (rj *registeredJob) record(at time.Time, err error) {
	rj.mu.Lock()
	defer rj.mu.Unlock()
	rj.lastRun = at
	rj.lastErr = err
	rj.runs++
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	Runs        int
	LastRun     time.Time
	LastError   string
	NextRun     time.Time // zero until the scheduler is started
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, rj := range s.jobs {
		rj.mu.Lock()
		info := JobInfo{
			Name:        rj.job.Name,
			Description: rj.job.Description,
			Schedule:    rj.job.Schedule,
			Runs:        rj.runs,
			LastRun:     rj.lastRun,
		}
		if rj.lastErr != nil {
			info.LastError = rj.lastErr.Error()
		}
		rj.mu.Unlock()

		info.NextRun = s.cron.Entry(rj.entryID).Next
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// TriggerNow runs the named job immediately on the calling goroutine.
func (s *Scheduler) TriggerNow(name string) error {
	s.mu.RLock()
	rj, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.logger.Info("manually triggering job", "name", name)
	return s.run(rj)
}
