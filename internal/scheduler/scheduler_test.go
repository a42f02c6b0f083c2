// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMaintainer struct {
	calls int
	err   error
}

func (f *fakeMaintainer) Maintain(context.Context) error {
	f.calls++
	return f.err
}

func TestNew(t *testing.T) {
	s := New(testLogger())
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if len(s.List()) != 0 {
		t.Error("New() scheduler should have no jobs")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.Add(MaintenanceJob(&fakeMaintainer{})); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	jobs := s.List()
	if len(jobs) != 1 || jobs[0].NextRun.IsZero() {
		t.Errorf("started job should have a next run, got %+v", jobs)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_Add(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{"descriptor", Job{Name: "a", Schedule: "@daily", Run: noop}, false},
		{"every", Job{Name: "b", Schedule: "@every 5m", Run: noop}, false},
		{"five fields", Job{Name: "c", Schedule: "*/15 * * * *", Run: noop}, false},
		{"bad expression", Job{Name: "d", Schedule: "not a schedule", Run: noop}, true},
		{"six fields", Job{Name: "e", Schedule: "0 0 * * * *", Run: noop}, true},
		{"no name", Job{Schedule: "@daily", Run: noop}, true},
		{"no func", Job{Name: "f", Schedule: "@daily"}, true},
	}

	s := New(testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Add(tt.job)
			if (err != nil) != tt.wantErr {
				t.Errorf("Add() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	err := s.Add(Job{Name: "a", Schedule: "@hourly", Run: noop})
	if !errors.Is(err, ErrDuplicateJob) {
		t.Errorf("duplicate Add() error = %v, want ErrDuplicateJob", err)
	}

	jobs := s.List()
	if len(jobs) != 3 {
		t.Fatalf("List() = %d jobs, want 3", len(jobs))
	}
	if jobs[0].Name != "a" || jobs[2].Name != "c" {
		t.Errorf("List() not sorted by name: %+v", jobs)
	}
}

func TestScheduler_TriggerNow(t *testing.T) {
	s := New(testLogger())
	m := &fakeMaintainer{}
	if err := s.Add(MaintenanceJob(m)); err != nil {
		t.Fatal(err)
	}

	if err := s.TriggerNow("store-maintenance"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if m.calls != 1 {
		t.Errorf("Maintain called %d times, want 1", m.calls)
	}

	m.err = errors.New("disk full")
	if err := s.TriggerNow("store-maintenance"); err == nil {
		t.Error("TriggerNow() should return the job error")
	}

	info := s.List()[0]
	if info.Runs != 2 {
		t.Errorf("Runs = %d, want 2", info.Runs)
	}
	if info.LastError != "disk full" {
		t.Errorf("LastError = %q, want %q", info.LastError, "disk full")
	}
	if info.LastRun.IsZero() {
		t.Error("LastRun should be set")
	}

	if err := s.TriggerNow("missing"); err == nil {
		t.Error("TriggerNow() of unknown job should fail")
	}
}

func TestSweepJob(t *testing.T) {
	var got []time.Duration
	sweep := func(d time.Duration) { got = append(got, d) }

	job := SweepJob(sweep, sweep)
	if job.Schedule != SweepSchedule {
		t.Errorf("Schedule = %q, want %q", job.Schedule, SweepSchedule)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 2 || got[0] != SweepIdle {
		t.Errorf("sweeps called with %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got = nil
	if err := job.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() on cancelled ctx error = %v", err)
	}
	if len(got) != 0 {
		t.Error("no sweep should run after cancellation")
	}
}
