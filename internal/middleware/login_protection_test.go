// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtection returns a LoginProtection with a controllable clock.
func testLoginProtection(maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	lp.ipLimiters.now = lp.now
	return lp, &now
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m (default)", lp.attemptWindow)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, now := testLoginProtection(3, time.Minute, time.Hour)
	const user = "admin"

	if locked, _ := lp.IsAccountLocked(user); locked {
		t.Fatal("account should not be locked initially")
	}

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(user); locked {
			t.Fatalf("locked after %d attempts", i)
		}
	}
	if got := lp.RemainingAttempts(user); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(user)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt = %v %v, want locked for 1m", locked, d)
	}
	if locked, remaining := lp.IsAccountLocked(user); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked = %v %v", locked, remaining)
	}

	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(user); locked {
		t.Error("lock should expire")
	}

	// The second lockout doubles.
	for i := 0; i < 2; i++ {
		lp.RecordFailedAttempt(user)
	}
	if locked, d := lp.RecordFailedAttempt(user); !locked || d != 2*time.Minute {
		t.Errorf("second lockout = %v %v, want 2m", locked, d)
	}
}

func TestLoginProtectionWindowReset(t *testing.T) {
	lp, now := testLoginProtection(2, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("bob")
	*now = now.Add(11 * time.Minute)
	if locked, _ := lp.RecordFailedAttempt("bob"); locked {
		t.Error("attempts outside the window must not accumulate")
	}
}

func TestLoginProtectionSuccessClears(t *testing.T) {
	lp, _ := testLoginProtection(3, time.Minute, time.Hour)

	lp.RecordFailedAttempt("carol")
	lp.RecordFailedAttempt("carol")
	lp.RecordSuccessfulLogin("carol")

	if got := lp.RemainingAttempts("carol"); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtectionSweep(t *testing.T) {
	lp, now := testLoginProtection(5, time.Minute, 10*time.Minute)

	lp.RecordFailedAttempt("stale")
	lp.ipLimiters.allow("203.0.113.1")
	*now = now.Add(time.Hour)
	lp.RecordFailedAttempt("fresh")

	lp.Sweep(30 * time.Minute)

	if _, ok := lp.failedAttempts["stale"]; ok {
		t.Error("stale attempt record should be swept")
	}
	if _, ok := lp.failedAttempts["fresh"]; !ok {
		t.Error("fresh attempt record should be kept")
	}
	if lp.ipLimiters.len() != 0 {
		t.Error("idle IP limiter should be swept")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	h := lp.Middleware()(okHandler())

	send := func(method string) int {
		req := httptest.NewRequest(method, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := send(http.MethodPost); got != http.StatusOK {
		t.Fatalf("first POST = %d, want 200", got)
	}
	if got := send(http.MethodPost); got != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", got)
	}
	if got := send(http.MethodGet); got != http.StatusOK {
		t.Errorf("GET = %d, only POST is limited", got)
	}
}
