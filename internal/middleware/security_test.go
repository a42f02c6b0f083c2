// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		path     string
		wantHSTS string
		wantCORP string
	}{
		{"production api", false, "/api/projects", "max-age=31536000; includeSubDomains", "same-origin"},
		{"development api", true, "/api/projects", "", "same-origin"},
		{"uploads are embeddable", false, "/uploads/1-abc.png", "max-age=31536000; includeSubDomains", "cross-origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler())
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			hdr := rr.Header()
			if got := hdr.Get("Strict-Transport-Security"); got != tt.wantHSTS {
				t.Errorf("HSTS = %q, want %q", got, tt.wantHSTS)
			}
			if got := hdr.Get("Cross-Origin-Resource-Policy"); got != tt.wantCORP {
				t.Errorf("CORP = %q, want %q", got, tt.wantCORP)
			}
			if got := hdr.Get("Content-Security-Policy"); got != "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'" {
				t.Errorf("CSP = %q", got)
			}
			if hdr.Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q", hdr.Get("X-Frame-Options"))
			}
			if hdr.Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff")
			}
			if !strings.Contains(hdr.Get("Permissions-Policy"), "camera=()") {
				t.Errorf("Permissions-Policy = %q", hdr.Get("Permissions-Policy"))
			}
		})
	}
}

func TestBuildCSP_Order(t *testing.T) {
	got := buildCSP(map[string]string{
		"img-src":     "'self'",
		"default-src": "'none'",
		"connect-src": "'self'",
	})
	want := "default-src 'none'; connect-src 'self'; img-src 'self'"
	if got != want {
		t.Errorf("buildCSP = %q, want %q", got, want)
	}
}
