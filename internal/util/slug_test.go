// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"with special characters", "Hello, World!", "hello-world"},
		{"with numbers", "Post 123", "post-123"},
		{"with accents", "Café résumé", "cafe-resume"},
		{"german umlauts", "Über München", "uber-munchen"},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"with multiple spaces", "Hello   World", "hello-world"},
		{"with hyphens", "Hello - World", "hello-world"},
		{"with underscores", "snake_case_title", "snake-case-title"},
		{"with leading/trailing spaces", "  Hello World  ", "hello-world"},
		{"all special characters", "!@#$%^&*()", ""},
		{"empty string", "", ""},
		{"mixed case", "HeLLo WoRLd", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_MaxLength(t *testing.T) {
	long := strings.Repeat("word ", 60)

	got := Slugify(long)
	if len(got) > MaxSlugLength {
		t.Errorf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("slug %q ends with a hyphen", got)
	}
	if !IsValidSlug(got) {
		t.Errorf("IsValidSlug(%q) = false", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"valid simple slug", "hello-world", true},
		{"valid slug with numbers", "post-123", true},
		{"valid numbers only", "123", true},
		{"invalid - empty", "", false},
		{"invalid - uppercase", "Hello-World", false},
		{"invalid - spaces", "hello world", false},
		{"invalid - special chars", "hello!world", false},
		{"invalid - starts with hyphen", "-hello", false},
		{"invalid - ends with hyphen", "hello-", false},
		{"invalid - consecutive hyphens", "hello--world", false},
		{"invalid - too long", strings.Repeat("a", MaxSlugLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"hello": true, "hello-2": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := UniqueSlug(context.Background(), "hello", exists)
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if got != "hello-3" {
		t.Errorf("UniqueSlug = %q, want hello-3", got)
	}

	got, err = UniqueSlug(context.Background(), "fresh", exists)
	if err != nil {
		t.Fatalf("UniqueSlug: %v", err)
	}
	if got != "fresh" {
		t.Errorf("UniqueSlug = %q, want fresh", got)
	}
}

func TestUniqueSlug_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}
