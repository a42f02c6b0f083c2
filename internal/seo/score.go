// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo provides search engine helpers for published content: the
// blog post SEO score, the sitemap and robots.txt.
package seo

import (
	"strings"
	"unicode/utf8"
)

// Recommended lengths of meta fields, in characters.
const (
	MetaTitleMin       = 30
	MetaTitleMax       = 60
	MetaDescriptionMin = 120
	MetaDescriptionMax = 160
	MinContentWords    = 300
)

// Input is the content a score is computed from.
type Input struct {
	MetaTitle       string
	MetaDescription string
	Keywords        []string
	Excerpt         string
	Image           string
	Content         string
}

// Check is one scored rule.
type Check struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Weight  int    `json:"weight"`
	Message string `json:"message"`
}

// Report is the result of Analyze. Score is the sum of the weights of the
// passed checks, 0 to 100.
type Report struct {
	Score  int     `json:"score"`
	Checks []Check `json:"checks"`
}

// Analyze scores in against the on-page rules.
func Analyze(in Input) Report {
	titleLen := utf8.RuneCountInString(strings.TrimSpace(in.MetaTitle))
	descLen := utf8.RuneCountInString(strings.TrimSpace(in.MetaDescription))
	words := WordCount(in.Content)

	checks := []Check{
		{
			Name:    "metaTitle",
			Passed:  titleLen > 0,
			Weight:  20,
			Message: "Meta title is set",
		},
		{
			Name:    "metaTitleLength",
			Passed:  titleLen >= MetaTitleMin && titleLen <= MetaTitleMax,
			Weight:  10,
			Message: "Meta title is 30 to 60 characters long",
		},
		{
			Name:    "metaDescription",
			Passed:  descLen > 0,
			Weight:  20,
			Message: "Meta description is set",
		},
		{
			Name:    "metaDescriptionLength",
			Passed:  descLen >= MetaDescriptionMin && descLen <= MetaDescriptionMax,
			Weight:  10,
			Message: "Meta description is 120 to 160 characters long",
		},
		{
			Name:    "keywords",
			Passed:  hasKeyword(in.Keywords),
			Weight:  10,
			Message: "At least one keyword is set",
		},
		{
			Name:    "excerpt",
			Passed:  strings.TrimSpace(in.Excerpt) != "",
			Weight:  10,
			Message: "Excerpt is set",
		},
		{
			Name:    "image",
			Passed:  strings.TrimSpace(in.Image) != "",
			Weight:  10,
			Message: "Cover image is set",
		},
		{
			Name:    "contentLength",
			Passed:  words >= MinContentWords,
			Weight:  10,
			Message: "Content has at least 300 words",
		},
	}

	score := 0
	for _, c := range checks {
		if c.Passed {
			score += c.Weight
		}
	}
	return Report{Score: score, Checks: checks}
}

// WordCount returns the number of whitespace separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if strings.TrimSpace(k) != "" {
			return true
		}
	}
	return false
}
