// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Filter narrows list and count queries. Unset fields impose no constraint.
// Each gateway honours the fields that apply to its table and ignores the
// rest.
//
// Offset only takes effect together with Limit.
type Filter struct {
	Status   Opt[Status]
	Featured Opt[bool]
	Approved Opt[bool]
	Role     Opt[Role]
	IsActive Opt[bool]
	Limit    Opt[int]
	Offset   Opt[int]
}

// Page returns a copy of f limited to the given 1-based page.
func (f Filter) Page(page, limit int) Filter {
	if page < 1 {
		page = 1
	}
	f.Limit = Some(limit)
	f.Offset = Some((page - 1) * limit)
	return f
}

// Stats are aggregate counts of a content table.
type Stats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
	Featured  int `json:"featured"`
}

// TestimonialStats are aggregate counts of the testimonials table.
type TestimonialStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Featured int `json:"featured"`
}
