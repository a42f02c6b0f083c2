// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Testimonial is a quote from a client or colleague. Only approved
// testimonials are shown on the public site.
type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	Avatar    string    `json:"avatar,omitempty"`
	Featured  bool      `json:"featured"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TestimonialPatch is a partial update of a testimonial.
type TestimonialPatch struct {
	Name     Opt[string] `json:"name" db:"name" validate:"omitnil,notblank,max=100"`
	Role     Opt[string] `json:"role" db:"role" validate:"omitnil,notblank,max=100"`
	Company  Opt[string] `json:"company" db:"company" validate:"omitnil,notblank,max=100"`
	Content  Opt[string] `json:"content" db:"content" validate:"omitnil,notblank,max=2000"`
	Rating   Opt[int]    `json:"rating" db:"rating" validate:"omitempty,gte=1,lte=5"`
	Avatar   Opt[string] `json:"avatar" db:"avatar,null"`
	Featured Opt[bool]   `json:"featured" db:"featured"`
	Approved Opt[bool]   `json:"approved" db:"approved"`
}
