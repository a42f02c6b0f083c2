// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// SEO holds search engine metadata of a blog post.
type SEO struct {
	MetaTitle       string   `json:"metaTitle" validate:"notblank,max=200"`
	MetaDescription string   `json:"metaDescription" validate:"notblank,max=500"`
	Keywords        []string `json:"keywords"`
}

// BlogPost is an article written in markdown.
type BlogPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Status      Status     `json:"status"`
	Featured    bool       `json:"featured"`
	Tags        []string   `json:"tags"`
	ReadTime    int        `json:"readTime"`
	Image       string     `json:"image,omitempty"`
	SEO         SEO        `json:"seo"`
}

// BlogPostPatch is a partial update of a blog post.
type BlogPostPatch struct {
	Title       Opt[string]     `json:"title" db:"title" validate:"omitnil,notblank,max=200"`
	Slug        Opt[string]     `json:"slug" db:"slug" validate:"omitempty,max=200"`
	Excerpt     Opt[string]     `json:"excerpt" db:"excerpt" validate:"omitnil,notblank,max=500"`
	Content     Opt[string]     `json:"content" db:"content" validate:"omitnil,notblank"`
	Author      Opt[string]     `json:"author" db:"author" validate:"omitnil,notblank"`
	PublishedAt Opt[*time.Time] `json:"publishedAt" db:"published_at"`
	Status      Opt[Status]     `json:"status" db:"status" validate:"omitempty,oneof=draft published archived"`
	Featured    Opt[bool]       `json:"featured" db:"featured"`
	Tags        Opt[[]string]   `json:"tags" db:"tags,json"`
	ReadTime    Opt[int]        `json:"readTime" db:"read_time" validate:"omitempty,gte=1"`
	Image       Opt[string]     `json:"image" db:"image,null"`
	SEO         Opt[SEO]        `json:"seo" db:"seo,json"`
}
