// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Status is the publication status of projects and blog posts.
type Status string

// Content statuses.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}

// Collaborator is a person credited on a project.
type Collaborator struct {
	Name   string `json:"name" validate:"required,notblank"`
	Role   string `json:"role" validate:"required,notblank"`
	Avatar string `json:"avatar,omitempty"`
}

// Metrics holds engagement counters of a project.
type Metrics struct {
	Views  int `json:"views"`
	Likes  int `json:"likes"`
	Shares int `json:"shares"`
}

// Project is a portfolio project.
type Project struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	LongDescription string         `json:"longDescription,omitempty"`
	Technologies    []string       `json:"technologies"`
	Image           string         `json:"image"`
	Gallery         []string       `json:"gallery,omitempty"`
	GithubURL       string         `json:"githubUrl,omitempty"`
	LiveURL         string         `json:"liveUrl,omitempty"`
	Status          Status         `json:"status"`
	Featured        bool           `json:"featured"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Collaborators   []Collaborator `json:"collaborators,omitempty"`
	Metrics         Metrics        `json:"metrics"`
}

// ProjectPatch is a partial update of a project.
type ProjectPatch struct {
	Title           Opt[string]         `json:"title" db:"title" validate:"omitnil,notblank,max=200"`
	Description     Opt[string]         `json:"description" db:"description" validate:"omitnil,notblank,max=1000"`
	LongDescription Opt[string]         `json:"longDescription" db:"long_description,null"`
	Technologies    Opt[[]string]       `json:"technologies" db:"technologies,json" validate:"omitnil,min=1,dive,notblank"`
	Image           Opt[string]         `json:"image" db:"image" validate:"omitnil,notblank"`
	Gallery         Opt[[]string]       `json:"gallery" db:"gallery,json"`
	GithubURL       Opt[string]         `json:"githubUrl" db:"github_url,null" validate:"omitempty,url"`
	LiveURL         Opt[string]         `json:"liveUrl" db:"live_url,null" validate:"omitempty,url"`
	Status          Opt[Status]         `json:"status" db:"status" validate:"omitempty,oneof=draft published archived"`
	Featured        Opt[bool]           `json:"featured" db:"featured"`
	Collaborators   Opt[[]Collaborator] `json:"collaborators" db:"collaborators,json" validate:"omitnil,dive"`
	Metrics         Opt[Metrics]        `json:"metrics" db:"metrics,json"`
}
