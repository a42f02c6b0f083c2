// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// SettingsID is the id of the single site settings row.
const SettingsID = "main"

// Section is a free-form settings section.
type Section map[string]any

// Settings section names.
const (
	SectionGeneral = "general"
	SectionContact = "contact"
	SectionTheme   = "theme"
	SectionLayout  = "layout"
	SectionSEO     = "seo"
)

// SettingsSections lists the section names in storage order.
var SettingsSections = []string{SectionGeneral, SectionContact, SectionTheme, SectionLayout, SectionSEO}

// IsSettingsSection reports whether name is a known settings section.
func IsSettingsSection(name string) bool {
	for _, s := range SettingsSections {
		if s == name {
			return true
		}
	}
	return false
}

// SiteSettings is the singleton site configuration document.
type SiteSettings struct {
	ID        string    `json:"id"`
	General   Section   `json:"general"`
	Contact   Section   `json:"contact"`
	Theme     Section   `json:"theme"`
	Layout    Section   `json:"layout"`
	SEO       Section   `json:"seo"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Section returns the named section, or nil for an unknown name.
func (s *SiteSettings) Section(name string) Section {
	switch name {
	case SectionGeneral:
		return s.General
	case SectionContact:
		return s.Contact
	case SectionTheme:
		return s.Theme
	case SectionLayout:
		return s.Layout
	case SectionSEO:
		return s.SEO
	default:
		return nil
	}
}

// SetSection replaces the named section. Unknown names are ignored.
func (s *SiteSettings) SetSection(name string, value Section) {
	switch name {
	case SectionGeneral:
		s.General = value
	case SectionContact:
		s.Contact = value
	case SectionTheme:
		s.Theme = value
	case SectionLayout:
		s.Layout = value
	case SectionSEO:
		s.SEO = value
	}
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		ID: SettingsID,
		General: Section{
			"siteName":    "My Portfolio",
			"tagline":     "Developer & Designer",
			"description": "Personal portfolio website",
			"language":    "en",
		},
		Contact: Section{
			"email":    "",
			"phone":    "",
			"location": "",
			"social":   map[string]any{},
		},
		Theme: Section{
			"primaryColor":   "#3b82f6",
			"secondaryColor": "#8b5cf6",
			"mode":           "dark",
			"fontFamily":     "Inter",
		},
		Layout: Section{
			"sections": []any{
				map[string]any{"id": "hero", "visible": true, "order": 0},
				map[string]any{"id": "about", "visible": true, "order": 1},
				map[string]any{"id": "projects", "visible": true, "order": 2},
				map[string]any{"id": "blog", "visible": true, "order": 3},
				map[string]any{"id": "testimonials", "visible": true, "order": 4},
				map[string]any{"id": "contact", "visible": true, "order": 5},
			},
		},
		SEO: Section{
			"metaTitle":       "My Portfolio",
			"metaDescription": "Projects, articles and testimonials",
			"keywords":        []any{"portfolio", "developer"},
		},
	}
}
