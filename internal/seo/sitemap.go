// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequencies used by the builder.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a published item linked from the sitemap. Path is relative to
// the site URL, e.g. "blog/my-post".
type Entry struct {
	Path      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the public site.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddProjects adds project detail pages under /projects/.
func (b *SitemapBuilder) AddProjects(entries []Entry) {
	b.add(entries, ChangeFreqMonthly, "0.8")
}

// AddPosts adds blog posts under /blog/.
func (b *SitemapBuilder) AddPosts(entries []Entry) {
	b.add(entries, ChangeFreqWeekly, "0.7")
}

func (b *SitemapBuilder) add(entries []Entry, freq ChangeFreq, priority string) {
	for _, e := range entries {
		u := SitemapURL{
			Loc:        b.siteURL + "/" + strings.TrimPrefix(e.Path, "/"),
			ChangeFreq: freq,
			Priority:   priority,
		}
		if !e.UpdatedAt.IsZero() {
			u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
