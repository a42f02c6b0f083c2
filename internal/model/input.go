// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// ProjectInput is the request body for creating a project.
type ProjectInput struct {
	Title           string         `json:"title" validate:"required,notblank,max=200"`
	Description     string         `json:"description" validate:"required,notblank,max=1000"`
	LongDescription string         `json:"longDescription"`
	Technologies    []string       `json:"technologies" validate:"required,min=1,dive,notblank"`
	Image           string         `json:"image" validate:"required,notblank"`
	Gallery         []string       `json:"gallery"`
	GithubURL       string         `json:"githubUrl" validate:"omitempty,url"`
	LiveURL         string         `json:"liveUrl" validate:"omitempty,url"`
	Status          Status         `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured        bool           `json:"featured"`
	Collaborators   []Collaborator `json:"collaborators" validate:"omitempty,dive"`
	Metrics         Metrics        `json:"metrics"`
}

// Project converts the input into a draft entity.
func (in ProjectInput) Project() Project {
	return Project{
		Title:           in.Title,
		Description:     in.Description,
		LongDescription: in.LongDescription,
		Technologies:    in.Technologies,
		Image:           in.Image,
		Gallery:         in.Gallery,
		GithubURL:       in.GithubURL,
		LiveURL:         in.LiveURL,
		Status:          in.Status,
		Featured:        in.Featured,
		Collaborators:   in.Collaborators,
		Metrics:         in.Metrics,
	}
}

// SEOInput is the SEO block of a new blog post.
type SEOInput struct {
	MetaTitle       string   `json:"metaTitle" validate:"required,notblank,max=200"`
	MetaDescription string   `json:"metaDescription" validate:"required,notblank,max=500"`
	Keywords        []string `json:"keywords"`
}

// BlogPostInput is the request body for creating a blog post.
type BlogPostInput struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Slug        string     `json:"slug" validate:"omitempty,max=100"`
	Excerpt     string     `json:"excerpt" validate:"required,notblank,max=500"`
	Content     string     `json:"content" validate:"required,notblank"`
	Author      string     `json:"author" validate:"required,notblank"`
	PublishedAt *time.Time `json:"publishedAt"`
	Status      Status     `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured    bool       `json:"featured"`
	Tags        []string   `json:"tags"`
	ReadTime    int        `json:"readTime" validate:"omitempty,gte=1"`
	Image       string     `json:"image"`
	SEO         SEOInput   `json:"seo" validate:"required"`
}

// BlogPost converts the input into a draft entity.
func (in BlogPostInput) BlogPost() BlogPost {
	return BlogPost{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     in.Excerpt,
		Content:     in.Content,
		Author:      in.Author,
		PublishedAt: in.PublishedAt,
		Status:      in.Status,
		Featured:    in.Featured,
		Tags:        in.Tags,
		ReadTime:    in.ReadTime,
		Image:       in.Image,
		SEO: SEO{
			MetaTitle:       in.SEO.MetaTitle,
			MetaDescription: in.SEO.MetaDescription,
			Keywords:        in.SEO.Keywords,
		},
	}
}

// TestimonialInput is the request body for creating a testimonial.
type TestimonialInput struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Role     string `json:"role" validate:"required,notblank,max=100"`
	Company  string `json:"company" validate:"required,notblank,max=100"`
	Content  string `json:"content" validate:"required,notblank,max=2000"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Avatar   string `json:"avatar"`
	Featured bool   `json:"featured"`
	Approved bool   `json:"approved"`
}

// Testimonial converts the input into a draft entity.
func (in TestimonialInput) Testimonial() Testimonial {
	return Testimonial{
		Name:     in.Name,
		Role:     in.Role,
		Company:  in.Company,
		Content:  in.Content,
		Rating:   in.Rating,
		Avatar:   in.Avatar,
		Featured: in.Featured,
		Approved: in.Approved,
	}
}

// UserInput is the request body for creating a user.
type UserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin editor viewer"`
	IsActive *bool  `json:"isActive"`
}

// LoginInput is the request body of the login endpoint.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PasswordChangeInput is the request body for changing one's own password.
type PasswordChangeInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// SettingsInput replaces whole settings sections. Absent sections are kept.
type SettingsInput struct {
	General Opt[Section] `json:"general"`
	Contact Opt[Section] `json:"contact"`
	Theme   Opt[Section] `json:"theme"`
	Layout  Opt[Section] `json:"layout"`
	SEO     Opt[Section] `json:"seo"`
}

// Sections returns the provided sections keyed by name.
func (in SettingsInput) Sections() map[string]Section {
	out := make(map[string]Section)
	for name, opt := range map[string]Opt[Section]{
		SectionGeneral: in.General,
		SectionContact: in.Contact,
		SectionTheme:   in.Theme,
		SectionLayout:  in.Layout,
		SectionSEO:     in.SEO,
	} {
		if v, ok := opt.Get(); ok {
			out[name] = v
		}
	}
	return out
}
