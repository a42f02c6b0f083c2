// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/folio/internal/middleware"
	"github.com/olegiv/folio/internal/model"
	"github.com/olegiv/folio/internal/upload"
)

// Register mounts the API under /api together with the uploads file
// server, sitemap.xml and robots.txt.
func (h *Handler) Register(r chi.Router) {
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	if h.uploads != nil {
		r.Handle(upload.URLPrefix+"*", h.uploadsFileServer())
	}

	authn := middleware.Authenticate(h.svc.Auth)
	editor := middleware.RequireEditor()
	admin := middleware.RequireAdmin()

	r.Route("/api", func(r chi.Router) {
		if h.limiter != nil {
			r.Use(h.limiter.Middleware())
		}
		r.Get("/", h.Index)

		r.Route("/auth", func(r chi.Router) {
			login := r
			if h.login != nil {
				login = r.With(h.login.Middleware())
			}
			login.With(middleware.ValidateBody[model.LoginInput](h.validate)).Post("/login", h.Login)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/me", h.Me)
				r.With(middleware.ValidateBody[model.PasswordChangeInput](h.validate)).Put("/password", h.ChangePassword)
				r.Post("/logout", h.Logout)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/featured", h.FeaturedProjects)
			r.Get("/published", h.PublishedProjects)
			r.Get("/published/{id}", h.GetPublishedProject)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/", h.ListProjects)
				r.Get("/stats", h.ProjectStats)
				r.Get("/{id}", h.GetProject)

				r.Group(func(r chi.Router) {
					r.Use(editor)
					r.With(middleware.ValidateBody[model.ProjectInput](h.validate)).Post("/", h.CreateProject)
					r.With(middleware.ValidateBody[model.ProjectPatch](h.validate)).Put("/{id}", h.UpdateProject)
					r.Delete("/{id}", h.DeleteProject)
				})
			})
		})

		r.Route("/blog", func(r chi.Router) {
			r.Get("/featured", h.FeaturedPosts)
			r.Get("/published", h.PublishedPosts)
			r.Get("/published/{id}", h.GetPublishedPost)
			r.Get("/slug/{slug}", h.GetPostBySlug)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/", h.ListPosts)
				r.Get("/stats", h.PostStats)
				r.Get("/{id}", h.GetPost)

				r.Group(func(r chi.Router) {
					r.Use(editor)
					r.Get("/{id}/seo", h.PostSEO)
					r.With(middleware.ValidateBody[model.BlogPostInput](h.validate)).Post("/", h.CreatePost)
					r.With(middleware.ValidateBody[model.BlogPostPatch](h.validate)).Put("/{id}", h.UpdatePost)
					r.Delete("/{id}", h.DeletePost)
				})
			})
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/featured", h.FeaturedTestimonials)
			r.Get("/approved", h.ApprovedTestimonials)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/", h.ListTestimonials)
				r.Get("/stats", h.TestimonialStats)
				r.Get("/{id}", h.GetTestimonial)

				r.Group(func(r chi.Router) {
					r.Use(editor)
					r.With(middleware.ValidateBody[model.TestimonialInput](h.validate)).Post("/", h.CreateTestimonial)
					r.With(middleware.ValidateBody[model.TestimonialPatch](h.validate)).Put("/{id}", h.UpdateTestimonial)
					r.Patch("/{id}/approve", h.ApproveTestimonial)
					r.Delete("/{id}", h.DeleteTestimonial)
				})
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)

			r.Group(func(r chi.Router) {
				r.Use(authn, editor)
				r.With(middleware.ValidateBody[model.SettingsInput](h.validate)).Put("/", h.UpdateSettings)
				r.With(middleware.ValidateBody[model.Section](h.validate)).Put("/{section}", h.UpdateSettingsSection)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn, admin)
			r.Get("/", h.ListUsers)
			r.With(middleware.ValidateBody[model.UserInput](h.validate)).Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.With(middleware.ValidateBody[model.UserPatch](h.validate)).Put("/{id}", h.UpdateUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		if h.uploads != nil {
			r.Route("/upload", func(r chi.Router) {
				r.Use(authn, editor)
				r.Post("/image", h.Upload(upload.KindImage))
				r.Post("/document", h.Upload(upload.KindDocument))
				r.Post("/file", h.Upload(upload.KindFile))
				r.Delete("/{filename}", h.DeleteUpload)
			})
		}
	})
}
