package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// setupPublicRoutes sets up the routes served to site visitors
func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		// Blog Post Handler endpoints
		r.Get("/blogs", handlers.blogPostHandler.getPublishedBlogPosts())
		r.Get("/blogs/featured", handlers.blogPostHandler.getFeaturedBlogPosts())
		r.Get("/blogs/{slug}", handlers.blogPostHandler.getBlogPostBySlug())
		r.Post("/blogs/{blogPostID}/views", handlers.blogPostHandler.recordView())

		r.Get("/rss.xml", handlers.feedHandler.getRSS())
		r.Get("/sitemap.xml", handlers.feedHandler.getSitemap())

		r.Get("/projects", handlers.projectHandler.listPublic())
		r.Get("/projects/tags", handlers.projectHandler.getProjectTags())
		r.Get("/projects/{projectID}", handlers.projectHandler.getPublicProject())
		r.Get("/skills", handlers.skillHandler.listPublic())
		r.Get("/experience", handlers.experienceHandler.listPublic())

		r.Post("/contact", handlers.contactHandler.sendMessage())
	})
}

// setupAdminRoutes sets up the routes that require an admin bearer token
func setupAdminRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.requireAdmin)

		// Blog Post Handler endpoints
		r.Get("/blogs", handlers.blogPostHandler.listBlogPosts())
		r.Post("/blogs", handlers.blogPostHandler.createBlogPost())
		r.Get("/blogs/{blogPostID}", handlers.blogPostHandler.getBlogPost())
		r.Patch("/blogs/{blogPostID}", handlers.blogPostHandler.updateBlogPost())
		r.Delete("/blogs/{blogPostID}", handlers.blogPostHandler.deleteBlogPost())
		r.Put("/blogs/{blogPostID}/featured", handlers.blogPostHandler.setFeatured())

		// Project Handler endpoints
		r.Get("/projects", handlers.projectHandler.list())
		r.Post("/projects", handlers.projectHandler.create())
		r.Get("/projects/{projectID}", handlers.projectHandler.get())
		r.Patch("/projects/{projectID}", handlers.projectHandler.update())
		r.Delete("/projects/{projectID}", handlers.projectHandler.delete())

		r.Get("/skills", handlers.skillHandler.list())
		r.Post("/skills", handlers.skillHandler.create())
		r.Get("/skills/{skillID}", handlers.skillHandler.get())
		r.Patch("/skills/{skillID}", handlers.skillHandler.update())
		r.Delete("/skills/{skillID}", handlers.skillHandler.delete())

		r.Get("/experience", handlers.experienceHandler.list())
		r.Post("/experience", handlers.experienceHandler.create())
		r.Get("/experience/{experienceID}", handlers.experienceHandler.get())
		r.Patch("/experience/{experienceID}", handlers.experienceHandler.update())
		r.Delete("/experience/{experienceID}", handlers.experienceHandler.delete())

		// static "order" segments take precedence over the id routes above
		for _, kind := range models.ManagedKinds {
			r.Put("/"+string(kind)+"/order", handlers.lifecycleHandler.reorder(kind))
		}

		r.Get("/trash", handlers.lifecycleHandler.listTrash())
		r.Post("/trash/{kind}/{id}/restore", handlers.lifecycleHandler.restore())
		r.Delete("/trash/{kind}/{id}", handlers.lifecycleHandler.purge())

		r.Get("/audit-logs", handlers.auditHandler.getAuditLogs())
		r.Post("/uploads", handlers.uploadHandler.uploadImage())
	})
}
