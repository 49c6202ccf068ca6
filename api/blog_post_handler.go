package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	blogs     *services.BlogService
	views     *services.ViewCounter
}

func newBlogPostHandler(blogs *services.BlogService, views *services.ViewCounter) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blogs:     blogs,
		views:     views,
	}
}

// getPublishedBlogPosts lists posts visible to readers
// @Summary List published blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} Collection[models.BlogPost]
// @Failure 500 {object} ErrorResponse
// @Router /blogs [get]
func (h blogPostHandler) getPublishedBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.blogs.ListPublished(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(posts))
	}
}

// getFeaturedBlogPosts lists featured published posts
// @Summary List featured blog posts
// @Tags Blog Posts
// @Produce json
// @Param limit query int false "Maximum number of posts (default 3)"
// @Success 200 {object} Collection[models.BlogPost]
// @Failure 400 {object} ErrorResponse
// @Router /blogs/featured [get]
func (h blogPostHandler) getFeaturedBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				h.responder.WriteError(w, errs.NewValidationError("limit", "limit must be a positive integer"))
				return
			}
			limit = n
		}

		posts, err := h.blogs.ListFeatured(r.Context(), limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(posts))
	}
}

// getBlogPostBySlug returns a published post with its rendered HTML
// @Summary Get a published blog post
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} services.PublishedPost
// @Failure 404 {object} ErrorResponse
// @Router /blogs/{slug} [get]
func (h blogPostHandler) getBlogPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.blogs.GetPublished(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// recordView counts one read of a published post
// @Summary Record a blog post view
// @Tags Blog Posts
// @Param blogPostID path string true "Blog post ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /blogs/{blogPostID}/views [post]
func (h blogPostHandler) recordView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.views.Increment(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listBlogPosts lists posts for the admin dashboard
// @Summary List blog posts (admin)
// @Tags Admin Blog Posts
// @Produce json
// @Param scope query string false "active (default), trashed or all"
// @Success 200 {object} Collection[models.BlogPost]
// @Failure 400 {object} ErrorResponse
// @Router /admin/blogs [get]
func (h blogPostHandler) listBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := scopeParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		posts, err := h.blogs.ListAdmin(r.Context(), scope)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(posts))
	}
}

func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		post, err := h.blogs.Get(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// createBlogPost creates a post
// @Summary Create a blog post
// @Tags Admin Blog Posts
// @Accept json
// @Produce json
// @Param blogPost body services.BlogPostInput true "Post"
// @Success 201 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse
// @Router /admin/blogs [post]
func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.BlogPostInput
		if err := readJSON(w, r, "blog post", &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogs.Create(r.Context(), actor(r.Context()), in)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("blogPostId", post.ID.String()).Str("slug", post.Slug).Msg("blog post created")
		h.responder.WriteCreated(w, post)
	}
}

// updateBlogPost applies a partial update
// @Summary Update a blog post
// @Tags Admin Blog Posts
// @Accept json
// @Produce json
// @Param blogPostID path string true "Blog post ID"
// @Success 200 {object} models.BlogPost
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/blogs/{blogPostID} [patch]
func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var patch services.Patch
		if err := readJSON(w, r, "blog post", &patch); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.blogs.Update(r.Context(), actor(r.Context()), id, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

func (h blogPostHandler) setFeatured() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req FeaturedRequest
		if err := readJSON(w, r, "featured", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if req.Featured == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("featured"))
			return
		}

		post, err := h.blogs.SetFeatured(r.Context(), actor(r.Context()), id, *req.Featured)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, post)
	}
}

// deleteBlogPost moves a post to the trash
// @Summary Delete a blog post
// @Tags Admin Blog Posts
// @Param blogPostID path string true "Blog post ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /admin/blogs/{blogPostID} [delete]
func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "blogPostID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.blogs.SoftDelete(r.Context(), actor(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "Blog post moved to trash")
	}
}

// scopeParam reads ?scope=, defaulting to active records.
func scopeParam(r *http.Request) (models.Scope, error) {
	scope, ok := models.ParseScope(r.URL.Query().Get("scope"))
	if !ok {
		return "", errs.NewValidationError("scope", "scope must be one of active, trashed, all")
	}
	return scope, nil
}
