package api

import (
	"github.com/google/uuid"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler   blogPostHandler
	projectHandler    projectHandler
	skillHandler      skillHandler
	experienceHandler experienceHandler
	lifecycleHandler  lifecycleHandler
	auditHandler      auditHandler
	uploadHandler     uploadHandler
	contactHandler    contactHandler
	feedHandler       feedHandler
	healthHandler     healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// Collection wraps list responses.
type Collection[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newCollection[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Items: items, Total: len(items)}
}

// FeaturedRequest is the body of PUT /admin/blogs/{id}/featured.
type FeaturedRequest struct {
	Featured *bool `json:"featured"`
}

// ReorderRequest lists ids in their new display order.
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}
