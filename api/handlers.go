package api

import (
	"time"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

// Dependencies are the services and repositories the handlers call.
type Dependencies struct {
	Blogs          *services.BlogService
	Views          *services.ViewCounter
	Projects       *services.ProjectService
	Skills         *services.SkillService
	Experience     *services.ExperienceService
	Trash          *services.TrashService
	Feed           *services.FeedService
	Contact        *services.ContactService
	Uploads        *services.ImageUploader
	ProjectTagRepo *database.ProjectTagRepo
	AuditLogRepo   *database.AuditLogRepo
	// Ping checks the database for /health.
	Ping func() error
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		blogPostHandler:   newBlogPostHandler(deps.Blogs, deps.Views),
		projectHandler:    newProjectHandler(deps.Projects, deps.ProjectTagRepo),
		skillHandler:      newSkillHandler(deps.Skills),
		experienceHandler: newExperienceHandler(deps.Experience),
		lifecycleHandler:  newLifecycleHandler(deps.Trash),
		auditHandler:      newAuditHandler(deps.AuditLogRepo),
		uploadHandler:     newUploadHandler(deps.Uploads),
		contactHandler:    newContactHandler(deps.Contact),
		feedHandler:       newFeedHandler(deps.Feed),
		healthHandler:     newHealthHandler(deps.Ping, startupTime),
	}
}
