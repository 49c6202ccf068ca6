package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type projectHandler struct {
	entityHandler[models.Project, services.ProjectInput]
	projects       *services.ProjectService
	projectTagRepo *database.ProjectTagRepo
}

func newProjectHandler(projects *services.ProjectService, projectTagRepo *database.ProjectTagRepo) projectHandler {
	return projectHandler{
		entityHandler:  newEntityHandler[models.Project, services.ProjectInput]("projectHandler", "Project", "projectID", projects),
		projects:       projects,
		projectTagRepo: projectTagRepo,
	}
}

// getPublicProject returns one live project
// @Summary Get a project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse
// @Router /projects/{projectID} [get]
func (h projectHandler) getPublicProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, h.idParam)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projects.GetPublic(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, project)
	}
}

// getProjectTags lists the distinct tags used by live projects
// @Summary List project tags
// @Tags Projects
// @Produce json
// @Success 200 {object} Collection[string]
// @Router /projects/tags [get]
func (h projectHandler) getProjectTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.projectTagRepo.Values(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newCollection(tags))
	}
}

type skillHandler struct {
	entityHandler[models.Skill, services.SkillInput]
}

func newSkillHandler(skills *services.SkillService) skillHandler {
	return skillHandler{newEntityHandler[models.Skill, services.SkillInput]("skillHandler", "Skill", "skillID", skills)}
}

type experienceHandler struct {
	entityHandler[models.Experience, services.ExperienceInput]
}

func newExperienceHandler(experience *services.ExperienceService) experienceHandler {
	return experienceHandler{newEntityHandler[models.Experience, services.ExperienceInput]("experienceHandler", "Experience", "experienceID", experience)}
}
