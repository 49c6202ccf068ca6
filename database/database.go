package database

import (
	"github.com/rpupo63/portfolio-cms-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	blogPostRepo   *BlogPostRepo
	projectRepo    *ProjectRepo
	projectTagRepo *ProjectTagRepo
	skillRepo      *EntityRepo[models.Skill]
	experienceRepo *EntityRepo[models.Experience]
	auditLogRepo   *AuditLogRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		blogPostRepo:   NewBlogPostRepo(db),
		projectRepo:    NewProjectRepo(db),
		projectTagRepo: NewProjectTagRepo(db),
		skillRepo:      NewEntityRepo[models.Skill](db, displayOrder),
		experienceRepo: NewEntityRepo[models.Experience](db, "order_index ASC, start_date DESC"),
		auditLogRepo:   NewAuditLogRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) SkillRepo() *EntityRepo[models.Skill] {
	return d.skillRepo
}

func (d Database) ExperienceRepo() *EntityRepo[models.Experience] {
	return d.experienceRepo
}

func (d Database) AuditLogRepo() *AuditLogRepo {
	return d.auditLogRepo
}

// Migrate creates or updates every table.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks the connection, used by the health endpoint.
func (d Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
