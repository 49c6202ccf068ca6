package errs_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	dup := errs.NewDuplicateSlugError("hello")
	assert.True(t, errs.IsValidationError(dup))
	assert.True(t, errs.IsDuplicateSlugError(dup))
	assert.Equal(t, http.StatusBadRequest, dup.StatusCode)
	assert.Equal(t, "slug", dup.Field)

	nf := errs.NewNotFound("blog post")
	assert.True(t, errs.IsNotFound(nf))
	assert.Equal(t, "blog post not found", nf.Error())

	assert.True(t, errs.IsUnauthorized(errs.NewMissingTokenError()))
	assert.True(t, errs.IsForbidden(errs.NewNotAdminError("x")))
}

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
		check  func(error) bool
	}{
		{"duplicate", errors.New("ERROR: duplicate key value violates unique constraint"), http.StatusConflict, errs.IsConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: blogs.slug"), http.StatusConflict, errs.IsConflict},
		{"missing row", errors.New("record not found"), http.StatusNotFound, errs.IsNotFound},
		{"generic", errors.New("syntax error"), http.StatusInternalServerError, errs.IsStorageError},
		{"already typed", errs.NewNotFound("skill"), http.StatusNotFound, errs.IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errs.NewDatabaseError("find", "thing", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.True(t, tt.check(err))
		})
	}
}

func TestCauseIsReachable(t *testing.T) {
	cause := errors.New("socket closed")
	err := errs.NewDatabaseError("update", "blog post", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.GetFullError(), "socket closed")
}

func TestAuditLogError(t *testing.T) {
	err := errs.NewAuditLogError("DELETE", errors.New("insert failed"))
	assert.True(t, errs.IsAuditLogError(err))
	assert.Contains(t, err.Error(), "insert failed")
}
