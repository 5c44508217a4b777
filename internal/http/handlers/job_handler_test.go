package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/akazakov/workmarket-backend/internal/http/middleware"
	"github.com/akazakov/workmarket-backend/internal/models"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	return r
}

// fakeAuth кладёт тестового пользователя в контекст вместо JWT middleware.
func fakeAuth(c *gin.Context) {
	c.Set(middleware.ContextActorKey, models.Actor{ID: uuid.New(), Role: models.RoleClient})
}

func TestJobHandler_CreateJob_Unauthorized(t *testing.T) {
	r := newTestRouter()
	handler := &JobHandler{jobs: nil}
	r.POST("/jobs", handler.CreateJob)

	req, _ := http.NewRequest("POST", "/jobs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_GetJob_InvalidID(t *testing.T) {
	r := newTestRouter()
	handler := &JobHandler{jobs: nil}
	r.GET("/jobs/:id", handler.GetJob)

	req, _ := http.NewRequest("GET", "/jobs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_AcceptJob_Unauthorized(t *testing.T) {
	r := newTestRouter()
	handler := &JobHandler{jobs: nil}
	r.POST("/jobs/:id/accept", handler.AcceptJob)

	req, _ := http.NewRequest("POST", "/jobs/a2f1e6c0-0000-0000-0000-000000000000/accept", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJobHandler_UUIDValidatorMiddleware(t *testing.T) {
	r := newTestRouter()
	handler := &JobHandler{jobs: nil}
	r.POST("/jobs/:id/complete", middleware.UUIDValidator("id"), handler.CompleteJob)

	req, _ := http.NewRequest("POST", "/jobs/123/complete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
