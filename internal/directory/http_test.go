package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/ybolat/filevault/internal/auth"
)

func newTestRouter(service *Service, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetCurrentUser(c, auth.ContextUser{ID: userID.String(), Email: "user@example.com"})
	})
	RegisterRoutes(r.Group("/v1"), service)
	return r
}

func postDirectory(t *testing.T, router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/directories", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestDirectoryLifecycleScenario(t *testing.T) {
	service := NewService(newFakeRepo())
	router := newTestRouter(service, uuid.New())

	// Create a root directory.
	rr := postDirectory(t, router, map[string]any{"name": "Root"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var root Directory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))
	require.Equal(t, "Root", root.Name)
	require.Nil(t, root.ParentID)

	// The same root-level name is rejected.
	rr = postDirectory(t, router, map[string]any{"name": "Root"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Directory already exists")

	// A child under the root succeeds.
	rr = postDirectory(t, router, map[string]any{"name": "Sub", "parent_id": root.ID.String()})
	require.Equal(t, http.StatusCreated, rr.Code)

	// The root's path contains exactly itself.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/directories/%s/path", root.ID), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var pathResp struct {
		Path []PathEntry `json:"path"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pathResp))
	require.Equal(t, []PathEntry{{ID: root.ID, Name: "Root"}}, pathResp.Path)
}

func TestCreateDirectoryMissingParentReturnsBadRequest(t *testing.T) {
	service := NewService(newFakeRepo())
	router := newTestRouter(service, uuid.New())

	rr := postDirectory(t, router, map[string]any{"name": "Orphan", "parent_id": uuid.NewString()})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Parent directory does not exist")
}

func TestCreateDirectoryRequiresName(t *testing.T) {
	service := NewService(newFakeRepo())
	router := newTestRouter(service, uuid.New())

	rr := postDirectory(t, router, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Name is required")
}

func TestGetDirectoryNotFound(t *testing.T) {
	service := NewService(newFakeRepo())
	router := newTestRouter(service, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/v1/directories/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Contains(t, rr.Body.String(), "Directory not found")
}

func TestListDirectoriesByParentQuery(t *testing.T) {
	repo := newFakeRepo()
	service := NewService(repo)
	ownerID := uuid.New()
	router := newTestRouter(service, ownerID)

	rr := postDirectory(t, router, map[string]any{"name": "Root"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var root Directory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &root))

	rr = postDirectory(t, router, map[string]any{"name": "Sub", "parent_id": root.ID.String()})
	require.Equal(t, http.StatusCreated, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/directories?parentId="+root.ID.String(), nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var listResp struct {
		Directories []Directory `json:"directories"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Len(t, listResp.Directories, 1)
	require.Equal(t, "Sub", listResp.Directories[0].Name)
}

func TestDirectoryRoutesRejectUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewService(newFakeRepo()))

	req := httptest.NewRequest(http.MethodGet, "/v1/directories", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
