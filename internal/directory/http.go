package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ybolat/filevault/internal/auth"
)

// RegisterRoutes mounts directory endpoints onto the router.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/directories", handler.listDirectories)
	group.POST("/directories", handler.createDirectory)
	group.GET("/directories/:directoryID", handler.getDirectory)
	group.GET("/directories/:directoryID/path", handler.resolvePath)
}

type httpHandler struct {
	service *Service
}

type createDirectoryRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

func (h *httpHandler) createDirectory(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required", "details": err.Error()})
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil {
		parsed, err := uuid.Parse(*req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent id"})
			return
		}
		parentID = &parsed
	}

	dir, err := h.service.Create(c.Request.Context(), userID, req.Name, parentID)
	if err != nil {
		switch err {
		case ErrParentNotFound:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent directory does not exist"})
		case ErrNameExists:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Directory already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create directory"})
		}
		return
	}

	c.JSON(http.StatusCreated, dir)
}

func (h *httpHandler) listDirectories(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var parentID *uuid.UUID
	if raw := c.Query("parentId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent id"})
			return
		}
		parentID = &parsed
	}

	dirs, err := h.service.List(c.Request.Context(), parentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list directories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"directories": dirs})
}

func (h *httpHandler) getDirectory(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("directoryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid directory id"})
		return
	}

	dir, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if err == ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Directory not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch directory"})
		return
	}

	c.JSON(http.StatusOK, dir)
}

func (h *httpHandler) resolvePath(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("directoryID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid directory id"})
		return
	}

	path, err := h.service.ResolvePath(c.Request.Context(), id)
	if err != nil {
		switch {
		case err == ErrNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Directory not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve path"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}
