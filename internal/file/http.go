package file

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ybolat/filevault/internal/auth"
	"github.com/ybolat/filevault/internal/metrics"
)

// RegisterRoutes mounts file operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/files", handler.listFiles)
	group.POST("/files/upload", handler.uploadFile)
	group.GET("/files/:fileID", handler.getFile)
	group.DELETE("/files/:fileID", handler.deleteFile)
	group.GET("/files/:fileID/download", handler.downloadFile)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	var directoryID *uuid.UUID
	if raw := c.PostForm("directory_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid directory id"})
			return
		}
		directoryID = &parsed
	}

	meta, err := h.service.Upload(c.Request.Context(), userID, directoryID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrDirectoryNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Directory does not exist"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error saving file", "details": err.Error()})
		}
		return
	}

	metrics.ObserveUpload(meta.SizeBytes)
	c.JSON(http.StatusCreated, meta)
}

func (h *httpHandler) listFiles(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var directoryID *uuid.UUID
	if raw := c.Query("directoryId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid directory id"})
			return
		}
		directoryID = &parsed
	}

	files, err := h.service.List(c.Request.Context(), directoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *httpHandler) getFile(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	meta, err := h.service.Get(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch file"})
		return
	}

	c.JSON(http.StatusOK, meta)
}

func (h *httpHandler) downloadFile(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	meta, reader, err := h.service.Download(c.Request.Context(), fileID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error streaming the file", "details": err.Error()})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.Name))
	c.Header("Content-Length", fmt.Sprintf("%d", meta.SizeBytes))

	n, err := io.Copy(c.Writer, reader)
	metrics.ObserveDownload(n)
	if err != nil {
		// Headers are already on the wire; the broken copy is the terminal
		// signal and the caller detects truncation via the length mismatch.
		c.Abort()
		return
	}
}

func (h *httpHandler) deleteFile(c *gin.Context) {
	if _, _, ok := auth.RequireUser(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), fileID); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}
