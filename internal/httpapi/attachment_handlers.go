package httpapi

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"onboarding-records/internal/attachment"
)

type attachmentResponse struct {
	Username string  `json:"username"`
	Path     *string `json:"path"`
	Exists   bool    `json:"exists"`
}

func (h *Handler) handleUploadAttachment(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.uploads.Upload(c.Request.Context(), claimsFrom(c).Username, fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, attachment.ErrNotRecorded) {
			writeError(c, http.StatusInternalServerError, "file copied but failed to save to database")
			return
		}
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// handleGetAttachment reports the recorded document of an employee and
// whether it is still on disk. No document is not an error.
func (h *Handler) handleGetAttachment(c *gin.Context) {
	username := c.Param("ref")
	path, found, err := h.attachments.GetAttachmentPath(c.Request.Context(), username)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	response := attachmentResponse{Username: username}
	if found {
		response.Path = &path
		response.Exists = fileExists(path)
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) handleDownloadAttachment(c *gin.Context) {
	path, found, err := h.attachments.GetAttachmentPath(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	if !found || !fileExists(path) {
		writeError(c, http.StatusNotFound, "no attachment")
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
