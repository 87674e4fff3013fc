package controllers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaController struct {
	uploadDir string
}

func NewMediaController(uploadDir string) *MediaController {
	return &MediaController{uploadDir: uploadDir}
}

// Upload stores a single multipart file under a collision-free name and
// returns the public path the frontend attaches as evidence.
func (mc *MediaController) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded."})
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(mc.uploadDir, filename)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"filePath": "/uploads/" + filename,
	})
}
