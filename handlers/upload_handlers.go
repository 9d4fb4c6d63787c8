package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
	"certcanvas/api-gateway/utils"
)

const imageBucket = "template-images"

// UploadTemplateImage handles the background image upload for a template
// through the gateway to avoid CORS issues. The image's native dimensions are
// read from the file itself and recorded on the template; every field
// coordinate is interpreted against them.
func (h *ApplicationHandler) UploadTemplateImage(c *fiber.Ctx) error {
	templateIDStr := c.Params("id")
	templateID, err := uuid.Parse(templateIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	h.Logger.Infof("Received image upload request for template %s", templateID)

	// Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		h.Logger.Errorf("Error getting file from request: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}

	fileHandle, err := file.Open()
	if err != nil {
		h.Logger.Errorf("Error opening file: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error opening file: %v", err))
	}
	defer fileHandle.Close()

	fileContent, err := io.ReadAll(fileHandle)
	if err != nil {
		h.Logger.Errorf("Error reading file content: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error reading file: %v", err))
	}

	// The native dimensions come from the image itself, not from the client.
	imgConfig, _, err := image.DecodeConfig(bytes.NewReader(fileContent))
	if err != nil {
		h.Logger.Errorf("Error decoding image for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Uploaded file is not a supported image (png, jpeg, gif)")
	}

	template, err := h.fetchTemplate(c, templateIDStr)
	if template == nil {
		return err
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectPath := fmt.Sprintf("%s/%s%s", templateID, uuid.NewString(), filepath.Ext(file.Filename))

	publicURL, err := h.Storage.Upload(imageBucket, objectPath, contentType, fileContent)
	if err != nil {
		h.Logger.Errorf("Error uploading image for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error uploading file: %v", err))
	}

	var results []models.Template
	err = h.Store.Update("templates", store.Filters{"id": templateIDStr}, map[string]interface{}{
		"image_url":    publicURL,
		"image_width":  imgConfig.Width,
		"image_height": imgConfig.Height,
		"updated_at":   time.Now(),
	}, &results)
	if err != nil {
		h.Logger.Errorf("Error recording image for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not record uploaded image: %v", err))
	}
	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Template with ID %s not found", templateID))
	}

	h.Logger.Infof("Successfully uploaded image for template %s (%dx%d)", templateID, imgConfig.Width, imgConfig.Height)
	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}
