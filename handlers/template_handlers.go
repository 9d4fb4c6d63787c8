package handlers

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
	"certcanvas/api-gateway/utils"
)

var validate = validator.New()

// CreateTemplateRequest defines the expected request body for creating a template.
// Name is required. The image and its dimensions usually arrive later through
// the image upload endpoint.
type CreateTemplateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description,omitempty"`
	UserID      *string `json:"user_id,omitempty"`
	ImageWidth  int     `json:"image_width,omitempty"`
	ImageHeight int     `json:"image_height,omitempty"`
}

// CreateTemplate godoc
// @Summary Create a new certificate template
// @Description Creates a new template with the provided name and optional description.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body CreateTemplateRequest true "Template to create"
// @Success 201 {object} models.Template "Template created successfully"
// @Failure 400 "Bad request if input is invalid (e.g., missing name)"
// @Failure 500 "Internal server error if template creation fails"
// @Router /templates [post]
func (h *ApplicationHandler) CreateTemplate(c *fiber.Ctx) error {
	templateReq := new(CreateTemplateRequest)

	if err := c.BodyParser(templateReq); err != nil {
		h.Logger.Errorf("Error parsing template data: %v", err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse template JSON: %v", err))
	}

	templateReq.Name = utils.SanitizeInput(templateReq.Name)
	if err := validate.Struct(templateReq); err != nil {
		validationErrors := utils.FormatValidationErrors(err.(validator.ValidationErrors))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Validation failed",
			"errors":  validationErrors,
		})
	}

	now := time.Now()
	template := models.Template{
		ID:          uuid.New(),
		Name:        templateReq.Name,
		Description: templateReq.Description,
		ImageWidth:  templateReq.ImageWidth,
		ImageHeight: templateReq.ImageHeight,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if templateReq.UserID != nil {
		userID, err := uuid.Parse(*templateReq.UserID)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid 'user_id' format")
		}
		template.UserID = &userID
	}

	var results []models.Template
	if err := h.Store.Insert("templates", template, &results); err != nil {
		h.Logger.Errorf("Error creating template: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create template: %v", err))
	}
	if len(results) == 0 {
		results = []models.Template{template}
	}

	h.Logger.Infof("Template created successfully: %s", results[0].ID)
	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// GetTemplates retrieves all templates.
func (h *ApplicationHandler) GetTemplates(c *fiber.Ctx) error {
	var templates []models.Template
	if err := h.Store.Select("templates", nil, &templates); err != nil {
		h.Logger.Errorf("Error fetching templates: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve templates: %v", err))
	}

	if templates == nil {
		// Return an empty list instead of null, which is more idiomatic for lists.
		templates = []models.Template{}
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, templates)
}

// GetTemplate handles retrieving a specific template by its ID.
func (h *ApplicationHandler) GetTemplate(c *fiber.Ctx) error {
	templateID := c.Params("id")
	if _, err := uuid.Parse(templateID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	template, err := h.fetchTemplate(c, templateID)
	if template == nil {
		return err
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, template)
}

// UpdateTemplate handles partially updating an existing template by its ID.
func (h *ApplicationHandler) UpdateTemplate(c *fiber.Ctx) error {
	templateID := c.Params("id")
	if _, err := uuid.Parse(templateID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	var payload map[string]interface{}
	if err := c.BodyParser(&payload); err != nil {
		h.Logger.Errorf("Error parsing update payload for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	dbUpdateData := make(map[string]interface{})

	if val, ok := payload["name"]; ok {
		nameStr, typeOK := val.(string)
		if !typeOK || utils.SanitizeInput(nameStr) == "" {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "'name' field must be a non-empty string")
		}
		dbUpdateData["name"] = utils.SanitizeInput(nameStr)
	}

	if val, exists := payload["description"]; exists {
		if val == nil {
			dbUpdateData["description"] = nil
		} else if descStr, typeOK := val.(string); typeOK {
			dbUpdateData["description"] = descStr
		} else {
			return utils.RespondWithError(c, fiber.StatusBadRequest, "'description' field must be a string or null")
		}
	}

	dbUpdateData["updated_at"] = time.Now()

	var results []models.Template
	if err := h.Store.Update("templates", store.Filters{"id": templateID}, dbUpdateData, &results); err != nil {
		h.Logger.Errorf("Error updating template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not update template %s: %v", templateID, err))
	}

	if len(results) == 0 {
		return utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Template with ID %s not found", templateID))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, results[0])
}

// DeleteTemplate handles deleting a specific template by its ID. The template's
// fields are removed first so the delete cascades the way the managed schema does.
func (h *ApplicationHandler) DeleteTemplate(c *fiber.Ctx) error {
	templateID := c.Params("id")
	if _, err := uuid.Parse(templateID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	if err := h.Store.Delete("template_fields", store.Filters{"template_id": templateID}); err != nil {
		h.Logger.Errorf("Error deleting fields for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete template fields: %v", err))
	}
	if err := h.Store.Delete("templates", store.Filters{"id": templateID}); err != nil {
		h.Logger.Errorf("Error deleting template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not delete template %s: %v", templateID, err))
	}

	h.Logger.Infof("Delete operation for template ID %s processed", templateID)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": fmt.Sprintf("Template with ID %s delete request processed", templateID),
	})
}

// fetchTemplate loads one template row. On failure it writes the error
// response and returns a nil template; the caller just returns the error value.
func (h *ApplicationHandler) fetchTemplate(c *fiber.Ctx, templateID string) (*models.Template, error) {
	var templates []models.Template
	if err := h.Store.Select("templates", store.Filters{"id": templateID}, &templates); err != nil {
		h.Logger.Errorf("Error fetching template %s: %v", templateID, err)
		return nil, utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve template %s: %v", templateID, err))
	}
	if len(templates) == 0 {
		return nil, utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Template with ID %s not found", templateID))
	}
	return &templates[0], nil
}
