package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
	"certcanvas/api-gateway/utils"
)

// FieldPayload defines one field of a replace-all save. Coordinates are in the
// template's native pixel space; the client inverts its display scale before
// sending them, never after.
type FieldPayload struct {
	FieldKey   string   `json:"field_key" validate:"required"`
	Label      string   `json:"label"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	FontSize   float64  `json:"font_size"`
	FontFamily string   `json:"font_family"`
	FontColor  string   `json:"font_color"`
	TextAlign  string   `json:"text_align"`
	MaxWidth   *float64 `json:"max_width,omitempty"`
}

// ListFields retrieves the persisted field set of a template.
func (h *ApplicationHandler) ListFields(c *fiber.Ctx) error {
	templateID := c.Params("id")
	if _, err := uuid.Parse(templateID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	var fields []models.TemplateField
	if err := h.Store.Select("template_fields", store.Filters{"template_id": templateID}, &fields); err != nil {
		h.Logger.Errorf("Error fetching fields for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve fields: %v", err))
	}

	if fields == nil {
		fields = []models.TemplateField{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fields)
}

// ReplaceFields commits a whole field set with replace-all semantics: the
// previous persisted set is discarded and the submitted set is written in full.
// All validation happens before the first remote call.
func (h *ApplicationHandler) ReplaceFields(c *fiber.Ctx) error {
	templateIDStr := c.Params("id")
	templateID, err := uuid.Parse(templateIDStr)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	var payload []FieldPayload
	if err := c.BodyParser(&payload); err != nil {
		h.Logger.Errorf("Error parsing field set for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	fields, err := buildFieldRows(templateID, payload)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	template, err := h.fetchTemplate(c, templateIDStr)
	if template == nil {
		return err
	}

	if err := h.Store.Delete("template_fields", store.Filters{"template_id": templateIDStr}); err != nil {
		h.Logger.Errorf("Error clearing fields for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not replace fields: %v", err))
	}

	if len(fields) > 0 {
		if err := h.Store.Insert("template_fields", fields, nil); err != nil {
			h.Logger.Errorf("Error writing fields for template %s: %v", templateID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not save fields: %v", err))
		}
	}

	h.Logger.Infof("Saved %d fields for template %s", len(fields), templateID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fields)
}

// buildFieldRows turns a save payload into persisted rows, enforcing key
// uniqueness and alignment values up front.
func buildFieldRows(templateID uuid.UUID, payload []FieldPayload) ([]models.TemplateField, error) {
	now := time.Now()
	seen := make(map[string]bool, len(payload))
	fields := make([]models.TemplateField, 0, len(payload))

	for _, p := range payload {
		if p.FieldKey == "" {
			return nil, fmt.Errorf("every field requires a 'field_key'")
		}
		if seen[p.FieldKey] {
			return nil, fmt.Errorf("duplicate field_key %q", p.FieldKey)
		}
		seen[p.FieldKey] = true

		align := p.TextAlign
		if align == "" {
			align = models.AlignCenter
		}
		if !models.ValidTextAlign(align) {
			return nil, fmt.Errorf("invalid text_align %q for field %q", p.TextAlign, p.FieldKey)
		}

		label := p.Label
		if label == "" {
			label = p.FieldKey
		}

		fields = append(fields, models.TemplateField{
			ID:         uuid.New(),
			TemplateID: templateID,
			FieldKey:   p.FieldKey,
			Label:      label,
			X:          p.X,
			Y:          p.Y,
			FontSize:   p.FontSize,
			FontFamily: p.FontFamily,
			FontColor:  p.FontColor,
			TextAlign:  align,
			MaxWidth:   p.MaxWidth,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return fields, nil
}
