package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/editor"
	"certcanvas/api-gateway/internal/placement"
	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
	"certcanvas/api-gateway/utils"
)

// OpenEditor opens an editing session over a template's persisted field set.
// Everything that happens in the session stays in memory until save commits.
func (h *ApplicationHandler) OpenEditor(c *fiber.Ctx) error {
	templateIDStr := c.Params("id")
	if _, err := uuid.Parse(templateIDStr); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid template ID format")
	}

	template, err := h.fetchTemplate(c, templateIDStr)
	if template == nil {
		return err
	}

	var fields []models.TemplateField
	if err := h.Store.Select("template_fields", store.Filters{"template_id": templateIDStr}, &fields); err != nil {
		h.Logger.Errorf("Error fetching fields for template %s: %v", templateIDStr, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve fields: %v", err))
	}

	session := h.Sessions.Open(*template, fields)
	h.Logger.Infof("Opened editor session %s for template %s", session.ID, template.ID)

	return utils.RespondWithJSON(c, fiber.StatusCreated, fiber.Map{
		"session_id": session.ID,
		"template":   template,
		"fields":     session.Fields(),
	})
}

// CloseEditor discards a session and its unsaved edits.
func (h *ApplicationHandler) CloseEditor(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}
	h.Sessions.Close(session.ID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"closed": true})
}

// AddFieldRequest is the body for adding a field to a session.
type AddFieldRequest struct {
	FieldKey string `json:"field_key" validate:"required"`
	Label    string `json:"label"`
}

// AddEditorField adds a field to the working set, placed at the model-space
// center of the image.
func (h *ApplicationHandler) AddEditorField(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	req := new(AddFieldRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	field, err := session.AddField(utils.SanitizeInput(req.FieldKey), utils.SanitizeInput(req.Label))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusCreated, field)
}

// EditFieldRequest is the body for editing a field. Either a style/position
// edit (model-space values) or a drag commit (display-space position plus the
// measured viewport) may be supplied; the drag wins when both are present.
type EditFieldRequest struct {
	editor.FieldEdit
	DisplayX       *float64 `json:"display_x,omitempty"`
	DisplayY       *float64 `json:"display_y,omitempty"`
	ViewportWidth  float64  `json:"viewport_width,omitempty"`
	ViewportHeight float64  `json:"viewport_height,omitempty"`
}

// UpdateEditorField edits a field's style or commits a drag.
func (h *ApplicationHandler) UpdateEditorField(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}
	fieldKey := c.Params("fieldKey")

	req := new(EditFieldRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	if req.DisplayX != nil && req.DisplayY != nil {
		field, err := session.MoveField(fieldKey,
			placement.Point{X: *req.DisplayX, Y: *req.DisplayY},
			req.ViewportWidth, req.ViewportHeight)
		if err != nil {
			return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, field)
	}

	field, err := session.UpdateField(fieldKey, req.FieldEdit)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, field)
}

// RemoveEditorField removes a field from the working set.
func (h *ApplicationHandler) RemoveEditorField(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}
	if err := session.RemoveField(c.Params("fieldKey")); err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"fields":     session.Fields(),
		"active_key": session.ActiveKey(),
	})
}

// SelectionRequest sets or clears the active field. An empty field_key is a
// click on empty canvas: it clears the selection.
type SelectionRequest struct {
	FieldKey string `json:"field_key"`
}

// SetSelection marks the active field for the property panel.
func (h *ApplicationHandler) SetSelection(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	req := new(SelectionRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	if req.FieldKey == "" {
		session.ClearSelection()
	} else if err := session.Select(req.FieldKey); err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"active_key": session.ActiveKey()})
}

// SaveEditor commits the session's working set with replace-all semantics. A
// failed remote write leaves the working set intact so the user may retry.
func (h *ApplicationHandler) SaveEditor(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	fields := session.Fields()
	templateID := session.TemplateID.String()

	if err := h.Store.Delete("template_fields", store.Filters{"template_id": templateID}); err != nil {
		h.Logger.Errorf("Error clearing fields for template %s: %v", templateID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not save fields: %v", err))
	}
	if len(fields) > 0 {
		if err := h.Store.Insert("template_fields", fields, nil); err != nil {
			h.Logger.Errorf("Error writing fields for template %s: %v", templateID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not save fields: %v", err))
		}
	}

	h.Logger.Infof("Session %s saved %d fields for template %s", session.ID, len(fields), templateID)
	return utils.RespondWithJSON(c, fiber.StatusOK, fields)
}

// UploadEditorRowSet attaches recipient data to the session for previewing.
// The upload is parsed and validated locally before anything else happens, and
// the automatic mapping runs exactly once per upload.
func (h *ApplicationHandler) UploadEditorRowSet(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting file: %v", err))
	}
	fileHandle, err := file.Open()
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Error opening file: %v", err))
	}
	defer fileHandle.Close()

	rs, err := rowset.Parse(fileHandle)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, err.Error())
	}

	autoMapping := session.LoadRows(rs)
	h.Logger.Infof("Session %s loaded %d rows", session.ID, rs.Len())

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"headers":   rs.Headers,
		"row_count": rs.Len(),
		"mapping":   autoMapping,
	})
}

// MappingRequest overrides one field's column by hand.
type MappingRequest struct {
	FieldKey string `json:"field_key" validate:"required"`
	Column   string `json:"column"`
}

// SetEditorMapping adjusts the field-to-column mapping for the session.
func (h *ApplicationHandler) SetEditorMapping(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	req := new(MappingRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if req.FieldKey == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'field_key' is required")
	}

	if err := session.SetMapping(req.FieldKey, req.Column); err != nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, err.Error())
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, session.Mapping())
}

// session resolves the :sessionId param to an open editor session. On failure
// it writes the error response and returns nil; the caller returns the error value.
func (h *ApplicationHandler) session(c *fiber.Ctx) (*editor.Session, error) {
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return nil, utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid session ID format")
	}
	session, ok := h.Sessions.Get(sessionID)
	if !ok {
		return nil, utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Editor session %s not found", sessionID))
	}
	return session, nil
}
