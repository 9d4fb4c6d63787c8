package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"certcanvas/api-gateway/utils"
)

// GetPreview renders the preview frame at the session's current row cursor.
// viewport_width/viewport_height carry the measured display area; when the
// client has not measured yet the scale falls back to a fixed value.
func (h *ApplicationHandler) GetPreview(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	availWidth := c.QueryFloat("viewport_width", 0)
	availHeight := c.QueryFloat("viewport_height", 0)

	return utils.RespondWithJSON(c, fiber.StatusOK, session.Render(availWidth, availHeight))
}

// PreviewNext advances the row cursor. At the last row it is a no-op.
func (h *ApplicationHandler) PreviewNext(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"index": session.Next()})
}

// PreviewPrev moves the row cursor back. At the first row it is a no-op.
func (h *ApplicationHandler) PreviewPrev(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"index": session.Prev()})
}

// PreviewIndexRequest jumps the cursor straight to a row picked from the set.
type PreviewIndexRequest struct {
	Index *int `json:"index"`
}

// PreviewSetIndex jumps the row cursor to the picked index.
func (h *ApplicationHandler) PreviewSetIndex(c *fiber.Ctx) error {
	session, err := h.session(c)
	if session == nil {
		return err
	}

	req := new(PreviewIndexRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}
	if req.Index == nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'index' is required")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"index": session.SetIndex(*req.Index)})
}
