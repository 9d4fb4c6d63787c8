package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
	"certcanvas/api-gateway/utils"
)

// CreateBatch creates a generation run: a multipart upload carrying the
// recipient row-set plus template_id and name form values. The row-set is
// parsed and validated locally before the batch row is written; total_count is
// fixed to the row count at creation time.
func (h *ApplicationHandler) CreateBatch(c *fiber.Ctx) error {
	name := utils.SanitizeInput(c.FormValue("name"))
	if name == "" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "'name' is required")
	}
	templateID, err := uuid.Parse(c.FormValue("template_id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid 'template_id' format")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Error getting row-set file: %v", err))
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

	template, err := h.fetchTemplate(c, templateID.String())
	if template == nil {
		return err
	}

	rowData, err := json.Marshal(rs)
	if err != nil {
		h.Logger.Errorf("Error marshalling row-set for batch: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not encode row-set")
	}

	now := time.Now()
	batch := models.Batch{
		ID:         uuid.New(),
		UserID:     template.UserID,
		TemplateID: template.ID,
		Name:       name,
		Status:     models.BatchStatusPending,
		TotalCount: rs.Len(),
		RowData:    rowData,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var results []models.Batch
	if err := h.Store.Insert("batches", batch, &results); err != nil {
		h.Logger.Errorf("Error creating batch: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not create batch: %v", err))
	}
	if len(results) == 0 {
		results = []models.Batch{batch}
	}

	h.Logger.Infof("Batch %s created with %d rows", results[0].ID, rs.Len())
	return utils.RespondWithJSON(c, fiber.StatusCreated, results[0])
}

// GetBatches retrieves all batches.
func (h *ApplicationHandler) GetBatches(c *fiber.Ctx) error {
	var batches []models.Batch
	if err := h.Store.Select("batches", nil, &batches); err != nil {
		h.Logger.Errorf("Error fetching batches: %v", err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve batches: %v", err))
	}
	if batches == nil {
		batches = []models.Batch{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, batches)
}

// GetBatch retrieves a specific batch by its ID.
func (h *ApplicationHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.fetchBatch(c, c.Params("id"))
	if batch == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, batch)
}

// GenerateBatch runs the simulated generation loop over the batch's stored
// row-set: one certificate row per data row, written sequentially so progress
// accounting stays monotonic.
func (h *ApplicationHandler) GenerateBatch(c *fiber.Ctx) error {
	batch, err := h.fetchBatch(c, c.Params("id"))
	if batch == nil {
		return err
	}
	if batch.Status != models.BatchStatusPending {
		return utils.RespondWithError(c, fiber.StatusConflict,
			fmt.Sprintf("Batch %s has already been processed (status %q)", batch.ID, batch.Status))
	}

	var rs rowset.RowSet
	if err := json.Unmarshal(batch.RowData, &rs); err != nil {
		h.Logger.Errorf("Error decoding row-set for batch %s: %v", batch.ID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Batch row data is unreadable")
	}

	result, err := h.Processor.Generate(*batch, &rs)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Batch generation failed: %v", err))
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// SendBatch runs the simulated delivery loop: pending certificates are marked
// sent one by one and the batch's sent counter is recorded.
func (h *ApplicationHandler) SendBatch(c *fiber.Ctx) error {
	batch, err := h.fetchBatch(c, c.Params("id"))
	if batch == nil {
		return err
	}
	if batch.Status != models.BatchStatusCompleted {
		return utils.RespondWithError(c, fiber.StatusConflict,
			fmt.Sprintf("Batch %s has not been generated yet (status %q)", batch.ID, batch.Status))
	}

	result, err := h.Processor.Send(*batch)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Batch send failed: %v", err))
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, result)
}

// ListCertificates retrieves the certificates generated for a batch.
func (h *ApplicationHandler) ListCertificates(c *fiber.Ctx) error {
	batchID := c.Params("id")
	if _, err := uuid.Parse(batchID); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid batch ID format")
	}

	var certificates []models.Certificate
	if err := h.Store.Select("certificates", store.Filters{"batch_id": batchID}, &certificates); err != nil {
		h.Logger.Errorf("Error fetching certificates for batch %s: %v", batchID, err)
		return utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve certificates: %v", err))
	}
	if certificates == nil {
		certificates = []models.Certificate{}
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, certificates)
}

// fetchBatch loads one batch row. On failure it writes the error response and
// returns a nil batch; the caller returns the error value.
func (h *ApplicationHandler) fetchBatch(c *fiber.Ctx, batchID string) (*models.Batch, error) {
	if _, err := uuid.Parse(batchID); err != nil {
		return nil, utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid batch ID format")
	}

	var batches []models.Batch
	if err := h.Store.Select("batches", store.Filters{"id": batchID}, &batches); err != nil {
		h.Logger.Errorf("Error fetching batch %s: %v", batchID, err)
		return nil, utils.RespondWithError(c, fiber.StatusInternalServerError, fmt.Sprintf("Could not retrieve batch %s: %v", batchID, err))
	}
	if len(batches) == 0 {
		return nil, utils.RespondWithError(c, fiber.StatusNotFound, fmt.Sprintf("Batch with ID %s not found", batchID))
	}
	return &batches[0], nil
}
