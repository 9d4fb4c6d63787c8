package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Batch lifecycle statuses. Counters only ever move forward while a batch is
// processing; completed and failed are terminal.
const (
	BatchStatusPending    = "pending"
	BatchStatusGenerating = "generating"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// Batch represents the structure of a generation run in the database.
type Batch struct {
	ID             uuid.UUID       `json:"id,omitempty"`
	UserID         *uuid.UUID      `json:"user_id,omitempty"` // Nullable foreign key, owned by managed auth
	TemplateID     uuid.UUID       `json:"template_id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	TotalCount     int             `json:"total_count"`
	GeneratedCount int             `json:"generated_count"`
	SentCount      int             `json:"sent_count"`
	FailedCount    int             `json:"failed_count"`
	ZipURL         *string         `json:"zip_url,omitempty"`  // Nullable TEXT, unset until packaging exists
	RowData        json.RawMessage `json:"row_data,omitempty"` // Uploaded row-set snapshot, JSONB
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
