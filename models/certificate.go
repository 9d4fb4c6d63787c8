package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Delivery statuses for a certificate's email.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Certificate represents one output record per data row of a batch.
type Certificate struct {
	ID             uuid.UUID       `json:"id,omitempty"`
	BatchID        uuid.UUID       `json:"batch_id"`
	TemplateID     uuid.UUID       `json:"template_id"`
	RecipientName  string          `json:"recipient_name"`
	RecipientEmail string          `json:"recipient_email"`
	RecipientData  json.RawMessage `json:"recipient_data,omitempty"`  // Raw row values, JSONB
	CertificateURL *string         `json:"certificate_url,omitempty"` // Nullable TEXT, unset until rendering exists
	EmailStatus    string          `json:"email_status"`
	EmailSentAt    *time.Time      `json:"email_sent_at,omitempty"` // Nullable TIMESTAMPTZ
	EmailError     *string         `json:"email_error,omitempty"`   // Nullable TEXT
	CreatedAt      time.Time       `json:"created_at"`
}
