package models

import (
	"time"

	"github.com/google/uuid"
)

// Text alignment values accepted for a template field.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TemplateField represents the structure of a positioned text field in the database.
// X and Y are always stored in the template's native image pixel space; display
// scaling is applied (and inverted) at render time, never persisted.
type TemplateField struct {
	ID         uuid.UUID `json:"id,omitempty"`
	TemplateID uuid.UUID `json:"template_id"`
	FieldKey   string    `json:"field_key"`
	Label      string    `json:"label"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	FontSize   float64   `json:"font_size"`
	FontFamily string    `json:"font_family"`
	FontColor  string    `json:"font_color"`
	TextAlign  string    `json:"text_align"`
	MaxWidth   *float64  `json:"max_width,omitempty"` // Nullable FLOAT
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidTextAlign reports whether align is one of the accepted alignment values.
func ValidTextAlign(align string) bool {
	return align == AlignLeft || align == AlignCenter || align == AlignRight
}
