package models

import (
	"time"

	"github.com/google/uuid"
)

// Template represents the structure of a certificate template in the database.
// ImageWidth/ImageHeight are the native pixel dimensions of the background image;
// every field coordinate is expressed in that pixel space.
type Template struct {
	ID          uuid.UUID  `json:"id,omitempty"`
	UserID      *uuid.UUID `json:"user_id,omitempty"` // Nullable foreign key, owned by managed auth
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"` // Use a pointer for nullable TEXT fields
	ImageURL    *string    `json:"image_url,omitempty"`   // Use a pointer for nullable TEXT fields
	ImageWidth  int        `json:"image_width"`
	ImageHeight int        `json:"image_height"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
