package handlers

import (
	"github.com/sirupsen/logrus"

	"certcanvas/api-gateway/internal/batch"
	"certcanvas/api-gateway/internal/editor"
	"certcanvas/api-gateway/internal/store"
)

// StorageUploader defines the object-storage operation handlers expect.
// This allows for decoupling and easier testing; the concrete implementation
// is the Supabase storage client.
type StorageUploader interface {
	Upload(bucket, objectPath, contentType string, data []byte) (string, error)
}

// ApplicationHandler holds shared dependencies for handlers. The datastore is
// an injected capability, never ambient global state.
type ApplicationHandler struct {
	Store     store.Datastore
	Storage   StorageUploader
	Logger    *logrus.Logger
	Sessions  *editor.Registry
	Processor *batch.Processor
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(datastore store.Datastore, storage StorageUploader, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Store:     datastore,
		Storage:   storage,
		Logger:    logger,
		Sessions:  editor.NewRegistry(),
		Processor: batch.NewProcessor(datastore, logger),
	}
}
