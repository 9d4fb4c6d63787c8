package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certcanvas/api-gateway/models"
)

func TestMemoryStoreInsertAndSelect(t *testing.T) {
	s := NewMemoryStore()

	tpl := models.Template{
		ID:          uuid.New(),
		Name:        "Course Completion",
		ImageWidth:  1920,
		ImageHeight: 1080,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	var inserted []models.Template
	require.NoError(t, s.Insert("templates", tpl, &inserted))
	require.Len(t, inserted, 1)
	assert.Equal(t, tpl.ID, inserted[0].ID)

	var fetched []models.Template
	require.NoError(t, s.Select("templates", Filters{"id": tpl.ID.String()}, &fetched))
	require.Len(t, fetched, 1)
	assert.Equal(t, "Course Completion", fetched[0].Name)
	assert.Equal(t, 1920, fetched[0].ImageWidth)
}

func TestMemoryStoreInsertSlice(t *testing.T) {
	s := NewMemoryStore()
	templateID := uuid.New()

	fields := []models.TemplateField{
		{ID: uuid.New(), TemplateID: templateID, FieldKey: "name", X: 10, Y: 20},
		{ID: uuid.New(), TemplateID: templateID, FieldKey: "course", X: 30, Y: 40},
	}
	require.NoError(t, s.Insert("template_fields", fields, nil))

	assert.Equal(t, 2, s.Count("template_fields", Filters{"template_id": templateID.String()}))
}

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	id := uuid.New()
	require.NoError(t, s.Insert("batches", models.Batch{ID: id, Status: models.BatchStatusPending}, nil))

	var updated []models.Batch
	require.NoError(t, s.Update("batches", Filters{"id": id.String()},
		map[string]interface{}{"status": models.BatchStatusCompleted, "generated_count": 3}, &updated))

	require.Len(t, updated, 1)
	assert.Equal(t, models.BatchStatusCompleted, updated[0].Status)
	assert.Equal(t, 3, updated[0].GeneratedCount)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	templateID := uuid.New()
	require.NoError(t, s.Insert("template_fields", []models.TemplateField{
		{ID: uuid.New(), TemplateID: templateID, FieldKey: "name"},
		{ID: uuid.New(), TemplateID: uuid.New(), FieldKey: "other"},
	}, nil))

	require.NoError(t, s.Delete("template_fields", Filters{"template_id": templateID.String()}))

	assert.Equal(t, 0, s.Count("template_fields", Filters{"template_id": templateID.String()}))
	assert.Equal(t, 1, s.Count("template_fields", nil))
}
