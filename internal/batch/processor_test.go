package batch

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func seedBatch(t *testing.T, s store.Datastore, total int) models.Batch {
	t.Helper()
	b := models.Batch{
		ID:         uuid.New(),
		TemplateID: uuid.New(),
		Name:       "Spring Cohort",
		Status:     models.BatchStatusPending,
		TotalCount: total,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, s.Insert("batches", b, nil))
	return b
}

func threeRows(t *testing.T) *rowset.RowSet {
	t.Helper()
	rs, err := rowset.Parse(strings.NewReader("name,email,course\nAda,ada@example.com,Engines\nAlan,alan@example.com,Computability\nGrace,grace@example.com,Compilers\n"))
	require.NoError(t, err)
	return rs
}

func TestGenerateCreatesOneCertificatePerRow(t *testing.T) {
	mem := store.NewMemoryStore()
	b := seedBatch(t, mem, 3)
	p := NewProcessor(mem, testLogger())

	result, err := p.Generate(b, threeRows(t))
	require.NoError(t, err)

	assert.Equal(t, models.BatchStatusCompleted, result.Status)
	assert.Equal(t, 3, result.GeneratedCount)
	assert.Equal(t, 3, mem.Count("certificates", store.Filters{"batch_id": b.ID.String()}))

	var certificates []models.Certificate
	require.NoError(t, mem.Select("certificates", store.Filters{"batch_id": b.ID.String()}, &certificates))
	names := make([]string, 0, len(certificates))
	for _, c := range certificates {
		names = append(names, c.RecipientName)
		assert.Equal(t, models.EmailStatusPending, c.EmailStatus)
		assert.Equal(t, b.TemplateID, c.TemplateID)
		assert.NotEmpty(t, c.RecipientData)
	}
	assert.ElementsMatch(t, []string{"Ada", "Alan", "Grace"}, names)
}

func TestGenerateResolvesRecipientColumns(t *testing.T) {
	mem := store.NewMemoryStore()
	b := seedBatch(t, mem, 1)
	p := NewProcessor(mem, testLogger())

	// No "name" header: identity falls back to the first column. The address
	// column is the first header containing "email".
	rs, err := rowset.Parse(strings.NewReader("student,contact_email\nAda,ada@example.com\n"))
	require.NoError(t, err)

	_, err = p.Generate(b, rs)
	require.NoError(t, err)

	var certificates []models.Certificate
	require.NoError(t, mem.Select("certificates", store.Filters{"batch_id": b.ID.String()}, &certificates))
	require.Len(t, certificates, 1)
	assert.Equal(t, "Ada", certificates[0].RecipientName)
	assert.Equal(t, "ada@example.com", certificates[0].RecipientEmail)
}

// failingStore wraps the memory store and fails certificate inserts after a
// set number of successes.
type failingStore struct {
	*store.MemoryStore
	remaining int
}

func (f *failingStore) Insert(table string, record interface{}, into interface{}) error {
	if table == "certificates" {
		if f.remaining == 0 {
			return errors.New("remote write refused")
		}
		f.remaining--
	}
	return f.MemoryStore.Insert(table, record, into)
}

func TestGenerateFailureMarksBatchFailed(t *testing.T) {
	mem := store.NewMemoryStore()
	b := seedBatch(t, mem, 3)
	p := NewProcessor(&failingStore{MemoryStore: mem, remaining: 1}, testLogger())

	result, err := p.Generate(b, threeRows(t))
	require.Error(t, err)
	assert.Equal(t, models.BatchStatusFailed, result.Status)

	var stored []models.Batch
	require.NoError(t, mem.Select("batches", store.Filters{"id": b.ID.String()}, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, models.BatchStatusFailed, stored[0].Status)
	// Whole-operation failure: generated_count was never advanced.
	assert.Equal(t, 0, stored[0].GeneratedCount)
}

func TestSendMarksPendingCertificatesSent(t *testing.T) {
	mem := store.NewMemoryStore()
	b := seedBatch(t, mem, 3)
	p := NewProcessor(mem, testLogger())

	generated, err := p.Generate(b, threeRows(t))
	require.NoError(t, err)

	sent, err := p.Send(generated)
	require.NoError(t, err)
	assert.Equal(t, 3, sent.SentCount)

	var certificates []models.Certificate
	require.NoError(t, mem.Select("certificates", store.Filters{"batch_id": b.ID.String()}, &certificates))
	for _, c := range certificates {
		assert.Equal(t, models.EmailStatusSent, c.EmailStatus)
		assert.NotNil(t, c.EmailSentAt)
	}

	// Sending again is a no-op: nothing is pending anymore.
	again, err := p.Send(sent)
	require.NoError(t, err)
	assert.Equal(t, 3, again.SentCount)
}
