// Package batch carries the simulated generation and delivery accounting for a
// batch run. "Processing" a row-set means inserting one certificate row per
// data row, sequentially and awaited in order so progress stays monotonic.
// There is no durable queue, no retry and no resumption: a failed write fails
// the whole run.
package batch

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"certcanvas/api-gateway/internal/mapping"
	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/internal/store"
	"certcanvas/api-gateway/models"
)

const (
	batchTable       = "batches"
	certificateTable = "certificates"
)

// Processor runs simulated batch operations against the injected datastore.
type Processor struct {
	Store store.Datastore
	Log   *logrus.Logger
}

// NewProcessor builds a processor over the given datastore.
func NewProcessor(datastore store.Datastore, log *logrus.Logger) *Processor {
	return &Processor{Store: datastore, Log: log}
}

// Generate creates one certificate row per data row, then marks the batch
// completed with generated_count equal to the row count. The recipient's
// display name comes from the identity column and the delivery address from
// the address column of the row-set header.
func (p *Processor) Generate(b models.Batch, rs *rowset.RowSet) (models.Batch, error) {
	if err := p.updateBatch(b.ID, map[string]interface{}{
		"status": models.BatchStatusGenerating,
	}, nil); err != nil {
		return b, err
	}

	identityColumn := mapping.IdentityColumn(rs.Headers)
	addressColumn := mapping.AddressColumn(rs.Headers)

	for i, row := range rs.Rows {
		rowData, err := json.Marshal(row)
		if err != nil {
			return p.fail(b, fmt.Errorf("marshalling row %d: %w", i, err))
		}
		certificate := models.Certificate{
			ID:             uuid.New(),
			BatchID:        b.ID,
			TemplateID:     b.TemplateID,
			RecipientName:  row[identityColumn],
			RecipientEmail: row[addressColumn],
			RecipientData:  rowData,
			EmailStatus:    models.EmailStatusPending,
			CreatedAt:      time.Now(),
		}
		if err := p.Store.Insert(certificateTable, certificate, nil); err != nil {
			return p.fail(b, fmt.Errorf("inserting certificate for row %d: %w", i, err))
		}
	}

	var updated []models.Batch
	if err := p.updateBatch(b.ID, map[string]interface{}{
		"status":          models.BatchStatusCompleted,
		"generated_count": rs.Len(),
	}, &updated); err != nil {
		return b, err
	}

	p.Log.WithFields(logrus.Fields{
		"batch_id":        b.ID,
		"generated_count": rs.Len(),
	}).Info("Batch generation completed")

	if len(updated) > 0 {
		return updated[0], nil
	}
	b.Status = models.BatchStatusCompleted
	b.GeneratedCount = rs.Len()
	return b, nil
}

// Send marks every pending certificate of the batch as sent, sequentially,
// then records the sent count on the batch. No mail actually leaves here; the
// delivery engine is a not-yet-designed subsystem.
func (p *Processor) Send(b models.Batch) (models.Batch, error) {
	var certificates []models.Certificate
	if err := p.Store.Select(certificateTable, store.Filters{"batch_id": b.ID.String()}, &certificates); err != nil {
		return b, err
	}

	sent := b.SentCount
	for _, certificate := range certificates {
		if certificate.EmailStatus != models.EmailStatusPending {
			continue
		}
		now := time.Now()
		err := p.Store.Update(certificateTable, store.Filters{"id": certificate.ID.String()},
			map[string]interface{}{
				"email_status":  models.EmailStatusSent,
				"email_sent_at": now,
			}, nil)
		if err != nil {
			return p.fail(b, fmt.Errorf("marking certificate %s sent: %w", certificate.ID, err))
		}
		sent++
	}

	var updated []models.Batch
	if err := p.updateBatch(b.ID, map[string]interface{}{
		"sent_count": sent,
	}, &updated); err != nil {
		return b, err
	}

	p.Log.WithFields(logrus.Fields{
		"batch_id":   b.ID,
		"sent_count": sent,
	}).Info("Batch send completed")

	if len(updated) > 0 {
		return updated[0], nil
	}
	b.SentCount = sent
	return b, nil
}

func (p *Processor) fail(b models.Batch, cause error) (models.Batch, error) {
	p.Log.WithFields(logrus.Fields{
		"batch_id": b.ID,
		"error":    cause.Error(),
	}).Error("Batch processing failed")

	// Best effort: the original error is what matters to the caller.
	if err := p.updateBatch(b.ID, map[string]interface{}{
		"status": models.BatchStatusFailed,
	}, nil); err != nil {
		p.Log.WithField("batch_id", b.ID).Warnf("Could not mark batch failed: %v", err)
	}
	b.Status = models.BatchStatusFailed
	return b, cause
}

func (p *Processor) updateBatch(id uuid.UUID, changes map[string]interface{}, into *[]models.Batch) error {
	changes["updated_at"] = time.Now()
	if into == nil {
		return p.Store.Update(batchTable, store.Filters{"id": id.String()}, changes, nil)
	}
	return p.Store.Update(batchTable, store.Filters{"id": id.String()}, changes, into)
}
