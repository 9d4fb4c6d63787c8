// Package editor holds the working state of a template editing session: the
// in-memory field set, the single active selection, and the preview cursor over
// an uploaded row-set. Every mutation is a plain transition function; nothing
// is persisted until the handler commits the whole field set in one save.
package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"certcanvas/api-gateway/internal/mapping"
	"certcanvas/api-gateway/internal/placement"
	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/models"
)

// Style defaults for a freshly added field.
const (
	defaultFontSize   = 24
	defaultFontFamily = "Arial"
	defaultFontColor  = "#000000"
)

// FieldEdit carries the optional changes of a field update. Nil means the
// attribute is left alone. X and Y are direct numeric entry in model space;
// drag commits go through MoveField instead.
type FieldEdit struct {
	Label      *string  `json:"label,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	FontSize   *float64 `json:"font_size,omitempty"`
	FontFamily *string  `json:"font_family,omitempty"`
	FontColor  *string  `json:"font_color,omitempty"`
	TextAlign  *string  `json:"text_align,omitempty"`
	MaxWidth   *float64 `json:"max_width,omitempty"`
}

// RenderedField is one field of a preview frame: its display-space placement
// plus the value resolved from the current row (or the placeholder token).
type RenderedField struct {
	placement.Placement
	Value string `json:"value"`
}

// PreviewFrame is the result of rendering the preview at the current cursor.
type PreviewFrame struct {
	Index    int             `json:"index"`
	RowCount int             `json:"row_count"`
	Scale    float64         `json:"scale"`
	Fields   []RenderedField `json:"fields"`
}

// Session is one user's editing state for one template. A session is driven by
// a single actor; the mutex only guards against overlapping HTTP requests.
type Session struct {
	ID         uuid.UUID
	TemplateID uuid.UUID

	mu        sync.Mutex
	template  models.Template
	fields    []models.TemplateField
	activeKey string
	rows      *rowset.RowSet
	mapping   mapping.Mapping
	index     int
}

// NewSession opens a session over a template and its persisted field set. The
// fields are copied into the working set; the persisted rows stay untouched
// until Save commits.
func NewSession(template models.Template, fields []models.TemplateField) *Session {
	working := make([]models.TemplateField, len(fields))
	copy(working, fields)
	return &Session{
		ID:         uuid.New(),
		TemplateID: template.ID,
		template:   template,
		fields:     working,
		mapping:    mapping.Mapping{},
	}
}

// Template returns the template the session was opened on.
func (s *Session) Template() models.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Fields returns a snapshot of the working field set.
func (s *Session) Fields() []models.TemplateField {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]models.TemplateField, len(s.fields))
	copy(snapshot, s.fields)
	return snapshot
}

// ActiveKey returns the key of the active field, or "" when nothing is selected.
func (s *Session) ActiveKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeKey
}

// AddField adds a new field to the working set, placed at the model-space
// center of the image. Field keys are unique within a template.
func (s *Session) AddField(fieldKey, label string) (models.TemplateField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fieldKey == "" {
		return models.TemplateField{}, fmt.Errorf("field key is required")
	}
	if s.indexOf(fieldKey) >= 0 {
		return models.TemplateField{}, fmt.Errorf("field %q already exists in this template", fieldKey)
	}
	if label == "" {
		label = fieldKey
	}

	now := time.Now()
	field := models.TemplateField{
		ID:         uuid.New(),
		TemplateID: s.template.ID,
		FieldKey:   fieldKey,
		Label:      label,
		X:          float64(s.template.ImageWidth) / 2,
		Y:          float64(s.template.ImageHeight) / 2,
		FontSize:   defaultFontSize,
		FontFamily: defaultFontFamily,
		FontColor:  defaultFontColor,
		TextAlign:  models.AlignCenter,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.fields = append(s.fields, field)
	return field, nil
}

// UpdateField applies style/label/position edits to a field in the working set.
func (s *Session) UpdateField(fieldKey string, edit FieldEdit) (models.TemplateField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(fieldKey)
	if i < 0 {
		return models.TemplateField{}, fmt.Errorf("field %q not found", fieldKey)
	}
	f := &s.fields[i]
	if edit.Label != nil {
		f.Label = *edit.Label
	}
	if edit.X != nil {
		f.X = *edit.X
	}
	if edit.Y != nil {
		f.Y = *edit.Y
	}
	if edit.FontSize != nil {
		f.FontSize = *edit.FontSize
	}
	if edit.FontFamily != nil {
		f.FontFamily = *edit.FontFamily
	}
	if edit.FontColor != nil {
		f.FontColor = *edit.FontColor
	}
	if edit.TextAlign != nil {
		if !models.ValidTextAlign(*edit.TextAlign) {
			return models.TemplateField{}, fmt.Errorf("invalid text_align %q", *edit.TextAlign)
		}
		f.TextAlign = *edit.TextAlign
	}
	if edit.MaxWidth != nil {
		width := *edit.MaxWidth
		f.MaxWidth = &width
	}
	f.UpdatedAt = time.Now()
	return *f, nil
}

// MoveField commits a drag: the display-space position is divided by the editor
// scale for the measured viewport and written back into model space. Positions
// outside the canvas are accepted input, not an error.
func (s *Session) MoveField(fieldKey string, display placement.Point, availWidth, availHeight float64) (models.TemplateField, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(fieldKey)
	if i < 0 {
		return models.TemplateField{}, fmt.Errorf("field %q not found", fieldKey)
	}

	scale := placement.Scale(float64(s.template.ImageWidth), float64(s.template.ImageHeight),
		availWidth, availHeight, placement.EditorCap)
	model := placement.ToModel(display, scale)

	f := &s.fields[i]
	f.X = model.X
	f.Y = model.Y
	f.UpdatedAt = time.Now()
	return *f, nil
}

// RemoveField deletes a field from the working set. If the removed field was
// the active one the selection is cleared.
func (s *Session) RemoveField(fieldKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(fieldKey)
	if i < 0 {
		return fmt.Errorf("field %q not found", fieldKey)
	}
	s.fields = append(s.fields[:i], s.fields[i+1:]...)
	if s.activeKey == fieldKey {
		s.activeKey = ""
	}
	return nil
}

// Select marks a field as the active one for the property panel. Only one
// field may be active at a time.
func (s *Session) Select(fieldKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(fieldKey) < 0 {
		return fmt.Errorf("field %q not found", fieldKey)
	}
	s.activeKey = fieldKey
	return nil
}

// ClearSelection deselects the active field (a click on empty canvas).
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeKey = ""
}

// LoadRows attaches an uploaded row-set to the session, runs the automatic
// mapping once against the current field keys, and resets the preview cursor.
func (s *Session) LoadRows(rs *rowset.RowSet) mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, len(s.fields))
	for i, f := range s.fields {
		keys[i] = f.FieldKey
	}
	s.rows = rs
	s.mapping = mapping.AutoMap(keys, rs.Headers)
	s.index = 0
	return s.mappingSnapshot()
}

// SetMapping overrides one field's column by hand. An empty column unmaps the
// field so it renders its placeholder again.
func (s *Session) SetMapping(fieldKey, column string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(fieldKey) < 0 {
		return fmt.Errorf("field %q not found", fieldKey)
	}
	if column == "" {
		delete(s.mapping, fieldKey)
		return nil
	}
	s.mapping[fieldKey] = column
	return nil
}

// Mapping returns a snapshot of the current field-to-column mapping.
func (s *Session) Mapping() mapping.Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mappingSnapshot()
}

// RowSet returns the attached row-set, or nil when none was uploaded yet.
func (s *Session) RowSet() *rowset.RowSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Index returns the zero-based preview cursor.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Next advances the preview cursor. At the last row it is a no-op, not an error.
func (s *Session) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < s.rows.Len()-1 {
		s.index++
	}
	return s.index
}

// Prev moves the preview cursor back. At the first row it is a no-op.
func (s *Session) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index > 0 {
		s.index--
	}
	return s.index
}

// SetIndex jumps the cursor directly to i. Choices come from existing rows, so
// no bounds are enforced here; Render guards against a row that is not there.
func (s *Session) SetIndex(i int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = i
	return s.index
}

// Render produces the preview frame for the current cursor: each field
// projected at the preview scale with its value resolved from the current row.
// It is a pure function of (fields, mapping, row at index).
func (s *Session) Render(availWidth, availHeight float64) PreviewFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	scale := placement.Scale(float64(s.template.ImageWidth), float64(s.template.ImageHeight),
		availWidth, availHeight, placement.PreviewCap)
	row := s.rows.Row(s.index)

	rendered := make([]RenderedField, len(s.fields))
	for i, f := range s.fields {
		rendered[i] = RenderedField{
			Placement: placement.Project(f, scale),
			Value:     mapping.Resolve(f.FieldKey, s.mapping, row),
		}
	}
	return PreviewFrame{
		Index:    s.index,
		RowCount: s.rows.Len(),
		Scale:    scale,
		Fields:   rendered,
	}
}

func (s *Session) indexOf(fieldKey string) int {
	for i, f := range s.fields {
		if f.FieldKey == fieldKey {
			return i
		}
	}
	return -1
}

func (s *Session) mappingSnapshot() mapping.Mapping {
	snapshot := make(mapping.Mapping, len(s.mapping))
	for k, v := range s.mapping {
		snapshot[k] = v
	}
	return snapshot
}
