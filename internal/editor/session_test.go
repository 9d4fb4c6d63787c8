package editor

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certcanvas/api-gateway/internal/placement"
	"certcanvas/api-gateway/internal/rowset"
	"certcanvas/api-gateway/models"
)

func testTemplate() models.Template {
	return models.Template{
		ID:          uuid.New(),
		Name:        "Completion",
		ImageWidth:  1920,
		ImageHeight: 1080,
	}
}

func testRows(t *testing.T) *rowset.RowSet {
	t.Helper()
	rs, err := rowset.Parse(strings.NewReader("name,email,course\nAda,ada@example.com,Engines\nAlan,alan@example.com,Computability\nGrace,grace@example.com,Compilers\n"))
	require.NoError(t, err)
	return rs
}

func TestAddFieldPlacesAtModelSpaceCenter(t *testing.T) {
	s := NewSession(testTemplate(), nil)

	field, err := s.AddField("name", "Recipient Name")
	require.NoError(t, err)

	assert.Equal(t, 960.0, field.X)
	assert.Equal(t, 540.0, field.Y)
	assert.Equal(t, models.AlignCenter, field.TextAlign)
	assert.Len(t, s.Fields(), 1)
}

func TestAddFieldRejectsDuplicateKey(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)

	_, err = s.AddField("name", "Another")
	assert.Error(t, err)
}

func TestMoveFieldCommitsDragIntoModelSpace(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)

	// 1920x1080 in a 960x960 viewport: scale is 0.5.
	scale := placement.Scale(1920, 1080, 960, 960, placement.EditorCap)
	require.InDelta(t, 0.5, scale, 1e-9)

	moved, err := s.MoveField("name", placement.Point{X: 100, Y: 75}, 960, 960)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, moved.X, 1e-9)
	assert.InDelta(t, 150.0, moved.Y, 1e-9)
}

func TestMoveFieldRoundTrip(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	field, err := s.AddField("name", "")
	require.NoError(t, err)

	scale := placement.Scale(1920, 1080, 700, 500, placement.EditorCap)
	display := placement.ToDisplay(placement.Point{X: field.X, Y: field.Y}, scale)

	moved, err := s.MoveField("name", display, 700, 500)
	require.NoError(t, err)
	assert.InDelta(t, field.X, moved.X, 1e-9)
	assert.InDelta(t, field.Y, moved.Y, 1e-9)
}

func TestFieldsMayLeaveTheCanvas(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)

	// No clamping: a drag past the edge is accepted input.
	moved, err := s.MoveField("name", placement.Point{X: -40, Y: 5000}, 960, 960)
	require.NoError(t, err)
	assert.Less(t, moved.X, 0.0)
	assert.Greater(t, moved.Y, 1080.0)
}

func TestSelectionTransitions(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)
	_, err = s.AddField("course", "")
	require.NoError(t, err)

	require.NoError(t, s.Select("name"))
	assert.Equal(t, "name", s.ActiveKey())

	// Only one field active at a time.
	require.NoError(t, s.Select("course"))
	assert.Equal(t, "course", s.ActiveKey())

	// Clicking empty canvas clears the selection.
	s.ClearSelection()
	assert.Equal(t, "", s.ActiveKey())

	assert.Error(t, s.Select("missing"))
}

func TestRemoveActiveFieldClearsSelection(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)
	require.NoError(t, s.Select("name"))

	require.NoError(t, s.RemoveField("name"))

	assert.Equal(t, "", s.ActiveKey())
	assert.Empty(t, s.Fields())
}

func TestUpdateFieldStyle(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)

	size := 36.0
	align := models.AlignLeft
	updated, err := s.UpdateField("name", FieldEdit{FontSize: &size, TextAlign: &align})
	require.NoError(t, err)
	assert.Equal(t, 36.0, updated.FontSize)
	assert.Equal(t, models.AlignLeft, updated.TextAlign)

	bad := "justified"
	_, err = s.UpdateField("name", FieldEdit{TextAlign: &bad})
	assert.Error(t, err)
}

func TestLoadRowsAutoMapsAndResetsCursor(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)
	_, err = s.AddField("grade", "")
	require.NoError(t, err)

	m := s.LoadRows(testRows(t))

	assert.Equal(t, "name", m["name"])
	_, mapped := m["grade"]
	assert.False(t, mapped, "no header matches 'grade'")
	assert.Equal(t, 0, s.Index())
}

func TestPreviewNavigationClampsAtBoundaries(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	s.LoadRows(testRows(t))

	assert.Equal(t, 0, s.Prev(), "previous at index 0 stays at 0")
	assert.Equal(t, 1, s.Next())
	assert.Equal(t, 2, s.Next())
	assert.Equal(t, 2, s.Next(), "next at the last row stays put")

	assert.Equal(t, 1, s.SetIndex(1))
}

func TestRenderResolvesValuesAndPlaceholders(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)
	_, err = s.AddField("grade", "")
	require.NoError(t, err)
	s.LoadRows(testRows(t))
	s.SetIndex(2)

	frame := s.Render(960, 960)

	require.Len(t, frame.Fields, 2)
	assert.Equal(t, 2, frame.Index)
	assert.Equal(t, 3, frame.RowCount)
	assert.Equal(t, "Grace", frame.Fields[0].Value)
	assert.Equal(t, "{{grade}}", frame.Fields[1].Value)

	// Preview projects positions at the preview scale.
	assert.InDelta(t, 960.0*frame.Scale, frame.Fields[0].X, 1e-9)
}

func TestRenderWithoutRowsShowsPlaceholders(t *testing.T) {
	s := NewSession(testTemplate(), nil)
	_, err := s.AddField("name", "")
	require.NoError(t, err)

	frame := s.Render(960, 960)

	require.Len(t, frame.Fields, 1)
	assert.Equal(t, "{{name}}", frame.Fields[0].Value)
	assert.Equal(t, 0, frame.RowCount)
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry()
	s := r.Open(testTemplate(), []models.TemplateField{{FieldKey: "name"}})

	got, ok := r.Get(s.ID)
	require.True(t, ok)
	assert.Len(t, got.Fields(), 1)

	r.Close(s.ID)
	_, ok = r.Get(s.ID)
	assert.False(t, ok)
}
