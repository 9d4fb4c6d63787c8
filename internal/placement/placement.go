// Package placement is the field placement and scaling model shared by the
// editor and the preview. Field coordinates live in the template's native image
// pixel space; a single uniform scale factor maps them into display space, and
// dividing by the same factor maps a display-space position (e.g. a drag result)
// back into model space.
package placement

import "certcanvas/api-gateway/models"

const (
	// EditorCap prevents the editor canvas from upscaling past the original
	// image resolution.
	EditorCap = 1.0
	// PreviewCap leaves a little margin around the read-only preview.
	PreviewCap = 0.9
	// FallbackScale is used when the native dimensions are unknown or the
	// container has not been measured yet, so we never divide by zero.
	FallbackScale = 0.5
)

// Point is a position in either model (native pixel) or display space,
// depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale derives the uniform scale factor for rendering a template with the
// given native dimensions inside the given available area. The smaller of the
// two axis ratios wins so the whole image fits, and cap bounds the result from
// above (pass EditorCap or PreviewCap).
func Scale(nativeWidth, nativeHeight, availWidth, availHeight, cap float64) float64 {
	if nativeWidth <= 0 || nativeHeight <= 0 || availWidth <= 0 || availHeight <= 0 {
		return FallbackScale
	}
	scale := availWidth / nativeWidth
	if byHeight := availHeight / nativeHeight; byHeight < scale {
		scale = byHeight
	}
	if cap > 0 && scale > cap {
		scale = cap
	}
	return scale
}

// ToDisplay maps a model-space point into display space.
func ToDisplay(p Point, scale float64) Point {
	if scale <= 0 {
		scale = FallbackScale
	}
	return Point{X: p.X * scale, Y: p.Y * scale}
}

// ToModel maps a display-space point back into model space. It is the inverse
// of ToDisplay for the same scale, used when committing a drag.
func ToModel(p Point, scale float64) Point {
	if scale <= 0 {
		scale = FallbackScale
	}
	return Point{X: p.X / scale, Y: p.Y / scale}
}

// Placement is a field projected into display space: every linear quantity
// (position, font size, max width) is multiplied by the same scale factor.
type Placement struct {
	FieldKey   string   `json:"field_key"`
	Label      string   `json:"label"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	FontSize   float64  `json:"font_size"`
	FontFamily string   `json:"font_family"`
	FontColor  string   `json:"font_color"`
	TextAlign  string   `json:"text_align"`
	MaxWidth   *float64 `json:"max_width,omitempty"`
}

// Project scales a field's linear quantities from model space into display space.
func Project(f models.TemplateField, scale float64) Placement {
	if scale <= 0 {
		scale = FallbackScale
	}
	p := Placement{
		FieldKey:   f.FieldKey,
		Label:      f.Label,
		X:          f.X * scale,
		Y:          f.Y * scale,
		FontSize:   f.FontSize * scale,
		FontFamily: f.FontFamily,
		FontColor:  f.FontColor,
		TextAlign:  f.TextAlign,
	}
	if f.MaxWidth != nil {
		scaled := *f.MaxWidth * scale
		p.MaxWidth = &scaled
	}
	return p
}
