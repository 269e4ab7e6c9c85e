// Package media talks to the external media host: it composes
// declarative edit requests into primitive operations and builds the
// delivery URLs the host understands.
package media

import (
	"fmt"
	"net/url"
	"strings"
)

// Param is a single name/value pair inside a primitive operation.
// Names are the media host's short URL keys (g, h, w, c, e, ...).
type Param struct {
	Name  string
	Value string
}

// PrimitiveOp is one atomic image edit instruction. Parameter order is
// preserved because the host's URL syntax is order sensitive.
type PrimitiveOp []Param

// TransformRequest is the declarative transformation payload accepted
// by the transform endpoint. Each group is inert unless its use_filter
// flag is set and its required parameters are non-zero/non-empty.
type TransformRequest struct {
	Circle CircleFilter `json:"circle"`
	Effect EffectFilter `json:"effect"`
	Resize ResizeFilter `json:"resize"`
	Text   TextFilter   `json:"text"`
	Rotate RotateFilter `json:"rotate"`
}

// CircleFilter crops the image to a face-centered circle.
type CircleFilter struct {
	UseFilter bool `json:"use_filter"`
	Height    int  `json:"height"`
	Width     int  `json:"width"`
}

// EffectFilter applies one named stylistic effect. When several flags
// are set at once only the first in the fixed precedence
// art_audrey > art_zorro > blur > cartoonify is applied and the rest
// are ignored.
type EffectFilter struct {
	UseFilter  bool `json:"use_filter"`
	ArtAudrey  bool `json:"art_audrey"`
	ArtZorro   bool `json:"art_zorro"`
	Blur       bool `json:"blur"`
	Cartoonify bool `json:"cartoonify"`
}

// ResizeFilter scales the image to the given box. Crop and Fill pick
// the crop mode; when both are set the same first-wins rule as the
// effect group applies, so crop takes precedence.
type ResizeFilter struct {
	UseFilter bool `json:"use_filter"`
	Crop      bool `json:"crop"`
	Fill      bool `json:"fill"`
	Height    int  `json:"height"`
	Width     int  `json:"width"`
}

// TextFilter stamps a bold yellow caption near the bottom edge.
type TextFilter struct {
	UseFilter bool   `json:"use_filter"`
	FontSize  int    `json:"font_size"`
	Text      string `json:"text"`
}

// RotateFilter scales to the given width, flips vertically and rotates
// by the given angle.
type RotateFilter struct {
	UseFilter bool `json:"use_filter"`
	Width     int  `json:"width"`
	Degree    int  `json:"degree"`
}

// Compose converts a request into the ordered operation list the media
// host will apply. Groups are evaluated in a fixed order (circle,
// effect, resize, text, rotate) and the output order is exactly the
// evaluation order, which governs how the host layers the edits. An
// empty result means no group was active; callers must treat that as
// "nothing selected" and skip the external call entirely.
func Compose(req TransformRequest) []PrimitiveOp {
	var ops []PrimitiveOp

	if req.Circle.UseFilter && req.Circle.Height > 0 && req.Circle.Width > 0 {
		ops = append(ops,
			PrimitiveOp{
				{Name: "g", Value: "face"},
				{Name: "h", Value: fmt.Sprintf("%d", req.Circle.Height)},
				{Name: "w", Value: fmt.Sprintf("%d", req.Circle.Width)},
				{Name: "c", Value: "thumb"},
			},
			PrimitiveOp{{Name: "r", Value: "max"}},
		)
	}

	if req.Effect.UseFilter {
		if effect := effectName(req.Effect); effect != "" {
			ops = append(ops, PrimitiveOp{{Name: "e", Value: effect}})
		}
	}

	if req.Resize.UseFilter && req.Resize.Height > 0 && req.Resize.Width > 0 {
		if mode := cropMode(req.Resize); mode != "" {
			ops = append(ops, PrimitiveOp{
				{Name: "g", Value: "auto"},
				{Name: "h", Value: fmt.Sprintf("%d", req.Resize.Height)},
				{Name: "w", Value: fmt.Sprintf("%d", req.Resize.Width)},
				{Name: "c", Value: mode},
			})
		}
	}

	if req.Text.UseFilter && req.Text.FontSize > 0 && req.Text.Text != "" {
		ops = append(ops,
			PrimitiveOp{
				{Name: "co", Value: "rgb:FFFF00"},
				{Name: "l", Value: fmt.Sprintf("text:Times_%d_bold:%s", req.Text.FontSize, url.PathEscape(req.Text.Text))},
			},
			PrimitiveOp{
				{Name: "fl", Value: "layer_apply"},
				{Name: "g", Value: "south"},
				{Name: "y", Value: "20"},
			},
		)
	}

	if req.Rotate.UseFilter && req.Rotate.Width > 0 && req.Rotate.Degree > 0 {
		ops = append(ops,
			PrimitiveOp{
				{Name: "w", Value: fmt.Sprintf("%d", req.Rotate.Width)},
				{Name: "c", Value: "scale"},
			},
			PrimitiveOp{{Name: "a", Value: "vflip"}},
			PrimitiveOp{{Name: "a", Value: fmt.Sprintf("%d", req.Rotate.Degree)}},
		)
	}

	return ops
}

// effectName picks the single effect to apply. Precedence is fixed:
// art_audrey, then art_zorro, then blur, then cartoonify.
func effectName(f EffectFilter) string {
	switch {
	case f.ArtAudrey:
		return "art:audrey"
	case f.ArtZorro:
		return "art:zorro"
	case f.Blur:
		return "blur:300"
	case f.Cartoonify:
		return "cartoonify"
	}
	return ""
}

// cropMode resolves the resize crop mode, crop before fill.
func cropMode(f ResizeFilter) string {
	switch {
	case f.Crop:
		return "crop"
	case f.Fill:
		return "fill"
	}
	return ""
}

// EncodeOps serializes operations into the host's URL path form:
// params comma-joined as name_value, operations joined with slashes.
func EncodeOps(ops []PrimitiveOp) string {
	segs := make([]string, 0, len(ops))
	for _, op := range ops {
		parts := make([]string, 0, len(op))
		for _, p := range op {
			parts = append(parts, p.Name+"_"+p.Value)
		}
		segs = append(segs, strings.Join(parts, ","))
	}
	return strings.Join(segs, "/")
}
