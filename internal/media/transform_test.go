package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeNoFiltersSelected(t *testing.T) {
	assert.Empty(t, Compose(TransformRequest{}))

	// use_filter set but required params missing keeps the group inert.
	req := TransformRequest{
		Circle: CircleFilter{UseFilter: true},
		Effect: EffectFilter{UseFilter: true},
		Resize: ResizeFilter{UseFilter: true, Crop: true},
		Text:   TextFilter{UseFilter: true},
		Rotate: RotateFilter{UseFilter: true},
	}
	assert.Empty(t, Compose(req))
}

func TestComposeResizeOnly(t *testing.T) {
	req := TransformRequest{
		Resize: ResizeFilter{UseFilter: true, Crop: true, Height: 200, Width: 200},
	}
	ops := Compose(req)
	require.Len(t, ops, 1)
	assert.Equal(t, PrimitiveOp{
		{Name: "g", Value: "auto"},
		{Name: "h", Value: "200"},
		{Name: "w", Value: "200"},
		{Name: "c", Value: "crop"},
	}, ops[0])
}

func TestComposeResizeFill(t *testing.T) {
	req := TransformRequest{
		Resize: ResizeFilter{UseFilter: true, Fill: true, Height: 300, Width: 300},
	}
	ops := Compose(req)
	require.Len(t, ops, 1)
	assert.Equal(t, Param{Name: "c", Value: "fill"}, ops[0][3])
}

func TestComposeResizeCropBeatsFill(t *testing.T) {
	req := TransformRequest{
		Resize: ResizeFilter{UseFilter: true, Crop: true, Fill: true, Height: 100, Width: 100},
	}
	ops := Compose(req)
	require.Len(t, ops, 1)
	assert.Equal(t, Param{Name: "c", Value: "crop"}, ops[0][3])
}

func TestComposeEffectPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		filter EffectFilter
		want   string
	}{
		{name: "audrey alone", filter: EffectFilter{UseFilter: true, ArtAudrey: true}, want: "art:audrey"},
		{name: "zorro alone", filter: EffectFilter{UseFilter: true, ArtZorro: true}, want: "art:zorro"},
		{name: "blur alone", filter: EffectFilter{UseFilter: true, Blur: true}, want: "blur:300"},
		{name: "cartoonify alone", filter: EffectFilter{UseFilter: true, Cartoonify: true}, want: "cartoonify"},
		{
			name:   "audrey wins over everything",
			filter: EffectFilter{UseFilter: true, ArtAudrey: true, ArtZorro: true, Blur: true, Cartoonify: true},
			want:   "art:audrey",
		},
		{
			name:   "blur wins over cartoonify",
			filter: EffectFilter{UseFilter: true, Blur: true, Cartoonify: true},
			want:   "blur:300",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Compose(TransformRequest{Effect: tt.filter})
			require.Len(t, ops, 1)
			assert.Equal(t, PrimitiveOp{{Name: "e", Value: tt.want}}, ops[0])
		})
	}
}

func TestComposeGroupOrdering(t *testing.T) {
	req := TransformRequest{
		Circle: CircleFilter{UseFilter: true, Height: 150, Width: 150},
		Effect: EffectFilter{UseFilter: true, Cartoonify: true},
		Resize: ResizeFilter{UseFilter: true, Fill: true, Height: 400, Width: 400},
		Text:   TextFilter{UseFilter: true, FontSize: 24, Text: "hello"},
		Rotate: RotateFilter{UseFilter: true, Width: 400, Degree: 90},
	}
	ops := Compose(req)
	// circle(2) + effect(1) + resize(1) + text(2) + rotate(3)
	require.Len(t, ops, 9)

	assert.Equal(t, Param{Name: "g", Value: "face"}, ops[0][0])
	assert.Equal(t, PrimitiveOp{{Name: "r", Value: "max"}}, ops[1])
	assert.Equal(t, PrimitiveOp{{Name: "e", Value: "cartoonify"}}, ops[2])
	assert.Equal(t, Param{Name: "c", Value: "fill"}, ops[3][3])
	assert.Equal(t, Param{Name: "co", Value: "rgb:FFFF00"}, ops[4][0])
	assert.Equal(t, PrimitiveOp{
		{Name: "fl", Value: "layer_apply"},
		{Name: "g", Value: "south"},
		{Name: "y", Value: "20"},
	}, ops[5])
	assert.Equal(t, Param{Name: "c", Value: "scale"}, ops[6][1])
	assert.Equal(t, PrimitiveOp{{Name: "a", Value: "vflip"}}, ops[7])
	assert.Equal(t, PrimitiveOp{{Name: "a", Value: "90"}}, ops[8])
}

func TestEncodeOps(t *testing.T) {
	ops := []PrimitiveOp{
		{{Name: "g", Value: "face"}, {Name: "h", Value: "150"}, {Name: "w", Value: "150"}, {Name: "c", Value: "thumb"}},
		{{Name: "r", Value: "max"}},
	}
	assert.Equal(t, "g_face,h_150,w_150,c_thumb/r_max", EncodeOps(ops))
	assert.Equal(t, "", EncodeOps(nil))
}

func TestBuildURL(t *testing.T) {
	c := NewClient(Config{CloudName: "demo"})

	plain := c.BuildURL("abc123", nil)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/abc123.png", plain)

	ops := []PrimitiveOp{{{Name: "e", Value: "cartoonify"}}}
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/e_cartoonify/abc123.png", c.BuildURL("abc123", ops))
}
