package vocdata

// Bounding box targets.

import (
	"reflect"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// BoxMode is the coordinate layout of the boxes in a BoxList.
type BoxMode string

// The supported box modes. Both use inclusive pixel coordinates, so a box covering a single pixel
// has xmin == xmax, or a width of 1.
const (
	ModeXYXY BoxMode = "xyxy" // xmin, ymin, xmax, ymax
	ModeXYWH BoxMode = "xywh" // xmin, ymin, width, height
)

// LabelsField is the name of the per-box class id field of a target.
const LabelsField = "labels"

// BoxList is a set of boxes on an image of a given size, with optional per-box fields.
//
// Methods that change geometry return a new BoxList and leave the receiver untouched.
type BoxList struct {
	Boxes  [][4]float32
	Width  int // Image width in pixels.
	Height int // Image height in pixels.
	Mode   BoxMode

	fields     map[string]interface{}
	fieldNames []string
}

// NewBoxList returns a BoxList holding boxes in the given mode. A nil or empty boxes slice is
// valid.
func NewBoxList(boxes [][4]float32, width, height int, mode BoxMode) (*BoxList, error) {
	if mode != ModeXYXY && mode != ModeXYWH {
		return nil, errors.Errorf("unknown box mode %q", mode)
	}
	if boxes == nil {
		boxes = [][4]float32{}
	}
	return &BoxList{
		Boxes:  boxes,
		Width:  width,
		Height: height,
		Mode:   mode,
		fields: make(map[string]interface{}),
	}, nil
}

// Len is the number of boxes.
func (b *BoxList) Len() int {
	return len(b.Boxes)
}

// AddField attaches a per-box field. values must be a slice with one element per box.
func (b *BoxList) AddField(name string, values interface{}) error {
	v := reflect.ValueOf(values)
	if v.Kind() != reflect.Slice {
		return errors.Errorf("field %q: expected a slice, got %T", name, values)
	}
	if v.Len() != b.Len() {
		return errors.Errorf("field %q has %d values for %d boxes", name, v.Len(), b.Len())
	}

	if _, exists := b.fields[name]; !exists {
		b.fieldNames = append(b.fieldNames, name)
	}
	b.fields[name] = values
	return nil
}

// Field returns the named field.
func (b *BoxList) Field(name string) (interface{}, bool) {
	v, ok := b.fields[name]
	return v, ok
}

// HasField reports whether the named field is attached.
func (b *BoxList) HasField(name string) bool {
	_, ok := b.fields[name]
	return ok
}

// Fields returns the field names in the order they were added.
func (b *BoxList) Fields() []string {
	return append([]string(nil), b.fieldNames...)
}

// Labels returns the "labels" field, or nil if it is missing or not an []int.
func (b *BoxList) Labels() []int {
	labels, _ := b.fields[LabelsField].([]int)
	return labels
}

// withBoxes returns a BoxList with the receiver's image size and fields, and the given boxes.
func (b *BoxList) withBoxes(boxes [][4]float32, mode BoxMode) *BoxList {
	out := &BoxList{
		Boxes:      boxes,
		Width:      b.Width,
		Height:     b.Height,
		Mode:       mode,
		fields:     make(map[string]interface{}, len(b.fields)),
		fieldNames: append([]string(nil), b.fieldNames...),
	}
	for k, v := range b.fields {
		out.fields[k] = v
	}
	return out
}

// Convert returns the boxes in the requested mode. The receiver is returned if it already is in
// that mode.
func (b *BoxList) Convert(mode BoxMode) (*BoxList, error) {
	if mode != ModeXYXY && mode != ModeXYWH {
		return nil, errors.Errorf("unknown box mode %q", mode)
	}
	if mode == b.Mode {
		return b, nil
	}

	boxes := make([][4]float32, len(b.Boxes))
	for i, box := range b.Boxes {
		if mode == ModeXYWH {
			boxes[i] = [4]float32{box[0], box[1], box[2] - box[0] + 1, box[3] - box[1] + 1}
		} else {
			boxes[i] = [4]float32{
				box[0],
				box[1],
				box[0] + math32.Max(box[2]-1, 0),
				box[1] + math32.Max(box[3]-1, 0),
			}
		}
	}
	return b.withBoxes(boxes, mode), nil
}

// xyxy returns the boxes in xyxy mode.
func (b *BoxList) xyxy() *BoxList {
	out, _ := b.Convert(ModeXYXY)
	return out
}

// ClipToImage clamps all boxes to the image, x to [0, Width-1] and y to [0, Height-1]. If
// removeEmpty is set, boxes that end up with no area are dropped along with their field values.
func (b *BoxList) ClipToImage(removeEmpty bool) *BoxList {
	src := b.xyxy()
	maxX := float32(b.Width - 1)
	maxY := float32(b.Height - 1)
	clamp := func(v, hi float32) float32 {
		return math32.Max(0, math32.Min(v, hi))
	}

	boxes := make([][4]float32, len(src.Boxes))
	keep := make([]int, 0, len(src.Boxes))
	for i, box := range src.Boxes {
		c := [4]float32{clamp(box[0], maxX), clamp(box[1], maxY), clamp(box[2], maxX), clamp(box[3], maxY)}
		boxes[i] = c
		if !removeEmpty || (c[3] > c[1] && c[2] > c[0]) {
			keep = append(keep, i)
		}
	}

	out := src.withBoxes(boxes, ModeXYXY)
	if len(keep) != len(boxes) {
		out = out.subset(keep)
	}
	if b.Mode != ModeXYXY {
		out, _ = out.Convert(b.Mode)
	}
	return out
}

// Resize scales the boxes from the current image size to width x height.
func (b *BoxList) Resize(width, height int) *BoxList {
	src := b.xyxy()
	ratioX := float32(width) / float32(b.Width)
	ratioY := float32(height) / float32(b.Height)

	boxes := make([][4]float32, len(src.Boxes))
	for i, box := range src.Boxes {
		boxes[i] = [4]float32{box[0] * ratioX, box[1] * ratioY, box[2] * ratioX, box[3] * ratioY}
	}

	out := src.withBoxes(boxes, ModeXYXY)
	out.Width = width
	out.Height = height
	if b.Mode != ModeXYXY {
		out, _ = out.Convert(b.Mode)
	}
	return out
}

// FlipLeftRight mirrors the boxes around the vertical center line of the image.
func (b *BoxList) FlipLeftRight() *BoxList {
	src := b.xyxy()
	w := float32(b.Width)

	boxes := make([][4]float32, len(src.Boxes))
	for i, box := range src.Boxes {
		boxes[i] = [4]float32{w - box[2] - 1, box[1], w - box[0] - 1, box[3]}
	}

	out := src.withBoxes(boxes, ModeXYXY)
	if b.Mode != ModeXYXY {
		out, _ = out.Convert(b.Mode)
	}
	return out
}

// Area returns the area of each box, in pixels.
func (b *BoxList) Area() []float32 {
	areas := make([]float32, len(b.Boxes))
	for i, box := range b.Boxes {
		if b.Mode == ModeXYXY {
			areas[i] = (box[2] - box[0] + 1) * (box[3] - box[1] + 1)
		} else {
			areas[i] = box[2] * box[3]
		}
	}
	return areas
}

// subset keeps the boxes at the given indices, and the matching elements of every field.
func (b *BoxList) subset(keep []int) *BoxList {
	boxes := make([][4]float32, len(keep))
	for i, k := range keep {
		boxes[i] = b.Boxes[k]
	}

	out := b.withBoxes(boxes, b.Mode)
	for name, values := range b.fields {
		v := reflect.ValueOf(values)
		sub := reflect.MakeSlice(v.Type(), len(keep), len(keep))
		for i, k := range keep {
			sub.Index(i).Set(v.Index(k))
		}
		out.fields[name] = sub.Interface()
	}
	return out
}
