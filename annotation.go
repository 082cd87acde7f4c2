package vocdata

// VOC annotation records.

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const annotationRootTag = "annotation"

// Box is an integer bounding box: xmin, ymin, xmax, ymax.
type Box [4]int

// Annotation is the normalised content of one annotation file.
type Annotation struct {
	Boxes  []Box // One per non-difficult object.
	Labels []int // Raw class indices into ClassNames, parallel to Boxes.
	Size   Node  // The "size" element, as parsed.

	difficult int // Number of difficult objects left out.
}

// Difficult is the number of objects that were excluded for being marked difficult.
func (a Annotation) Difficult() int {
	return a.difficult
}

// annotationPath returns <root>/Annotations/<id>.xml.
func annotationPath(root, id string) string {
	return filepath.Join(root, "Annotations", id+".xml")
}

// loadAnnotation parses the annotation file for id.
func loadAnnotation(fs afero.Fs, root, id string) (ann Annotation, err error) {
	path := annotationPath(root, id)
	f, err := fs.Open(path)
	if err != nil {
		return Annotation{}, errors.Wrapf(err, "cannot read annotation for %q", id)
	}
	defer closeWithErrCheck(f, &err)

	tag, tree, err := ParseXMLTree(f)
	if err != nil {
		return Annotation{}, errors.WithMessagef(err, "failed to parse %q", path)
	}
	if tag != annotationRootTag {
		return Annotation{}, errors.Wrapf(ErrInvalidField,
			"%q: root element is %q, expected %q", path, tag, annotationRootTag)
	}
	data, ok := tree.(Node)
	if !ok {
		return Annotation{}, errors.Wrapf(ErrMissingField, "%q: empty annotation", path)
	}

	ann, err = newAnnotation(data)
	if err != nil {
		return Annotation{}, errors.WithMessagef(err, "invalid annotation %q", path)
	}
	return ann, nil
}

// newAnnotation derives the annotation record from the parsed "annotation" element.
func newAnnotation(data Node) (Annotation, error) {
	size, err := data.Node("size")
	if err != nil {
		return Annotation{}, err
	}

	objs := data.Objects()
	ann := Annotation{
		Boxes:  make([]Box, 0, len(objs)),
		Labels: make([]int, 0, len(objs)),
		Size:   size,
	}
	for i, v := range objs {
		obj, ok := v.(Node)
		if !ok {
			return Annotation{}, errors.Wrapf(ErrInvalidField, "object %d has no fields", i)
		}

		difficult, err := obj.Int("difficult")
		if err != nil {
			return Annotation{}, errors.WithMessagef(err, "object %d", i)
		}
		if difficult != 0 {
			ann.difficult++
			continue
		}

		box, err := parseBndBox(obj)
		if err != nil {
			return Annotation{}, errors.WithMessagef(err, "object %d", i)
		}
		name, err := obj.Text("name")
		if err != nil {
			return Annotation{}, errors.WithMessagef(err, "object %d", i)
		}
		label, err := ClassIndex(name)
		if err != nil {
			return Annotation{}, errors.WithMessagef(err, "object %d", i)
		}

		ann.Boxes = append(ann.Boxes, box)
		ann.Labels = append(ann.Labels, label)
	}

	return ann, nil
}

// parseBndBox reads the "bndbox" element of an object.
func parseBndBox(obj Node) (Box, error) {
	bndbox, err := obj.Node("bndbox")
	if err != nil {
		return Box{}, err
	}

	var box Box
	for i, key := range [4]string{"xmin", "ymin", "xmax", "ymax"} {
		if box[i], err = bndbox.Int(key); err != nil {
			return Box{}, errors.WithMessage(err, "bndbox")
		}
	}
	return box, nil
}

// SizeOf returns the width and height recorded in a "size" element.
func SizeOf(size Node) (width, height int, err error) {
	if width, err = size.Int("width"); err != nil {
		return 0, 0, err
	}
	if height, err = size.Int("height"); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}
