package vocdata

// The PASCAL VOC label vocabulary.

import (
	"github.com/pkg/errors"
)

// ClassNames are the 20 PASCAL VOC object classes. The order is fixed: the raw class index of a
// label is its position in this list, and its contiguous id is that position plus one.
var ClassNames = [...]string{
	"aeroplane",
	"bicycle",
	"bird",
	"boat",
	"bottle",
	"bus",
	"car",
	"cat",
	"chair",
	"cow",
	"diningtable",
	"dog",
	"horse",
	"motorbike",
	"person",
	"pottedplant",
	"sheep",
	"sofa",
	"train",
	"tvmonitor",
}

// NumClasses is the number of object classes, excluding background.
const NumClasses = len(ClassNames)

// BackgroundID is the contiguous id reserved for "no object".
const BackgroundID = 0

// ClassIndex returns the raw class index of name. Names must match exactly.
func ClassIndex(name string) (int, error) {
	for i, n := range ClassNames {
		if n == name {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrUnknownClass, "%q", name)
}

// ContiguousIDs maps raw class indices (0..NumClasses-1) to contiguous ids (1..NumClasses) and
// back. The zero value is not usable, use NewContiguousIDs.
type ContiguousIDs struct {
	toContiguous map[int]int
	toRaw        map[int]int
}

// NewContiguousIDs builds the mapping for numClasses raw indices.
func NewContiguousIDs(numClasses int) ContiguousIDs {
	m := ContiguousIDs{
		toContiguous: make(map[int]int, numClasses),
		toRaw:        make(map[int]int, numClasses),
	}
	for raw := 0; raw < numClasses; raw++ {
		m.toContiguous[raw] = raw + 1
	}
	for raw, id := range m.toContiguous {
		m.toRaw[id] = raw
	}
	return m
}

// Contiguous returns the contiguous id for the raw class index.
func (m ContiguousIDs) Contiguous(raw int) (int, bool) {
	id, ok := m.toContiguous[raw]
	return id, ok
}

// Raw returns the raw class index for the contiguous id.
func (m ContiguousIDs) Raw(id int) (int, bool) {
	raw, ok := m.toRaw[id]
	return raw, ok
}

// Len is the number of mapped classes.
func (m ContiguousIDs) Len() int {
	return len(m.toContiguous)
}

// ClassName returns the class name for a contiguous id, or "" for background and unknown ids.
func (m ContiguousIDs) ClassName(id int) string {
	raw, ok := m.toRaw[id]
	if !ok || raw >= NumClasses {
		return ""
	}
	return ClassNames[raw]
}
