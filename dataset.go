// Package vocdata loads PASCAL VOC detection datasets as indexed training samples, and exports
// them as TFRecord or KITTI labels.
package vocdata

import (
	"image"
	"sync/atomic"

	"github.com/cyclopcam/logs"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Options configures a Dataset. All fields are optional.
type Options struct {
	Transform Transform // Applied to every sample returned by Get.
	Log       logs.Log  // Defaults to logs.NewLog().
	Fs        afero.Fs  // Defaults to the OS filesystem.
}

// Sample is one training example.
type Sample struct {
	Image  image.Image
	Target *BoxList
	Index  int // The index passed to Get.
}

// Dataset is a split of a PASCAL VOC dataset with all annotations loaded in memory.
//
// A Dataset is read-only after New returns, and safe for concurrent use.
type Dataset struct {
	root      string
	split     string
	fs        afero.Fs
	log       logs.Log
	transform Transform

	ids         []string              // Sorted sample ids. The index of an id is its position.
	annotations map[string]Annotation // By sample id.
	classIDs    ContiguousIDs

	dropped atomic.Int64 // Boxes removed by clipping in Get.
}

// New loads the split manifest <root>/ImageSets/Main/<split>.txt and parses the annotation file of
// every sample in it. Any unreadable or invalid annotation fails the whole load.
func New(root, split string, opts Options) (*Dataset, error) {
	d := &Dataset{
		root:      root,
		split:     split,
		fs:        opts.Fs,
		log:       opts.Log,
		transform: opts.Transform,
		classIDs:  NewContiguousIDs(NumClasses),
	}
	if d.fs == nil {
		d.fs = afero.NewOsFs()
	}
	if d.log == nil {
		l, err := logs.NewLog()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create logger")
		}
		d.log = l
	}

	ids, err := readManifest(d.fs, root, split)
	if err != nil {
		return nil, errors.WithMessagef(err, "cannot load split %q", split)
	}
	d.ids = ids
	d.log.Infof("Parsing VOC annotations for %d samples in split %q", len(ids), split)

	d.annotations = make(map[string]Annotation, len(ids))
	var numObjects, numDifficult int
	for i, id := range ids {
		if _, done := d.annotations[id]; done {
			continue
		}
		ann, err := loadAnnotation(d.fs, root, id)
		if err != nil {
			return nil, err
		}
		d.annotations[id] = ann
		numObjects += len(ann.Boxes)
		numDifficult += ann.Difficult()

		if (i+1)%1000 == 0 {
			d.log.Debugf("Parsed %d/%d annotations", i+1, len(ids))
		}
	}

	d.log.Infof("Loaded %d samples with %d objects (%d difficult objects skipped)",
		len(ids), numObjects, numDifficult)
	return d, nil
}

// Len is the number of samples in the split.
func (d *Dataset) Len() int {
	return len(d.ids)
}

// Root is the dataset root directory.
func (d *Dataset) Root() string {
	return d.root
}

// Split is the name of the loaded split.
func (d *Dataset) Split() string {
	return d.split
}

// ID returns the sample id at index.
func (d *Dataset) ID(index int) (string, error) {
	if index < 0 || index >= len(d.ids) {
		return "", errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", index, len(d.ids))
	}
	return d.ids[index], nil
}

// IDToImage returns a copy of the index to sample id table.
func (d *Dataset) IDToImage() map[int]string {
	m := make(map[int]string, len(d.ids))
	for i, id := range d.ids {
		m[i] = id
	}
	return m
}

// Annotation returns the annotation record of a sample id.
func (d *Dataset) Annotation(id string) (Annotation, bool) {
	ann, ok := d.annotations[id]
	return ann, ok
}

// ContiguousIDs is the class id mapping used for the targets.
func (d *Dataset) ContiguousIDs() ContiguousIDs {
	return d.classIDs
}

// DroppedBoxes is the number of boxes that Get has discarded so far because they were empty after
// clipping to the image.
func (d *Dataset) DroppedBoxes() int64 {
	return d.dropped.Load()
}

// ImageInfo returns the "size" element of the sample at index, without loading the image.
func (d *Dataset) ImageInfo(index int) (Node, error) {
	id, err := d.ID(index)
	if err != nil {
		return nil, err
	}
	return d.annotations[id].Size, nil
}

// Get loads the sample at index: the RGB image, and a target in xyxy mode with a "labels" field of
// contiguous class ids, clipped to the image. The configured transform, if any, is applied last.
func (d *Dataset) Get(index int) (Sample, error) {
	id, err := d.ID(index)
	if err != nil {
		return Sample{}, err
	}

	img, err := loadImage(d.fs, imagePath(d.root, id))
	if err != nil {
		return Sample{}, err
	}

	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	target, dropped, err := d.target(id, width, height)
	if err != nil {
		return Sample{}, errors.WithMessagef(err, "sample %q", id)
	}
	if dropped > 0 {
		d.dropped.Add(int64(dropped))
		d.log.Debugf("Dropped %d boxes of %q outside the %dx%d image", dropped, id, width, height)
	}

	var out image.Image = img
	if d.transform != nil {
		if out, target, err = d.transform.Apply(out, target); err != nil {
			return Sample{}, errors.WithMessagef(err, "transform failed for sample %q", id)
		}
	}

	return Sample{Image: out, Target: target, Index: index}, nil
}

// target builds the clipped target of sample id for an image of width x height, and returns the
// number of boxes removed by clipping.
func (d *Dataset) target(id string, width, height int) (*BoxList, int, error) {
	ann := d.annotations[id]

	boxes := make([][4]float32, len(ann.Boxes))
	for i, b := range ann.Boxes {
		boxes[i] = [4]float32{float32(b[0]), float32(b[1]), float32(b[2]), float32(b[3])}
	}
	target, err := NewBoxList(boxes, width, height, ModeXYXY)
	if err != nil {
		return nil, 0, err
	}

	labels := make([]int, len(ann.Labels))
	for i, raw := range ann.Labels {
		id, ok := d.classIDs.Contiguous(raw)
		if !ok {
			return nil, 0, errors.Wrapf(ErrUnknownClass, "raw class index %d", raw)
		}
		labels[i] = id
	}
	if err := target.AddField(LabelsField, labels); err != nil {
		return nil, 0, err
	}

	clipped := target.ClipToImage(true)
	return clipped, target.Len() - clipped.Len(), nil
}
