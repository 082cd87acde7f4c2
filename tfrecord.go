package vocdata

// TFRecord object detection export.

import (
	"fmt"
	"io"
	"math"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
	"github.com/spf13/afero"

	protos "github.com/sensorable/vocdata/protos"
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// tfFeatures returns the object detection features of the sample at index.
func (d *Dataset) tfFeatures(index int) (TFFeatureMap, error) {
	id, err := d.ID(index)
	if err != nil {
		return nil, err
	}
	path := imagePath(d.root, id)

	// Get the image width and height.
	img, format, err := decodeImageConfig(d.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode the image metadata of %q", path)
	}

	// Read the image data.
	imgData, err := readFile(d.fs, path)
	if err != nil {
		return nil, err
	}

	target, _, err := d.target(id, img.Width, img.Height)
	if err != nil {
		return nil, errors.WithMessagef(err, "sample %q", id)
	}

	// Prepare the feature map for the per file data.
	f := make(TFFeatureMap, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = id + ".jpg"
	f["image/source_id"] = id
	f["image/encoded"] = imgData
	f["image/format"] = format

	// Prepare the per object data.
	numObjects := target.Len()
	xmins := make([]float32, numObjects)
	ymins := make([]float32, numObjects)
	xmaxs := make([]float32, numObjects)
	ymaxs := make([]float32, numObjects)
	classes := make([]string, numObjects)
	classIDs := make([]int64, numObjects)
	labels := target.Labels()
	for i, box := range target.Boxes {
		xmins[i] = box[0] / float32(img.Width)
		ymins[i] = box[1] / float32(img.Height)
		xmaxs[i] = box[2] / float32(img.Width)
		ymaxs[i] = box[3] / float32(img.Height)
		classes[i] = d.classIDs.ClassName(labels[i])
		classIDs[i] = int64(labels[i])
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord writes every sample of d as a tensorflow.Example to one or more TFRecord files
// under recordPath (with suffixes added when numShards>1), and the class label map to
// labelMapPath.
func WriteTFRecord(d *Dataset, fs afero.Fs, recordPath, labelMapPath string, numShards int) (
	err error) {

	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile afero.File
	closeShard := func() error {
		if shardFile == nil {
			return nil
		}
		err := shardFile.Close()
		shardFile = nil
		return err
	}
	defer closeWithErrCheck(closerFunc(closeShard), &err)

	shardSize := int(math.Ceil(float64(d.Len()) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one sample at a time.
	for i := 0; i < d.Len(); i++ {
		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++
			if err := closeShard(); err != nil {
				return err
			}

			shardPath := recordPath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := fs.Create(shardPath)
			if err != nil {
				return errors.Wrapf(err, "failed to create shard at %q", shardPath)
			}
			shardFile = f
		}

		features, err := d.tfFeatures(i)
		if err != nil {
			return err
		}
		if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
			return errors.Wrapf(err, "failed to write example %d", i)
		}
	}

	d.log.Infof("Wrote %d examples in %d shard(s) to %s", d.Len(), shardIdx+1, recordPath)
	return saveTFRecordLabelMap(fs, labelMapPath, d.classIDs)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// saveTFRecordLabelMap writes the class names with their contiguous ids to path in prototxt
// format.
func saveTFRecordLabelMap(fs afero.Fs, path string, classIDs ContiguousIDs) (err error) {
	siLabelMap := &protos.StringIntLabelMap{}
	siLabelMap.Item = make([]*protos.StringIntLabelMapItem, 0, NumClasses)
	for raw, name := range ClassNames {
		id, _ := classIDs.Contiguous(raw)
		siLabelMap.Item = append(siLabelMap.Item, &protos.StringIntLabelMapItem{
			Name: proto.String(name),
			Id:   proto.Int32(int32(id)),
		})
	}

	file, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create the label map file %q", path)
	}
	defer closeWithErrCheck(file, &err)

	if err := proto.MarshalText(file, siLabelMap); err != nil {
		return errors.Wrapf(err, "failed to write the label map %q", path)
	}

	return nil
}

// LoadLabelMap reads a prototxt label map from path and returns the id of each class name.
func LoadLabelMap(fs afero.Fs, path string) (map[string]int32, error) {
	text, err := readFile(fs, path)
	if err != nil {
		return nil, err
	}

	var siLabelMap protos.StringIntLabelMap
	if err := proto.UnmarshalText(string(text), &siLabelMap); err != nil {
		return nil, errors.Wrapf(err, "invalid label map %q", path)
	}

	labelMap := make(map[string]int32, len(siLabelMap.Item))
	for _, item := range siLabelMap.Item {
		k, v := item.GetName(), item.GetId()
		if k == "" || v <= 0 {
			return nil, errors.Errorf("invalid entry in %q: %s: %d", path, k, v)
		}
		labelMap[k] = v
	}

	return labelMap, nil
}

// closerFunc adapts a function to io.Closer.
type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
