package vocdata

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testRoot = "/voc/VOC2007"

type testObject struct {
	name      string
	difficult int
	box       Box
}

// vocXML renders an annotation file in the layout of the VOC devkit.
func vocXML(width, height int, objects ...testObject) string {
	var b strings.Builder
	b.WriteString("<annotation>\n")
	b.WriteString("\t<folder>VOC2007</folder>\n")
	b.WriteString("\t<source>\n\t\t<database>The VOC2007 Database</database>\n\t</source>\n")
	fmt.Fprintf(&b, "\t<size>\n\t\t<width>%d</width>\n\t\t<height>%d</height>\n\t\t<depth>3</depth>\n\t</size>\n",
		width, height)
	b.WriteString("\t<segmented>0</segmented>\n")
	for _, o := range objects {
		fmt.Fprintf(&b, "\t<object>\n\t\t<name>%s</name>\n\t\t<pose>Unspecified</pose>\n"+
			"\t\t<truncated>0</truncated>\n\t\t<difficult>%d</difficult>\n"+
			"\t\t<bndbox>\n\t\t\t<xmin>%d</xmin>\n\t\t\t<ymin>%d</ymin>\n\t\t\t<xmax>%d</xmax>\n\t\t\t<ymax>%d</ymax>\n\t\t</bndbox>\n"+
			"\t</object>\n",
			o.name, o.difficult, o.box[0], o.box[1], o.box[2], o.box[3])
	}
	b.WriteString("</annotation>\n")
	return b.String()
}

// jpegBytes encodes a gray width x height JPEG.
func jpegBytes(t *testing.T, width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

type testSample struct {
	id            string
	width, height int // Image size. The annotation records the same size.
	objects       []testObject
}

// writeVOC creates a dataset root in fs with one split, listing the samples in the given order.
func writeVOC(t *testing.T, fs afero.Fs, split string, samples ...testSample) {
	var manifest strings.Builder
	for _, s := range samples {
		manifest.WriteString(s.id + "\n")
		require.NoError(t, afero.WriteFile(fs, annotationPath(testRoot, s.id),
			[]byte(vocXML(s.width, s.height, s.objects...)), 0644))
		require.NoError(t, afero.WriteFile(fs, imagePath(testRoot, s.id),
			jpegBytes(t, s.width, s.height), 0644))
	}
	require.NoError(t, afero.WriteFile(fs, manifestPath(testRoot, split), []byte(manifest.String()), 0644))
}

// standardSamples are "0001" with one car, and "0002" with only a difficult object.
func standardSamples() []testSample {
	return []testSample{
		{id: "0002", width: 80, height: 60, objects: []testObject{
			{name: "dog", difficult: 1, box: Box{1, 2, 30, 40}},
		}},
		{id: "0001", width: 100, height: 100, objects: []testObject{
			{name: "car", difficult: 0, box: Box{10, 20, 30, 40}},
		}},
	}
}

func newTestDataset(t *testing.T, transform Transform, samples ...testSample) (*Dataset, afero.Fs) {
	fs := afero.NewMemMapFs()
	writeVOC(t, fs, "train", samples...)
	ds, err := New(testRoot, "train", Options{Transform: transform, Log: logs.NewTestingLog(t), Fs: fs})
	require.NoError(t, err)
	return ds, fs
}

func mustParseNode(t *testing.T, xml string) Node {
	tag, v, err := ParseXMLTree(strings.NewReader(xml))
	require.NoError(t, err)
	require.Equal(t, annotationRootTag, tag)
	node, ok := v.(Node)
	require.True(t, ok)
	return node
}

func readString(t *testing.T, fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, filepath.Clean(path))
	require.NoError(t, err)
	return string(data)
}

// withOrientation inserts an EXIF APP1 segment with the given orientation tag after the SOI marker
// of a JPEG.
func withOrientation(t *testing.T, data []byte, orientation uint16) []byte {
	require.True(t, bytes.HasPrefix(data, []byte{0xff, 0xd8}))
	tiff := []byte{
		'M', 'M', 0x00, 0x2a, 0x00, 0x00, 0x00, 0x08, // Big endian header, IFD at offset 8.
		0x00, 0x01, // One entry.
		0x01, 0x12, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01, // Orientation, SHORT, count 1.
		byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // No next IFD.
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	size := len(payload) + 2
	segment := append([]byte{0xff, 0xe1, byte(size >> 8), byte(size)}, payload...)

	out := append([]byte{0xff, 0xd8}, segment...)
	return append(out, data[2:]...)
}
