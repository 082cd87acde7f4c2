package vocdata

// KITTI label export.

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// KITTIAnnotation is a single annotation within a KITTI file.
type KITTIAnnotation struct {
	Coords [4]float64 // x1, y1, x2, y2
	Label  string
}

// KITTIAnnotatedFile defines the KITTI annotation structure for a single sample.
type KITTIAnnotatedFile struct {
	Annotations []KITTIAnnotation
	ID          string
}

// ToKitti converts the annotation records of d to KITTI annotations, in sample order. Boxes are
// not clipped, since that needs the image size.
func ToKitti(d *Dataset) []KITTIAnnotatedFile {
	kittiData := make([]KITTIAnnotatedFile, 0, d.Len())
	for _, id := range d.ids {
		ann := d.annotations[id]
		kittiFileData := KITTIAnnotatedFile{
			Annotations: make([]KITTIAnnotation, len(ann.Boxes)),
			ID:          id,
		}
		for i, b := range ann.Boxes {
			kittiFileData.Annotations[i] = KITTIAnnotation{
				Coords: [4]float64{float64(b[0]), float64(b[1]), float64(b[2]), float64(b[3])},
				Label:  ClassNames[ann.Labels[i]],
			}
		}
		kittiData = append(kittiData, kittiFileData)
	}

	return kittiData
}

// WriteKitti writes data to dirPath, one <id>.txt file per element.
func WriteKitti(fs afero.Fs, dirPath string, data []KITTIAnnotatedFile) error {
	dirInfo, err := fs.Stat(dirPath)
	if err != nil || !dirInfo.IsDir() {
		return errors.Errorf("cannot access directory %q: %v", dirPath, err)
	}

	for _, fileData := range data {
		if err := writeKittiFile(fs, filepath.Join(dirPath, fileData.ID+".txt"), fileData); err != nil {
			return err
		}
	}

	return nil
}

func writeKittiFile(fs afero.Fs, path string, fileData KITTIAnnotatedFile) (err error) {
	file, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", path)
	}
	defer closeWithErrCheck(file, &err)

	return writeKittiAnnotations(file, fileData.Annotations)
}

// writeKittiAnnotations writes one KITTI line per annotation. Fields other than the label and the
// 2D box are zero.
func writeKittiAnnotations(w io.Writer, annotations []KITTIAnnotation) error {
	for _, a := range annotations {
		_, err := fmt.Fprintf(w,
			"%s 0.0 0 0.0 %.2f %.2f %.2f %.2f 0.0 0.0 0.0 0.0 0.0 0.0 0.0\n",
			a.Label, a.Coords[0], a.Coords[1], a.Coords[2], a.Coords[3])
		if err != nil {
			return err
		}
	}
	return nil
}
