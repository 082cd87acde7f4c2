package vocdata

import (
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// imagePath returns <root>/JPEGImages/<id>.jpg.
func imagePath(root, id string) string {
	return filepath.Join(root, "JPEGImages", id+".jpg")
}

// loadImage reads and decodes the image at path and returns it as opaque RGB. The pixels are kept in
// file order: EXIF orientation is not applied, since annotations refer to the stored pixels.
func loadImage(fs afero.Fs, path string) (img *image.NRGBA, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read image %q", path)
	}
	defer closeWithErrCheck(f, &err)

	decoded, err := imaging.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode image %q", path)
	}
	return toRGB(decoded), nil
}

// toRGB copies img into an NRGBA image with every pixel fully opaque. Color channels are kept as
// they are, alpha is dropped rather than blended.
func toRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// decodeImageConfig opens the file at path and returns the results of image.DecodeConfig.
func decodeImageConfig(fs afero.Fs, path string) (config image.Config, format string, err error) {
	f, err := fs.Open(path)
	if err != nil {
		return image.Config{}, "", err
	}
	defer closeWithErrCheck(f, &err)

	return image.DecodeConfig(f)
}
