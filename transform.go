package vocdata

// Joint image and target transforms.

import (
	"image"
	"math"
	"math/rand"

	"github.com/disintegration/imaging"
)

// Transform changes an image and its target together, keeping them consistent.
type Transform interface {
	Apply(img image.Image, target *BoxList) (image.Image, *BoxList, error)
}

// TransformFunc adapts a function to a Transform.
type TransformFunc func(img image.Image, target *BoxList) (image.Image, *BoxList, error)

// Apply calls f.
func (f TransformFunc) Apply(img image.Image, target *BoxList) (image.Image, *BoxList, error) {
	return f(img, target)
}

// Compose chains transforms, applied in order. Nil entries are skipped.
func Compose(transforms ...Transform) Transform {
	return TransformFunc(func(img image.Image, target *BoxList) (image.Image, *BoxList, error) {
		var err error
		for _, t := range transforms {
			if t == nil {
				continue
			}
			if img, target, err = t.Apply(img, target); err != nil {
				return nil, nil, err
			}
		}
		return img, target, nil
	})
}

// Resize scales images so that the shorter side is MinSize, unless that would make the longer side
// exceed MaxSize, in which case the longer side becomes MaxSize. A MaxSize of zero disables the
// limit.
type Resize struct {
	MinSize int
	MaxSize int
	Filter  *imaging.ResampleFilter // Defaults to imaging.Linear.
}

// size returns the output dimensions for an input of w x h.
func (r Resize) size(w, h int) (int, int) {
	size := float64(r.MinSize)
	if r.MaxSize > 0 {
		minOrig := float64(min(w, h))
		maxOrig := float64(max(w, h))
		if maxOrig/minOrig*size > float64(r.MaxSize) {
			size = math.Round(float64(r.MaxSize) * minOrig / maxOrig)
		}
	}

	s := int(size)
	if (w <= h && w == s) || (h <= w && h == s) {
		return w, h
	}
	if w < h {
		return s, int(size * float64(h) / float64(w))
	}
	return int(size * float64(w) / float64(h)), s
}

// Apply implements Transform.
func (r Resize) Apply(img image.Image, target *BoxList) (image.Image, *BoxList, error) {
	b := img.Bounds()
	w, h := r.size(b.Dx(), b.Dy())
	if w == b.Dx() && h == b.Dy() {
		return img, target, nil
	}

	filter := imaging.Linear
	if r.Filter != nil {
		filter = *r.Filter
	}
	resized := imaging.Resize(img, w, h, filter)
	return resized, target.Resize(w, h), nil
}

// RandomHorizontalFlip mirrors the image and target with probability Prob.
type RandomHorizontalFlip struct {
	Prob float64
	// Rand defaults to the math/rand global source. A *rand.Rand is not safe for concurrent use, so
	// a transform with its own Rand must not be shared by parallel Get calls.
	Rand *rand.Rand
}

// Apply implements Transform.
func (f RandomHorizontalFlip) Apply(img image.Image, target *BoxList) (image.Image, *BoxList, error) {
	var p float64
	if f.Rand != nil {
		p = f.Rand.Float64()
	} else {
		p = rand.Float64()
	}
	if p >= f.Prob {
		return img, target, nil
	}
	return imaging.FlipH(img), target.FlipLeftRight(), nil
}
