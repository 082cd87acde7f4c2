package vocdata

import (
	"image"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestResizeSize(t *testing.T) {
	cases := []struct {
		r            Resize
		w, h         int
		wantW, wantH int
	}{
		{Resize{MinSize: 50}, 100, 100, 50, 50},
		{Resize{MinSize: 50}, 200, 100, 100, 50},
		{Resize{MinSize: 50}, 100, 300, 50, 150},
		{Resize{MinSize: 50, MaxSize: 80}, 200, 100, 80, 40},
		{Resize{MinSize: 800, MaxSize: 1333}, 500, 375, 1066, 800},
		{Resize{MinSize: 100}, 100, 300, 100, 300},
	}
	for _, c := range cases {
		w, h := c.r.size(c.w, c.h)
		require.Equal(t, c.wantW, w, "%+v %dx%d", c.r, c.w, c.h)
		require.Equal(t, c.wantH, h, "%+v %dx%d", c.r, c.w, c.h)
	}
}

func TestResizeApply(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	target, err := NewBoxList([][4]float32{{20, 10, 40, 30}}, 200, 100, ModeXYXY)
	require.NoError(t, err)

	outImg, outTarget, err := Resize{MinSize: 50}.Apply(img, target)
	require.NoError(t, err)
	require.Equal(t, 100, outImg.Bounds().Dx())
	require.Equal(t, 50, outImg.Bounds().Dy())
	require.Equal(t, 100, outTarget.Width)
	require.Equal(t, 50, outTarget.Height)
	require.Equal(t, [][4]float32{{10, 5, 20, 15}}, outTarget.Boxes)
}

func TestRandomHorizontalFlip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 10))
	target, err := NewBoxList([][4]float32{{0, 0, 9, 9}}, 100, 10, ModeXYXY)
	require.NoError(t, err)

	_, never, err := RandomHorizontalFlip{Prob: 0, Rand: rand.New(rand.NewSource(1))}.Apply(img, target)
	require.NoError(t, err)
	require.Same(t, target, never)

	outImg, always, err := RandomHorizontalFlip{Prob: 1, Rand: rand.New(rand.NewSource(1))}.Apply(img, target)
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), outImg.Bounds())
	require.Equal(t, [][4]float32{{90, 0, 99, 9}}, always.Boxes)
}

func TestCompose(t *testing.T) {
	var order []string
	step := func(name string) Transform {
		return TransformFunc(func(img image.Image, target *BoxList) (image.Image, *BoxList, error) {
			order = append(order, name)
			return img, target, nil
		})
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	target, err := NewBoxList(nil, 4, 4, ModeXYXY)
	require.NoError(t, err)

	_, _, err = Compose(step("a"), nil, step("b")).Apply(img, target)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, order)

	fail := TransformFunc(func(image.Image, *BoxList) (image.Image, *BoxList, error) {
		return nil, nil, errors.New("boom")
	})
	order = nil
	_, _, err = Compose(fail, step("c")).Apply(img, target)
	require.Error(t, err)
	require.Empty(t, order)
}
