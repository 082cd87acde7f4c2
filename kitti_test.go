package vocdata

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestWriteKitti(t *testing.T) {
	ds, fs := newTestDataset(t, nil, standardSamples()...)
	require.NoError(t, fs.MkdirAll("/out", 0755))

	data := ToKitti(ds)
	require.Len(t, data, 2)
	require.Equal(t, "0001", data[0].ID)
	require.Equal(t, []KITTIAnnotation{{Coords: [4]float64{10, 20, 30, 40}, Label: "car"}}, data[0].Annotations)

	require.NoError(t, WriteKitti(fs, "/out", data))
	require.Equal(t,
		"car 0.0 0 0.0 10.00 20.00 30.00 40.00 0.0 0.0 0.0 0.0 0.0 0.0 0.0\n",
		readString(t, fs, "/out/0001.txt"))
	require.Equal(t, "", readString(t, fs, "/out/0002.txt"))
}

func TestWriteKittiMissingDir(t *testing.T) {
	ds, _ := newTestDataset(t, nil, standardSamples()...)
	require.Error(t, WriteKitti(afero.NewMemMapFs(), "/nowhere", ToKitti(ds)))
}
