package vocdata

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/voc.yaml", []byte(`
root: /data/VOC2012
split: val
transform:
  min_size: 600
  max_size: 1000
  flip_prob: 0.5
export:
  format: kitti
  out: /data/kitti
`), 0644))

	cfg, err := LoadConfig(fs, "/cfg/voc.yaml")
	require.NoError(t, err)
	require.Equal(t, "/data/VOC2012", cfg.Root)
	require.Equal(t, "val", cfg.Split)
	require.Equal(t, TransformConfig{MinSize: 600, MaxSize: 1000, FlipProb: 0.5}, cfg.Transform)
	require.Equal(t, "kitti", cfg.Export.Format)
	require.Equal(t, "/data/kitti", cfg.Export.Out)
	require.Equal(t, 1, cfg.Export.Shards)
}

func TestLoadConfigDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/voc.yaml", []byte("root: /data\n"), 0644))

	cfg, err := LoadConfig(fs, "/voc.yaml")
	require.NoError(t, err)
	require.Equal(t, "trainval", cfg.Split)
	require.Equal(t, "tfrecord", cfg.Export.Format)
	require.Nil(t, cfg.Transform.BuildTransform())
}

func TestLoadConfigInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	for name, content := range map[string]string{
		"/flip.yaml":   "transform:\n  flip_prob: 2\n",
		"/format.yaml": "export:\n  format: coco\n",
		"/max.yaml":    "transform:\n  max_size: 100\n",
		"/syntax.yaml": "root: [\n",
	} {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0644))
		_, err := LoadConfig(fs, name)
		require.Error(t, err, name)
	}

	_, err := LoadConfig(fs, "/missing.yaml")
	require.Error(t, err)
}

func TestBuildTransform(t *testing.T) {
	resize := TransformConfig{MinSize: 100}.BuildTransform()
	require.Equal(t, Resize{MinSize: 100}, resize)

	flip := TransformConfig{FlipProb: 0.5}.BuildTransform()
	require.Equal(t, RandomHorizontalFlip{Prob: 0.5}, flip)

	both := TransformConfig{MinSize: 100, FlipProb: 0.5}.BuildTransform()
	require.NotNil(t, both)
	_, isResize := both.(Resize)
	require.False(t, isResize)
}
