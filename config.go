package vocdata

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of the vocdata command.
type Config struct {
	Root      string          `yaml:"root"`
	Split     string          `yaml:"split"`
	Transform TransformConfig `yaml:"transform"`
	Export    ExportConfig    `yaml:"export"`
}

// TransformConfig selects the transforms applied by Dataset.Get. Zero values disable a transform.
type TransformConfig struct {
	MinSize  int     `yaml:"min_size"`
	MaxSize  int     `yaml:"max_size"`
	FlipProb float64 `yaml:"flip_prob"`
}

// ExportConfig describes a dataset export.
type ExportConfig struct {
	Format   string `yaml:"format"` // "tfrecord" or "kitti"
	Out      string `yaml:"out"`
	LabelMap string `yaml:"label_map"`
	Shards   int    `yaml:"shards"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Split:  "trainval",
		Export: ExportConfig{Format: "tfrecord", Shards: 1},
	}
}

// LoadConfig reads the YAML file at path. Fields missing from the file keep their DefaultConfig
// values.
func LoadConfig(fs afero.Fs, path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := readFile(fs, path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessagef(err, "invalid config %q", path)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	t := c.Transform
	if t.MinSize < 0 || t.MaxSize < 0 {
		return errors.Errorf("transform sizes must not be negative: min %d, max %d", t.MinSize, t.MaxSize)
	}
	if t.MaxSize > 0 && t.MinSize == 0 {
		return errors.New("transform.max_size requires transform.min_size")
	}
	if t.FlipProb < 0 || t.FlipProb > 1 {
		return errors.Errorf("transform.flip_prob must be in [0, 1], got %v", t.FlipProb)
	}
	switch c.Export.Format {
	case "", "tfrecord", "kitti":
	default:
		return errors.Errorf("unsupported export format %q", c.Export.Format)
	}
	if c.Export.Shards < 0 {
		return errors.Errorf("export.shards must not be negative, got %d", c.Export.Shards)
	}
	return nil
}

// BuildTransform returns the configured transform pipeline, or nil if no transform is enabled.
func (t TransformConfig) BuildTransform() Transform {
	var transforms []Transform
	if t.MinSize > 0 {
		transforms = append(transforms, Resize{MinSize: t.MinSize, MaxSize: t.MaxSize})
	}
	if t.FlipProb > 0 {
		transforms = append(transforms, RandomHorizontalFlip{Prob: t.FlipProb})
	}

	switch len(transforms) {
	case 0:
		return nil
	case 1:
		return transforms[0]
	}
	return Compose(transforms...)
}
