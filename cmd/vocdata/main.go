// Inspects PASCAL VOC dataset splits and exports them as TFRecord or KITTI labels.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/sensorable/vocdata"
)

// datasetArgs are the arguments shared by all commands.
type datasetArgs struct {
	config *string
	root   *string
	split  *string
}

func addDatasetArgs(cmd *argparse.Command) datasetArgs {
	return datasetArgs{
		config: cmd.String("c", "config", &argparse.Options{Help: "YAML configuration file"}),
		root:   cmd.String("r", "root", &argparse.Options{Help: "Dataset root directory, containing Annotations, ImageSets and JPEGImages"}),
		split:  cmd.String("s", "split", &argparse.Options{Help: "Split name, e.g. train, val or trainval"}),
	}
}

// loadConfig reads the config file if one was given, and applies the command line overrides.
func (a datasetArgs) loadConfig(fs afero.Fs) (vocdata.Config, error) {
	cfg := vocdata.DefaultConfig()
	if *a.config != "" {
		var err error
		if cfg, err = vocdata.LoadConfig(fs, *a.config); err != nil {
			return cfg, err
		}
	}
	if *a.root != "" {
		cfg.Root = *a.root
	}
	if *a.split != "" {
		cfg.Split = *a.split
	}
	if cfg.Root == "" {
		return cfg, errors.New("missing dataset root, use -r or set root in the config file")
	}
	cfg.Root = filepath.Clean(cfg.Root)
	return cfg, nil
}

func main() {
	logger, err := logs.NewLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	parser := argparse.NewParser("vocdata", "Inspect and export PASCAL VOC datasets")

	statsCmd := parser.NewCommand("stats", "Load every sample of a split and print per class object counts")
	statsArgs := addDatasetArgs(statsCmd)

	exportCmd := parser.NewCommand("export", "Export the annotations of a split")
	exportArgs := addDatasetArgs(exportCmd)
	format := exportCmd.Selector("f", "format", []string{"tfrecord", "kitti"}, &argparse.Options{Help: "Output format"})
	out := exportCmd.String("o", "out", &argparse.Options{Help: "Output TFRecord file (tfrecord) or directory (kitti)"})
	labelMap := exportCmd.String("l", "label-map", &argparse.Options{Help: "Output label map file (tfrecord only)"})
	shards := exportCmd.Int("n", "shards", &argparse.Options{Help: "Number of TFRecord shard files", Default: 0})

	if err := parser.Parse(os.Args); err != nil {
		logger.Errorf("%v", parser.Usage(err))
		os.Exit(1)
	}

	fs := afero.NewOsFs()
	switch {
	case statsCmd.Happened():
		err = runStats(logger, fs, statsArgs)
	case exportCmd.Happened():
		err = runExport(logger, fs, exportArgs, *format, *out, *labelMap, *shards)
	}
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func runStats(logger logs.Log, fs afero.Fs, args datasetArgs) error {
	cfg, err := args.loadConfig(fs)
	if err != nil {
		return err
	}

	ds, err := vocdata.New(cfg.Root, cfg.Split, vocdata.Options{
		Transform: cfg.Transform.BuildTransform(),
		Log:       logger,
		Fs:        fs,
	})
	if err != nil {
		return errors.WithMessage(err, "failed to load the dataset")
	}

	classIDs := ds.ContiguousIDs()
	counts := make([]int, vocdata.NumClasses+1)
	total := 0
	for i := 0; i < ds.Len(); i++ {
		sample, err := ds.Get(i)
		if err != nil {
			return err
		}
		for _, id := range sample.Target.Labels() {
			counts[id]++
			total++
		}
	}

	for id := 1; id <= vocdata.NumClasses; id++ {
		fmt.Printf("%3d %-12s %8d\n", id, classIDs.ClassName(id), counts[id])
	}
	fmt.Printf("    %-12s %8d\n", "total", total)
	logger.Infof("%d samples, %d boxes dropped by clipping", ds.Len(), ds.DroppedBoxes())
	return nil
}

func runExport(logger logs.Log, fs afero.Fs, args datasetArgs, format, out, labelMap string,
	shards int) error {

	cfg, err := args.loadConfig(fs)
	if err != nil {
		return err
	}
	if cfg, err = applyExportFlags(cfg, format, out, labelMap, shards); err != nil {
		return err
	}

	ds, err := vocdata.New(cfg.Root, cfg.Split, vocdata.Options{Log: logger, Fs: fs})
	if err != nil {
		return errors.WithMessage(err, "failed to load the dataset")
	}

	switch cfg.Export.Format {
	case "kitti":
		if err := vocdata.WriteKitti(fs, cfg.Export.Out, vocdata.ToKitti(ds)); err != nil {
			return errors.WithMessage(err, "conversion failed")
		}
	default:
		err := vocdata.WriteTFRecord(ds, fs, cfg.Export.Out, cfg.Export.LabelMap, cfg.Export.Shards)
		if err != nil {
			return errors.WithMessage(err, "conversion failed")
		}
	}

	logger.Infof("Successfully wrote labels for %d samples to %s", ds.Len(), cfg.Export.Out)
	return nil
}

// applyExportFlags overrides the export settings of cfg with the command line values that were set,
// and checks that the result describes a complete export.
func applyExportFlags(cfg vocdata.Config, format, out, labelMap string, shards int) (vocdata.Config,
	error) {

	if format != "" {
		cfg.Export.Format = format
	}
	if out != "" {
		cfg.Export.Out = out
	}
	if labelMap != "" {
		cfg.Export.LabelMap = labelMap
	}
	if shards > 0 {
		cfg.Export.Shards = shards
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	if cfg.Export.Out == "" {
		return cfg, errors.New("missing output path, use -o or set export.out in the config file")
	}
	if cfg.Export.Format != "kitti" && cfg.Export.LabelMap == "" {
		return cfg, errors.New("missing label map path, use -l or set export.label_map in the config file")
	}
	return cfg, nil
}
