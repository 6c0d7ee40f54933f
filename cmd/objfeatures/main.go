// Package main is the objfeatures command: it computes per-object morphometric
// features from an intensity image and a matching label image.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/tiff"

	"go.viam.com/morphometry/logging"
	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/vision"
	"go.viam.com/morphometry/vision/extractor"
)

const (
	flagImage  = "image"
	flagLabels = "labels"
	flagConfig = "config"
	flagFormat = "format"
	flagDebug  = "debug"

	formatJSON  = "json"
	formatTable = "table"
)

func main() {
	var logger logging.Logger

	app := &cli.App{
		Name:  "objfeatures",
		Usage: "compute per-object features from an intensity image and its label image",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagImage,
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "intensity image `FILE` (png, tiff, jpeg)",
			},
			&cli.StringFlag{
				Name:     flagLabels,
				Aliases:  []string{"l"},
				Required: true,
				Usage:    "label image `FILE` where 0 is background",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Load extractor configuration from JSON `FILE`",
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Value: formatJSON,
				Usage: "output format: json or table",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("objfeatures")
			} else {
				logger = logging.NewLogger("objfeatures")
			}
			logging.ReplaceGlobal(logger)
			return nil
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String(flagConfig))
			if err != nil {
				return err
			}
			x, err := extractor.New(cfg, logger)
			if err != nil {
				return err
			}

			img, err := imaging.Open(c.String(flagImage))
			if err != nil {
				return errors.Wrap(err, "cannot read intensity image")
			}
			labelImg, err := imaging.Open(c.String(flagLabels))
			if err != nil {
				return errors.Wrap(err, "cannot read label image")
			}
			src := rimage.GridFromImage(img)
			labels := labelsFromImage(labelImg)
			if src.Bounds() != labels.Bounds() {
				return errors.Errorf("intensity image is %v but label image is %v", src.Bounds(), labels.Bounds())
			}

			objects := vision.ObjectsFromLabels[uint16](labels)
			logger.Infow("extracting features", "objects", len(objects), "engines", x.EngineNames())
			if err := extractor.Extract[uint16, uint16](c.Context, x, src, labels, objects); err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Warnw("some features could not be computed", "error", err)
			}
			return writeObjects(c.App.Writer, objects, c.String(flagFormat))
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads a JSON attribute file over the default extractor configuration.
func loadConfig(path string) (extractor.Config, error) {
	if path == "" {
		return extractor.DefaultConfig(), nil
	}
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return extractor.Config{}, errors.Wrap(err, "cannot read config")
	}
	var attrs map[string]interface{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return extractor.Config{}, errors.Wrapf(err, "cannot parse config %q", path)
	}
	return extractor.ConfigFromAttributes(attrs)
}
