package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esgscope/esgscope/pkg/config"
	"github.com/esgscope/esgscope/pkg/esg"
	"github.com/esgscope/esgscope/pkg/scoring"
)

func initLogger(level string) error {
	return config.InitLogger(config.LogConfig{Level: level, Format: "console"})
}

// loadConfig reads the explicit config file, or the nearest
// .esgscope/config.yaml above the working directory.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return config.DefaultConfig(), nil
		}
		path = config.FindConfigFile(wd)
		if path == "" {
			return config.DefaultConfig(), nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("loaded config", zap.String("path", path))
	return cfg, nil
}

// loadEngine builds the scoring engine from the configured weights.
func loadEngine(configPath string) (*scoring.Engine, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	w, err := cfg.ScoringWeights()
	if err != nil {
		return nil, err
	}
	return scoring.NewDefaultEngine(w), nil
}

// readDocument decodes and normalizes the file at path. sheet selects a
// worksheet for .xlsx input.
func readDocument(path, sheet string) (*esg.Document, error) {
	format, err := esg.FormatFromPath(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading %s", path)
	}

	var raw map[string]any
	if format == esg.FormatXLSX && sheet != "" {
		raw, err = esg.ReadXLSX(path, esg.XLSXOptions{SheetName: sheet, SkipRows: 1})
	} else {
		raw, err = esg.ReadRaw(path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "reading %s", path)
	}
	return esg.Normalize(raw), nil
}

// logDegraded warns about every pillar that could not be scored and every
// component zeroed by non-numeric input.
func logDegraded(source string, res *scoring.Result) {
	for _, p := range res.Pillars {
		if p.Error != "" {
			zap.L().Warn("pillar not scored",
				zap.String("source", source),
				zap.String("pillar", p.Pillar),
				zap.String("error", p.Error),
			)
		}
	}
	for _, mr := range res.InvalidComponents() {
		zap.L().Warn("component not scored",
			zap.String("source", source),
			zap.String("component", mr.Key),
			zap.String("detail", mr.Evidence[0].Summary),
		)
	}
}

// displayName is the file name without directory or extension.
func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
