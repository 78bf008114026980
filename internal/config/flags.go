package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/vertex-ao/internal/bake"
)

// Flags holds CLI overrides registered on a FlagSet.
// Only flags given on the command line override the config, so zero values
// such as -range 0 are honored.
type Flags struct {
	Config     *string
	Debug      *bool
	LogFile    *string
	Samples    *int
	MaxRange   *float64
	Intensity  *float64
	NormalMode *string
	Smooth     *bool
	Seed       *uint64
	Workers    *int

	fs *flag.FlagSet
}

// RegisterFlags adds the shared baker flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Config:     fs.String("config", "", "Path to config file"),
		Debug:      fs.Bool("debug", false, "Enable debug logging"),
		LogFile:    fs.String("log", "", "Write logs to this file as well"),
		Samples:    fs.Int("samples", 0, "Sample directions per run (0 or less uses the default)"),
		MaxRange:   fs.Float64("range", 0, "Maximum ray range (0 leaves every vertex lit)"),
		Intensity:  fs.Float64("intensity", 0, "Occlusion intensity multiplier"),
		NormalMode: fs.String("normals", "", "Normal averaging: none, naive, visibility"),
		Smooth:     fs.Bool("smooth", false, "Smooth occlusion across triangles"),
		Seed:       fs.Uint64("seed", 0, "Sample direction seed (0 seeds from the clock)"),
		Workers:    fs.Int("workers", 0, "Parallel sampling workers per mesh"),
		fs:         fs,
	}
}

// set returns the names of flags given on the command line.
func (f *Flags) set() map[string]bool {
	set := make(map[string]bool)
	if f.fs != nil {
		f.fs.Visit(func(fl *flag.Flag) {
			set[fl.Name] = true
		})
	}
	return set
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	set := f.set()
	if set["debug"] && *f.Debug {
		cfg.Logging.Level = "debug"
	}
	if set["log"] {
		cfg.Logging.LogFile = *f.LogFile
	}
	if set["samples"] {
		cfg.Bake.Samples = *f.Samples
	}
	if set["range"] {
		cfg.Bake.MaxRange = float32(*f.MaxRange)
	}
	if set["intensity"] {
		cfg.Bake.Intensity = float32(*f.Intensity)
	}
	if set["normals"] {
		mode, err := bake.ParseNormalMode(*f.NormalMode)
		if err != nil {
			return fmt.Errorf("-normals: %w", err)
		}
		cfg.Bake.NormalMode = mode
	}
	if set["smooth"] {
		cfg.Bake.SmoothTriangles = *f.Smooth
	}
	if set["seed"] {
		cfg.Bake.Seed = *f.Seed
	}
	if set["workers"] {
		cfg.Bake.Workers = *f.Workers
	}
	return nil
}
