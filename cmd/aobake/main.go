// aobake is a CLI for baking per-vertex ambient occlusion into scene files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vertex-ao/internal/bake"
	"github.com/Faultbox/vertex-ao/internal/config"
	"github.com/Faultbox/vertex-ao/internal/logger"
	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
	"github.com/Faultbox/vertex-ao/internal/watch"
	"github.com/Faultbox/vertex-ao/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "bake":
		err = cmdBake(args)
	case "clear":
		err = cmdClear(args)
	case "info":
		err = cmdInfo(args)
	case "watch":
		err = cmdWatch(args)
	case "init":
		err = cmdInit(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`aobake - vertex ambient occlusion baker

Usage:
  aobake <command> [options] <scene.yaml>

Commands:
  bake  <scene.yaml>   Bake occlusion into every mesh without vertex colors
  clear <scene.yaml>   Remove vertex colors so the next bake redoes them
  info  <scene.yaml>   List meshes and their bake state
  watch <scene.yaml>   Rebake whenever the file changes
  init  <scene.yaml>   Write a small example scene
  config               Write the effective config (defaults, file, flags)

Options (bake, watch, config):
  -o <file>            Write the result here instead of overwriting the input;
                       for config, the file to write (default user config dir)
  -config <file>       Config file (default ./aobake.yaml or user config dir)
  -samples, -range, -intensity, -normals, -smooth, -seed, -workers
                       Override bake settings

Examples:
  aobake init room.yaml
  aobake bake -normals visibility -samples 128 room.yaml
  aobake watch -o baked.yaml room.yaml
  aobake config -samples 256 -o aobake.yaml`)
}

// bakeFlags is the flag set shared by bake and watch.
type bakeFlags struct {
	fs     *flag.FlagSet
	cfg    *config.Flags
	output *string
}

func newBakeFlags(name string) *bakeFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &bakeFlags{
		fs:     fs,
		cfg:    config.RegisterFlags(fs),
		output: fs.String("o", "", "Output scene file"),
	}
}

// setup parses args, loads config and starts logging. It returns the scene
// path, the output path and the config.
func (b *bakeFlags) setup(args []string) (string, string, *config.Config, error) {
	b.fs.Parse(args)
	if b.fs.NArg() < 1 {
		return "", "", nil, fmt.Errorf("usage: aobake %s [options] <scene.yaml>", b.fs.Name())
	}

	cfg, err := config.Load(*b.cfg.Config, b.cfg)
	if err != nil {
		return "", "", nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return "", "", nil, err
	}

	logger.Debug("config loaded", zap.String("path", *b.cfg.Config), zap.String("level", cfg.Logging.Level))

	input := b.fs.Arg(0)
	output := *b.output
	if output == "" {
		output = input
	}
	return input, output, cfg, nil
}

func cmdBake(args []string) error {
	input, output, cfg, err := newBakeFlags("bake").setup(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := bakeFile(ctx, input, output, cfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("bake interrupted, finished meshes were saved",
			zap.Int("baked", report.Baked), zap.String("output", output))
	}
	fmt.Printf("Baked %d of %d meshes (%d skipped, %d degenerate), %d rays in %s\n",
		report.Baked, report.Meshes, report.Skipped, report.Degenerate, report.Rays, report.Duration.Round(time.Millisecond))
	return err
}

// bakeFile loads, bakes and saves one scene. On cancellation the meshes
// finished so far are still written.
func bakeFile(ctx context.Context, input, output string, cfg *config.Config) (bake.Report, error) {
	roots, err := scene.Load(input)
	if err != nil {
		return bake.Report{}, err
	}

	log := logger.Named("bake")
	world := picking.NewWorld(roots...)
	session, err := bake.NewSession(world, cfg.Bake,
		bake.WithLogger(log),
		bake.WithProgress(func(p bake.Progress) {
			log.Info("mesh done", zap.Int("done", p.Done), zap.Int("total", p.Total), zap.String("mesh", p.Mesh))
		}),
	)
	if err != nil {
		return bake.Report{}, err
	}

	eff := session.Settings()
	log.Debug("bake settings",
		zap.String("scene", input),
		zap.Int("colliders", world.ColliderCount()),
		zap.Int("samples", eff.Samples),
		zap.Float32("max_range", eff.MaxRange),
		zap.Stringer("normal_mode", eff.NormalMode),
		zap.Uint64("seed", eff.Seed),
		zap.Int("workers", eff.Workers),
	)

	report, bakeErr := session.Bake(ctx, roots...)
	if report.Baked > 0 {
		if err := scene.Save(output, roots); err != nil {
			return report, fmt.Errorf("saving %s: %w", output, err)
		}
		log.Info("scene written", zap.String("path", output))
	}
	return report, bakeErr
}

func cmdClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	output := fs.String("o", "", "Output scene file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: aobake clear [-o out.yaml] <scene.yaml>")
	}
	input := fs.Arg(0)
	if *output == "" {
		*output = input
	}

	roots, err := scene.Load(input)
	if err != nil {
		return err
	}
	cleared := scene.ClearColors(roots...)
	if err := scene.Save(*output, roots); err != nil {
		return err
	}
	fmt.Printf("Cleared colors on %d meshes\n", cleared)
	return nil
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: aobake info <scene.yaml>")
	}

	roots, err := scene.Load(args[0])
	if err != nil {
		return err
	}

	nodes := scene.Collect(roots...)
	baked := 0
	fmt.Printf("Scene:     %s\n", args[0])
	fmt.Printf("Meshes:    %d\n", len(nodes))
	fmt.Printf("Colliders: %d\n\n", picking.NewWorld(roots...).ColliderCount())
	for _, mn := range nodes {
		m := mn.Node.Mesh
		state := "pending"
		if m.HasColors() {
			state = "baked"
			baked++
		}
		collider := ""
		if mn.Node.Collider {
			collider = fmt.Sprintf(" collider(layer %d)", mn.Node.Layer)
		}
		fmt.Printf("  %-32s %6d verts %6d tris  %-7s%s\n", mn.Path, m.VertexCount(), m.TriangleCount(), state, collider)
	}
	fmt.Printf("\n%d baked, %d pending\n", baked, len(nodes)-baked)
	return nil
}

func cmdWatch(args []string) error {
	input, output, cfg, err := newBakeFlags("watch").setup(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := watch.New(cfg.Watch.Debounce, input)
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Sugar.Infof("watching %s, writing to %s", input, output)

	// Bake once up front; an output equal to the input settles after one
	// round because baked meshes are skipped.
	if _, err := bakeFile(ctx, input, output, cfg); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bake failed", zap.String("scene", input), zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			report, err := bakeFile(ctx, path, output, cfg)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.Error("bake failed", zap.String("scene", path), zap.Error(err))
				continue
			}
			logger.Info("rebaked", zap.String("scene", path), zap.Int("baked", report.Baked))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

func cmdInit(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: aobake init <scene.yaml>")
	}

	floor := &scene.Node{
		Name:      "floor",
		Transform: scene.Identity(),
		Mesh:      scene.NewQuad("floor", 4, 4),
		Collider:  true,
	}
	crate := &scene.Node{
		Name:      "crate",
		Transform: scene.Transform{Position: math.Vec3{Y: 0.5}, Rotation: math.QuatFromEuler(math.Vec3{Y: 30}), Scale: math.One},
		Mesh:      scene.NewBox("crate", math.One),
		Collider:  true,
	}
	floor.AddChild(&scene.Node{
		Name:      "pillar",
		Transform: scene.Transform{Position: math.Vec3{X: 1.2, Y: 1, Z: -1}, Rotation: math.QuatIdentity(), Scale: math.One},
		Mesh:      scene.NewBox("pillar", math.Vec3{X: 0.4, Y: 2, Z: 0.4}),
		Collider:  true,
	})

	if err := scene.Save(args[0], []*scene.Node{floor, crate}); err != nil {
		return err
	}
	fmt.Printf("Wrote example scene to %s\n", args[0])
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	output := fs.String("o", "", "Config file to write (default user config dir)")
	fs.Parse(args)

	cfg, err := config.Load(*flags.Config, flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}

	path := *output
	if path == "" {
		path = filepath.Join(config.ConfigDir(), "config.yaml")
		err = cfg.Save()
	} else {
		err = cfg.SaveTo(path)
	}
	if err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	logger.Info("config written", zap.String("path", path))
	fmt.Printf("Wrote config to %s\n", path)
	return nil
}
