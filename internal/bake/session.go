package bake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vertex-ao/internal/scene"
)

// ErrNoPhysics is returned when a session is created without a collision
// backend.
var ErrNoPhysics = errors.New("bake: no physics backend")

// Progress reports how far a job has come. Mesh is the unit just finished.
type Progress struct {
	Done  int
	Total int
	Mesh  string
}

// Report summarizes a job.
type Report struct {
	Meshes     int // mesh nodes found under the roots
	Skipped    int // already had vertex colors
	Degenerate int // no vertices, no triangles or invalid arrays
	Baked      int
	Vertices   int64
	Rays       int64
	Duration   time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithProgress registers a callback invoked after every baked mesh.
func WithProgress(fn func(Progress)) Option {
	return func(s *Session) {
		s.onProgress = fn
	}
}

// Session owns everything one caller needs to bake: settings, the collision
// backend and hooks. Sessions share no state, so several may run at once.
type Session struct {
	physics    Physics
	settings   Settings
	log        *zap.Logger
	onProgress func(Progress)
}

// NewSession creates a bake session.
func NewSession(physics Physics, settings Settings, opts ...Option) (*Session, error) {
	if physics == nil {
		return nil, ErrNoPhysics
	}
	s := &Session{
		physics:  physics,
		settings: settings.normalized(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Settings returns the effective settings.
func (s *Session) Settings() Settings {
	return s.settings
}

// Job is a queue of per-mesh bake units built by Plan.
type Job struct {
	session *Session
	units   []*MeshInfo
	next    int
	report  Report
	started time.Time

	sampler   *Sampler
	clusterer *Clusterer
}

// Plan collects every mesh under roots, drops already-baked and degenerate
// ones, gathers the rest and links neighbors across the whole batch. No
// colors are written until Next is called.
func (s *Session) Plan(roots ...*scene.Node) *Job {
	job := &Job{session: s, started: time.Now()}
	nodes := scene.Collect(roots...)
	job.report.Meshes = len(nodes)

	for _, mn := range nodes {
		mesh := mn.Node.Mesh
		if mesh.HasColors() {
			job.report.Skipped++
			s.log.Debug("skipping baked mesh", zap.String("mesh", mn.Path))
			continue
		}
		if err := mesh.Validate(); err != nil {
			job.report.Degenerate++
			s.log.Warn("skipping invalid mesh", zap.String("mesh", mn.Path), zap.Error(err))
			continue
		}
		info := Gather(len(job.units), mn, s.settings.NormalMode)
		if info.Empty() {
			job.report.Degenerate++
			s.log.Debug("skipping empty mesh", zap.String("mesh", mn.Path))
			continue
		}
		job.units = append(job.units, info)
	}
	FindNeighbors(job.units)

	dirs := SampleDirections(s.settings.Samples, s.settings.Seed)
	job.sampler = NewSampler(s.physics, dirs, s.settings)
	job.clusterer = NewClusterer(s.physics, s.settings)

	s.log.Info("bake planned",
		zap.Int("meshes", job.report.Meshes),
		zap.Int("queued", len(job.units)),
		zap.Int("skipped", job.report.Skipped),
		zap.Int("degenerate", job.report.Degenerate),
		zap.Int("samples", len(dirs)),
		zap.Stringer("normal_mode", s.settings.NormalMode),
	)
	return job
}

// Progress returns units done out of units queued.
func (j *Job) Progress() Progress {
	p := Progress{Done: j.next, Total: len(j.units)}
	if j.next > 0 {
		p.Mesh = j.units[j.next-1].Path
	}
	return p
}

// Report returns the summary so far.
func (j *Job) Report() Report {
	r := j.report
	r.Duration = time.Since(j.started)
	return r
}

// Done reports whether every unit has been baked.
func (j *Job) Done() bool {
	return j.next >= len(j.units)
}

// Next bakes exactly one mesh and commits its colors. It returns false once
// the queue is empty. Cancellation is only observed here, before a unit
// starts; colors committed by earlier calls stay in place.
func (j *Job) Next(ctx context.Context) (bool, error) {
	if j.Done() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info := j.units[j.next]
	colors, rays := j.bakeUnit(info)
	info.Mesh.SetColors(colors)

	j.next++
	j.report.Baked++
	j.report.Vertices += int64(len(info.Positions))
	j.report.Rays += rays

	j.session.log.Debug("baked mesh",
		zap.String("mesh", info.Path),
		zap.Int("vertices", len(info.Positions)),
		zap.Int("neighbors", len(info.Neighbors)),
		zap.Int64("rays", rays),
		zap.Int("done", j.next),
		zap.Int("total", len(j.units)),
	)
	if fn := j.session.onProgress; fn != nil {
		fn(j.Progress())
	}
	return !j.Done(), nil
}

// bakeUnit computes the colors for one mesh. It reads the mesh and its
// neighbors and writes only info.Averaged.
func (j *Job) bakeUnit(info *MeshInfo) ([]scene.Color, int64) {
	switch j.session.settings.NormalMode {
	case NormalNaive:
		AverageWeldNormals(info)
	case NormalVisibility:
		j.clusterer.Average(info)
	}
	occ, rays := j.sampler.Occlusion(info)
	return Colors(info.Mesh, occ, j.session.settings), rays
}

// Bake plans and runs a job to completion. On cancellation it returns the
// partial report together with the context error.
func (s *Session) Bake(ctx context.Context, roots ...*scene.Node) (Report, error) {
	job := s.Plan(roots...)
	for {
		more, err := job.Next(ctx)
		if err != nil {
			report := job.Report()
			s.log.Warn("bake cancelled",
				zap.Int("baked", report.Baked),
				zap.Int("remaining", len(job.units)-report.Baked),
				zap.Error(err),
			)
			return report, fmt.Errorf("baking: %w", err)
		}
		if !more {
			break
		}
	}

	report := job.Report()
	s.log.Info("bake finished",
		zap.Int("baked", report.Baked),
		zap.Int("skipped", report.Skipped),
		zap.Int("degenerate", report.Degenerate),
		zap.Int64("vertices", report.Vertices),
		zap.Int64("rays", report.Rays),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
