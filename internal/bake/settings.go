package bake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/vertex-ao/internal/picking"
	"github.com/Faultbox/vertex-ao/internal/scene"
)

// ErrInvalidNormalMode is returned when parsing an unknown normal mode.
var ErrInvalidNormalMode = errors.New("invalid normal mode")

// NormalMode selects which normal the sampler orients its hemisphere on.
type NormalMode int

const (
	// NormalNone uses each vertex's own normal.
	NormalNone NormalMode = iota
	// NormalNaive averages normals over every vertex sharing a weld key.
	NormalNaive
	// NormalVisibility averages only over weld-key vertices that can see
	// each other.
	NormalVisibility
)

var normalModeNames = [...]string{"none", "naive", "visibility"}

func (m NormalMode) String() string {
	if m < 0 || int(m) >= len(normalModeNames) {
		return fmt.Sprintf("NormalMode(%d)", int(m))
	}
	return normalModeNames[m]
}

// ParseNormalMode converts a mode name to a NormalMode.
func ParseNormalMode(s string) (NormalMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return NormalNone, nil
	case "naive", "naiveaverage", "naive_average":
		return NormalNaive, nil
	case "visibility", "visibilityaverage", "visibility_average":
		return NormalVisibility, nil
	}
	return NormalNone, fmt.Errorf("%w: %q", ErrInvalidNormalMode, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m NormalMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *NormalMode) UnmarshalText(text []byte) error {
	mode, err := ParseNormalMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Fixed bake constants.
const (
	// WeldScale quantizes world positions to 1/100 unit for weld keys.
	WeldScale = 100
	// OffsetFraction of MaxRange pushes ray origins off the surface.
	OffsetFraction = 0.05
)

// Settings configures one bake run.
type Settings struct {
	// Samples is the number of sphere directions drawn per run.
	Samples int `yaml:"samples"`
	// MaxRange limits ray length; hits farther away do not occlude.
	MaxRange float32 `yaml:"max_range"`
	// MinHitDistance rejects hits at or below this distance.
	MinHitDistance float32 `yaml:"min_hit_distance"`
	// Intensity scales the summed occlusion.
	Intensity float32 `yaml:"intensity"`
	// ResetAlpha starts every vertex alpha at 1 instead of multiplying into
	// the existing alpha.
	ResetAlpha bool       `yaml:"reset_alpha"`
	NormalMode NormalMode `yaml:"normal_mode"`
	// SmoothTriangles runs one in-order pass pulling each triangle's
	// vertices halfway to the triangle average.
	SmoothTriangles bool              `yaml:"smooth_triangles"`
	Mask            picking.LayerMask `yaml:"mask"`
	OccludedColor   scene.Color       `yaml:"occluded_color"`
	// Seed for sample directions. 0 draws a fresh seed each run.
	Seed uint64 `yaml:"seed"`
	// Workers > 1 samples the vertices of one mesh in parallel.
	Workers int `yaml:"workers"`
	// VisibilityEpsilon is the midpoint offset used by visibility tests.
	VisibilityEpsilon float32 `yaml:"visibility_epsilon"`
	// OriginAtMidpoint casts sampling rays from the vertex midpoint instead
	// of the vertex position.
	OriginAtMidpoint bool `yaml:"origin_at_midpoint"`
}

// DefaultSettings returns the documented defaults.
func DefaultSettings() Settings {
	return Settings{
		Samples:           64,
		MaxRange:          1.5,
		MinHitDistance:    0.0001,
		Intensity:         1,
		ResetAlpha:        true,
		NormalMode:        NormalNone,
		Mask:              picking.AllLayers,
		OccludedColor:     scene.Black,
		Seed:              1,
		Workers:           1,
		VisibilityEpsilon: 0.001,
	}
}

// normalized fills values that would make the run meaningless.
// MaxRange is left alone: zero range is a valid "leave everything lit" run.
func (s Settings) normalized() Settings {
	d := DefaultSettings()
	if s.Samples <= 0 {
		s.Samples = d.Samples
	}
	if s.Workers < 1 {
		s.Workers = 1
	}
	if s.VisibilityEpsilon <= 0 {
		s.VisibilityEpsilon = d.VisibilityEpsilon
	}
	if s.MaxRange < 0 {
		s.MaxRange = 0
	}
	return s
}
