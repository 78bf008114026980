package bake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/vertex-ao/internal/picking"
)

func TestParseNormalMode(t *testing.T) {
	tests := []struct {
		in   string
		want NormalMode
	}{
		{"none", NormalNone},
		{"", NormalNone},
		{"Naive", NormalNaive},
		{"naive_average", NormalNaive},
		{" visibility ", NormalVisibility},
	}
	for _, tt := range tests {
		got, err := ParseNormalMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseNormalMode("smooth")
	assert.True(t, errors.Is(err, ErrInvalidNormalMode))
}

func TestNormalModeString(t *testing.T) {
	assert.Equal(t, "visibility", NormalVisibility.String())
	assert.Equal(t, "NormalMode(7)", NormalMode(7).String())
}

func TestSettingsYAML(t *testing.T) {
	data := []byte(`
samples: 128
normal_mode: visibility
mask: 0x3
occluded_color: [0.2, 0.1, 0]
`)
	s := DefaultSettings()
	require.NoError(t, yaml.Unmarshal(data, &s))

	assert.Equal(t, 128, s.Samples)
	assert.Equal(t, NormalVisibility, s.NormalMode)
	assert.Equal(t, picking.LayerMask(3), s.Mask)
	assert.Equal(t, float32(1), s.OccludedColor.A)
	assert.Equal(t, float32(1.5), s.MaxRange, "unset keys keep defaults")

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "normal_mode: visibility")

	bad := []byte("normal_mode: fancy\n")
	assert.Error(t, yaml.Unmarshal(bad, &s))
}

func TestSettingsNormalized(t *testing.T) {
	s := Settings{MaxRange: -1}.normalized()
	assert.Equal(t, 64, s.Samples)
	assert.Equal(t, 1, s.Workers)
	assert.Equal(t, float32(0.001), s.VisibilityEpsilon)
	assert.Equal(t, float32(0), s.MaxRange)
}
