package scene

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// Lerp blends from c to other. t=0 yields c, t=1 yields other exactly.
func (c Color) Lerp(other Color, t float32) Color {
	s := 1 - t
	return Color{
		R: c.R*s + other.R*t,
		G: c.G*s + other.G*t,
		B: c.B*s + other.B*t,
		A: c.A*s + other.A*t,
	}
}

// MarshalYAML writes the color as a flow sequence [r, g, b, a].
func (c Color) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range [4]float32{c.R, c.G, c.B, c.A} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: fmt.Sprintf("%g", v),
		})
	}
	return node, nil
}

// UnmarshalYAML accepts [r, g, b] or [r, g, b, a]; alpha defaults to 1.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var comps []float32
	if err := value.Decode(&comps); err != nil {
		return err
	}
	switch len(comps) {
	case 3:
		*c = Color{comps[0], comps[1], comps[2], 1}
	case 4:
		*c = Color{comps[0], comps[1], comps[2], comps[3]}
	default:
		return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", value.Line, len(comps))
	}
	return nil
}
