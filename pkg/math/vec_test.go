package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("Vec3{}.Normalize() = %v, want zero", got)
	}
}

func TestVec3Reflect(t *testing.T) {
	d := Vec3{1, -1, 0}
	got := d.Reflect(Up)
	want := Vec3{1, 1, 0}
	if got != want {
		t.Errorf("Vec3.Reflect() = %v, want %v", got, want)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	if got, want := a.Min(b), (Vec3{1, 2, -4}); got != want {
		t.Errorf("Vec3.Min() = %v, want %v", got, want)
	}
	if got, want := a.Max(b), (Vec3{3, 5, -2}); got != want {
		t.Errorf("Vec3.Max() = %v, want %v", got, want)
	}
}

func TestClamp01(t *testing.T) {
	cases := map[float32]float32{-0.5: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := Clamp01(in); got != want {
			t.Errorf("Clamp01(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(2, 4, 0.5); got != 3 {
		t.Errorf("Lerp(2, 4, 0.5) = %v, want 3", got)
	}
	if got := (Vec3{}).Lerp(Vec3{2, 4, 6}, 0.5); got != (Vec3{1, 2, 3}) {
		t.Errorf("Vec3.Lerp() = %v, want (1, 2, 3)", got)
	}
}
