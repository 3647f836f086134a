package animcore

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func BenchmarkTransformMatrix(b *testing.B) {

	b.ReportAllocs()

	transform := Transform{
		Position: mgl64.Vec3{1, 4, -12},
		Rotation: mgl64.QuatRotate(0.24, mgl64.Vec3{0, 1, 0.2}.Normalize()),
		Scale:    mgl64.Vec3{1, 2, 3},
	}

	for i := 0; i < b.N; i++ {
		transform.Matrix()
	}

}

func TestTransformIdentity(t *testing.T) {

	if !NewTransform().Matrix().ApproxEqualThreshold(mgl64.Ident4(), Epsilon) {
		t.Fatal("a new Transform should be the identity")
	}

	// The zero value has a zero rotation, which is treated as the identity rotation; its scale is zero though.
	if !(Transform{}).Matrix().ApproxEqualThreshold(mgl64.Scale3D(0, 0, 0), Epsilon) {
		t.Fatal("the zero Transform should only scale to zero")
	}

}

func TestTransformOrder(t *testing.T) {

	transform := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
		Scale:    mgl64.Vec3{2, 2, 2},
	}

	// Scaled to (2, 0, 0), rotated to (0, 2, 0), then translated.
	point := transform.Matrix().Mul4x1(mgl64.Vec4{1, 0, 0, 1}).Vec3()

	if !point.ApproxEqualThreshold(mgl64.Vec3{1, 4, 3}, Epsilon) {
		t.Fatalf("expected (1, 4, 3), got %v", point)
	}

}

func TestTransformSetMatrix(t *testing.T) {

	transforms := []Transform{
		NewTransform(),
		{
			Position: mgl64.Vec3{-10, 0.1, 3232.1976},
			Rotation: mgl64.QuatIdent(),
			Scale:    mgl64.Vec3{1, 1, 1},
		},
		{
			Position: mgl64.Vec3{-1, -1, -1},
			Rotation: mgl64.QuatRotate(0.334, mgl64.Vec3{1, 0, 0.1}.Normalize()),
			Scale:    mgl64.Vec3{10, 1, 0.5},
		},
		{
			Position: mgl64.Vec3{0, 3, 0},
			Rotation: mgl64.QuatRotate(math.Pi*0.75, mgl64.Vec3{0, 1, 0}),
			Scale:    mgl64.Vec3{0.1, 0.1, 0.1},
		},
	}

	for i, transform := range transforms {

		decomposed := NewTransform()
		decomposed.SetMatrix(transform.Matrix())

		if !decomposed.Equals(transform) {
			t.Errorf("transform #%d: decomposing its matrix gave %v, expected %v", i, decomposed, transform)
		}

		if !decomposed.Matrix().ApproxEqualThreshold(transform.Matrix(), Epsilon) {
			t.Errorf("transform #%d: the decomposed matrix doesn't match", i)
		}

	}

}

func TestTransformInterpolate(t *testing.T) {

	from := NewTransform()

	to := Transform{
		Position: mgl64.Vec3{4, 0, -2},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
		Scale:    mgl64.Vec3{3, 3, 3},
	}

	half := Interpolate(from, to, 0.5)

	expected := Transform{
		Position: mgl64.Vec3{2, 0, -1},
		Rotation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0}),
		Scale:    mgl64.Vec3{2, 2, 2},
	}

	if !half.Equals(expected) {
		t.Fatalf("expected %v, got %v", expected, half)
	}

	if !Interpolate(from, to, 0).Equals(from) || !Interpolate(from, to, 1).Equals(to) {
		t.Fatal("interpolating by 0 or 1 should give the ends")
	}

}
