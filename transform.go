package animcore

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a decomposed local transform: a position, a rotation and a scale. The matrix it represents is always built
// in the order translation * rotation * scale, so the scale is applied first and the translation last.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform returns an identity Transform (no translation, identity rotation and a scale of 1 on every axis).
func NewTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Matrix returns the Transform as a 4x4 matrix.
func (transform Transform) Matrix() mgl64.Mat4 {
	p := transform.Position
	s := transform.Scale
	return mgl64.Translate3D(p[0], p[1], p[2]).Mul4(transform.Rotation.Normalize().Mat4()).Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// SetMatrix decomposes the given matrix into the Transform. Shearing can't be represented and is lost. An axis with
// zero scale leaves its column out of the rotation.
func (transform *Transform) SetMatrix(matrix mgl64.Mat4) {

	transform.Position = matrix.Col(3).Vec3()

	sx, sy, sz := mgl64.Extract3DScale(matrix)
	transform.Scale = mgl64.Vec3{sx, sy, sz}

	rot := mgl64.Ident4()
	for i, s := range [3]float64{sx, sy, sz} {
		if s != 0 {
			col := matrix.Col(i).Vec3().Mul(1 / s)
			rot.SetCol(i, col.Vec4(0))
		}
	}

	transform.Rotation = mgl64.Mat4ToQuat(rot).Normalize()

}

// Interpolate blends from one Transform to another by t, where t = 0 is from and t = 1 is to. Positions and scales are
// interpolated linearly, rotations spherically.
func Interpolate(from, to Transform, t float64) Transform {
	return Transform{
		Position: from.Position.Add(to.Position.Sub(from.Position).Mul(t)),
		Rotation: mgl64.QuatSlerp(from.Rotation, to.Rotation, t),
		Scale:    from.Scale.Add(to.Scale.Sub(from.Scale).Mul(t)),
	}
}

// Epsilon is the tolerance used by Transform.Equals.
const Epsilon = 1e-6

// Equals returns true if both Transforms are equal within Epsilon. Rotations are compared by orientation, so q and -q
// are considered equal.
func (transform Transform) Equals(other Transform) bool {
	return transform.Position.ApproxEqualThreshold(other.Position, Epsilon) &&
		transform.Scale.ApproxEqualThreshold(other.Scale, Epsilon) &&
		transform.Rotation.OrientationEqualThreshold(other.Rotation, Epsilon)
}
