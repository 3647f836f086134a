package animcore

import (
	"github.com/go-gl/mathgl/mgl64"
)

// JointInfluence is the influence of a Joint, by pre-order index into the Skeleton (see Skeleton.Joints()), on a vertex.
type JointInfluence struct {
	Joint  int
	Weight float64
}

// Skin deforms vertices on the CPU with the skinning matrices of a Skeleton. It's the reference consumer of
// FillMatrixBuffer(); a GPU renderer would upload the same matrices instead.
type Skin struct {
	Skeleton *Skeleton
	matrices []mgl64.Mat4
}

// NewSkin returns a new Skin for the given Skeleton. It fails with ErrNilSkeleton if skeleton is nil.
func NewSkin(skeleton *Skeleton) (*Skin, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	skin := &Skin{Skeleton: skeleton}
	skin.Update()
	return skin, nil
}

// Update refreshes the skinning matrices from the Skeleton's current pose. Call it after the Skeleton's animations have
// been updated and before transforming vertices.
func (skin *Skin) Update() {
	size := skin.Skeleton.HierarchySize()
	if cap(skin.matrices) < size {
		skin.matrices = make([]mgl64.Mat4, size)
	}
	skin.matrices = skin.matrices[:size]
	skin.Skeleton.FillMatrixBuffer(skin.matrices, true, true)
}

// Matrices returns the skinning matrices computed by the last Update, in Skeleton.Joints() order.
func (skin *Skin) Matrices() []mgl64.Mat4 {
	return skin.matrices
}

// Transform transforms the input vertex using the given influences to bend it according to the Skeleton's pose.
// Influences referring to a Joint index out of range are ignored; a vertex without any valid influence is returned
// unchanged.
func (skin *Skin) Transform(vertex mgl64.Vec3, influences []JointInfluence) mgl64.Vec3 {

	skinMatrix := mgl64.Mat4{}
	total := 0.0

	for _, inf := range influences {

		if inf.Joint < 0 || inf.Joint >= len(skin.matrices) || inf.Weight == 0 {
			continue
		}

		skinMatrix = skinMatrix.Add(skin.matrices[inf.Joint].Mul(inf.Weight))
		total += inf.Weight

	}

	if total == 0 {
		return vertex
	}

	return skinMatrix.Mul4x1(vertex.Vec4(1)).Vec3()

}

// SkinPositions returns the given bind pose positions deformed by the Skeleton's current pose, using the VertexWeights
// stored on each Joint. Vertices that no Joint influences keep their bind position.
func (skin *Skin) SkinPositions(bind []mgl64.Vec3) []mgl64.Vec3 {

	influences := make([][]JointInfluence, len(bind))

	for jointIndex, joint := range skin.Skeleton.Joints() {
		for _, w := range joint.Weights {
			if w.Vertex >= 0 && w.Vertex < len(bind) {
				influences[w.Vertex] = append(influences[w.Vertex], JointInfluence{Joint: jointIndex, Weight: w.Weight})
			}
		}
	}

	out := make([]mgl64.Vec3, len(bind))
	for i, position := range bind {
		out[i] = skin.Transform(position, influences[i])
	}

	return out

}
