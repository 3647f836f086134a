package animcore

import (
	"log"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
)

// VertexWeight binds a vertex, by index into the skinned mesh's vertex list, to a Joint.
type VertexWeight struct {
	Vertex int     // Index of the vertex in the skinned mesh.
	Weight float64 // Influence of the Joint on the vertex, in the range [0, 1].
}

// Joint is a single bone of a Skeleton. A Joint owns its children; the only way to grow the tree is CreateChild(), so a
// Skeleton can't contain cycles.
type Joint struct {
	Name      string
	Transform Transform      // The local transform, relative to the parent Joint.
	Weights   []VertexWeight // The vertices this Joint influences.

	props        *Properties
	parent       *Joint
	children     []*Joint
	originMatrix mgl64.Mat4
}

func newJoint(name string, parent *Joint) *Joint {
	return &Joint{
		Name:         name,
		Transform:    NewTransform(),
		props:        NewProperties(),
		parent:       parent,
		originMatrix: mgl64.Ident4(),
	}
}

// CreateChild creates a new child Joint with an identity transform and returns it.
func (joint *Joint) CreateChild(name string) *Joint {
	child := newJoint(name, joint)
	joint.children = append(joint.children, child)
	return child
}

// DeleteChild removes the given child, along with its entire subtree, from the Joint. The removed Joint is left without a
// parent. DeleteChild returns false if child isn't a child of this Joint.
func (joint *Joint) DeleteChild(child *Joint) bool {
	for i, c := range joint.children {
		if c == child {
			joint.children[i] = nil
			joint.children = append(joint.children[:i], joint.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the parent Joint, or nil for the root.
func (joint *Joint) Parent() *Joint {
	return joint.parent
}

// Children returns a copy of the Joint's children slice.
func (joint *Joint) Children() []*Joint {
	return append(make([]*Joint, 0, len(joint.children)), joint.children...)
}

// Properties returns the Joint's Properties.
func (joint *Joint) Properties() *Properties {
	return joint.props
}

// Root returns the top-most Joint of the tree this Joint belongs to.
func (joint *Joint) Root() *Joint {
	for joint.parent != nil {
		joint = joint.parent
	}
	return joint
}

// Path returns the names of the Joint's ancestors and of the Joint itself, joined by "/", excluding the root.
func (joint *Joint) Path() string {
	if joint.parent == nil {
		return ""
	}
	path := joint.Name
	for parent := joint.parent; parent.parent != nil; parent = parent.parent {
		path = parent.Name + "/" + path
	}
	return path
}

// GlobalTransform returns the Joint's transform composed with the transforms of all of its ancestors, from the root down:
// parent.GlobalTransform() * Transform.Matrix(). This walks the entire parent chain, so to get the global transforms of
// many Joints at once, use FillMatrixBuffer() instead.
func (joint *Joint) GlobalTransform() mgl64.Mat4 {
	if joint.parent == nil {
		return joint.Transform.Matrix()
	}
	return joint.parent.GlobalTransform().Mul4(joint.Transform.Matrix())
}

func (joint *Joint) parentGlobalTransform() mgl64.Mat4 {
	if joint.parent == nil {
		return mgl64.Ident4()
	}
	return joint.parent.GlobalTransform()
}

// FillMatrixBuffer writes the matrices of this Joint and all of its descendants into buffer in depth-first pre-order (the
// same order as Joints()), and returns the number of matrices written, which is the lesser of len(buffer) and
// HierarchySize(). Use HierarchySize() to size the buffer for the whole hierarchy.
//
// If isGlobal is true, the matrices are global (see GlobalTransform()); otherwise they're local to each Joint's parent.
// If isRelative is true, each matrix is multiplied by the Joint's origin matrix, so that a Joint in its bind pose yields
// the identity; this is what a renderer needs for skinning.
func (joint *Joint) FillMatrixBuffer(buffer []mgl64.Mat4, isGlobal, isRelative bool) int {

	written := 0

	if len(buffer) > 0 {
		if isGlobal {
			joint.fillMatrixBufferGlobal(joint.parentGlobalTransform(), buffer, &written, isRelative)
		} else {
			joint.fillMatrixBufferLocal(buffer, &written, isRelative)
		}
	}

	return written

}

func (joint *Joint) fillMatrixBufferGlobal(parentMatrix mgl64.Mat4, buffer []mgl64.Mat4, written *int, isRelative bool) {

	global := parentMatrix.Mul4(joint.Transform.Matrix())

	if isRelative {
		buffer[*written] = global.Mul4(joint.originMatrix)
	} else {
		buffer[*written] = global
	}
	*written++

	for _, child := range joint.children {
		if *written >= len(buffer) {
			break
		}
		child.fillMatrixBufferGlobal(global, buffer, written, isRelative)
	}

}

func (joint *Joint) fillMatrixBufferLocal(buffer []mgl64.Mat4, written *int, isRelative bool) {

	local := joint.Transform.Matrix()

	if isRelative {
		buffer[*written] = local.Mul4(joint.originMatrix)
	} else {
		buffer[*written] = local
	}
	*written++

	for _, child := range joint.children {
		if *written >= len(buffer) {
			break
		}
		child.fillMatrixBufferLocal(buffer, written, isRelative)
	}

}

// HierarchySize returns the number of Joints in this Joint's subtree, including the Joint itself.
func (joint *Joint) HierarchySize() int {
	size := 1
	for _, child := range joint.children {
		size += child.HierarchySize()
	}
	return size
}

// NormalizeWeights scales the Joint's weights so that they sum to 1. If maxNumWeights is greater than zero, only the
// first maxNumWeights weights are summed and scaled, and the rest are left as they are. If recursive is true, the whole
// subtree is normalized.
//
// A Joint whose weights sum to zero can't be normalized and is left unchanged; NormalizeWeights returns the number of
// such Joints.
func (joint *Joint) NormalizeWeights(recursive bool, maxNumWeights int) int {

	skipped := 0

	if len(joint.Weights) > 0 {

		weights := joint.Weights
		if maxNumWeights > 0 && maxNumWeights < len(weights) {
			weights = weights[:maxNumWeights]
		}

		sum := 0.0
		for _, w := range weights {
			sum += w.Weight
		}

		if sum == 0 {
			skipped++
		} else {
			invSum := 1.0 / sum
			for i := range weights {
				weights[i].Weight *= invSum
			}
		}

	}

	if recursive {
		for _, child := range joint.children {
			skipped += child.NormalizeWeights(true, maxNumWeights)
		}
	}

	return skipped

}

// UpdateOriginMatrix stores the inverse of the global transform of this Joint and of every descendant as their origin
// matrices, making the current pose the bind pose. It should be called once the Skeleton has been set up, not every
// frame. A Joint whose global transform can't be inverted gets an identity origin matrix; UpdateOriginMatrix returns
// the number of such Joints.
func (joint *Joint) UpdateOriginMatrix() int {
	return joint.updateOriginMatrix(joint.parentGlobalTransform())
}

func (joint *Joint) updateOriginMatrix(parentMatrix mgl64.Mat4) int {

	singular := 0

	global := parentMatrix.Mul4(joint.Transform.Matrix())

	if global.Det() == 0 {
		joint.originMatrix = mgl64.Ident4()
		singular++
	} else {
		joint.originMatrix = global.Inv()
	}

	for _, child := range joint.children {
		singular += child.updateOriginMatrix(global)
	}

	return singular

}

// OriginMatrix returns the Joint's origin matrix: the inverse of its global transform in the bind pose.
func (joint *Joint) OriginMatrix() mgl64.Mat4 {
	return joint.originMatrix
}

// SetOriginMatrix sets the Joint's origin matrix directly (i.e. an inverse bind matrix loaded from a file).
func (joint *Joint) SetOriginMatrix(matrix mgl64.Mat4) {
	joint.originMatrix = matrix
}

// SearchTree returns a JointFilter over the Joint's descendants (not including the Joint itself).
func (joint *Joint) SearchTree() JointFilter {
	return newJointFilter(joint)
}

// Joints returns this Joint and all of its descendants in depth-first pre-order.
func (joint *Joint) Joints() []*Joint {
	out := make([]*Joint, 0, joint.HierarchySize())
	var walk func(j *Joint)
	walk = func(j *Joint) {
		out = append(out, j)
		for _, child := range j.children {
			walk(child)
		}
	}
	walk(joint)
	return out
}

// HierarchyAsString returns a string displaying the hierarchy of this Joint and all of its descendants, along with their
// global positions truncated to 2 decimals. This is mostly useful for debugging.
func (joint *Joint) HierarchyAsString() string {

	var printJoint func(j *Joint, global mgl64.Mat4, level int) string

	printJoint = func(j *Joint, parentMatrix mgl64.Mat4, level int) string {

		global := parentMatrix.Mul4(j.Transform.Matrix())

		str := ""

		if level > 0 {
			for i := 0; i < level; i++ {
				str += "    |"
			}
			str += "\n"
		}

		for i := 0; i < level; i++ {
			str += "    |"
		}

		floatTruncation := 2
		wp := global.Col(3)
		wpStr := "[" + strconv.FormatFloat(wp[0], 'f', floatTruncation, 64) + ", " + strconv.FormatFloat(wp[1], 'f', floatTruncation, 64) + ", " + strconv.FormatFloat(wp[2], 'f', floatTruncation, 64) + "]"

		if level > 0 {
			str += "-"
		}
		str += " " + j.Name + " : " + wpStr + "\n"

		for _, child := range j.children {
			str += printJoint(child, global, level+1)
		}

		return str

	}

	return printJoint(joint, joint.parentGlobalTransform(), 0)

}

// Skeleton is a tree of Joints with a single root.
type Skeleton struct {
	Root   *Joint
	Logger *log.Logger // Logger receives warnings; if nil, log.Default() is used.
}

// NewSkeleton returns a new Skeleton with a single root Joint named "root".
func NewSkeleton() *Skeleton {
	return &Skeleton{
		Root: newJoint("root", nil),
	}
}

func (skeleton *Skeleton) logger() *log.Logger {
	if skeleton.Logger != nil {
		return skeleton.Logger
	}
	return log.Default()
}

// HierarchySize returns the number of Joints in the Skeleton.
func (skeleton *Skeleton) HierarchySize() int {
	return skeleton.Root.HierarchySize()
}

// FillMatrixBuffer fills buffer with the matrices of every Joint in the Skeleton; see Joint.FillMatrixBuffer().
func (skeleton *Skeleton) FillMatrixBuffer(buffer []mgl64.Mat4, isGlobal, isRelative bool) int {
	return skeleton.Root.FillMatrixBuffer(buffer, isGlobal, isRelative)
}

// MatrixBuffer allocates a buffer large enough for the whole Skeleton, fills it, and returns it.
func (skeleton *Skeleton) MatrixBuffer(isGlobal, isRelative bool) []mgl64.Mat4 {
	buffer := make([]mgl64.Mat4, skeleton.HierarchySize())
	skeleton.FillMatrixBuffer(buffer, isGlobal, isRelative)
	return buffer
}

// NormalizeWeights normalizes the weights of every Joint in the Skeleton; see Joint.NormalizeWeights(). Joints whose
// weights sum to zero are left unchanged and reported through the Skeleton's Logger.
func (skeleton *Skeleton) NormalizeWeights(maxNumWeights int) {
	if skipped := skeleton.Root.NormalizeWeights(true, maxNumWeights); skipped > 0 {
		skeleton.logger().Printf("warning: %d joint(s) have weights summing to zero and weren't normalized\n", skipped)
	}
}

// UpdateOriginMatrix makes the Skeleton's current pose its bind pose; see Joint.UpdateOriginMatrix().
func (skeleton *Skeleton) UpdateOriginMatrix() {
	if singular := skeleton.Root.UpdateOriginMatrix(); singular > 0 {
		skeleton.logger().Printf("warning: %d joint(s) have a singular global transform; their origin matrix was reset to identity\n", singular)
	}
}

// FindJoint returns the first Joint in pre-order with the given name, or nil if there's none.
func (skeleton *Skeleton) FindJoint(name string) *Joint {
	if skeleton.Root.Name == name {
		return skeleton.Root
	}
	return skeleton.Root.SearchTree().ByName(name).First()
}

// Joints returns every Joint in the Skeleton in depth-first pre-order, which is the order FillMatrixBuffer() writes in.
func (skeleton *Skeleton) Joints() []*Joint {
	return skeleton.Root.Joints()
}

// HierarchyAsString returns a string displaying the Skeleton's hierarchy.
func (skeleton *Skeleton) HierarchyAsString() string {
	return skeleton.Root.HierarchyAsString()
}
