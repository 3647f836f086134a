package animcore

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// newTestSkeleton returns a skeleton shaped like:
//
//	root
//	    spine
//	        head
//	    leg
func newTestSkeleton() (*Skeleton, []*Joint) {

	skeleton := NewSkeleton()
	root := skeleton.Root
	root.Transform.Position = mgl64.Vec3{0, 1, 0}

	spine := root.CreateChild("spine")
	spine.Transform.Position = mgl64.Vec3{0, 2, 0}
	spine.Transform.Rotation = mgl64.QuatRotate(math.Pi/6, mgl64.Vec3{0, 0, 1})

	head := spine.CreateChild("head")
	head.Transform.Position = mgl64.Vec3{0, 1, 0}
	head.Transform.Scale = mgl64.Vec3{1.5, 1.5, 1.5}

	leg := root.CreateChild("leg")
	leg.Transform.Position = mgl64.Vec3{0.5, -1, 0}
	leg.Transform.Rotation = mgl64.QuatRotate(-math.Pi/8, mgl64.Vec3{1, 0, 0})

	return skeleton, []*Joint{root, spine, head, leg}

}

func BenchmarkFillMatrixBuffer(b *testing.B) {

	b.ReportAllocs()

	skeleton := NewSkeleton()
	parent := skeleton.Root
	for i := 0; i < 64; i++ {
		parent = parent.CreateChild("bone")
		parent.Transform.Position = mgl64.Vec3{0, 1, 0}
	}
	skeleton.UpdateOriginMatrix()

	buffer := make([]mgl64.Mat4, skeleton.HierarchySize())

	for i := 0; i < b.N; i++ {
		skeleton.FillMatrixBuffer(buffer, true, true)
	}

}

func TestJointHierarchy(t *testing.T) {

	skeleton, joints := newTestSkeleton()
	root, spine, head, leg := joints[0], joints[1], joints[2], joints[3]

	if skeleton.HierarchySize() != 4 || spine.HierarchySize() != 2 || head.HierarchySize() != 1 {
		t.Fatal("unexpected hierarchy sizes")
	}

	if root.Parent() != nil || head.Parent() != spine || leg.Root() != root {
		t.Fatal("unexpected parents")
	}

	if head.Path() != "spine/head" || root.Path() != "" {
		t.Fatalf("unexpected path %q", head.Path())
	}

	order := skeleton.Joints()
	for i := range joints {
		if order[i] != joints[i] {
			t.Fatalf("Joints() should be in pre-order; joint #%d is %s", i, order[i].Name)
		}
	}

	if skeleton.FindJoint("head") != head || skeleton.FindJoint("root") != root || skeleton.FindJoint("tail") != nil {
		t.Fatal("FindJoint() didn't find the expected joints")
	}

	if spine.DeleteChild(leg) {
		t.Fatal("deleting a joint that isn't a child should fail")
	}

	if !root.DeleteChild(spine) {
		t.Fatal("deleting a child should succeed")
	}

	if skeleton.HierarchySize() != 2 || spine.Parent() != nil {
		t.Fatal("deleting a child should remove its whole subtree")
	}

	if str := skeleton.HierarchyAsString(); !strings.Contains(str, "root") || !strings.Contains(str, "leg") || strings.Contains(str, "spine") {
		t.Fatalf("unexpected hierarchy string:\n%s", str)
	}

}

func TestFillMatrixBufferCount(t *testing.T) {

	skeleton, _ := newTestSkeleton()

	for _, size := range []int{0, 1, 2, 3, 4, 10} {

		buffer := make([]mgl64.Mat4, size)

		expected := size
		if expected > skeleton.HierarchySize() {
			expected = skeleton.HierarchySize()
		}

		for _, isGlobal := range []bool{true, false} {
			if written := skeleton.FillMatrixBuffer(buffer, isGlobal, false); written != expected {
				t.Errorf("buffer of %d (global: %v): expected %d matrices, got %d", size, isGlobal, expected, written)
			}
		}

		// Untouched entries stay zero.
		for i := expected; i < size; i++ {
			if buffer[i] != (mgl64.Mat4{}) {
				t.Errorf("buffer of %d: entry %d shouldn't have been written", size, i)
			}
		}

	}

}

func TestFillMatrixBufferGlobal(t *testing.T) {

	skeleton, joints := newTestSkeleton()
	root, spine, head := joints[0], joints[1], joints[2]

	global := skeleton.MatrixBuffer(true, false)

	if !global[0].ApproxEqualThreshold(root.Transform.Matrix(), Epsilon) {
		t.Error("the root's global matrix should be its local matrix")
	}

	if !global[1].ApproxEqualThreshold(root.Transform.Matrix().Mul4(spine.Transform.Matrix()), Epsilon) {
		t.Error("the child's global matrix should be root.local * child.local")
	}

	for i, joint := range joints {
		if !global[i].ApproxEqualThreshold(joint.GlobalTransform(), Epsilon) {
			t.Errorf("joint %s: buffer entry doesn't match GlobalTransform()", joint.Name)
		}
	}

	local := skeleton.MatrixBuffer(false, false)
	if !local[2].ApproxEqualThreshold(head.Transform.Matrix(), Epsilon) {
		t.Error("local matrices should be relative to the parent")
	}

	// Filling from a joint deeper in the tree still gives global matrices.
	sub := make([]mgl64.Mat4, 2)
	spine.FillMatrixBuffer(sub, true, false)
	if !sub[1].ApproxEqualThreshold(head.GlobalTransform(), Epsilon) {
		t.Error("filling from a child joint should include its ancestors' transforms")
	}

}

func TestOriginMatrixRoundTrip(t *testing.T) {

	skeleton, joints := newTestSkeleton()
	skeleton.UpdateOriginMatrix()

	for _, joint := range joints {
		if !joint.GlobalTransform().Mul4(joint.OriginMatrix()).ApproxEqualThreshold(mgl64.Ident4(), Epsilon) {
			t.Errorf("joint %s: global * origin should be the identity in the bind pose", joint.Name)
		}
	}

	for i, m := range skeleton.MatrixBuffer(true, true) {
		if !m.ApproxEqualThreshold(mgl64.Ident4(), Epsilon) {
			t.Errorf("joint #%d: relative skinning matrix should be the identity in the bind pose", i)
		}
	}

	// Posing a joint moves its skinning matrix, and those of its children, away from the identity.
	joints[1].Transform.Rotation = mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{0, 0, 1})
	relative := skeleton.MatrixBuffer(true, true)
	if relative[1].ApproxEqualThreshold(mgl64.Ident4(), Epsilon) || relative[2].ApproxEqualThreshold(mgl64.Ident4(), Epsilon) {
		t.Error("a posed joint shouldn't have an identity skinning matrix")
	}
	if !relative[3].ApproxEqualThreshold(mgl64.Ident4(), Epsilon) {
		t.Error("an unrelated joint should keep an identity skinning matrix")
	}

}

func TestOriginMatrixSingular(t *testing.T) {

	var out bytes.Buffer

	skeleton := NewSkeleton()
	skeleton.Logger = log.New(&out, "", 0)

	flat := skeleton.Root.CreateChild("flat")
	flat.Transform.Scale = mgl64.Vec3{1, 0, 1}
	flat.CreateChild("tip")

	if singular := skeleton.Root.UpdateOriginMatrix(); singular != 2 {
		t.Fatalf("expected 2 singular joints, got %d", singular)
	}

	if flat.OriginMatrix() != mgl64.Ident4() {
		t.Fatal("a singular joint should get an identity origin matrix")
	}

	skeleton.UpdateOriginMatrix()
	if !strings.Contains(out.String(), "2 joint(s)") {
		t.Fatalf("expected a warning about singular joints, got %q", out.String())
	}

}

func TestNormalizeWeights(t *testing.T) {

	skeleton, joints := newTestSkeleton()

	joints[0].Weights = []VertexWeight{{0, 2}, {1, 6}}
	joints[1].Weights = []VertexWeight{{0, 0.1}, {1, 0.1}, {2, 0.3}}
	joints[2].Weights = []VertexWeight{{3, 0.5}}

	skeleton.NormalizeWeights(0)

	sums := make([]float64, len(joints))
	for i, joint := range joints {
		for _, w := range joint.Weights {
			sums[i] += w.Weight
		}
	}

	for i := 0; i < 3; i++ {
		if math.Abs(sums[i]-1) > Epsilon {
			t.Errorf("joint %s: expected weights to sum to 1, got %v", joints[i].Name, sums[i])
		}
	}

	if joints[0].Weights[0].Weight != 0.25 {
		t.Errorf("expected 0.25, got %v", joints[0].Weights[0].Weight)
	}

	before := append([]VertexWeight(nil), joints[1].Weights...)
	skeleton.NormalizeWeights(0)
	for i, w := range joints[1].Weights {
		if math.Abs(w.Weight-before[i].Weight) > Epsilon {
			t.Fatal("normalizing twice should give the same weights as normalizing once")
		}
	}

}

func TestNormalizeWeightsLimit(t *testing.T) {

	joint := NewSkeleton().Root
	joint.Weights = []VertexWeight{{0, 1}, {1, 3}, {2, 5}}

	joint.NormalizeWeights(false, 2)

	if joint.Weights[0].Weight != 0.25 || joint.Weights[1].Weight != 0.75 {
		t.Fatalf("the first two weights should be normalized, got %v", joint.Weights)
	}

	if joint.Weights[2].Weight != 5 {
		t.Fatal("weights past the limit should be left alone")
	}

}

func TestNormalizeWeightsZeroSum(t *testing.T) {

	var out bytes.Buffer

	skeleton, joints := newTestSkeleton()
	skeleton.Logger = log.New(&out, "", 0)

	joints[1].Weights = []VertexWeight{{0, 0}, {1, 0}}
	joints[2].Weights = []VertexWeight{{0, 1}, {1, 1}}

	if skipped := skeleton.Root.NormalizeWeights(false, 0); skipped != 0 {
		t.Fatal("a joint without weights isn't skipped")
	}

	if skipped := skeleton.Root.NormalizeWeights(true, 0); skipped != 1 {
		t.Fatalf("expected 1 skipped joint, got %d", skipped)
	}

	for _, w := range joints[1].Weights {
		if w.Weight != 0 || math.IsNaN(w.Weight) {
			t.Fatal("zero weights should be left unchanged")
		}
	}

	if joints[2].Weights[0].Weight != 0.5 {
		t.Fatal("other joints should still be normalized")
	}

	skeleton.NormalizeWeights(0)
	if !strings.Contains(out.String(), "1 joint(s)") {
		t.Fatalf("expected a warning about the zero-sum joint, got %q", out.String())
	}

}
