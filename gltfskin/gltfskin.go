// Package gltfskin imports glTF skins and their animations into animcore Skeletons and animations.
package gltfskin

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/solarlune/animcore"
)

var (
	// ErrOutOfRange is returned when a skin, animation, mesh or node index is out of range of the document.
	ErrOutOfRange = errors.New("gltfskin: index out of range")

	// ErrUnsupportedAccessor is returned for accessors whose element type can't be imported (i.e. quantized rotations).
	ErrUnsupportedAccessor = errors.New("gltfskin: unsupported accessor type")

	// ErrInvalidHierarchy is returned for skins whose joint nodes form a cycle or are listed as the child of more than one
	// node.
	ErrInvalidHierarchy = errors.New("gltfskin: invalid joint hierarchy")
)

// Options alters how skins and animations are imported. Passing nil uses DefaultOptions().
type Options struct {
	// FPS is the rate at which animation channels are sampled into frames, and the speed the imported animations'
	// Playbacks are set to. Defaults to animcore.DefaultFPS.
	FPS float64

	// Logger receives warnings about channels that can't be imported. Defaults to log.Default().
	Logger *log.Logger
}

// DefaultOptions returns Options with some sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		FPS:    animcore.DefaultFPS,
		Logger: log.Default(),
	}
}

func (opts *Options) orDefault() *Options {
	if opts == nil {
		return DefaultOptions()
	}
	out := *opts
	if out.FPS <= 0 {
		out.FPS = animcore.DefaultFPS
	}
	if out.Logger == nil {
		out.Logger = log.Default()
	}
	return &out
}

// Import is the result of importing a glTF skin.
type Import struct {
	Skeleton     *animcore.Skeleton
	Joints       []*animcore.Joint       // The Joints in the order of the skin's joint list; JOINTS_0 attributes index into this.
	JointsByNode map[int]*animcore.Joint // The Joints by the index of the glTF node they were created from.
}

// Decode decodes the given .gltf or .glb data. External buffers aren't supported; buffers must be embedded in the data.
func Decode(data []byte) (*gltf.Document, error) {

	doc := gltf.NewDocument()

	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltfskin: decode: %w", err)
	}

	return doc, nil

}

// Open reads and decodes the .gltf or .glb file at the given path.
func Open(path string) (*gltf.Document, error) {

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Decode(data)

}

// ImportSkeleton creates a Skeleton out of the skin at the given index. The Joint tree mirrors the node hierarchy of the
// skin's joints; if the skin has more than one top-level joint, they're parented to a synthetic "root" Joint. Node
// extras are copied into the Joints' Properties, and the skin's inverse bind matrices become the Joints' origin
// matrices (if the skin has none, they're computed from the bind pose).
func ImportSkeleton(doc *gltf.Document, skinIndex int, opts *Options) (*Import, error) {

	opts = opts.orDefault()

	if skinIndex < 0 || skinIndex >= len(doc.Skins) {
		return nil, fmt.Errorf("skin %d: %w", skinIndex, ErrOutOfRange)
	}

	skin := doc.Skins[skinIndex]

	isJoint := make(map[int]bool, len(skin.Joints))
	for _, nodeIndex := range skin.Joints {
		if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
			return nil, fmt.Errorf("skin %d, joint node %d: %w", skinIndex, nodeIndex, ErrOutOfRange)
		}
		isJoint[nodeIndex] = true
	}

	parents := map[int]int{}
	for i, node := range doc.Nodes {
		for _, child := range node.Children {
			parents[child] = i
		}
	}

	roots := []int{}
	for _, nodeIndex := range skin.Joints {
		if parent, ok := parents[nodeIndex]; !ok || !isJoint[parent] {
			roots = append(roots, nodeIndex)
		}
	}

	imp := &Import{
		Skeleton:     animcore.NewSkeleton(),
		JointsByNode: make(map[int]*animcore.Joint, len(skin.Joints)),
	}
	imp.Skeleton.Logger = opts.Logger

	var build func(nodeIndex int, joint *animcore.Joint) error
	build = func(nodeIndex int, joint *animcore.Joint) error {

		if imp.JointsByNode[nodeIndex] != nil {
			return fmt.Errorf("skin %d, joint node %d reached twice: %w", skinIndex, nodeIndex, ErrInvalidHierarchy)
		}

		node := doc.Nodes[nodeIndex]
		imp.JointsByNode[nodeIndex] = joint
		joint.Transform = nodeTransform(node)

		if extras, ok := node.Extras.(map[string]any); ok {
			for name, value := range extras {
				joint.Properties().Get(name).Set(value)
			}
		}

		for _, child := range node.Children {
			if isJoint[child] {
				if err := build(child, joint.CreateChild(nodeName(doc, child))); err != nil {
					return err
				}
			}
		}

		return nil

	}

	if len(roots) == 1 {
		imp.Skeleton.Root.Name = nodeName(doc, roots[0])
		if err := build(roots[0], imp.Skeleton.Root); err != nil {
			return nil, err
		}
	} else {
		for _, nodeIndex := range roots {
			if err := build(nodeIndex, imp.Skeleton.Root.CreateChild(nodeName(doc, nodeIndex))); err != nil {
				return nil, err
			}
		}
	}

	for _, nodeIndex := range skin.Joints {
		joint := imp.JointsByNode[nodeIndex]
		if joint == nil {
			return nil, fmt.Errorf("skin %d, joint node %d isn't reachable from a root joint: %w", skinIndex, nodeIndex, ErrInvalidHierarchy)
		}
		imp.Joints = append(imp.Joints, joint)
	}

	if skin.InverseBindMatrices == nil {
		imp.Skeleton.UpdateOriginMatrix()
		return imp, nil
	}

	data, err := readAccessor(doc, *skin.InverseBindMatrices)
	if err != nil {
		return nil, fmt.Errorf("skin %d, inverse bind matrices: %w", skinIndex, err)
	}

	matrices, ok := data.([][4][4]float32)
	if !ok {
		return nil, fmt.Errorf("skin %d, inverse bind matrices (%T): %w", skinIndex, data, ErrUnsupportedAccessor)
	}

	for i, matrix := range matrices {
		if i >= len(imp.Joints) {
			break
		}
		imp.Joints[i].SetOriginMatrix(toMat4(matrix))
	}

	return imp, nil

}

// ImportAnimation creates a SkeletalAnimation for the imported skin out of the animation at the given index. Every
// translation, rotation and scale channel targeting one of the skin's joints is sampled at opts.FPS into the keys of a
// KeyframeSequence for that Joint. Channels targeting other nodes are skipped with a warning. The returned animation's
// Playback covers the whole animation at opts.FPS frames per second, but is not playing.
func ImportAnimation(doc *gltf.Document, animIndex int, imp *Import, opts *Options) (*animcore.SkeletalAnimation, error) {

	opts = opts.orDefault()

	if imp == nil {
		return nil, animcore.ErrNilSkeleton
	}

	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation %d: %w", animIndex, ErrOutOfRange)
	}

	gltfAnim := doc.Animations[animIndex]

	anim, err := animcore.NewSkeletalAnimation(gltfAnim.Name, imp.Skeleton)
	if err != nil {
		return nil, err
	}

	sequences := map[*animcore.Joint]*animcore.KeyframeSequence{}
	order := []*animcore.Joint{}

	for channelIndex, channel := range gltfAnim.Channels {

		if channel.Target.Path == gltf.TRSWeights {
			continue
		}

		if channel.Target.Node == nil || channel.Sampler < 0 || channel.Sampler >= len(gltfAnim.Samplers) {
			opts.Logger.Printf("warning: animation %q, channel %d has no target node or an invalid sampler; skipped\n", gltfAnim.Name, channelIndex)
			continue
		}

		joint := imp.JointsByNode[*channel.Target.Node]
		if joint == nil {
			opts.Logger.Printf("warning: animation %q, channel %d targets node %d, which isn't part of the skin; skipped\n", gltfAnim.Name, channelIndex, *channel.Target.Node)
			continue
		}

		seq := sequences[joint]
		if seq == nil {
			seq = animcore.NewKeyframeSequence()
			sequences[joint] = seq
			order = append(order, joint)
		}

		sampler := gltfAnim.Samplers[channel.Sampler]

		frames, err := readFrames(doc, sampler.Input, sampler.Interpolation, opts.FPS)
		if err != nil {
			return nil, fmt.Errorf("animation %q, channel %d: %w", gltfAnim.Name, channelIndex, err)
		}

		output, err := readAccessor(doc, sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("animation %q, channel %d: %w", gltfAnim.Name, channelIndex, err)
		}

		switch channel.Target.Path {

		case gltf.TRSTranslation, gltf.TRSScale:

			values, ok := output.([][3]float32)
			if !ok {
				return nil, fmt.Errorf("animation %q, channel %d (%T): %w", gltfAnim.Name, channelIndex, output, ErrUnsupportedAccessor)
			}

			add := seq.AddPosition
			if channel.Target.Path == gltf.TRSScale {
				add = seq.AddScale
			}

			for _, key := range frames {
				if v, ok := keyValue(values, key.index, sampler.Interpolation); ok {
					add(key.frame, mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
				}
			}

		case gltf.TRSRotation:

			values, ok := output.([][4]float32)
			if !ok {
				return nil, fmt.Errorf("animation %q, channel %d (%T): %w", gltfAnim.Name, channelIndex, output, ErrUnsupportedAccessor)
			}

			for _, key := range frames {
				if v, ok := keyValue(values, key.index, sampler.Interpolation); ok {
					// glTF quaternions are stored as (x, y, z, w).
					seq.AddRotation(key.frame, mgl64.Quat{W: float64(v[3]), V: mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}})
				}
			}

		}

	}

	for _, joint := range order {
		seq := sequences[joint]
		seq.BuildKeyframes()
		if _, err := anim.AddKeyframeJoint(joint, seq); err != nil {
			return nil, err
		}
	}

	anim.Playback.FirstFrame = 0
	anim.Playback.LastFrame = anim.LastFrame()
	anim.Playback.Speed = opts.FPS

	return anim, nil

}

// MorphTargets returns the MorphWeights for the mesh at the given index. Target names are read from the mesh's
// "targetNames" extra (as Blender exports them); unnamed targets are called "target0", "target1", and so on. The
// weights start at the mesh's default weights.
func MorphTargets(doc *gltf.Document, meshIndex int) (*animcore.MorphWeights, error) {

	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: %w", meshIndex, ErrOutOfRange)
	}

	mesh := doc.Meshes[meshIndex]

	count := len(mesh.Weights)
	if len(mesh.Primitives) > 0 && len(mesh.Primitives[0].Targets) > count {
		count = len(mesh.Primitives[0].Targets)
	}

	var targetNames []any
	if extras, ok := mesh.Extras.(map[string]any); ok {
		targetNames, _ = extras["targetNames"].([]any)
	}

	names := make([]string, count)
	for i := range names {
		names[i] = fmt.Sprintf("target%d", i)
		if i < len(targetNames) {
			if name, ok := targetNames[i].(string); ok {
				names[i] = name
			}
		}
	}

	weights := animcore.NewMorphWeights(names...)
	for i, w := range mesh.Weights {
		weights.Set(i, float64(w))
	}

	return weights, nil

}

// ImportMorphAnimation creates a MorphTargetAnimation writing into target out of the weights channel of the animation
// at the given index that targets the given node. Each morph target gets one channel, sampled at opts.FPS.
func ImportMorphAnimation(doc *gltf.Document, animIndex, nodeIndex int, target *animcore.MorphWeights, opts *Options) (*animcore.MorphTargetAnimation, error) {

	opts = opts.orDefault()

	if animIndex < 0 || animIndex >= len(doc.Animations) {
		return nil, fmt.Errorf("animation %d: %w", animIndex, ErrOutOfRange)
	}

	if target == nil {
		return nil, animcore.ErrUnknownTarget
	}

	gltfAnim := doc.Animations[animIndex]
	anim := animcore.NewMorphTargetAnimation(gltfAnim.Name, target)

	for channelIndex, channel := range gltfAnim.Channels {

		if channel.Target.Path != gltf.TRSWeights || channel.Target.Node == nil || *channel.Target.Node != nodeIndex {
			continue
		}

		if channel.Sampler < 0 || channel.Sampler >= len(gltfAnim.Samplers) {
			opts.Logger.Printf("warning: animation %q, channel %d has an invalid sampler; skipped\n", gltfAnim.Name, channelIndex)
			continue
		}

		sampler := gltfAnim.Samplers[channel.Sampler]

		frames, err := readFrames(doc, sampler.Input, sampler.Interpolation, opts.FPS)
		if err != nil {
			return nil, fmt.Errorf("animation %q, channel %d: %w", gltfAnim.Name, channelIndex, err)
		}

		output, err := readAccessor(doc, sampler.Output)
		if err != nil {
			return nil, fmt.Errorf("animation %q, channel %d: %w", gltfAnim.Name, channelIndex, err)
		}

		values, ok := output.([]float32)
		if !ok {
			return nil, fmt.Errorf("animation %q, channel %d (%T): %w", gltfAnim.Name, channelIndex, output, ErrUnsupportedAccessor)
		}

		targetCount := len(target.Names)

		for t, name := range target.Names {

			seq := animcore.NewWeightSequence()

			for _, key := range frames {
				// Each key stores one weight per morph target; cubic spline keys also store the tangents around them.
				index := key.index * targetCount
				if sampler.Interpolation == gltf.InterpolationCubicSpline {
					index = (key.index*3 + 1) * targetCount
				}
				if index+t < len(values) {
					seq.AddWeight(key.frame, float64(values[index+t]))
				}
			}

			seq.BuildKeyframes()

			if err := anim.AddChannel(name, seq); err != nil {
				return nil, err
			}

			if last := seq.LastFrame(); last > anim.Playback.LastFrame {
				anim.Playback.LastFrame = last
			}

		}

		break

	}

	anim.Playback.Speed = opts.FPS

	return anim, nil

}

// ImportWeights reads the JOINTS_0 and WEIGHTS_0 attributes of the first primitive of the mesh at the given index, and
// stores them as VertexWeights on the imported Joints. Zero weights are skipped.
func ImportWeights(doc *gltf.Document, meshIndex int, imp *Import) error {

	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return fmt.Errorf("mesh %d: %w", meshIndex, ErrOutOfRange)
	}

	if imp == nil {
		return animcore.ErrNilSkeleton
	}

	mesh := doc.Meshes[meshIndex]
	if len(mesh.Primitives) == 0 {
		return nil
	}

	primitive := mesh.Primitives[0]

	weightAccessor, weightExists := primitive.Attributes[gltf.WEIGHTS_0]
	jointAccessor, jointExists := primitive.Attributes[gltf.JOINTS_0]
	if !weightExists || !jointExists {
		return nil
	}

	if weightAccessor < 0 || weightAccessor >= len(doc.Accessors) || jointAccessor < 0 || jointAccessor >= len(doc.Accessors) {
		return fmt.Errorf("mesh %d, skinning attributes: %w", meshIndex, ErrOutOfRange)
	}

	weights, err := modeler.ReadWeights(doc, doc.Accessors[weightAccessor], [][4]float32{})
	if err != nil {
		return fmt.Errorf("mesh %d, weights: %w", meshIndex, err)
	}

	joints, err := modeler.ReadJoints(doc, doc.Accessors[jointAccessor], [][4]uint16{})
	if err != nil {
		return fmt.Errorf("mesh %d, joints: %w", meshIndex, err)
	}

	for vertex := range weights {
		if vertex >= len(joints) {
			break
		}
		for i, w := range weights[vertex] {
			jointIndex := int(joints[vertex][i])
			if w <= 0 || jointIndex >= len(imp.Joints) {
				continue
			}
			joint := imp.Joints[jointIndex]
			joint.Weights = append(joint.Weights, animcore.VertexWeight{Vertex: vertex, Weight: float64(w)})
		}
	}

	return nil

}

type frameKey struct {
	index int // Index of the key in the sampler's input.
	frame int
}

// readFrames reads a sampler's input times and converts them to frames at the given rate. Step interpolated
// samplers get an extra key right before each change, so that values are held rather than blended.
func readFrames(doc *gltf.Document, inputAccessor int, interpolation gltf.Interpolation, fps float64) ([]frameKey, error) {

	input, err := readAccessor(doc, inputAccessor)
	if err != nil {
		return nil, err
	}

	times, ok := input.([]float32)
	if !ok {
		return nil, fmt.Errorf("input (%T): %w", input, ErrUnsupportedAccessor)
	}

	keys := make([]frameKey, 0, len(times))

	for i, t := range times {

		frame := int(math.Round(float64(t) * fps))

		if interpolation == gltf.InterpolationStep && i > 0 && frame-1 > keys[len(keys)-1].frame {
			keys = append(keys, frameKey{index: i - 1, frame: frame - 1})
		}

		keys = append(keys, frameKey{index: i, frame: frame})

	}

	return keys, nil

}

// keyValue returns the value of the key at the given index. Cubic spline samplers store an in-tangent, the value and an
// out-tangent per key; the tangents are dropped.
func keyValue[T any](values []T, index int, interpolation gltf.Interpolation) (T, bool) {
	if interpolation == gltf.InterpolationCubicSpline {
		index = index*3 + 1
	}
	if index < 0 || index >= len(values) {
		var zero T
		return zero, false
	}
	return values[index], true
}

func readAccessor(doc *gltf.Document, index int) (any, error) {
	if index < 0 || index >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", index, ErrOutOfRange)
	}
	return modeler.ReadAccessor(doc, doc.Accessors[index], nil)
}

func nodeName(doc *gltf.Document, nodeIndex int) string {
	if name := doc.Nodes[nodeIndex].Name; name != "" {
		return name
	}
	return fmt.Sprintf("node%d", nodeIndex)
}

func nodeTransform(node *gltf.Node) animcore.Transform {

	transform := animcore.NewTransform()

	matrix := mgl64.Mat4{}
	for i, v := range node.Matrix {
		matrix[i] = float64(v)
	}

	// glTF matrices are column-major, like mgl64's.
	if matrix != mgl64.Ident4() && matrix != (mgl64.Mat4{}) {
		transform.SetMatrix(matrix)
		return transform
	}

	transform.Position = mgl64.Vec3{float64(node.Translation[0]), float64(node.Translation[1]), float64(node.Translation[2])}
	transform.Rotation = mgl64.Quat{W: float64(node.Rotation[3]), V: mgl64.Vec3{float64(node.Rotation[0]), float64(node.Rotation[1]), float64(node.Rotation[2])}}
	transform.Scale = mgl64.Vec3{float64(node.Scale[0]), float64(node.Scale[1]), float64(node.Scale[2])}

	return transform

}

// toMat4 converts a glTF matrix, stored as four columns, to an mgl64 matrix.
func toMat4(columns [4][4]float32) mgl64.Mat4 {
	m := mgl64.Mat4{}
	for c, column := range columns {
		m.SetCol(c, mgl64.Vec4{float64(column[0]), float64(column[1]), float64(column[2]), float64(column[3])})
	}
	return m
}
