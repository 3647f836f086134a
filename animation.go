package animcore

// AnimationType identifies the kind of an Animation.
type AnimationType int

const (
	AnimationTypeNode        AnimationType = iota // A NodeAnimation, driving a single Transform.
	AnimationTypeSkeletal                         // A SkeletalAnimation, driving the Joints of a Skeleton.
	AnimationTypeMorphTarget                      // A MorphTargetAnimation, driving a set of MorphWeights.
)

// String returns the name of the AnimationType.
func (animType AnimationType) String() string {
	switch animType {
	case AnimationTypeNode:
		return "Node"
	case AnimationTypeSkeletal:
		return "Skeletal"
	case AnimationTypeMorphTarget:
		return "MorphTarget"
	default:
		return "Unknown"
	}
}

// DefaultTimeStep is the time step, in seconds, used by UpdateDefault: one frame at 60 FPS.
const DefaultTimeStep = 1.0 / 60.0

// Animation is anything that can be advanced in time. The set of Animations is closed: it's implemented by
// *NodeAnimation, *SkeletalAnimation and *MorphTargetAnimation only.
//
// An Animation owns its Playbacks and keyframe sequences, but never the things it animates; those are referenced and
// must be kept alive elsewhere (i.e. by the scene).
type Animation interface {
	// Type returns the kind of the Animation.
	Type() AnimationType
	// Update advances the Animation by deltaTime seconds and applies the interpolated keyframes to its target.
	Update(deltaTime float64)

	animation()
}

// UpdateDefault updates the Animation by DefaultTimeStep.
func UpdateDefault(anim Animation) {
	anim.Update(DefaultTimeStep)
}
