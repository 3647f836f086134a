package animcore

import "fmt"

// KeyframeJoint pairs a Joint with the KeyframeSequence animating its local transform.
type KeyframeJoint struct {
	Joint    *Joint
	Sequence *KeyframeSequence
}

// NewKeyframeJoint returns a KeyframeJoint for the given Joint. It fails with ErrNilJoint if joint is nil. A nil sequence
// is replaced by a new, empty one.
func NewKeyframeJoint(joint *Joint, sequence *KeyframeSequence) (KeyframeJoint, error) {
	if joint == nil {
		return KeyframeJoint{}, ErrNilJoint
	}
	if sequence == nil {
		sequence = NewKeyframeSequence()
	}
	return KeyframeJoint{Joint: joint, Sequence: sequence}, nil
}

// UpdateKeyframeJoints interpolates the local transform of every Joint in joints from its sequence, using the given
// Playback's current frames.
func UpdateKeyframeJoints(joints []KeyframeJoint, pb *Playback) {
	for _, kj := range joints {
		if kj.Joint != nil && kj.Sequence != nil {
			kj.Sequence.InterpolatePlayback(&kj.Joint.Transform, pb)
		}
	}
}

// JointGroup is a set of KeyframeJoints played back by their own Playback, so that parts of a Skeleton can be animated
// independently (i.e. the upper body aiming while the legs walk).
type JointGroup struct {
	Name           string
	Playback       Playback
	KeyframeJoints []KeyframeJoint
}

// SkeletalAnimation animates the Joints of a Skeleton. It either plays all of its KeyframeJoints with its own Playback,
// or, if AnimateJointGroup is true, each JointGroup with the group's Playback.
type SkeletalAnimation struct {
	Name              string
	Playback          Playback
	KeyframeJoints    []KeyframeJoint
	JointGroups       []*JointGroup
	AnimateJointGroup bool

	skeleton *Skeleton
}

// NewSkeletalAnimation returns a new, stopped SkeletalAnimation for the given Skeleton. It fails with ErrNilSkeleton if
// skeleton is nil.
func NewSkeletalAnimation(name string, skeleton *Skeleton) (*SkeletalAnimation, error) {
	if skeleton == nil {
		return nil, ErrNilSkeleton
	}
	return &SkeletalAnimation{
		Name:     name,
		Playback: Playback{Speed: 1},
		skeleton: skeleton,
	}, nil
}

// Skeleton returns the animated Skeleton.
func (anim *SkeletalAnimation) Skeleton() *Skeleton {
	return anim.skeleton
}

// AddKeyframeJoint adds a KeyframeJoint played by the SkeletalAnimation's own Playback.
func (anim *SkeletalAnimation) AddKeyframeJoint(joint *Joint, sequence *KeyframeSequence) (KeyframeJoint, error) {
	kj, err := NewKeyframeJoint(joint, sequence)
	if err != nil {
		return kj, fmt.Errorf("animation %q: %w", anim.Name, err)
	}
	anim.KeyframeJoints = append(anim.KeyframeJoints, kj)
	return kj, nil
}

// AddJointGroup adds a new, empty JointGroup and returns it.
func (anim *SkeletalAnimation) AddJointGroup(name string) *JointGroup {
	group := &JointGroup{
		Name:     name,
		Playback: Playback{Speed: 1},
	}
	anim.JointGroups = append(anim.JointGroups, group)
	return group
}

// FindJointGroup returns the JointGroup with the given name, or nil if there's none.
func (anim *SkeletalAnimation) FindJointGroup(name string) *JointGroup {
	for _, group := range anim.JointGroups {
		if group.Name == name {
			return group
		}
	}
	return nil
}

// LastFrame returns the highest frame index of any of the SkeletalAnimation's own KeyframeJoint sequences.
func (anim *SkeletalAnimation) LastFrame() int {
	last := 0
	for _, kj := range anim.KeyframeJoints {
		if kj.Sequence != nil && kj.Sequence.LastFrame() > last {
			last = kj.Sequence.LastFrame()
		}
	}
	return last
}

func (anim *SkeletalAnimation) Type() AnimationType {
	return AnimationTypeSkeletal
}

func (anim *SkeletalAnimation) Update(deltaTime float64) {
	if anim.AnimateJointGroup {
		for _, group := range anim.JointGroups {
			group.Playback.Update(deltaTime)
			UpdateKeyframeJoints(group.KeyframeJoints, &group.Playback)
		}
	} else {
		anim.Playback.Update(deltaTime)
		UpdateKeyframeJoints(anim.KeyframeJoints, &anim.Playback)
	}
}

func (anim *SkeletalAnimation) animation() {}
