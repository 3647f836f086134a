package animcore

import "fmt"

// MorphChannel animates the weight of one morph target, by index into MorphWeights.
type MorphChannel struct {
	Target   int
	Sequence *WeightSequence
}

// MorphTargetAnimation drives the blend weights of a morphable mesh with one Playback and one WeightSequence per
// morph target.
type MorphTargetAnimation struct {
	Name     string
	Playback Playback
	Channels []MorphChannel

	// Target holds the animated weights. It's owned by the mesh and may be nil.
	Target *MorphWeights
}

// NewMorphTargetAnimation returns a new, stopped MorphTargetAnimation writing into target.
func NewMorphTargetAnimation(name string, target *MorphWeights) *MorphTargetAnimation {
	return &MorphTargetAnimation{
		Name:     name,
		Playback: Playback{Speed: 1},
		Target:   target,
	}
}

// AddChannel adds a channel animating the morph target with the given name. It fails with ErrUnknownTarget if the
// MorphTargetAnimation has no Target or the Target has no morph target by that name.
func (anim *MorphTargetAnimation) AddChannel(targetName string, sequence *WeightSequence) error {
	index := -1
	if anim.Target != nil {
		index = anim.Target.Index(targetName)
	}
	if index < 0 {
		return fmt.Errorf("animation %q: morph target %q: %w", anim.Name, targetName, ErrUnknownTarget)
	}
	anim.Channels = append(anim.Channels, MorphChannel{Target: index, Sequence: sequence})
	return nil
}

func (anim *MorphTargetAnimation) Type() AnimationType {
	return AnimationTypeMorphTarget
}

func (anim *MorphTargetAnimation) Update(deltaTime float64) {

	anim.Playback.Update(deltaTime)

	if anim.Target == nil {
		return
	}

	pb := &anim.Playback
	for _, channel := range anim.Channels {
		if channel.Sequence == nil {
			continue
		}
		if weight, ok := channel.Sequence.Interpolate(pb.Frame, pb.NextFrame, pb.Interpolator); ok {
			anim.Target.Set(channel.Target, weight)
		}
	}

}

func (anim *MorphTargetAnimation) animation() {}
