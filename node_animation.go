package animcore

// NodeAnimation drives a single Transform with one Playback and one KeyframeSequence.
type NodeAnimation struct {
	Name     string
	Playback Playback
	Sequence *KeyframeSequence

	// Target is the animated Transform. It's not owned by the NodeAnimation and may be nil, in which case the Playback
	// still advances but nothing is written.
	Target *Transform
}

// NewNodeAnimation returns a new, stopped NodeAnimation playing the given sequence onto target.
func NewNodeAnimation(name string, sequence *KeyframeSequence, target *Transform) *NodeAnimation {
	return &NodeAnimation{
		Name:     name,
		Playback: Playback{Speed: 1},
		Sequence: sequence,
		Target:   target,
	}
}

func (anim *NodeAnimation) Type() AnimationType {
	return AnimationTypeNode
}

func (anim *NodeAnimation) Update(deltaTime float64) {
	anim.Playback.Update(deltaTime)
	if anim.Target != nil && anim.Sequence != nil {
		anim.Sequence.InterpolatePlayback(anim.Target, &anim.Playback)
	}
}

func (anim *NodeAnimation) animation() {}
