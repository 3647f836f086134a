package animcore

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

// VectorKeyframe is an authored position or scale value at a frame index.
type VectorKeyframe struct {
	Frame int
	Value mgl64.Vec3
}

// QuaternionKeyframe is an authored rotation value at a frame index.
type QuaternionKeyframe struct {
	Frame int
	Value mgl64.Quat
}

// KeyframeSequence maps frame indices to Transforms. Keys are authored sparsely per channel (PositionKeys, RotationKeys
// and ScaleKeys, in any order) and then baked into one Transform per frame index with BuildKeyframes(); Interpolate only
// ever reads the baked keyframes.
//
// A channel without any keys keeps the identity value for that channel (no translation, identity rotation, or a scale
// of 1).
type KeyframeSequence struct {
	PositionKeys []VectorKeyframe
	RotationKeys []QuaternionKeyframe
	ScaleKeys    []VectorKeyframe

	// Easing, if set, remaps the blend factor within each frame segment (i.e. ease.InOutQuad). The function is called
	// with (t, 0, 1, 1).
	Easing ease.TweenFunc

	keyframes []Transform
}

// NewKeyframeSequence returns a new, empty KeyframeSequence.
func NewKeyframeSequence() *KeyframeSequence {
	return &KeyframeSequence{}
}

// NewBakedKeyframeSequence returns a KeyframeSequence using the given Transforms as its baked keyframes directly, one per
// frame index starting from 0. The authored key lists are filled in to match, so BuildKeyframes() reproduces them.
func NewBakedKeyframeSequence(keyframes ...Transform) *KeyframeSequence {
	seq := NewKeyframeSequence()
	for frame, transform := range keyframes {
		seq.AddTransform(frame, transform)
	}
	seq.keyframes = append([]Transform(nil), keyframes...)
	return seq
}

// AddPosition adds a position key at the given frame.
func (seq *KeyframeSequence) AddPosition(frame int, position mgl64.Vec3) {
	seq.PositionKeys = append(seq.PositionKeys, VectorKeyframe{Frame: frame, Value: position})
}

// AddRotation adds a rotation key at the given frame.
func (seq *KeyframeSequence) AddRotation(frame int, rotation mgl64.Quat) {
	seq.RotationKeys = append(seq.RotationKeys, QuaternionKeyframe{Frame: frame, Value: rotation})
}

// AddScale adds a scale key at the given frame.
func (seq *KeyframeSequence) AddScale(frame int, scale mgl64.Vec3) {
	seq.ScaleKeys = append(seq.ScaleKeys, VectorKeyframe{Frame: frame, Value: scale})
}

// AddTransform adds a position, a rotation and a scale key at the given frame.
func (seq *KeyframeSequence) AddTransform(frame int, transform Transform) {
	seq.AddPosition(frame, transform.Position)
	seq.AddRotation(frame, transform.Rotation)
	seq.AddScale(frame, transform.Scale)
}

// FirstFrame returns the lowest authored frame index across all channels, or 0 if nothing has been authored.
func (seq *KeyframeSequence) FirstFrame() int {
	first, _, ok := seq.authoredRange()
	if !ok {
		return 0
	}
	return first
}

// LastFrame returns the highest authored frame index across all channels, or 0 if nothing has been authored.
func (seq *KeyframeSequence) LastFrame() int {
	_, last, ok := seq.authoredRange()
	if !ok {
		return 0
	}
	return last
}

func (seq *KeyframeSequence) authoredRange() (first, last int, ok bool) {

	visit := func(frame int) {
		if !ok {
			first, last, ok = frame, frame, true
			return
		}
		if frame < first {
			first = frame
		}
		if frame > last {
			last = frame
		}
	}

	for _, k := range seq.PositionKeys {
		visit(k.Frame)
	}
	for _, k := range seq.RotationKeys {
		visit(k.Frame)
	}
	for _, k := range seq.ScaleKeys {
		visit(k.Frame)
	}

	return

}

// BuildKeyframes bakes the authored keys into one Transform per frame index, from 0 to LastFrame(). Between two keys,
// positions and scales are interpolated linearly and rotations spherically; before the first key of a channel its first
// value is held, and after the last key its last value is held. Negative frame indices are ignored.
func (seq *KeyframeSequence) BuildKeyframes() {

	_, last, ok := seq.authoredRange()
	if !ok || last < 0 {
		seq.keyframes = seq.keyframes[:0]
		return
	}

	positions := sortedVectorKeys(seq.PositionKeys)
	rotations := sortedQuaternionKeys(seq.RotationKeys)
	scales := sortedVectorKeys(seq.ScaleKeys)

	count := last + 1
	if cap(seq.keyframes) >= count {
		seq.keyframes = seq.keyframes[:count]
	} else {
		seq.keyframes = make([]Transform, count)
	}

	for frame := 0; frame < count; frame++ {

		transform := NewTransform()

		if len(positions) > 0 {
			transform.Position = sampleVector(positions, frame)
		}
		if len(rotations) > 0 {
			transform.Rotation = sampleQuaternion(rotations, frame)
		}
		if len(scales) > 0 {
			transform.Scale = sampleVector(scales, frame)
		}

		seq.keyframes[frame] = transform

	}

}

// Keyframes returns the baked keyframes, indexed by frame. The returned slice is owned by the KeyframeSequence.
func (seq *KeyframeSequence) Keyframes() []Transform {
	return seq.keyframes
}

// Interpolate blends the baked keyframes at the from and to frame indices by t and writes the result into dst. Frame
// indices outside the baked range are clamped to the nearest keyframe, and t is clamped to [0, 1]. If the sequence has
// no baked keyframes, dst is left untouched.
func (seq *KeyframeSequence) Interpolate(dst *Transform, from, to int, t float64) {

	if dst == nil || len(seq.keyframes) == 0 {
		return
	}

	from = clampFrame(from, len(seq.keyframes))
	to = clampFrame(to, len(seq.keyframes))

	*dst = Interpolate(seq.keyframes[from], seq.keyframes[to], ease01(seq.Easing, t))

}

// InterpolatePlayback interpolates between the Playback's Frame and NextFrame by its Interpolator. The Playback isn't
// modified.
func (seq *KeyframeSequence) InterpolatePlayback(dst *Transform, pb *Playback) {
	seq.Interpolate(dst, pb.Frame, pb.NextFrame, pb.Interpolator)
}

func clampFrame(frame, count int) int {
	if frame < 0 {
		return 0
	}
	if frame >= count {
		return count - 1
	}
	return frame
}

func ease01(easing ease.TweenFunc, t float64) float64 {
	t = mgl64.Clamp(t, 0, 1)
	if easing != nil {
		t = float64(easing(float32(t), 0, 1, 1))
	}
	return t
}

func sortedVectorKeys(keys []VectorKeyframe) []VectorKeyframe {
	out := append([]VectorKeyframe(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}

func sortedQuaternionKeys(keys []QuaternionKeyframe) []QuaternionKeyframe {
	out := append([]QuaternionKeyframe(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}

// segment returns the index of the last key at or before frame (or -1) given the number of keys and their frames.
func segment(count int, frameOf func(int) int, frame int) int {
	return sort.Search(count, func(i int) bool { return frameOf(i) > frame }) - 1
}

func sampleVector(keys []VectorKeyframe, frame int) mgl64.Vec3 {

	i := segment(len(keys), func(i int) int { return keys[i].Frame }, frame)

	if i < 0 {
		return keys[0].Value
	}
	if i >= len(keys)-1 || keys[i].Frame == frame {
		return keys[i].Value
	}

	a, b := keys[i], keys[i+1]
	t := float64(frame-a.Frame) / float64(b.Frame-a.Frame)
	return a.Value.Add(b.Value.Sub(a.Value).Mul(t))

}

func sampleQuaternion(keys []QuaternionKeyframe, frame int) mgl64.Quat {

	i := segment(len(keys), func(i int) int { return keys[i].Frame }, frame)

	if i < 0 {
		return keys[0].Value.Normalize()
	}
	if i >= len(keys)-1 || keys[i].Frame == frame {
		return keys[i].Value.Normalize()
	}

	a, b := keys[i], keys[i+1]
	t := float64(frame-a.Frame) / float64(b.Frame-a.Frame)
	return mgl64.QuatSlerp(a.Value, b.Value, t)

}
