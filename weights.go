package animcore

import (
	"sort"

	"github.com/tanema/gween/ease"
)

// WeightKeyframe is an authored scalar value (i.e. a morph target blend weight) at a frame index.
type WeightKeyframe struct {
	Frame  int
	Weight float64
}

// WeightSequence is the scalar counterpart of KeyframeSequence: sparse weight keys baked into one weight per frame index.
type WeightSequence struct {
	Keys   []WeightKeyframe
	Easing ease.TweenFunc

	weights []float64
}

// NewWeightSequence returns a new, empty WeightSequence.
func NewWeightSequence() *WeightSequence {
	return &WeightSequence{}
}

// AddWeight adds a weight key at the given frame.
func (seq *WeightSequence) AddWeight(frame int, weight float64) {
	seq.Keys = append(seq.Keys, WeightKeyframe{Frame: frame, Weight: weight})
}

// FirstFrame returns the lowest authored frame index, or 0 if nothing has been authored.
func (seq *WeightSequence) FirstFrame() int {
	if len(seq.Keys) == 0 {
		return 0
	}
	first := seq.Keys[0].Frame
	for _, k := range seq.Keys[1:] {
		if k.Frame < first {
			first = k.Frame
		}
	}
	return first
}

// LastFrame returns the highest authored frame index, or 0 if nothing has been authored.
func (seq *WeightSequence) LastFrame() int {
	if len(seq.Keys) == 0 {
		return 0
	}
	last := seq.Keys[0].Frame
	for _, k := range seq.Keys[1:] {
		if k.Frame > last {
			last = k.Frame
		}
	}
	return last
}

// BuildKeyframes bakes the keys into one weight per frame index from 0 to LastFrame(), interpolating linearly between
// keys and holding the first and last values outside of them.
func (seq *WeightSequence) BuildKeyframes() {

	seq.weights = seq.weights[:0]

	if len(seq.Keys) == 0 || seq.LastFrame() < 0 {
		return
	}

	keys := append([]WeightKeyframe(nil), seq.Keys...)
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })

	for frame := 0; frame <= keys[len(keys)-1].Frame; frame++ {

		i := segment(len(keys), func(i int) int { return keys[i].Frame }, frame)

		var w float64
		switch {
		case i < 0:
			w = keys[0].Weight
		case i >= len(keys)-1 || keys[i].Frame == frame:
			w = keys[i].Weight
		default:
			a, b := keys[i], keys[i+1]
			w = a.Weight + (b.Weight-a.Weight)*float64(frame-a.Frame)/float64(b.Frame-a.Frame)
		}

		seq.weights = append(seq.weights, w)

	}

}

// Weights returns the baked weights, indexed by frame.
func (seq *WeightSequence) Weights() []float64 {
	return seq.weights
}

// Interpolate blends the baked weights at the from and to frame indices by t. Out of range frame indices are clamped.
// The boolean is false (and the weight 0) if nothing has been baked.
func (seq *WeightSequence) Interpolate(from, to int, t float64) (float64, bool) {

	if len(seq.weights) == 0 {
		return 0, false
	}

	a := seq.weights[clampFrame(from, len(seq.weights))]
	b := seq.weights[clampFrame(to, len(seq.weights))]

	return a + (b-a)*ease01(seq.Easing, t), true

}

// MorphWeights is the set of blend weights of a morphable mesh, one per named morph target. The mesh owns it; morph
// target animations only write into it.
type MorphWeights struct {
	Names   []string
	Weights []float64
}

// NewMorphWeights returns a MorphWeights with one zero weight per given morph target name.
func NewMorphWeights(names ...string) *MorphWeights {
	return &MorphWeights{
		Names:   append([]string(nil), names...),
		Weights: make([]float64, len(names)),
	}
}

// Index returns the index of the morph target with the given name, or -1 if there's none.
func (mw *MorphWeights) Index(name string) int {
	for i, n := range mw.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// Set sets the weight at the given index. It returns false if the index is out of range.
func (mw *MorphWeights) Set(index int, weight float64) bool {
	if index < 0 || index >= len(mw.Weights) {
		return false
	}
	mw.Weights[index] = weight
	return true
}

// Normalized returns a copy of the weights scaled to sum to 1. If the weights sum to zero, the copy is returned as-is.
func (mw *MorphWeights) Normalized() []float64 {
	out := append([]float64(nil), mw.Weights...)
	sum := 0.0
	for _, w := range out {
		sum += w
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
