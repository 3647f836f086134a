package animcore

import (
	"fmt"
	"log"
	"os"

	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

// DefaultFPS is the frame rate of clips that don't specify one.
const DefaultFPS = 24

// Clip playback modes, naming the EventHandler a Clip plays with.
const (
	ModeOneShot  = "oneshot"
	ModeLoop     = "loop"
	ModePingPong = "pingpong"
	ModeList     = "list"
)

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"outinquad":    ease.OutInQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"outincubic":   ease.OutInCubic,
	"inquart":      ease.InQuart,
	"outquart":     ease.OutQuart,
	"inoutquart":   ease.InOutQuart,
	"outinquart":   ease.OutInQuart,
	"inquint":      ease.InQuint,
	"outquint":     ease.OutQuint,
	"inoutquint":   ease.InOutQuint,
	"outinquint":   ease.OutInQuint,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"outinsine":    ease.OutInSine,
	"inexpo":       ease.InExpo,
	"outexpo":      ease.OutExpo,
	"inoutexpo":    ease.InOutExpo,
	"outinexpo":    ease.OutInExpo,
	"incirc":       ease.InCirc,
	"outcirc":      ease.OutCirc,
	"inoutcirc":    ease.InOutCirc,
	"outincirc":    ease.OutInCirc,
	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
	"outinelastic": ease.OutInElastic,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"outinback":    ease.OutInBack,
	"inbounce":     ease.InBounce,
	"outbounce":    ease.OutBounce,
	"inoutbounce":  ease.InOutBounce,
	"outinbounce":  ease.OutInBounce,
}

// ClipSet is a set of named Clips, as loaded from a YAML file:
//
//	fps: 24
//	clips:
//	  - name: walk
//	    first: 0
//	    last: 23
//	    mode: loop
//	    speed: 1.0
//	    easing: inoutquad
//	  - name: idle
//	    mode: list
//	    frames: [0, 4, 8]
type ClipSet struct {
	FPS   float64 `yaml:"fps"`   // Frame rate of every clip that doesn't specify its own; DefaultFPS if zero.
	Clips []*Clip `yaml:"clips"` // The clips, in file order.
}

// Clip describes how to play a range of frames.
type Clip struct {
	Name       string  `yaml:"name"`
	First      int     `yaml:"first"`
	Last       int     `yaml:"last"`
	Mode       string  `yaml:"mode"`   // One of the Mode constants; ModeOneShot if empty.
	FPS        float64 `yaml:"fps"`    // Frame rate; the ClipSet's if zero.
	SpeedScale float64 `yaml:"speed"`  // Multiplier on FPS; 1 if zero. A negative value plays backward.
	EasingName string  `yaml:"easing"` // Name of a gween easing function (i.e. "inoutquad"); linear if empty.
	Frames     []int   `yaml:"frames"` // The frames played by a ModeList clip.
}

// ParseClipSet parses and validates a YAML clip set. Defaults are filled in, so every returned Clip has an FPS, a
// SpeedScale and a Mode. The error wraps ErrInvalidClip or ErrUnknownMode for invalid clips.
func ParseClipSet(data []byte) (*ClipSet, error) {

	set := &ClipSet{}
	if err := yaml.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to parse clip set: %w", err)
	}

	if set.FPS == 0 {
		set.FPS = DefaultFPS
	}
	if set.FPS < 0 {
		return nil, fmt.Errorf("clip set fps %v: %w", set.FPS, ErrInvalidClip)
	}

	names := map[string]bool{}

	for i, clip := range set.Clips {

		if clip == nil {
			return nil, fmt.Errorf("clip #%d is empty: %w", i, ErrInvalidClip)
		}

		if clip.FPS == 0 {
			clip.FPS = set.FPS
		}
		if clip.SpeedScale == 0 {
			clip.SpeedScale = 1
		}
		if clip.Mode == "" {
			clip.Mode = ModeOneShot
		}

		if err := clip.Validate(); err != nil {
			return nil, err
		}

		if names[clip.Name] {
			return nil, fmt.Errorf("clip %q is defined twice: %w", clip.Name, ErrInvalidClip)
		}
		names[clip.Name] = true

	}

	return set, nil

}

// LoadClipSet reads and parses the YAML clip set at the given path.
func LoadClipSet(path string) (*ClipSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip set: %w", err)
	}
	set, err := ParseClipSet(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Find returns the Clip with the given name, or nil if there's none.
func (set *ClipSet) Find(name string) *Clip {
	for _, clip := range set.Clips {
		if clip.Name == name {
			return clip
		}
	}
	return nil
}

// Validate checks that the Clip can be played.
func (clip *Clip) Validate() error {

	if clip.Name == "" {
		return fmt.Errorf("clip without a name: %w", ErrInvalidClip)
	}

	switch clip.Mode {
	case ModeOneShot, ModeLoop, ModePingPong:
		if clip.First < 0 || clip.Last < 0 {
			return fmt.Errorf("clip %q has a negative frame range [%d, %d]: %w", clip.Name, clip.First, clip.Last, ErrInvalidClip)
		}
	case ModeList:
		if len(clip.Frames) == 0 {
			return fmt.Errorf("list clip %q has no frames: %w", clip.Name, ErrInvalidClip)
		}
		for _, frame := range clip.Frames {
			if frame < 0 {
				return fmt.Errorf("list clip %q has a negative frame %d: %w", clip.Name, frame, ErrInvalidClip)
			}
		}
	default:
		return fmt.Errorf("clip %q: mode %q: %w", clip.Name, clip.Mode, ErrUnknownMode)
	}

	if clip.FPS < 0 {
		return fmt.Errorf("clip %q has a negative fps: %w", clip.Name, ErrInvalidClip)
	}

	if _, ok := lookupEasing(clip.EasingName); !ok {
		return fmt.Errorf("clip %q: easing %q: %w", clip.Name, clip.EasingName, ErrUnknownMode)
	}

	return nil

}

func lookupEasing(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return nil, true
	}
	fn, ok := easings[name]
	return fn, ok
}

// EventHandler returns a new EventHandler for the Clip's Mode. An unknown mode is logged and falls back to OneShot.
func (clip *Clip) EventHandler() EventHandler {
	switch clip.Mode {
	case ModeOneShot, "":
		return OneShot{}
	case ModeLoop:
		return Loop{}
	case ModePingPong:
		return PingPongLoop{}
	case ModeList:
		return NewListLoop(clip.Frames...)
	default:
		log.Printf("Warning: clip %q has unknown mode %q; playing it once instead\n", clip.Name, clip.Mode)
		return OneShot{}
	}
}

// Speed returns the Clip's playback speed in frames per second.
func (clip *Clip) Speed() float64 {
	fps := clip.FPS
	if fps == 0 {
		fps = DefaultFPS
	}
	scale := clip.SpeedScale
	if scale == 0 {
		scale = 1
	}
	return fps * scale
}

// Easing returns the Clip's easing function, or nil for linear blending.
func (clip *Clip) Easing() ease.TweenFunc {
	fn, _ := lookupEasing(clip.EasingName)
	return fn
}

// FrameRange returns the first and last frames the Clip plays. For list clips, this is the first and last listed frame.
func (clip *Clip) FrameRange() (first, last int) {
	if clip.Mode == ModeList && len(clip.Frames) > 0 {
		return clip.Frames[0], clip.Frames[len(clip.Frames)-1]
	}
	return clip.First, clip.Last
}

// Play starts playing the Clip on the given Playback with a new EventHandler for the Clip's mode.
func (clip *Clip) Play(pb *Playback) {
	first, last := clip.FrameRange()
	pb.Play(first, last, clip.Speed(), clip.EventHandler())
}

// ApplyEasing sets the Clip's easing function on the given sequences.
func (clip *Clip) ApplyEasing(sequences ...*KeyframeSequence) {
	fn := clip.Easing()
	for _, seq := range sequences {
		seq.Easing = fn
	}
}
