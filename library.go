package animcore

import "fmt"

// Library represents a collection of Skeletons, keyframe sequences, Animations and Clips, as loaded from files (i.e. a
// glTF document and a YAML clip set) or built by hand.
type Library struct {
	Skeletons  map[string]*Skeleton         // A map of Skeletons to their names
	Sequences  map[string]*KeyframeSequence // A map of KeyframeSequences to their names
	Animations map[string]Animation         // A map of Animations to their names
	Clips      map[string]*Clip             // A map of Clips to their names
}

// NewLibrary creates a new, empty Library.
func NewLibrary() *Library {
	return &Library{
		Skeletons:  map[string]*Skeleton{},
		Sequences:  map[string]*KeyframeSequence{},
		Animations: map[string]Animation{},
		Clips:      map[string]*Clip{},
	}
}

// AddSkeleton adds the Skeleton under the given name, replacing any previous one.
func (lib *Library) AddSkeleton(name string, skeleton *Skeleton) {
	lib.Skeletons[name] = skeleton
}

// FindSkeleton returns the Skeleton with the given name, or nil if there's none.
func (lib *Library) FindSkeleton(name string) *Skeleton {
	return lib.Skeletons[name]
}

// FindJoint searches every Skeleton in the Library for a Joint with the given name. If there's none, FindJoint returns
// nil.
func (lib *Library) FindJoint(name string) *Joint {
	for _, skeleton := range lib.Skeletons {
		if joint := skeleton.FindJoint(name); joint != nil {
			return joint
		}
	}
	return nil
}

// AddSequence adds the KeyframeSequence under the given name, replacing any previous one.
func (lib *Library) AddSequence(name string, sequence *KeyframeSequence) {
	lib.Sequences[name] = sequence
}

// FindSequence returns the KeyframeSequence with the given name, or nil if there's none.
func (lib *Library) FindSequence(name string) *KeyframeSequence {
	return lib.Sequences[name]
}

// AddAnimation adds the Animation under the given name, replacing any previous one.
func (lib *Library) AddAnimation(name string, anim Animation) {
	lib.Animations[name] = anim
}

// FindAnimation returns the Animation with the given name, or nil if there's none.
func (lib *Library) FindAnimation(name string) Animation {
	return lib.Animations[name]
}

// AddClips adds every Clip of the ClipSet. It fails with ErrInvalidClip, without adding anything, if a Clip with the same
// name is already in the Library.
func (lib *Library) AddClips(set *ClipSet) error {
	for _, clip := range set.Clips {
		if _, exists := lib.Clips[clip.Name]; exists {
			return fmt.Errorf("clip %q is already in the library: %w", clip.Name, ErrInvalidClip)
		}
	}
	for _, clip := range set.Clips {
		lib.Clips[clip.Name] = clip
	}
	return nil
}

// Clip returns the Clip with the given name, or nil if there's none.
func (lib *Library) Clip(name string) *Clip {
	return lib.Clips[name]
}

// PlayClip plays the named Clip on the given Playback. It fails with ErrInvalidClip if there's no such Clip.
func (lib *Library) PlayClip(name string, pb *Playback) error {
	clip := lib.Clips[name]
	if clip == nil {
		return fmt.Errorf("clip %q not found: %w", name, ErrInvalidClip)
	}
	clip.Play(pb)
	return nil
}
